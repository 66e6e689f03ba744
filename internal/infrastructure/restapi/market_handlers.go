package restapi

import (
	"errors"
	"net/http"
	"strings"

	"options_sdk/internal/aggregator"
	"options_sdk/internal/app/port"
	"options_sdk/internal/app/service"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/multicall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIResponse is the envelope of every API reply.
type APIResponse struct {
	Data          any    `json:"data,omitempty"`
	Error         string `json:"error,omitempty"`
	StatusMessage string `json:"status_message"`
}

// MarketHandler serves protocol state over HTTP.
type MarketHandler struct {
	marketService port.MarketService
	networks      port.NetworkDefinitionProvider
	logger        *zap.Logger
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(ms port.MarketService, networks port.NetworkDefinitionProvider, logger *zap.Logger) *MarketHandler {
	return &MarketHandler{
		marketService: ms,
		networks:      networks,
		logger:        logger.Named("MarketHandler"),
	}
}

// GetOptionsHandler lists the watched options of a network with their statics.
func (h *MarketHandler) GetOptionsHandler(c *gin.Context) {
	network, ok := h.network(c)
	if !ok {
		return
	}
	options, ok := h.options(c, network)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Data:          gin.H{"network": network.Identifier, "options": options},
		StatusMessage: "Options retrieved successfully.",
	})
}

// GetDynamicsHandler returns live pricing for every watched option.
func (h *MarketHandler) GetDynamicsHandler(c *gin.Context) {
	network, ok := h.network(c)
	if !ok {
		return
	}
	options, ok := h.options(c, network)
	if !ok {
		return
	}
	dynamics, err := h.marketService.GeneralDynamics(c.Request.Context(), network, options)
	h.respondMetrics(c, network, dynamics, err)
}

// GetUserDynamicsHandler returns the position of a user in every watched option.
func (h *MarketHandler) GetUserDynamicsHandler(c *gin.Context) {
	network, ok := h.network(c)
	if !ok {
		return
	}
	user, ok := h.user(c)
	if !ok {
		return
	}
	options, ok := h.options(c, network)
	if !ok {
		return
	}
	dynamics, err := h.marketService.UserDynamics(c.Request.Context(), network, user, options)
	h.respondMetrics(c, network, dynamics, err)
}

// GetUserRebalanceHandler returns user dynamics together with rebalance quotes.
func (h *MarketHandler) GetUserRebalanceHandler(c *gin.Context) {
	network, ok := h.network(c)
	if !ok {
		return
	}
	user, ok := h.user(c)
	if !ok {
		return
	}
	options, ok := h.options(c, network)
	if !ok {
		return
	}
	dynamics, err := h.marketService.UserRebalanceDynamics(c.Request.Context(), network, user, options)
	h.respondMetrics(c, network, dynamics, err)
}

// GetConfigurationHandler returns the addresses held by the configuration manager.
func (h *MarketHandler) GetConfigurationHandler(c *gin.Context) {
	network, ok := h.network(c)
	if !ok {
		return
	}
	fields, err := h.marketService.ProtocolConfiguration(c.Request.Context(), network)
	if err != nil {
		h.fail(c, network, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Data: fields, StatusMessage: "Configuration retrieved successfully."})
}

func (h *MarketHandler) network(c *gin.Context) (entity.NetworkDefinition, bool) {
	name := c.Param("network")
	network, ok := h.networks.GetNetworkDefinitionByName(name)
	if !ok {
		c.JSON(http.StatusNotFound, APIResponse{Error: "unknown network " + name, StatusMessage: "Network is not active."})
		return entity.NetworkDefinition{}, false
	}
	return network, true
}

func (h *MarketHandler) user(c *gin.Context) (string, bool) {
	user := strings.ToLower(c.Param("user"))
	if !common.IsHexAddress(user) {
		c.JSON(http.StatusBadRequest, APIResponse{Error: "invalid user address " + c.Param("user"), StatusMessage: "Bad request."})
		return "", false
	}
	return user, true
}

// options lists the network's options, narrowed to the comma-separated
// "options" query parameter when present.
func (h *MarketHandler) options(c *gin.Context, network entity.NetworkDefinition) ([]*entity.Option, bool) {
	options, err := h.marketService.ListOptions(c.Request.Context(), network)
	if err != nil {
		h.fail(c, network, err)
		return nil, false
	}

	filter := c.Query("options")
	if filter == "" {
		return options, true
	}
	wanted := make(map[string]struct{})
	for _, address := range strings.Split(filter, ",") {
		wanted[strings.ToLower(strings.TrimSpace(address))] = struct{}{}
	}
	selected := make([]*entity.Option, 0, len(wanted))
	for _, o := range options {
		if _, ok := wanted[o.ID()]; ok {
			selected = append(selected, o)
		}
	}
	return selected, true
}

func (h *MarketHandler) respondMetrics(c *gin.Context, network entity.NetworkDefinition, metrics entity.MetricsMap, err error) {
	if err != nil {
		h.fail(c, network, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Data:          gin.H{"network": network.Identifier, "metrics": metrics},
		StatusMessage: "Metrics retrieved successfully.",
	})
}

func (h *MarketHandler) fail(c *gin.Context, network entity.NetworkDefinition, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotConfigured), errors.Is(err, multicall.ErrNoAggregator):
		status = http.StatusNotFound
	case errors.Is(err, aggregator.ErrInvalidAddress), errors.Is(err, aggregator.ErrMissingParameter):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, multicall.ErrBatchDispatch):
		status = http.StatusBadGateway
	}
	h.logger.Error("Request failed",
		zap.String("network", network.Identifier),
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err))
	c.JSON(status, APIResponse{Error: err.Error(), StatusMessage: "Failed to retrieve data."})
}
