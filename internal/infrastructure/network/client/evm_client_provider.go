package client

import (
	"fmt"
	"sync"
	"time"

	"options_sdk/internal/app/port"
	"options_sdk/internal/config"
	"options_sdk/internal/domain/entity"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// evmClientProvider implements port.ChainProviderFactory.
type evmClientProvider struct {
	clients           map[string]*EVMClient
	mu                sync.Mutex
	logger            port.Logger
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
	rateLimit         rate.Limit
	burstLimit        int
	chainIDs          *cache.Cache
}

// NewEVMClientProvider creates a factory handing out one rate-limited client per network.
func NewEVMClientProvider(rpcCfg config.RpcClientConfig, cacheCfg config.CacheConfig, log port.Logger) port.ChainProviderFactory {
	return &evmClientProvider{
		clients:           make(map[string]*EVMClient),
		logger:            log,
		connectionTimeout: time.Duration(rpcCfg.ConnectTimeoutMs) * time.Millisecond,
		rpcCallTimeout:    time.Duration(rpcCfg.DefaultTimeoutMs) * time.Millisecond,
		rateLimit:         rate.Limit(rpcCfg.RateLimit),
		burstLimit:        rpcCfg.BurstLimit,
		chainIDs: cache.New(
			time.Duration(cacheCfg.ChainIDTTLMinutes)*time.Minute,
			time.Duration(cacheCfg.CleanupIntervalMinutes)*time.Minute,
		),
	}
}

// GetProvider returns the cached client for netDef, dialing it on first use.
func (p *evmClientProvider) GetProvider(netDef entity.NetworkDefinition) (port.ChainProvider, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	clientKey := fmt.Sprintf("%d:%s", netDef.ChainID, netDef.Identifier)
	if client, exists := p.clients[clientKey]; exists {
		return client, nil
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc_primary", netDef.PrimaryRPCURL)
	limiter := rate.NewLimiter(p.rateLimit, p.burstLimit)
	newClient, err := NewEVMClient(netDef, p.connectionTimeout, p.rpcCallTimeout, limiter, p.chainIDs)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[clientKey] = newClient
	return newClient, nil
}
