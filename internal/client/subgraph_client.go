package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"options_sdk/internal/app/port"
	domain "options_sdk/internal/domain/entity"
	"options_sdk/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/ethereum/go-ethereum/common"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrSubgraph wraps GraphQL-level errors returned with a 200 response.
var ErrSubgraph = errors.New("subgraph query failed")

const optionsQuery = `query Options($first: Int!, $skip: Int!) {
  options(first: $first, skip: $skip, orderBy: expiration, orderDirection: desc) {
    id
    decimals
    expiration
    pool { id }
  }
}`

const positionsQuery = `query Positions($user: String!, $first: Int!, $skip: Int!) {
  positions(where: { user: $user }, first: $first, skip: $skip) {
    id
    user { id }
    option { id decimals }
    initialOptionsProvided
    finalOptionsRemoved
  }
}`

// subgraphClientImpl implements port.SubgraphClient over GraphQL POST requests.
type subgraphClientImpl struct {
	client   *fasthttp.Client
	timeout  time.Duration
	pageSize int
	logger   *zap.Logger
}

// NewSubgraphClient creates a subgraph client paging through results pageSize at a time.
func NewSubgraphClient(timeout time.Duration, pageSize int, logger *zap.Logger) port.SubgraphClient {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &subgraphClientImpl{
		client:   &fasthttp.Client{},
		timeout:  timeout,
		pageSize: pageSize,
		logger:   logger.Named("SubgraphClient"),
	}
}

// GetOptions lists every indexed option with its pool.
func (c *subgraphClientImpl) GetOptions(ctx context.Context, subgraphURL string) ([]port.OptionRef, error) {
	var refs []port.OptionRef
	for skip := 0; ; skip += c.pageSize {
		var resp entity.OptionsResponse
		vars := map[string]any{"first": c.pageSize, "skip": skip}
		if err := c.query(ctx, subgraphURL, optionsQuery, vars, &resp); err != nil {
			return nil, err
		}
		if err := graphQLErr(resp.Errors); err != nil {
			return nil, err
		}

		for _, o := range resp.Data.Options {
			if ref, ok := c.optionRef(o); ok {
				refs = append(refs, ref)
			}
		}
		if len(resp.Data.Options) < c.pageSize {
			break
		}
	}

	c.logger.Debug("Fetched options from subgraph", zap.Int("count", len(refs)))
	return refs, nil
}

// optionRef drops options with an invalid id and clears invalid or zero pools.
func (c *subgraphClientImpl) optionRef(o entity.SubgraphOption) (port.OptionRef, bool) {
	option := strings.ToLower(strings.TrimSpace(o.ID))
	if !common.IsHexAddress(option) {
		c.logger.Warn("Skipping option with invalid id", zap.String("id", o.ID))
		return port.OptionRef{}, false
	}
	ref := port.OptionRef{Option: option}
	if o.Pool == nil {
		return ref, true
	}
	pool := strings.ToLower(strings.TrimSpace(o.Pool.ID))
	if !common.IsHexAddress(pool) || pool == domain.ZeroAddress {
		c.logger.Warn("Option has invalid pool id, treating as poolless", zap.String("option", option), zap.String("pool", o.Pool.ID))
		return ref, true
	}
	ref.Pool = pool
	return ref, true
}

// GetPositions returns the liquidity positions of user, scaled by each option's decimals.
func (c *subgraphClientImpl) GetPositions(ctx context.Context, subgraphURL string, user string) ([]domain.Position, error) {
	user = strings.ToLower(user)
	var positions []domain.Position

	for skip := 0; ; skip += c.pageSize {
		var resp entity.PositionsResponse
		vars := map[string]any{"user": user, "first": c.pageSize, "skip": skip}
		if err := c.query(ctx, subgraphURL, positionsQuery, vars, &resp); err != nil {
			return nil, err
		}
		if err := graphQLErr(resp.Errors); err != nil {
			return nil, err
		}

		for _, p := range resp.Data.Positions {
			position, err := toPosition(p, user)
			if err != nil {
				c.logger.Warn("Skipping malformed position", zap.String("id", p.ID), zap.Error(err))
				continue
			}
			positions = append(positions, position)
		}
		if len(resp.Data.Positions) < c.pageSize {
			break
		}
	}
	return positions, nil
}

func toPosition(p entity.SubgraphPosition, user string) (domain.Position, error) {
	decimals, err := strconv.Atoi(p.Option.Decimals)
	if err != nil {
		return domain.Position{}, fmt.Errorf("invalid option decimals %q: %w", p.Option.Decimals, err)
	}
	initial, err := rawValue(p.InitialOptionsProvided, decimals)
	if err != nil {
		return domain.Position{}, err
	}
	removed, err := rawValue(p.FinalOptionsRemoved, decimals)
	if err != nil {
		return domain.Position{}, err
	}
	return domain.Position{
		Option:                 strings.ToLower(p.Option.ID),
		User:                   user,
		InitialOptionsProvided: initial,
		FinalOptionsRemoved:    removed,
	}, nil
}

func rawValue(raw string, decimals int) (domain.Value, error) {
	if raw == "" {
		return domain.Zero(), nil
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return domain.Zero(), fmt.Errorf("invalid integer %q", raw)
	}
	return domain.NewValue(n, decimals)
}

func graphQLErr(errs []entity.GraphQLError) error {
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return fmt.Errorf("%w: %s", ErrSubgraph, strings.Join(messages, "; "))
}

func (c *subgraphClientImpl) query(ctx context.Context, subgraphURL, query string, variables map[string]any, out any) error {
	if subgraphURL == "" {
		return fmt.Errorf("%w: no subgraph URL", ErrSubgraph)
	}
	body, err := json.Marshal(entity.GraphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode subgraph request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(subgraphURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute subgraph request", zap.String("url", subgraphURL), zap.Error(err))
		return fmt.Errorf("failed to execute request to %s: %w", subgraphURL, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Subgraph request failed",
			zap.String("url", subgraphURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return fmt.Errorf("subgraph request to %s failed with status %d: %s", subgraphURL, resp.StatusCode(), string(rawBody))
	}

	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal subgraph response from %s: %w", subgraphURL, err)
	}
	return nil
}
