package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"options_sdk/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// ErrChainMismatch is returned when an RPC endpoint serves a different chain than configured.
var ErrChainMismatch = errors.New("rpc endpoint chain id mismatch")

// EVMClient implements port.ChainProvider for EVM-compatible chains.
// Every RPC goes through the limiter and is bounded by rpcCallTimeout.
type EVMClient struct {
	ethClient      *ethclient.Client
	netDef         entity.NetworkDefinition
	rpcCallTimeout time.Duration
	limiter        *rate.Limiter
	chainIDs       *cache.Cache
}

// NewEVMClient dials the primary RPC of netDef, falling back to the others in order.
func NewEVMClient(
	netDef entity.NetworkDefinition,
	connectionTimeout time.Duration,
	rpcCallTimeout time.Duration,
	limiter *rate.Limiter,
	chainIDs *cache.Cache,
) (*EVMClient, error) {
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		if rpcURL == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		client, err := ethclient.DialContext(ctx, rpcURL)
		cancel()

		if err == nil {
			return &EVMClient{
				ethClient:      client,
				netDef:         netDef,
				rpcCallTimeout: rpcCallTimeout,
				limiter:        limiter,
				chainIDs:       chainIDs,
			}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	if lastErr == nil {
		lastErr = errors.New("no RPC URL configured")
	}
	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

// ChainID returns the chain id reported by the endpoint, cached per network.
// A value different from the configured chain id is an error.
func (c *EVMClient) ChainID(ctx context.Context) (*big.Int, error) {
	key := c.cacheKey()
	if c.chainIDs != nil {
		if cached, found := c.chainIDs.Get(key); found {
			return new(big.Int).SetUint64(cached.(uint64)), nil
		}
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	rpcCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	chainID, err := c.ethClient.ChainID(rpcCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id for %s: %w", c.netDef.Name, err)
	}
	if c.netDef.ChainID != 0 && chainID.Uint64() != c.netDef.ChainID {
		return nil, fmt.Errorf("%w: %s expected %d, got %s", ErrChainMismatch, c.netDef.Name, c.netDef.ChainID, chainID)
	}

	if c.chainIDs != nil {
		c.chainIDs.Set(key, chainID.Uint64(), cache.DefaultExpiration)
	}
	return chainID, nil
}

// CallContract executes a read-only eth_call.
func (c *EVMClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	rpcCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	return c.ethClient.CallContract(rpcCtx, msg, blockNumber)
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}

func (c *EVMClient) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed for %s: %w", c.netDef.Name, err)
	}
	return nil
}

func (c *EVMClient) cacheKey() string {
	if c.netDef.Identifier != "" {
		return c.netDef.Identifier
	}
	return c.netDef.PrimaryRPCURL
}
