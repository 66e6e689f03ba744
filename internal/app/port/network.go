package port

import (
	"context"
	"math/big"

	"options_sdk/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// ChainProvider is the read-only view of a chain the batch engine needs.
// *ethclient.Client satisfies it.
type ChainProvider interface {
	// ChainID resolves the network the provider is connected to.
	ChainID(ctx context.Context) (*big.Int, error)

	// CallContract executes an eth_call; a nil blockNumber means latest.
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// NetworkRegistry maps chain ids to network definitions.
type NetworkRegistry interface {
	// MulticallAddress returns the aggregator contract deployed on chainID.
	MulticallAddress(chainID uint64) (common.Address, bool)

	// GetNetworkDefinitionByChainID returns the definition registered for chainID.
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	NetworkRegistry

	// GetAllNetworkDefinitions returns all available network definitions as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a specific network definition by its identifier.
	GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool)
}

// ChainProviderFactory hands out one ChainProvider per network.
type ChainProviderFactory interface {
	GetProvider(networkDefinition entity.NetworkDefinition) (ChainProvider, error)
}
