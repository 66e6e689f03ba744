// Package abis holds the contract interfaces the SDK calls, one table per contract kind.
package abis

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

func ParseABI(abiJSON string) (*abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Set bundles every parsed contract interface.
type Set struct {
	Pool                 *abi.ABI
	Option               *abi.ABI
	ERC20                *abi.ABI
	ConfigurationManager *abi.ABI
	CapProvider          *abi.ABI
	Multicall3           *abi.ABI
}

var (
	parsedSet     *Set
	parsedSetErr  error
	parsedSetOnce sync.Once
)

// Load parses all ABIs once and returns the shared, read-only set.
func Load() (*Set, error) {
	parsedSetOnce.Do(func() {
		parsedSet, parsedSetErr = load()
	})
	return parsedSet, parsedSetErr
}

func load() (*Set, error) {
	var (
		set Set
		err error
	)
	if set.Pool, err = GetPoolABI(); err != nil {
		return nil, fmt.Errorf("failed to parse pool ABI: %w", err)
	}
	if set.Option, err = GetOptionABI(); err != nil {
		return nil, fmt.Errorf("failed to parse option ABI: %w", err)
	}
	if set.ERC20, err = GetERC20ABI(); err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	if set.ConfigurationManager, err = GetConfigurationManagerABI(); err != nil {
		return nil, fmt.Errorf("failed to parse configuration manager ABI: %w", err)
	}
	if set.CapProvider, err = GetCapProviderABI(); err != nil {
		return nil, fmt.Errorf("failed to parse cap provider ABI: %w", err)
	}
	if set.Multicall3, err = GetMulticall3ABI(); err != nil {
		return nil, fmt.Errorf("failed to parse multicall3 ABI: %w", err)
	}
	return &set, nil
}
