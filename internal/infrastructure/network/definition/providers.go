package networkdefinition

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"options_sdk/internal/app/port"
	"options_sdk/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// Multicall3Address is the deterministic Multicall3 deployment shared by every supported chain.
const Multicall3Address = "0xcA11bde05977b3631167028862bE2a173976CA11"

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger            port.Logger
	allNetworkDefs    map[string]entity.NetworkDefinition
	activeNetworkDefs []entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL: "https://etherscan.io",
		MulticallAddress: Multicall3Address,
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		NativeSymbol:     "MATIC",
		PrimaryRPCURL:    "https://polygon-rpc.com/",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/polygon", "https://polygon.publicnode.com"},
		BlockExplorerURL: "https://polygonscan.com",
		MulticallAddress: Multicall3Address,
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs:  []string{"https://arbitrum.llamarpc.com", "https://arbitrum.publicnode.com"},
		BlockExplorerURL: "https://arbiscan.io",
		MulticallAddress: Multicall3Address,
	}
	Optimism = entity.NetworkDefinition{
		ChainID:          10,
		Name:             "OP Mainnet",
		Identifier:       "optimism",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://optimism.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/optimism"},
		BlockExplorerURL: "https://optimistic.etherscan.io",
		MulticallAddress: Multicall3Address,
	}
	Base = entity.NetworkDefinition{
		ChainID:          8453,
		Name:             "Base Mainnet",
		Identifier:       "base",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://1rpc.io/base",
		FallbackRPCURLs:  []string{"https://base.publicnode.com", "https://base.llamarpc.com"},
		BlockExplorerURL: "https://basescan.org",
		MulticallAddress: Multicall3Address,
	}
	Gnosis = entity.NetworkDefinition{
		ChainID:          100,
		Name:             "Gnosis Chain",
		Identifier:       "gnosis",
		NativeSymbol:     "xDAI",
		PrimaryRPCURL:    "https://rpc.gnosischain.com",
		FallbackRPCURLs:  []string{"https://gnosis.publicnode.com"},
		BlockExplorerURL: "https://gnosisscan.io",
		MulticallAddress: Multicall3Address,
	}
	Sepolia = entity.NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia",
		Identifier:       "sepolia",
		NativeSymbol:     "ETH",
		PrimaryRPCURL:    "https://ethereum-sepolia-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.sepolia.org"},
		BlockExplorerURL: "https://sepolia.etherscan.io",
		MulticallAddress: Multicall3Address,
	}
)

// KnownDefinitions returns a copy of the built-in definitions keyed by identifier.
func KnownDefinitions() map[string]entity.NetworkDefinition {
	out := make(map[string]entity.NetworkDefinition)
	for _, def := range []entity.NetworkDefinition{Ethereum, Polygon, Arbitrum, Optimism, Base, Gnosis, Sepolia} {
		out[def.Identifier] = def
	}
	return out
}

// NewNetworkDefinitionProvider merges overrides onto the built-in definitions and
// activates every network that has an option list in optionsDir or a subgraph.
func NewNetworkDefinitionProvider(log port.Logger, optionsDir string, overrides []entity.NetworkDefinition) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:            log,
		allNetworkDefs:    KnownDefinitions(),
		activeNetworkDefs: make([]entity.NetworkDefinition, 0),
	}

	for _, o := range overrides {
		identifier := strings.ToLower(o.Identifier)
		if identifier == "" {
			p.logger.Warn("Ignoring network override without identifier", "chain_id", o.ChainID)
			continue
		}
		base, known := p.allNetworkDefs[identifier]
		if !known && o.ChainID == 0 {
			p.logger.Warn(fmt.Sprintf("Network override '%s' is unknown and has no chain id. Skipping.", identifier))
			continue
		}
		p.allNetworkDefs[identifier] = mergeDefinition(base, o)
	}

	identifiers := make([]string, 0, len(p.allNetworkDefs))
	for identifier := range p.allNetworkDefs {
		identifiers = append(identifiers, identifier)
	}
	sort.Strings(identifiers)

	for _, identifier := range identifiers {
		def := p.allNetworkDefs[identifier]
		if def.OptionsFile == "" && optionsDir != "" {
			candidate := filepath.Join(optionsDir, identifier+".json")
			if _, err := os.Stat(candidate); err == nil {
				def.OptionsFile = candidate
				p.allNetworkDefs[identifier] = def
			}
		}
		if def.OptionsFile == "" && def.SubgraphURL == "" {
			continue
		}
		p.activeNetworkDefs = append(p.activeNetworkDefs, def)
		p.logger.Debug(fmt.Sprintf("Network '%s' activated.", def.Name), "options_file", def.OptionsFile, "subgraph", def.SubgraphURL != "")
	}

	if len(p.activeNetworkDefs) == 0 {
		p.logger.Warn("No option lists or subgraphs configured. No networks will be active.", "directory", optionsDir)
	} else {
		p.logger.Info(fmt.Sprintf("NetworkDefinitionProvider initialized. Active networks: %d", len(p.activeNetworkDefs)))
	}

	return p
}

func mergeDefinition(base, o entity.NetworkDefinition) entity.NetworkDefinition {
	if base.Identifier == "" {
		base.Identifier = strings.ToLower(o.Identifier)
		base.MulticallAddress = Multicall3Address
	}
	if o.ChainID != 0 {
		base.ChainID = o.ChainID
	}
	if o.Name != "" {
		base.Name = o.Name
	}
	if o.NativeSymbol != "" {
		base.NativeSymbol = o.NativeSymbol
	}
	if o.PrimaryRPCURL != "" {
		base.PrimaryRPCURL = o.PrimaryRPCURL
	}
	if len(o.FallbackRPCURLs) > 0 {
		base.FallbackRPCURLs = o.FallbackRPCURLs
	}
	if o.BlockExplorerURL != "" {
		base.BlockExplorerURL = o.BlockExplorerURL
	}
	if o.MulticallAddress != "" {
		base.MulticallAddress = o.MulticallAddress
	}
	if o.ConfigurationManagerAddress != "" {
		base.ConfigurationManagerAddress = o.ConfigurationManagerAddress
	}
	if o.CapProviderAddress != "" {
		base.CapProviderAddress = o.CapProviderAddress
	}
	if o.SubgraphURL != "" {
		base.SubgraphURL = o.SubgraphURL
	}
	if o.OptionsFile != "" {
		base.OptionsFile = o.OptionsFile
	}
	return base
}

// GetAllNetworkDefinitions returns the list of active network definitions.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defsCopy := make([]entity.NetworkDefinition, len(p.activeNetworkDefs))
	copy(defsCopy, p.activeNetworkDefs)
	return defsCopy
}

// GetNetworkDefinitionByName returns an active network by identifier or chain id.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	key := strings.ToLower(nameOrIdentifier)
	for _, def := range p.activeNetworkDefs {
		if def.Identifier == key || fmt.Sprint(def.ChainID) == key {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// GetNetworkDefinitionByChainID returns a network by chain id, active or not.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.activeNetworkDefs {
		if def.ChainID == chainID {
			return def, true
		}
	}
	for _, knownDef := range p.allNetworkDefs {
		if knownDef.ChainID == chainID {
			return knownDef, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// MulticallAddress returns the aggregator registered for chainID.
func (p *NetworkDefinitionProvider) MulticallAddress(chainID uint64) (common.Address, bool) {
	def, ok := p.GetNetworkDefinitionByChainID(chainID)
	if !ok || !common.IsHexAddress(def.MulticallAddress) {
		return common.Address{}, false
	}
	return common.HexToAddress(def.MulticallAddress), true
}
