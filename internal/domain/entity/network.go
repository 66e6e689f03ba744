package entity

// NetworkDefinition holds the configuration for a specific blockchain network.
// This structure is defined at the domain level to be used across application and infrastructure layers.
type NetworkDefinition struct {
	ChainID                     uint64   `json:"chainId" yaml:"chainId"`
	Name                        string   `json:"name" yaml:"name"`
	Identifier                  string   `json:"identifier" yaml:"identifier"` // e.g. "ethereum", "polygon"
	NativeSymbol                string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	PrimaryRPCURL               string   `json:"primaryRpcUrl" yaml:"primaryRpcUrl"`
	FallbackRPCURLs             []string `json:"fallbackRpcUrls" yaml:"fallbackRpcUrls"`
	BlockExplorerURL            string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	MulticallAddress            string   `json:"multicallAddress" yaml:"multicallAddress"`
	ConfigurationManagerAddress string   `json:"configurationManagerAddress,omitempty" yaml:"configurationManagerAddress,omitempty"`
	CapProviderAddress          string   `json:"capProviderAddress,omitempty" yaml:"capProviderAddress,omitempty"`
	SubgraphURL                 string   `json:"subgraphUrl,omitempty" yaml:"subgraphUrl,omitempty"`
	OptionsFile                 string   `json:"-" yaml:"optionsFile,omitempty"`
}
