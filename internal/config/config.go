package config

import (
	"fmt"
	"os"
	"strings"

	"options_sdk/internal/domain/entity"
	"options_sdk/internal/pkg/logger"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Networks  []NetworkNode   `yaml:"networks"`
	Options   OptionsConfig   `yaml:"options"`
	Logging   LoggingConfig   `yaml:"logging"`
	Multicall MulticallConfig `yaml:"multicall"`
	Cache     CacheConfig     `yaml:"cache"`
	Subgraph  SubgraphConfig  `yaml:"subgraph"`
	RpcClient RpcClientConfig `yaml:"rpcClient"`
}

// ServerConfig holds the server-specific configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// NetworkNode overrides or extends a built-in network definition.
type NetworkNode struct {
	ChainID                     uint64   `yaml:"chainID"`
	Name                        string   `yaml:"name"`
	Identifier                  string   `yaml:"identifier"`
	RPCURL                      string   `yaml:"rpcURL"`
	FallbackRPCURLs             []string `yaml:"fallbackRPCURLs"`
	MulticallAddress            string   `yaml:"multicallAddress"`
	ConfigurationManagerAddress string   `yaml:"configurationManagerAddress"`
	CapProviderAddress          string   `yaml:"capProviderAddress"`
	SubgraphURL                 string   `yaml:"subgraphURL"`
	OptionsFile                 string   `yaml:"optionsFile"`
}

// Definition converts the node into the override the network registry merges.
func (n NetworkNode) Definition() entity.NetworkDefinition {
	return entity.NetworkDefinition{
		ChainID:                     n.ChainID,
		Name:                        n.Name,
		Identifier:                  strings.ToLower(n.Identifier),
		PrimaryRPCURL:               n.RPCURL,
		FallbackRPCURLs:             n.FallbackRPCURLs,
		MulticallAddress:            n.MulticallAddress,
		ConfigurationManagerAddress: n.ConfigurationManagerAddress,
		CapProviderAddress:          n.CapProviderAddress,
		SubgraphURL:                 n.SubgraphURL,
		OptionsFile:                 n.OptionsFile,
	}
}

// OptionsConfig points at the watched option lists.
type OptionsConfig struct {
	DataDir string `yaml:"dataDir"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level             string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
	File              string `yaml:"file"`
	MulticallErrors   bool   `yaml:"multicallErrors"`
	MulticallExpected bool   `yaml:"multicallExpected"`
}

// Verbosity returns the call-failure logging policy.
func (l LoggingConfig) Verbosity() logger.Verbosity {
	return logger.Verbosity{Errors: l.MulticallErrors, Expected: l.MulticallExpected}
}

// MulticallConfig bounds how many options go into one aggregated request.
// Zero keeps every option of a request in a single batch.
type MulticallConfig struct {
	MaxOptionsPerBatch int `yaml:"maxOptionsPerBatch"`
}

// CacheConfig holds configuration for caching.
type CacheConfig struct {
	StaticsTTLMinutes      int `yaml:"staticsTTLMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
	ChainIDTTLMinutes      int `yaml:"chainIDTTLMinutes"`
}

// SubgraphConfig holds configuration for the subgraph client.
type SubgraphConfig struct {
	RequestTimeoutMillis int64 `yaml:"requestTimeoutMillis"`
	PageSize             int   `yaml:"pageSize"`
}

// RpcClientConfig holds configuration for RPC clients.
type RpcClientConfig struct {
	DefaultTimeoutMs int64 `yaml:"defaultTimeoutMs"`
	ConnectTimeoutMs int64 `yaml:"connectTimeoutMs"`
	RateLimit        int   `yaml:"rateLimit"`
	BurstLimit       int   `yaml:"burstLimit"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	logrus.Info("Configuration loaded successfully.")
	return cfg, nil
}

// Parse decodes YAML and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = "data/options"
		logrus.Infof("Options.DataDir not set, defaulting to %s", cfg.Options.DataDir)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Cache.StaticsTTLMinutes == 0 {
		cfg.Cache.StaticsTTLMinutes = 24 * 60 // statics are immutable once deployed
		logrus.Infof("Cache.StaticsTTLMinutes not set, defaulting to %d minutes", cfg.Cache.StaticsTTLMinutes)
	}
	if cfg.Cache.CleanupIntervalMinutes == 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}
	if cfg.Cache.ChainIDTTLMinutes == 0 {
		cfg.Cache.ChainIDTTLMinutes = 60
	}

	if cfg.Subgraph.RequestTimeoutMillis == 0 {
		cfg.Subgraph.RequestTimeoutMillis = 10000
		logrus.Infof("Subgraph.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Subgraph.RequestTimeoutMillis)
	}
	if cfg.Subgraph.PageSize == 0 {
		cfg.Subgraph.PageSize = 500
	}

	if cfg.RpcClient.DefaultTimeoutMs == 0 {
		cfg.RpcClient.DefaultTimeoutMs = 15000
		logrus.Infof("RpcClient.DefaultTimeoutMs not set, defaulting to %d ms", cfg.RpcClient.DefaultTimeoutMs)
	}
	if cfg.RpcClient.ConnectTimeoutMs == 0 {
		cfg.RpcClient.ConnectTimeoutMs = 10000
	}
	if cfg.RpcClient.RateLimit == 0 {
		cfg.RpcClient.RateLimit = 10
	}
	if cfg.RpcClient.BurstLimit == 0 {
		cfg.RpcClient.BurstLimit = cfg.RpcClient.RateLimit
	}
}

func validate(cfg *Config) error {
	if cfg.Multicall.MaxOptionsPerBatch < 0 {
		return fmt.Errorf("multicall.maxOptionsPerBatch must not be negative, got %d", cfg.Multicall.MaxOptionsPerBatch)
	}
	if _, err := logger.ParseLevel(cfg.Logging.Level); err != nil {
		return err
	}
	for i, network := range cfg.Networks {
		if network.Identifier == "" {
			return fmt.Errorf("networks[%d]: identifier is required", i)
		}
		if network.SubgraphURL == "" && network.OptionsFile == "" && network.RPCURL == "" && network.MulticallAddress == "" {
			logrus.Warnf("Network '%s' entry overrides nothing.", network.Identifier)
		}
	}
	return nil
}
