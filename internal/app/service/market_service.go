package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"options_sdk/internal/aggregator"
	"options_sdk/internal/app/port"
	"options_sdk/internal/config"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotConfigured is returned when a network lacks the contract or endpoint a call needs.
var ErrNotConfigured = errors.New("not configured for network")

const (
	staticsOption = "option"
	staticsPool   = "pool"
	staticsToken  = "token"
)

type staticsFetcher func(ctx context.Context, provider port.ChainProvider, addresses []string) (map[string]*entity.StaticFields, error)

type dynamicsRunner func(ctx context.Context, provider port.ChainProvider, chunk []*entity.Option) (entity.MetricsMap, error)

// marketServiceImpl implements the MarketService interface.
type marketServiceImpl struct {
	aggregator         *aggregator.Aggregator
	clientProvider     port.ChainProviderFactory
	optionList         port.OptionListProvider
	subgraph           port.SubgraphClient
	logger             *zap.Logger
	staticsCache       *cache.Cache // key "chainID:kind:address" -> *entity.StaticFields
	maxOptionsPerBatch int
}

// NewMarketService creates a new instance of MarketService.
func NewMarketService(
	agg *aggregator.Aggregator,
	clientProvider port.ChainProviderFactory,
	optionList port.OptionListProvider,
	subgraph port.SubgraphClient,
	cfg *config.Config,
	logger *zap.Logger,
) port.MarketService {
	return &marketServiceImpl{
		aggregator:     agg,
		clientProvider: clientProvider,
		optionList:     optionList,
		subgraph:       subgraph,
		logger:         logger.Named("MarketService"),
		staticsCache: cache.New(
			time.Duration(cfg.Cache.StaticsTTLMinutes)*time.Minute,
			time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute,
		),
		maxOptionsPerBatch: cfg.Multicall.MaxOptionsPerBatch,
	}
}

// ListOptions prefers the subgraph and falls back to the network's option list file.
func (s *marketServiceImpl) ListOptions(ctx context.Context, network entity.NetworkDefinition) ([]*entity.Option, error) {
	var refs []port.OptionRef
	var err error

	if network.SubgraphURL != "" && s.subgraph != nil {
		refs, err = s.subgraph.GetOptions(ctx, network.SubgraphURL)
		if err != nil {
			if network.OptionsFile == "" {
				return nil, fmt.Errorf("failed to list options for %s: %w", network.Identifier, err)
			}
			s.logger.Warn("Subgraph unavailable, falling back to option list file",
				zap.String("network", network.Identifier), zap.Error(err))
			refs = nil
		}
	}
	if refs == nil {
		refs, err = s.optionList.GetOptionRefs(network)
		if err != nil {
			return nil, fmt.Errorf("failed to list options for %s: %w", network.Identifier, err)
		}
	}

	return s.LoadOptions(ctx, network, refs)
}

// LoadOptions reads option and pool statics concurrently, then the statics of
// every token they reference, and assembles the option graphs. Options whose
// statics cannot be read are left out.
func (s *marketServiceImpl) LoadOptions(ctx context.Context, network entity.NetworkDefinition, refs []port.OptionRef) ([]*entity.Option, error) {
	if len(refs) == 0 {
		return []*entity.Option{}, nil
	}
	provider, err := s.clientProvider.GetProvider(network)
	if err != nil {
		return nil, err
	}

	normalized := make([]port.OptionRef, len(refs))
	optionAddresses := make([]string, 0, len(refs))
	poolAddresses := make([]string, 0, len(refs))
	for i, ref := range refs {
		normalized[i] = port.OptionRef{Option: strings.ToLower(ref.Option), Pool: strings.ToLower(ref.Pool)}
		optionAddresses = append(optionAddresses, normalized[i].Option)
		if normalized[i].Pool != "" {
			poolAddresses = append(poolAddresses, normalized[i].Pool)
		}
	}

	var optionStatics, poolStatics map[string]*entity.StaticFields
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		optionStatics, err = s.statics(egCtx, provider, network, staticsOption, optionAddresses, s.aggregator.GetOptionsStatics)
		return err
	})
	eg.Go(func() error {
		var err error
		poolStatics, err = s.statics(egCtx, provider, network, staticsPool, poolAddresses, s.aggregator.GetPoolsStatics)
		return err
	})
	if err := eg.Wait(); err != nil {
		s.logger.Error("Failed to load option statics", zap.String("network", network.Identifier), zap.Error(err))
		return nil, err
	}

	tokenStatics, err := s.statics(ctx, provider, network, staticsToken, referencedTokens(optionStatics, poolStatics), s.aggregator.GetTokensSymbols)
	if err != nil {
		s.logger.Error("Failed to load token statics", zap.String("network", network.Identifier), zap.Error(err))
		return nil, err
	}

	options := make([]*entity.Option, 0, len(refs))
	for _, ref := range normalized {
		o, err := buildOption(ref, optionStatics[ref.Option], poolStatics[ref.Pool], tokenStatics)
		if err != nil {
			s.logger.Warn("Skipping option with incomplete statics", zap.String("option", ref.Option), zap.Error(err))
			continue
		}
		options = append(options, o)
	}

	s.logger.Info("Options loaded", zap.String("network", network.Identifier), zap.Int("count", len(options)))
	return options, nil
}

// GeneralDynamics reads live pricing and, when the network has a cap
// provider, the minting cap of every option.
func (s *marketServiceImpl) GeneralDynamics(ctx context.Context, network entity.NetworkDefinition, options []*entity.Option) (entity.MetricsMap, error) {
	return s.fanOut(ctx, network, options, func(ctx context.Context, provider port.ChainProvider, chunk []*entity.Option) (entity.MetricsMap, error) {
		dynamics, err := s.aggregator.GetGeneralDynamics(ctx, provider, chunk)
		if err != nil {
			return nil, err
		}
		if network.CapProviderAddress == "" {
			return dynamics, nil
		}
		caps, err := s.aggregator.GetOptionCaps(ctx, provider, network.CapProviderAddress, chunk)
		if err != nil {
			s.logger.Warn("Failed to load option caps", zap.String("network", network.Identifier), zap.Error(err))
			return dynamics, nil
		}
		dynamics.Merge(caps)
		return dynamics, nil
	})
}

func (s *marketServiceImpl) UserDynamics(ctx context.Context, network entity.NetworkDefinition, user string, options []*entity.Option) (entity.MetricsMap, error) {
	return s.fanOut(ctx, network, options, func(ctx context.Context, provider port.ChainProvider, chunk []*entity.Option) (entity.MetricsMap, error) {
		return s.aggregator.GetUserDynamics(ctx, provider, user, chunk)
	})
}

// UserRebalanceDynamics reads the user's positions from the subgraph and
// prices rebalancing each of them. Without a subgraph only user dynamics are returned.
func (s *marketServiceImpl) UserRebalanceDynamics(ctx context.Context, network entity.NetworkDefinition, user string, options []*entity.Option) (entity.MetricsMap, error) {
	var positions []entity.Position
	if network.SubgraphURL == "" || s.subgraph == nil {
		s.logger.Warn("No subgraph for network, rebalance quotes skipped", zap.String("network", network.Identifier))
	} else {
		var err error
		positions, err = s.subgraph.GetPositions(ctx, network.SubgraphURL, user)
		if err != nil {
			return nil, fmt.Errorf("failed to load positions of %s: %w", user, err)
		}
	}

	return s.fanOut(ctx, network, options, func(ctx context.Context, provider port.ChainProvider, chunk []*entity.Option) (entity.MetricsMap, error) {
		return s.aggregator.GetUserRebalanceDynamics(ctx, provider, user, chunk, positions)
	})
}

func (s *marketServiceImpl) ProtocolConfiguration(ctx context.Context, network entity.NetworkDefinition) (*entity.StaticFields, error) {
	if network.ConfigurationManagerAddress == "" {
		return nil, fmt.Errorf("configuration manager %w %s", ErrNotConfigured, network.Identifier)
	}
	provider, err := s.clientProvider.GetProvider(network)
	if err != nil {
		return nil, err
	}
	return s.aggregator.GetProtocolConfiguration(ctx, provider, network.ConfigurationManagerAddress)
}

// fanOut splits options into batches of maxOptionsPerBatch, runs them
// concurrently and merges the partial maps per entity. Any failed batch fails the call.
func (s *marketServiceImpl) fanOut(ctx context.Context, network entity.NetworkDefinition, options []*entity.Option, run dynamicsRunner) (entity.MetricsMap, error) {
	provider, err := s.clientProvider.GetProvider(network)
	if err != nil {
		return nil, err
	}

	result := make(entity.MetricsMap, len(options))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	for _, chunk := range utils.Chunk(options, s.maxOptionsPerBatch) {
		chunk := chunk
		eg.Go(func() error {
			partial, err := run(egCtx, provider, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			result.Merge(partial)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		s.logger.Error("Failed to read dynamics", zap.String("network", network.Identifier), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// statics serves cached fields and fetches the rest in one batch. Fields of
// contracts that answered nothing are not cached.
func (s *marketServiceImpl) statics(
	ctx context.Context,
	provider port.ChainProvider,
	network entity.NetworkDefinition,
	kind string,
	addresses []string,
	fetch staticsFetcher,
) (map[string]*entity.StaticFields, error) {
	out := make(map[string]*entity.StaticFields, len(addresses))
	var missing []string
	for _, address := range addresses {
		if cached, found := s.staticsCache.Get(staticsKey(network, kind, address)); found {
			out[address] = cached.(*entity.StaticFields)
			continue
		}
		missing = append(missing, address)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := fetch(ctx, provider, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s statics: %w", kind, err)
	}
	for address, fields := range fetched {
		out[address] = fields
		if len(fields.Values) > 0 || len(fields.Arrays) > 0 {
			s.staticsCache.Set(staticsKey(network, kind, address), fields, cache.DefaultExpiration)
		}
	}

	s.logger.Debug("Statics fetched",
		zap.String("kind", kind),
		zap.Int("cached", len(addresses)-len(missing)),
		zap.Int("fetched", len(missing)))
	return out, nil
}

func staticsKey(network entity.NetworkDefinition, kind, address string) string {
	return fmt.Sprintf("%d:%s:%s", network.ChainID, kind, address)
}

// referencedTokens collects the distinct, valid token addresses named by option and pool statics.
func referencedTokens(optionStatics, poolStatics map[string]*entity.StaticFields) []string {
	seen := make(map[string]struct{})
	var tokens []string
	add := func(fields *entity.StaticFields, names ...string) {
		for _, name := range names {
			address, ok := fields.Get(name)
			if !ok || !isTokenAddress(address) {
				continue
			}
			if _, dup := seen[address]; dup {
				continue
			}
			seen[address] = struct{}{}
			tokens = append(tokens, address)
		}
	}
	for _, fields := range optionStatics {
		add(fields, "underlyingAsset", "strikeAsset")
	}
	for _, fields := range poolStatics {
		add(fields, "tokenA", "tokenB")
	}
	return tokens
}

func isTokenAddress(address string) bool {
	return common.IsHexAddress(address) && !strings.EqualFold(address, entity.ZeroAddress)
}
