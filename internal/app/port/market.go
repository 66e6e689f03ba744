package port

import (
	"context"

	"options_sdk/internal/domain/entity"
)

// MarketService exposes protocol state of one network as typed domain objects.
type MarketService interface {
	// LoadOptions resolves option, pool and token statics into entity graphs.
	LoadOptions(ctx context.Context, network entity.NetworkDefinition, refs []OptionRef) ([]*entity.Option, error)

	// ListOptions discovers the watched options of a network and loads them.
	ListOptions(ctx context.Context, network entity.NetworkDefinition) ([]*entity.Option, error)

	GeneralDynamics(ctx context.Context, network entity.NetworkDefinition, options []*entity.Option) (entity.MetricsMap, error)
	UserDynamics(ctx context.Context, network entity.NetworkDefinition, user string, options []*entity.Option) (entity.MetricsMap, error)
	UserRebalanceDynamics(ctx context.Context, network entity.NetworkDefinition, user string, options []*entity.Option) (entity.MetricsMap, error)

	// ProtocolConfiguration reads the configuration manager of a network.
	ProtocolConfiguration(ctx context.Context, network entity.NetworkDefinition) (*entity.StaticFields, error)
}
