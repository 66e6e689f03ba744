package port

import (
	"context"

	"options_sdk/internal/domain/entity"
)

// OptionRef pairs an option with the pool that trades it ("" when none).
type OptionRef struct {
	Option string `json:"option"`
	Pool   string `json:"pool"`
}

// SubgraphClient reads indexed protocol data.
type SubgraphClient interface {
	GetOptions(ctx context.Context, subgraphURL string) ([]OptionRef, error)
	GetPositions(ctx context.Context, subgraphURL string, user string) ([]entity.Position, error)
}

// OptionListProvider returns the watched options of a network from local files.
type OptionListProvider interface {
	GetOptionRefs(networkDefinition entity.NetworkDefinition) ([]OptionRef, error)
}
