// Package aggregator builds the multicall batches behind each SDK use case and
// folds their decoded results into per-entity metrics.
package aggregator

import (
	"errors"
	"fmt"
	"strings"

	"options_sdk/internal/abis"
	"options_sdk/internal/app/port"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/interpreter"
	"options_sdk/internal/multicall"
	"options_sdk/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrMissingParameter is returned before any network call when an input
	// needed to build or decode the batch is absent.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrInvalidAddress is returned for user or contract addresses that are not hex addresses.
	ErrInvalidAddress = errors.New("invalid address")
)

// Aggregator owns the engine, the interpreters and the contract tables.
// It holds no per-request state and is safe for concurrent use.
type Aggregator struct {
	engine      *multicall.Engine
	interpreter *interpreter.Interpreter
	abis        *abis.Set
	logger      port.Logger
}

// New creates an Aggregator.
func New(engine *multicall.Engine, interp *interpreter.Interpreter, set *abis.Set, log port.Logger) *Aggregator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{
		engine:      engine,
		interpreter: interp,
		abis:        set,
		logger:      log,
	}
}

// NewDefault wires an Aggregator from a registry and a verbosity policy.
func NewDefault(registry port.NetworkRegistry, log port.Logger, verbosity logger.Verbosity) (*Aggregator, error) {
	set, err := abis.Load()
	if err != nil {
		return nil, err
	}
	engine, err := multicall.NewEngine(registry, log, verbosity)
	if err != nil {
		return nil, err
	}
	return New(engine, interpreter.New(log, verbosity), set, log), nil
}

func normalizeAddress(address string) (common.Address, string, error) {
	lower := strings.ToLower(strings.TrimSpace(address))
	if !common.IsHexAddress(lower) {
		return common.Address{}, "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return common.HexToAddress(lower), lower, nil
}

// uniqueOptions drops nil and repeated options, keeping first occurrence order.
func uniqueOptions(options []*entity.Option) []*entity.Option {
	seen := make(map[string]struct{}, len(options))
	out := make([]*entity.Option, 0, len(options))
	for _, o := range options {
		if o == nil {
			continue
		}
		if _, dup := seen[o.ID()]; dup {
			continue
		}
		seen[o.ID()] = struct{}{}
		out = append(out, o)
	}
	return out
}

// callResult returns the raw result routed under reference, or a failed
// result when the slot is absent.
func callResult(slots map[string]multicall.Slot, reference string) multicall.CallResult {
	if s, ok := slots[reference]; ok {
		return s.Result
	}
	return multicall.CallResult{Reference: reference, DecodeErr: multicall.ErrCallReverted}
}

func correlationID(kind, id string) string {
	return kind + ":" + id
}
