package multicall

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"options_sdk/internal/abis"
	"options_sdk/internal/app/port"
	"options_sdk/internal/pkg/logger"
	"options_sdk/internal/pkg/metrics"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrBatchDispatch wraps any failure of the aggregated request as a whole.
	ErrBatchDispatch = errors.New("multicall batch dispatch failed")
	// ErrNoAggregator is returned when the registry has no aggregator for the provider's chain.
	ErrNoAggregator = errors.New("no multicall aggregator registered for chain")
	// ErrMalformedDescriptor is returned when a descriptor cannot be encoded.
	ErrMalformedDescriptor = errors.New("malformed call descriptor")
	// ErrEmptyReturnData marks a call that succeeded but returned no bytes.
	ErrEmptyReturnData = errors.New("call returned no data")
)

const aggregateMethod = "aggregate3"

type call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

type result3 struct {
	Success    bool
	ReturnData []byte
}

// slot remembers which descriptor and call a wrapped call belongs to.
type slot struct {
	descriptor int
	call       int
}

// Engine flattens descriptors into one aggregate3 request, dispatches it and
// regroups the per-call results by correlation id.
type Engine struct {
	registry     port.NetworkRegistry
	multicallABI *abi.ABI
	logger       port.Logger
	verbosity    logger.Verbosity
}

// NewEngine creates an Engine resolving aggregator addresses through registry.
func NewEngine(registry port.NetworkRegistry, log port.Logger, verbosity logger.Verbosity) (*Engine, error) {
	multicallABI, err := abis.GetMulticall3ABI()
	if err != nil {
		return nil, fmt.Errorf("failed to load multicall3 ABI: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		registry:     registry,
		multicallABI: multicallABI,
		logger:       log,
		verbosity:    verbosity,
	}, nil
}

// Execute runs every call of every descriptor in a single eth_call against the
// chain's aggregator. Per-call reverts never fail the batch; they surface as
// unsuccessful CallResults. A nil result with a non-nil error means the whole
// batch failed and nothing should be attributed to any entity.
func (e *Engine) Execute(ctx context.Context, provider port.ChainProvider, descriptors []CallDescriptor) (*BatchResult, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: no chain provider", ErrBatchDispatch)
	}

	calls, slots, result, err := e.encode(descriptors)
	if err != nil {
		e.logFailure("failed to encode multicall batch", err)
		return nil, err
	}

	chainID, err := provider.ChainID(ctx)
	if err != nil {
		err = fmt.Errorf("%w: failed to resolve chain id: %v", ErrBatchDispatch, err)
		e.logFailure("failed to resolve chain id", err)
		return nil, err
	}
	result.ChainID = chainID.Uint64()
	chainLabel := strconv.FormatUint(result.ChainID, 10)
	log := e.logger.With("chain_id", result.ChainID)

	if len(calls) == 0 {
		return result, nil
	}

	aggregator, ok := e.registry.MulticallAddress(result.ChainID)
	if !ok {
		metrics.ObserveBatch(chainLabel, "no_aggregator", time.Time{})
		err = fmt.Errorf("%w: chain %d", ErrNoAggregator, result.ChainID)
		e.logFailure("multicall aggregator missing", err)
		return nil, err
	}

	data, err := e.multicallABI.Pack(aggregateMethod, calls)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to pack aggregate call: %v", ErrMalformedDescriptor, err)
	}

	started := time.Now()
	raw, err := provider.CallContract(ctx, ethereum.CallMsg{To: &aggregator, Data: data}, nil)
	if err != nil {
		metrics.ObserveBatch(chainLabel, "error", started)
		err = fmt.Errorf("%w: aggregator=%s calls=%d: %v", ErrBatchDispatch, aggregator.Hex(), len(calls), err)
		e.logFailure("multicall request failed", err)
		return nil, err
	}

	var results []result3
	if err := e.multicallABI.UnpackIntoInterface(&results, aggregateMethod, raw); err != nil {
		metrics.ObserveBatch(chainLabel, "error", started)
		err = fmt.Errorf("%w: failed to unpack aggregate response: %v", ErrBatchDispatch, err)
		e.logFailure("multicall response undecodable", err)
		return nil, err
	}
	if len(results) != len(calls) {
		metrics.ObserveBatch(chainLabel, "error", started)
		err = fmt.Errorf("%w: expected %d results, got %d", ErrBatchDispatch, len(calls), len(results))
		e.logFailure("multicall response size mismatch", err)
		return nil, err
	}
	metrics.ObserveBatch(chainLabel, "ok", started)

	succeeded, reverted := 0, 0
	for i, r := range results {
		s := slots[i]
		d := descriptors[s.descriptor]
		spec := d.Calls[s.call]
		cr := &result.Descriptors[s.descriptor].Calls[s.call]
		cr.Success = r.Success

		if !r.Success {
			reverted++
			cr.DecodeErr = ErrCallReverted
			if e.verbosity.Expected {
				log.Debug("call reverted", "correlation_id", d.CorrelationID, "reference", spec.Reference, "method", spec.Method)
			}
			continue
		}
		succeeded++
		cr.ReturnData = r.ReturnData

		if len(r.ReturnData) == 0 {
			cr.DecodeErr = ErrEmptyReturnData
			continue
		}
		values, err := d.ABI.Unpack(spec.Method, r.ReturnData)
		if err != nil {
			cr.DecodeErr = fmt.Errorf("failed to decode %s: %w", spec.Method, err)
			continue
		}
		cr.Values = values
	}
	metrics.ObserveCalls(chainLabel, succeeded, reverted)

	log.Debug("multicall batch executed",
		"descriptors", len(descriptors),
		"calls", len(calls),
		"reverted", reverted,
		"duration", time.Since(started))

	return result, nil
}

// encode validates descriptors and packs their calls in order.
func (e *Engine) encode(descriptors []CallDescriptor) ([]call3, []slot, *BatchResult, error) {
	result := newBatchResult(len(descriptors))
	var (
		calls []call3
		slots []slot
	)

	for di, d := range descriptors {
		if d.CorrelationID == "" {
			return nil, nil, nil, fmt.Errorf("%w: %w", ErrMalformedDescriptor, ErrMissingCorrelationID)
		}
		if _, dup := result.Descriptor(d.CorrelationID); dup {
			return nil, nil, nil, fmt.Errorf("%w: %w: %s", ErrMalformedDescriptor, ErrDuplicateCorrelationID, d.CorrelationID)
		}
		if _, ok := d.Context.ID(); !ok {
			return nil, nil, nil, fmt.Errorf("%w: %w: %s", ErrMalformedDescriptor, ErrMissingContextID, d.CorrelationID)
		}
		if d.ABI == nil {
			return nil, nil, nil, fmt.Errorf("%w: descriptor %s has no ABI", ErrMalformedDescriptor, d.CorrelationID)
		}

		dr := &DescriptorResult{
			CorrelationID: d.CorrelationID,
			Target:        d.Target,
			Context:       d.Context.clone(),
			Decoding:      d.Decoding,
			Calls:         make([]CallResult, len(d.Calls)),
		}

		for ci, c := range d.Calls {
			if err := c.validate(); err != nil {
				return nil, nil, nil, fmt.Errorf("%w: descriptor %s: %w", ErrMalformedDescriptor, d.CorrelationID, err)
			}
			if _, ok := d.ABI.Methods[c.Method]; !ok {
				return nil, nil, nil, fmt.Errorf("%w: descriptor %s: unknown method %s", ErrMalformedDescriptor, d.CorrelationID, c.Method)
			}
			callData, err := d.ABI.Pack(c.Method, c.Args...)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%w: descriptor %s: failed to pack %s: %v", ErrMalformedDescriptor, d.CorrelationID, c.Method, err)
			}
			calls = append(calls, call3{Target: d.Target, AllowFailure: true, CallData: callData})
			slots = append(slots, slot{descriptor: di, call: ci})
			dr.Calls[ci] = CallResult{Reference: c.Reference, Method: c.Method}
		}

		result.add(dr)
	}

	return calls, slots, result, nil
}

func (e *Engine) logFailure(msg string, err error) {
	if e.verbosity.Errors {
		e.logger.Error(msg, "error", err)
	}
}
