package multicall

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrCallReverted marks a wrapped call whose success flag came back false.
	ErrCallReverted = errors.New("call reverted")
	// ErrNotInteger is returned when a decoded output is not an integer type.
	ErrNotInteger = errors.New("output is not an integer")
	// ErrNotText is returned when a decoded output has no text form.
	ErrNotText = errors.New("output is not text")
	// ErrNoOutput is returned when a call decoded to zero outputs.
	ErrNoOutput = errors.New("call has no decoded output")
)

// CallResult is the outcome of one wrapped call. ReturnData and Values are
// empty when the call reverted; Values is set only when the return data
// decoded against the descriptor's ABI.
type CallResult struct {
	Reference  string
	Method     string
	Success    bool
	ReturnData []byte
	Values     []any
	DecodeErr  error
}

// Err returns why the call has no usable values, or nil.
func (r CallResult) Err() error {
	if !r.Success {
		return ErrCallReverted
	}
	return r.DecodeErr
}

// DescriptorResult holds the per-call outcomes of one descriptor, in call order.
type DescriptorResult struct {
	CorrelationID string
	Target        common.Address
	Context       Context
	Decoding      Decoding
	Calls         []CallResult
}

// Call returns the result recorded under reference.
func (d *DescriptorResult) Call(reference string) (CallResult, bool) {
	for _, c := range d.Calls {
		if c.Reference == reference {
			return c, true
		}
	}
	return CallResult{}, false
}

// BatchResult holds descriptor outcomes in submission order.
type BatchResult struct {
	ChainID     uint64
	Descriptors []*DescriptorResult

	byID map[string]*DescriptorResult
}

func newBatchResult(size int) *BatchResult {
	return &BatchResult{
		Descriptors: make([]*DescriptorResult, 0, size),
		byID:        make(map[string]*DescriptorResult, size),
	}
}

// Descriptor returns the outcome recorded under correlationID.
func (b *BatchResult) Descriptor(correlationID string) (*DescriptorResult, bool) {
	d, ok := b.byID[correlationID]
	return d, ok
}

func (b *BatchResult) add(d *DescriptorResult) {
	b.Descriptors = append(b.Descriptors, d)
	b.byID[d.CorrelationID] = d
}

// BigIntAt returns output i of a decoded call as a big integer.
func BigIntAt(values []any, i int) (*big.Int, error) {
	if i >= len(values) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoOutput, i, len(values))
	}
	return toBigInt(values[i])
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, ErrNotInteger
		}
		return new(big.Int).Set(n), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case bool:
		if n {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotInteger, v)
	}
}

// TextAt returns output i as text. Addresses render as lower-case hex and
// fixed bytes32 values are trimmed of trailing zero padding.
func TextAt(values []any, i int) (string, error) {
	if i >= len(values) {
		return "", fmt.Errorf("%w: index %d of %d", ErrNoOutput, i, len(values))
	}
	switch v := values[i].(type) {
	case string:
		return v, nil
	case common.Address:
		return strings.ToLower(v.Hex()), nil
	case [32]byte:
		return strings.TrimRight(string(v[:]), "\x00"), nil
	case []byte:
		return strings.TrimRight(string(v), "\x00"), nil
	default:
		if n, err := toBigInt(v); err == nil {
			return n.String(), nil
		}
		return "", fmt.Errorf("%w: %T", ErrNotText, v)
	}
}
