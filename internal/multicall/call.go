// Package multicall batches read-only contract calls into one aggregated
// request and routes the results back to the entities that asked for them.
package multicall

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrMissingContextID       = errors.New("call context has no entity id")
	ErrMissingCorrelationID   = errors.New("descriptor has no correlation id")
	ErrEmptyReference         = errors.New("call reference is empty")
	ErrEmptyMethod            = errors.New("call method is empty")
	ErrDuplicateReference     = errors.New("duplicate call reference in descriptor")
	ErrDuplicateCorrelationID = errors.New("duplicate correlation id in batch")
)

// ContextID is the context key holding the lower-cased entity address a
// descriptor's results are attributed to.
const ContextID = "id"

// Context is the free-form payload carried through a batch untouched.
type Context map[string]any

// ID returns the entity id.
func (c Context) ID() (string, bool) {
	id, ok := c[ContextID].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func (c Context) clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// DecodeKind selects how the router decodes the calls of a descriptor.
type DecodeKind int

const (
	// DecodeCustom leaves the raw call results to an interpreter.
	DecodeCustom DecodeKind = iota
	// DecodeText decodes the first output as a string (string, address or bytes32).
	DecodeText
	// DecodeInteger decodes the first output as a base-10 integer string.
	DecodeInteger
	// DecodeIntegerArray decodes every output as base-10 integer strings.
	DecodeIntegerArray
)

// Decoding is the decode strategy fixed when a descriptor is built.
type Decoding struct {
	Kind DecodeKind
}

func Text() Decoding         { return Decoding{Kind: DecodeText} }
func Integer() Decoding      { return Decoding{Kind: DecodeInteger} }
func IntegerArray() Decoding { return Decoding{Kind: DecodeIntegerArray} }

// Custom marks a descriptor whose raw results are left to an interpreter.
func Custom() Decoding {
	return Decoding{Kind: DecodeCustom}
}

// CallSpec is one method invocation inside a descriptor.
type CallSpec struct {
	Reference string
	Method    string
	Args      []any
}

// Call builds a CallSpec. It is a plain constructor; Instructions validates it.
func Call(reference, method string, args ...any) CallSpec {
	return CallSpec{Reference: reference, Method: method, Args: args}
}

func (c CallSpec) validate() error {
	if c.Reference == "" {
		return fmt.Errorf("%w (method %q)", ErrEmptyReference, c.Method)
	}
	if c.Method == "" {
		return fmt.Errorf("%w (reference %q)", ErrEmptyMethod, c.Reference)
	}
	return nil
}

// CallDescriptor groups the calls made against one contract for one entity.
type CallDescriptor struct {
	CorrelationID string
	Target        common.Address
	ABI           *abi.ABI
	Context       Context
	Decoding      Decoding
	Calls         []CallSpec
}

// Instructions builds a CallDescriptor. The context is copied and its id
// lower-cased so routing never depends on address casing.
func Instructions(
	correlationID string,
	target string,
	contractABI *abi.ABI,
	context Context,
	decoding Decoding,
	calls ...CallSpec,
) (CallDescriptor, error) {
	if correlationID == "" {
		return CallDescriptor{}, ErrMissingCorrelationID
	}
	id, ok := context.ID()
	if !ok {
		return CallDescriptor{}, fmt.Errorf("%w: descriptor %s", ErrMissingContextID, correlationID)
	}

	seen := make(map[string]struct{}, len(calls))
	for _, c := range calls {
		if err := c.validate(); err != nil {
			return CallDescriptor{}, fmt.Errorf("descriptor %s: %w", correlationID, err)
		}
		if _, dup := seen[c.Reference]; dup {
			return CallDescriptor{}, fmt.Errorf("%w: descriptor %s reference %s", ErrDuplicateReference, correlationID, c.Reference)
		}
		seen[c.Reference] = struct{}{}
	}

	ctx := context.clone()
	ctx[ContextID] = strings.ToLower(id)

	return CallDescriptor{
		CorrelationID: correlationID,
		Target:        common.HexToAddress(target),
		ABI:           contractABI,
		Context:       ctx,
		Decoding:      decoding,
		Calls:         calls,
	}, nil
}
