// Package testutil provides in-memory chain fakes shared by package tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"options_sdk/internal/abis"
	"options_sdk/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// MulticallAddress is the canonical Multicall3 deployment.
var MulticallAddress = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

// Reply is what FakeChain answers for one contract method.
type Reply struct {
	Values []any  // packed with the method's outputs
	Raw    []byte // returned as-is when set, as the revert payload when Revert is set
	Revert bool
	// Fn, when set, computes the reply from the decoded call arguments.
	Fn func(args []any) Reply
}

// RecordedCall is one wrapped call seen by FakeChain.
type RecordedCall struct {
	Target common.Address
	Method string
	Args   []any
}

type replyKey struct {
	target   string
	selector [4]byte
}

type registeredReply struct {
	method abi.Method
	reply  Reply
}

// FakeChain implements port.ChainProvider by decoding aggregate3 requests and
// answering each wrapped call from a table. Calls without an entry revert.
type FakeChain struct {
	mu sync.Mutex

	ChainIDValue int64
	ChainIDErr   error
	CallErr      error

	Requests int
	Calls    []RecordedCall

	replies   map[replyKey]registeredReply
	multicall *abi.ABI
}

// NewFakeChain creates a FakeChain reporting chainID.
func NewFakeChain(chainID int64) *FakeChain {
	multicallABI, err := abis.GetMulticall3ABI()
	if err != nil {
		panic(err)
	}
	return &FakeChain{
		ChainIDValue: chainID,
		replies:      make(map[replyKey]registeredReply),
		multicall:    multicallABI,
	}
}

// On registers the reply for method on target.
func (f *FakeChain) On(target string, contractABI *abi.ABI, method string, reply Reply) *FakeChain {
	m, ok := contractABI.Methods[method]
	if !ok {
		panic(fmt.Sprintf("unknown method %s", method))
	}
	var selector [4]byte
	copy(selector[:], m.ID)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[replyKey{target: strings.ToLower(common.HexToAddress(target).Hex()), selector: selector}] = registeredReply{method: m, reply: reply}
	return f
}

// CallsTo returns the recorded calls of method.
func (f *FakeChain) CallsTo(method string) []RecordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []RecordedCall
	for _, c := range f.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeChain) ChainID(_ context.Context) (*big.Int, error) {
	if f.ChainIDErr != nil {
		return nil, f.ChainIDErr
	}
	return big.NewInt(f.ChainIDValue), nil
}

type wrappedCall struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

type wrappedResult struct {
	Success    bool
	ReturnData []byte
}

func (f *FakeChain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests++

	if f.CallErr != nil {
		return nil, f.CallErr
	}
	if msg.To == nil || *msg.To != MulticallAddress {
		return nil, errors.New("call not addressed to the aggregator")
	}

	aggregate := f.multicall.Methods["aggregate3"]
	if len(msg.Data) < 4 {
		return nil, errors.New("short calldata")
	}
	vals, err := aggregate.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	var calls []wrappedCall
	if err := aggregate.Inputs.Copy(&calls, vals); err != nil {
		return nil, err
	}

	results := make([]wrappedResult, len(calls))
	for i, c := range calls {
		results[i] = f.answer(c)
	}
	return aggregate.Outputs.Pack(results)
}

func (f *FakeChain) answer(c wrappedCall) wrappedResult {
	if len(c.CallData) < 4 {
		return wrappedResult{}
	}
	var selector [4]byte
	copy(selector[:], c.CallData[:4])

	entry, ok := f.replies[replyKey{target: strings.ToLower(c.Target.Hex()), selector: selector}]
	if !ok {
		f.Calls = append(f.Calls, RecordedCall{Target: c.Target})
		return wrappedResult{}
	}

	args, err := entry.method.Inputs.Unpack(c.CallData[4:])
	if err != nil {
		return wrappedResult{}
	}
	f.Calls = append(f.Calls, RecordedCall{Target: c.Target, Method: entry.method.Name, Args: args})

	reply := entry.reply
	if reply.Fn != nil {
		reply = reply.Fn(args)
	}
	if reply.Revert {
		return wrappedResult{ReturnData: reply.Raw}
	}
	if reply.Raw != nil {
		return wrappedResult{Success: true, ReturnData: reply.Raw}
	}
	data, err := entry.method.Outputs.Pack(reply.Values...)
	if err != nil {
		panic(fmt.Sprintf("failed to pack reply for %s: %v", entry.method.Name, err))
	}
	return wrappedResult{Success: true, ReturnData: data}
}

// Registry is a NetworkRegistry backed by a map.
type Registry map[uint64]common.Address

// NewRegistry registers the canonical aggregator on every given chain.
func NewRegistry(chainIDs ...uint64) Registry {
	r := make(Registry, len(chainIDs))
	for _, id := range chainIDs {
		r[id] = MulticallAddress
	}
	return r
}

func (r Registry) MulticallAddress(chainID uint64) (common.Address, bool) {
	addr, ok := r[chainID]
	return addr, ok
}

func (r Registry) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	addr, ok := r[chainID]
	if !ok {
		return entity.NetworkDefinition{}, false
	}
	return entity.NetworkDefinition{ChainID: chainID, MulticallAddress: addr.Hex()}, true
}

// Uint converts n to the *big.Int the ABI packer expects for uint256 outputs.
func Uint(n int64) *big.Int {
	return big.NewInt(n)
}

// UintString parses a base-10 integer.
func UintString(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad integer " + s)
	}
	return n
}
