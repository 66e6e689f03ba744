package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"options_sdk/internal/config"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/pkg/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     jsoniter.RawMessage `json:"id"`
	Method string              `json:"method"`
}

// rpcServer answers eth_chainId with chainID and eth_call with callResult.
func rpcServer(t *testing.T, chainID, callResult string, chainIDCalls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req rpcRequest
		require.NoError(t, jsoniter.Unmarshal(body, &req))

		result := callResult
		if req.Method == "eth_chainId" {
			atomic.AddInt32(chainIDCalls, 1)
			result = chainID
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":"` + result + `"}`))
	}))
}

func testProvider() *evmClientProvider {
	return NewEVMClientProvider(
		config.RpcClientConfig{DefaultTimeoutMs: 2000, ConnectTimeoutMs: 2000, RateLimit: 100, BurstLimit: 100},
		config.CacheConfig{ChainIDTTLMinutes: 5, CleanupIntervalMinutes: 1},
		logger.NewNop(),
	).(*evmClientProvider)
}

func TestEVMClient_ChainIDIsCached(t *testing.T) {
	var calls int32
	srv := rpcServer(t, "0x89", "0x", &calls)
	defer srv.Close()

	p := testProvider()
	provider, err := p.GetProvider(entity.NetworkDefinition{ChainID: 137, Identifier: "polygon", PrimaryRPCURL: srv.URL})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		id, err := provider.ChainID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(137), id.Uint64())
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	again, err := p.GetProvider(entity.NetworkDefinition{ChainID: 137, Identifier: "polygon", PrimaryRPCURL: srv.URL})
	require.NoError(t, err)
	assert.Same(t, provider, again)
}

func TestEVMClient_ChainMismatch(t *testing.T) {
	var calls int32
	srv := rpcServer(t, "0x1", "0x", &calls)
	defer srv.Close()

	provider, err := testProvider().GetProvider(entity.NetworkDefinition{ChainID: 137, Identifier: "polygon", PrimaryRPCURL: srv.URL})
	require.NoError(t, err)

	_, err = provider.ChainID(context.Background())
	assert.ErrorIs(t, err, ErrChainMismatch)
}

func TestEVMClient_CallContract(t *testing.T) {
	var calls int32
	srv := rpcServer(t, "0x89", "0x0000000000000000000000000000000000000000000000000000000000000007", &calls)
	defer srv.Close()

	provider, err := testProvider().GetProvider(entity.NetworkDefinition{ChainID: 137, Identifier: "polygon", PrimaryRPCURL: srv.URL})
	require.NoError(t, err)

	to := common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")
	out, err := provider.CallContract(context.Background(), ethereum.CallMsg{To: &to, Data: []byte{0x42, 0xcb, 0xb1, 0x5c}}, nil)
	require.NoError(t, err)
	require.Len(t, out, 32)
	assert.Equal(t, byte(7), out[31])
}

func TestGetProvider_NoRPC(t *testing.T) {
	_, err := testProvider().GetProvider(entity.NetworkDefinition{ChainID: 5, Identifier: "empty"})
	assert.Error(t, err)
}
