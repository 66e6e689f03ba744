package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"options_sdk/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func graphServer(t *testing.T, respond func(req entity.GraphQLRequest) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var req entity.GraphQLRequest
		assert.NoError(t, json.Unmarshal(body, &req))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, respond(req))
	}))
}

func TestGetOptions_Paginates(t *testing.T) {
	srv := graphServer(t, func(req entity.GraphQLRequest) string {
		assert.True(t, strings.HasPrefix(req.Query, "query Options"))
		if req.Variables["skip"].(float64) == 0 {
			return `{"data":{"options":[
				{"id":"0xAA00000000000000000000000000000000000001","decimals":"6","pool":{"id":"0xBB00000000000000000000000000000000000001"}},
				{"id":"0xaa00000000000000000000000000000000000002","decimals":"6","pool":null}
			]}}`
		}
		return `{"data":{"options":[{"id":"0xaa00000000000000000000000000000000000003","decimals":"18"}]}}`
	})
	defer srv.Close()

	c := NewSubgraphClient(2*time.Second, 2, zap.NewNop())
	refs, err := c.GetOptions(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "0xaa00000000000000000000000000000000000001", refs[0].Option)
	assert.Equal(t, "0xbb00000000000000000000000000000000000001", refs[0].Pool)
	assert.Empty(t, refs[1].Pool)
}

func TestGetOptions_DropsInvalidIDs(t *testing.T) {
	srv := graphServer(t, func(req entity.GraphQLRequest) string {
		return `{"data":{"options":[
			{"id":"not-an-address","decimals":"6","pool":{"id":"0xbb00000000000000000000000000000000000001"}},
			{"id":"0xaa00000000000000000000000000000000000001","decimals":"6","pool":{"id":"pool-1"}},
			{"id":"0xaa00000000000000000000000000000000000002","decimals":"6","pool":{"id":"0x0000000000000000000000000000000000000000"}},
			{"id":"0xaa00000000000000000000000000000000000003","decimals":"6","pool":{"id":"0xbb00000000000000000000000000000000000003"}}
		]}}`
	})
	defer srv.Close()

	c := NewSubgraphClient(2*time.Second, 100, zap.NewNop())
	refs, err := c.GetOptions(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "0xaa00000000000000000000000000000000000001", refs[0].Option)
	assert.Empty(t, refs[0].Pool)
	assert.Empty(t, refs[1].Pool)
	assert.Equal(t, "0xbb00000000000000000000000000000000000003", refs[2].Pool)
}

func TestGetPositions_ScalesByOptionDecimals(t *testing.T) {
	srv := graphServer(t, func(req entity.GraphQLRequest) string {
		assert.Equal(t, "0xabc0000000000000000000000000000000000001", req.Variables["user"])
		return `{"data":{"positions":[
			{"id":"p1","option":{"id":"0xAA00000000000000000000000000000000000001","decimals":"6"},"initialOptionsProvided":"3000000","finalOptionsRemoved":"1000000"},
			{"id":"p2","option":{"id":"0xaa00000000000000000000000000000000000002","decimals":"x"},"initialOptionsProvided":"1","finalOptionsRemoved":"0"}
		]}}`
	})
	defer srv.Close()

	c := NewSubgraphClient(2*time.Second, 100, zap.NewNop())
	positions, err := c.GetPositions(context.Background(), srv.URL, "0xABC0000000000000000000000000000000000001")
	require.NoError(t, err)
	require.Len(t, positions, 1, "malformed position skipped")

	p := positions[0]
	assert.Equal(t, "0xaa00000000000000000000000000000000000001", p.Option)
	assert.Equal(t, "3", p.InitialOptionsProvided.Humanized.String())
	assert.Equal(t, "2", p.OptionsOutstanding().Humanized.String())
}

func TestQuery_Errors(t *testing.T) {
	srv := graphServer(t, func(entity.GraphQLRequest) string {
		return `{"errors":[{"message":"indexing_error"}]}`
	})
	defer srv.Close()

	c := NewSubgraphClient(2*time.Second, 100, zap.NewNop())
	_, err := c.GetOptions(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrSubgraph)

	_, err = c.GetOptions(context.Background(), "")
	assert.ErrorIs(t, err, ErrSubgraph)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer failing.Close()
	_, err = c.GetPositions(context.Background(), failing.URL, "0xabc0000000000000000000000000000000000001")
	assert.Error(t, err)
}
