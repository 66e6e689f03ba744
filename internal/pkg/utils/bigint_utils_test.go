package utils

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHumanized_Scaling(t *testing.T) {
	raw, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)

	got, err := ToHumanized(raw, 18)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1.5")), "got %s", got)
	assert.Equal(t, "1.5", got.String())

	got, err = ToHumanized(big.NewInt(30000000), 6)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(30)), "got %s", got)
	assert.Equal(t, "30", got.String())
}

func TestToHumanized_NilIsZero(t *testing.T) {
	got, err := ToHumanized(nil, 18)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestToRaw_Truncates(t *testing.T) {
	got, err := ToRaw(decimal.RequireFromString("1.2345678"), 6)
	require.NoError(t, err)
	assert.Equal(t, "1234567", got.String())

	got, err = ToRaw(decimal.RequireFromString("-1.9999999"), 6)
	require.NoError(t, err)
	assert.Equal(t, "-1999999", got.String())

	got, err = ToRaw(decimal.RequireFromString("0.0000001"), 6)
	require.NoError(t, err)
	assert.Equal(t, "0", got.String())
}

func TestCodec_RoundTrip(t *testing.T) {
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	raws := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(999999),
		big.NewInt(1000000),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil),
		maxUint256,
	}

	for d := 0; d <= 30; d++ {
		for _, raw := range raws {
			humanized, err := ToHumanized(raw, d)
			require.NoError(t, err)
			back, err := ToRaw(humanized, d)
			require.NoError(t, err)
			assert.Equal(t, 0, raw.Cmp(back), "decimals=%d raw=%s back=%s", d, raw, back)
		}
	}
}

func TestCodec_InvalidDecimals(t *testing.T) {
	_, err := ToHumanized(big.NewInt(1), -1)
	assert.ErrorIs(t, err, ErrInvalidDecimals)

	_, err = ToRaw(decimal.NewFromInt(1), -3)
	assert.ErrorIs(t, err, ErrInvalidDecimals)

	_, err = OneUnit(-1)
	assert.ErrorIs(t, err, ErrInvalidDecimals)
}

func TestOneUnit(t *testing.T) {
	got, err := OneUnit(6)
	require.NoError(t, err)
	assert.Equal(t, "1000000", got.String())

	got, err = OneUnit(0)
	require.NoError(t, err)
	assert.Equal(t, "1", got.String())
}

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Chunk([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2, 3}}, Chunk([]int{1, 2, 3}, 0))
	assert.Empty(t, Chunk([]int{}, 3))
}
