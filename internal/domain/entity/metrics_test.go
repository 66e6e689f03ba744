package entity

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMap_MergeKeepsEarlierFields(t *testing.T) {
	abPrice, err := NewValue(big.NewInt(2500000), 6)
	require.NoError(t, err)
	pair := ZeroPair()

	first := MetricsMap{}
	first.Entry("0xABC").ABPrice = &abPrice

	second := MetricsMap{}
	second.Entry("0xabc").UserPositions = &pair

	first.Merge(second)

	require.Len(t, first, 1)
	m := first["0xabc"]
	require.NotNil(t, m.ABPrice)
	assert.Equal(t, "2.5", m.ABPrice.Humanized.String())
	assert.NotNil(t, m.UserPositions)
}

func TestZero_IsFresh(t *testing.T) {
	a := Zero()
	a.Raw.SetInt64(7)
	assert.True(t, Zero().IsZero())
}

func TestValue_JSON(t *testing.T) {
	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	v, err := NewValue(raw, 18)
	require.NoError(t, err)

	data, err := json.Marshal(v.WithLabel("premium"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":"1500000000000000000","humanized":"1.5","label":"premium"}`, string(data))

	var back Value
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 0, back.Raw.Cmp(raw))
	assert.True(t, back.Humanized.Equal(v.Humanized))
}

func TestPosition_OptionsOutstanding(t *testing.T) {
	initial, _ := NewValue(big.NewInt(3000000), 6)
	removed, _ := NewValue(big.NewInt(1000000), 6)
	p := Position{InitialOptionsProvided: initial, FinalOptionsRemoved: removed}

	out := p.OptionsOutstanding()
	assert.Equal(t, "2000000", out.Raw.String())
	assert.Equal(t, "2", out.Humanized.String())
}
