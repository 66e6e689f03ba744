package abis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllContractKinds(t *testing.T) {
	set, err := Load()
	require.NoError(t, err)

	for _, method := range []string{"getOptionTradeDetailsExactAInput", "getOptionTradeDetailsExactAOutput", "getABPrice", "priceProperties", "getRemoveLiquidityAmounts"} {
		_, ok := set.Pool.Methods[method]
		assert.True(t, ok, "pool method %s", method)
	}
	for _, method := range []string{"getSellerWithdrawAmounts", "mintedOptions", "balanceOf", "strikePrice"} {
		_, ok := set.Option.Methods[method]
		assert.True(t, ok, "option method %s", method)
	}
	_, ok := set.Multicall3.Methods["aggregate3"]
	assert.True(t, ok)
	_, ok = set.CapProvider.Methods["getCap"]
	assert.True(t, ok)

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, set, again)
}

func TestPriceProperties_SigmaAtIndexFive(t *testing.T) {
	poolABI, err := GetPoolABI()
	require.NoError(t, err)
	outputs := poolABI.Methods["priceProperties"].Outputs
	require.Len(t, outputs, 8)
	assert.Equal(t, "currentSigma", outputs[5].Name)
}
