package aggregator

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"options_sdk/internal/abis"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/multicall"
	"options_sdk/internal/pkg/logger"
	"options_sdk/internal/testutil"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	optionA = "0xa000000000000000000000000000000000000001"
	optionB = "0xb000000000000000000000000000000000000002"
	poolA   = "0xa00000000000000000000000000000000000000a"
	poolB   = "0xb00000000000000000000000000000000000000b"
	usdcAdr = "0xc000000000000000000000000000000000000006"
	wethAdr = "0xd000000000000000000000000000000000000018"
	capAdr  = "0xe000000000000000000000000000000000000000"
	user    = "0xF00000000000000000000000000000000000000F"
)

var (
	usdc = entity.NewToken(usdcAdr, "USDC", 6)
	weth = entity.NewToken(wethAdr, "WETH", 18)
)

func newOption(address, pool string) *entity.Option {
	o := &entity.Option{
		Address:         address,
		Decimals:        6,
		StrikeAsset:     usdc,
		UnderlyingAsset: weth,
	}
	if pool != "" {
		o.Pool = &entity.Pool{
			Address: pool,
			TokenA:  entity.NewToken(address, "POD", 6),
			TokenB:  usdc,
		}
	}
	return o
}

func newAggregator(t *testing.T) (*Aggregator, *abis.Set) {
	t.Helper()
	a, err := NewDefault(testutil.NewRegistry(137), logger.NewNop(), logger.Verbosity{Errors: true, Expected: true})
	require.NoError(t, err)
	set, err := abis.Load()
	require.NoError(t, err)
	return a, set
}

func raw(v *entity.Value) string {
	return v.Raw.String()
}

func TestGetGeneralDynamics_FailedEntityStillPresent(t *testing.T) {
	a, set := newAggregator(t)
	u := testutil.Uint

	chain := testutil.NewFakeChain(137).
		On(poolA, set.Pool, "getOptionTradeDetailsExactAInput", testutil.Reply{Values: []any{u(1800000), u(0), u(10000), u(20000)}}).
		On(poolA, set.Pool, "getOptionTradeDetailsExactAOutput", testutil.Reply{Values: []any{u(2100000), u(0), u(10000), u(30000)}}).
		On(poolA, set.Pool, "getABPrice", testutil.Reply{Values: []any{u(2000000)}}).
		On(poolA, set.Pool, "priceProperties", testutil.Reply{Values: []any{
			u(1700000000), u(1690000000), u(2000000000), common.HexToAddress(wethAdr), uint8(0),
			testutil.UintString("900000000000000000"), u(0), testutil.UintString("1000000000000000000"),
		}}).
		On(poolA, set.Pool, "getAdjustedIV", testutil.Reply{Values: []any{testutil.UintString("950000000000000000")}}).
		On(poolA, set.Pool, "getPoolBalances", testutil.Reply{Values: []any{u(10000000), u(50000000)}}).
		On(poolA, set.Pool, "getDeamortizedBalances", testutil.Reply{Values: []any{u(9000000), u(45000000)}}).
		On(optionA, set.Option, "totalSupply", testutil.Reply{Values: []any{u(25000000)}})

	out, err := a.GetGeneralDynamics(context.Background(), chain, []*entity.Option{newOption(optionA, poolA), newOption(optionB, poolB)})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1, chain.Requests)

	got := out[optionA]
	require.NotNil(t, got)
	assert.Equal(t, "1.8", got.SellingPrice.Value.Humanized.String())
	assert.Equal(t, "0.01", got.SellingPrice.FeesA.Humanized.String())
	assert.Equal(t, "2.1", got.BuyingPrice.Value.Humanized.String())
	assert.Equal(t, "2", got.ABPrice.Humanized.String())
	assert.Equal(t, "0.9", got.IV.Humanized.String())
	assert.Equal(t, "0.95", got.AdjustedIV.Humanized.String())
	assert.Equal(t, "10", got.TotalBalances.TokenA.Humanized.String())
	assert.Equal(t, "45", got.DeamortizedBalances.TokenB.Humanized.String())
	assert.Equal(t, "25", got.TotalSupply.Humanized.String())

	failed := out[optionB]
	require.NotNil(t, failed)
	require.NotNil(t, failed.SellingPrice)
	assert.True(t, failed.SellingPrice.Value.IsZero())
	assert.True(t, failed.BuyingPrice.FeesB.IsZero())
	assert.True(t, failed.ABPrice.IsZero())
	assert.True(t, failed.IV.IsZero())
	assert.True(t, failed.TotalBalances.TokenA.IsZero())
	assert.True(t, failed.TotalSupply.IsZero())

	quotes := chain.CallsTo("getOptionTradeDetailsExactAInput")
	require.Len(t, quotes, 1)
	assert.Equal(t, "1000000", quotes[0].Args[0].(*big.Int).String(), "priced at one whole tokenA")
}

func TestGetGeneralDynamics_SkipsOptionsWithoutPool(t *testing.T) {
	a, _ := newAggregator(t)
	chain := testutil.NewFakeChain(137)

	out, err := a.GetGeneralDynamics(context.Background(), chain, []*entity.Option{newOption(optionA, "")})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGetGeneralDynamics_MissingTokenBFailsFast(t *testing.T) {
	a, _ := newAggregator(t)
	chain := testutil.NewFakeChain(137)

	o := newOption(optionA, poolA)
	o.Pool.TokenB = nil

	out, err := a.GetGeneralDynamics(context.Background(), chain, []*entity.Option{o})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrMissingParameter)
	assert.Zero(t, chain.Requests)
}

func TestGetGeneralDynamics_BatchFailureReturnsNoMap(t *testing.T) {
	a, _ := newAggregator(t)
	chain := testutil.NewFakeChain(137)
	chain.CallErr = errors.New("dial tcp: i/o timeout")

	out, err := a.GetGeneralDynamics(context.Background(), chain, []*entity.Option{newOption(optionA, poolA)})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, multicall.ErrBatchDispatch)
}

func TestGetUserDynamics(t *testing.T) {
	a, set := newAggregator(t)
	u := testutil.Uint

	chain := testutil.NewFakeChain(137).
		On(poolA, set.Pool, "getRemoveLiquidityAmounts", testutil.Reply{Values: []any{u(3000000), u(1500000)}}).
		On(optionA, set.Option, "getSellerWithdrawAmounts", testutil.Reply{Values: []any{u(4000000), testutil.UintString("500000000000000000")}}).
		On(optionA, set.Option, "mintedOptions", testutil.Reply{Values: []any{u(2000000)}}).
		On(optionA, set.ERC20, "balanceOf", testutil.Reply{Values: []any{u(750000)}})

	out, err := a.GetUserDynamics(context.Background(), chain, user, []*entity.Option{newOption(optionA, poolA), newOption(optionB, "")})
	require.NoError(t, err)
	require.Len(t, out, 2)

	got := out[optionA]
	assert.Equal(t, "3", got.UserPositions.TokenA.Humanized.String())
	assert.Equal(t, "4", got.SellerWithdrawable.Strike.Humanized.String())
	assert.Equal(t, "0.5", got.SellerWithdrawable.Underlying.Humanized.String())
	assert.Equal(t, "2", got.MintedOptions.Humanized.String())
	assert.Equal(t, "0.75", got.OptionBalance.Humanized.String())

	noPool := out[optionB]
	assert.Nil(t, noPool.UserPositions)
	assert.True(t, noPool.MintedOptions.IsZero())

	removals := chain.CallsTo("getRemoveLiquidityAmounts")
	require.Len(t, removals, 1)
	assert.Equal(t, "100", removals[0].Args[0].(*big.Int).String())
	assert.Equal(t, common.HexToAddress(user), removals[0].Args[2])
}

func TestGetUserDynamics_InvalidUser(t *testing.T) {
	a, _ := newAggregator(t)
	_, err := a.GetUserDynamics(context.Background(), testutil.NewFakeChain(137), "not-an-address", nil)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func position(initial, removed int64) entity.Position {
	i, _ := entity.NewValue(big.NewInt(initial), 6)
	r, _ := entity.NewValue(big.NewInt(removed), 6)
	return entity.Position{Option: optionA, User: user, InitialOptionsProvided: i, FinalOptionsRemoved: r}
}

func TestPlanRebalance(t *testing.T) {
	tokenA := entity.NewToken(optionA, "POD", 6)
	removable := func(n int64) entity.Value {
		v, _ := entity.NewValue(big.NewInt(n), 6)
		return v
	}

	tests := []struct {
		name      string
		removable int64
		position  entity.Position
		method    string
		amount    string
		surplus   string
		shortage  string
	}{
		{"exact match sells zero", 1000000, position(1500000, 500000), "getOptionTradeDetailsExactAInput", "0", "0", "0"},
		{"surplus", 3000000, position(1000000, 0), "getOptionTradeDetailsExactAInput", "2000000", "2000000", "0"},
		{"shortage", 500000, position(1000000, 0), "getOptionTradeDetailsExactAOutput", "500000", "0", "500000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanRebalance(removable(tt.removable), tt.position, tokenA)
			require.NoError(t, err)
			assert.Equal(t, tt.method, plan.Method)
			assert.Equal(t, tt.amount, raw(&plan.Amount))
			assert.Equal(t, tt.surplus, raw(&plan.Surplus))
			assert.Equal(t, tt.shortage, raw(&plan.Shortage))
		})
	}

	_, err := PlanRebalance(removable(1), position(1, 0), nil)
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestGetUserRebalanceDynamics_ZeroDifferenceSellsZero(t *testing.T) {
	a, set := newAggregator(t)
	u := testutil.Uint

	chain := testutil.NewFakeChain(137).
		On(poolA, set.Pool, "getRemoveLiquidityAmounts", testutil.Reply{Values: []any{u(1000000), u(0)}}).
		On(optionA, set.Option, "mintedOptions", testutil.Reply{Values: []any{u(0)}}).
		On(optionA, set.ERC20, "balanceOf", testutil.Reply{Values: []any{u(0)}}).
		On(poolA, set.Pool, "getOptionTradeDetailsExactAInput", testutil.Reply{Fn: func(args []any) testutil.Reply {
			if args[0].(*big.Int).Sign() != 0 {
				return testutil.Reply{Revert: true}
			}
			return testutil.Reply{Values: []any{u(0), u(0), u(0), u(0)}}
		}})

	out, err := a.GetUserRebalanceDynamics(context.Background(), chain, user,
		[]*entity.Option{newOption(optionA, poolA)}, []entity.Position{position(1500000, 500000)})
	require.NoError(t, err)
	assert.Equal(t, 2, chain.Requests, "second batch runs after the first")

	inputs := chain.CallsTo("getOptionTradeDetailsExactAInput")
	require.Len(t, inputs, 1)
	assert.Equal(t, "0", inputs[0].Args[0].(*big.Int).String())
	assert.Empty(t, chain.CallsTo("getOptionTradeDetailsExactAOutput"))

	got := out[optionA]
	require.NotNil(t, got.RebalancePrice)
	require.NotNil(t, got.UserPositions, "first batch fields survive the merge")
	assert.True(t, got.RebalancePrice.Surplus.IsZero())
	assert.True(t, got.RebalancePrice.Shortage.IsZero())
	assert.True(t, got.RebalancePrice.Value.IsZero())
}

func TestGetUserRebalanceDynamics_Shortage(t *testing.T) {
	a, set := newAggregator(t)
	u := testutil.Uint

	chain := testutil.NewFakeChain(137).
		On(poolA, set.Pool, "getRemoveLiquidityAmounts", testutil.Reply{Values: []any{u(400000), u(0)}}).
		On(poolA, set.Pool, "getOptionTradeDetailsExactAOutput", testutil.Reply{Values: []any{u(1300000), u(0), u(0), u(5000)}})

	out, err := a.GetUserRebalanceDynamics(context.Background(), chain, user,
		[]*entity.Option{newOption(optionA, poolA), newOption(optionB, poolB)}, []entity.Position{position(1000000, 0)})
	require.NoError(t, err)

	outputs := chain.CallsTo("getOptionTradeDetailsExactAOutput")
	require.Len(t, outputs, 1)
	assert.Equal(t, "600000", outputs[0].Args[0].(*big.Int).String())

	got := out[optionA].RebalancePrice
	require.NotNil(t, got)
	assert.Equal(t, "1.3", got.Value.Humanized.String())
	assert.Equal(t, "0.6", got.Shortage.Humanized.String())
	assert.Nil(t, out[optionB].RebalancePrice, "no position known for B")
}

func TestGetStatics(t *testing.T) {
	a, set := newAggregator(t)

	chain := testutil.NewFakeChain(137).
		On(poolA, set.Pool, "tokenA", testutil.Reply{Values: []any{common.HexToAddress(optionA)}}).
		On(poolA, set.Pool, "tokenB", testutil.Reply{Values: []any{common.HexToAddress(usdcAdr)}}).
		On(poolA, set.Pool, "tokenADecimals", testutil.Reply{Values: []any{uint8(6)}}).
		On(poolA, set.Pool, "tokenBDecimals", testutil.Reply{Values: []any{uint8(6)}})

	out, err := a.GetPoolsStatics(context.Background(), chain, []string{"0xA00000000000000000000000000000000000000A", poolB})
	require.NoError(t, err)
	require.Len(t, out, 2)

	statics := out[poolA]
	assert.Equal(t, optionA, statics.Values["tokenA"])
	assert.Equal(t, "6", statics.Values["tokenBDecimals"])
	_, ok := statics.Get("feePoolA")
	assert.False(t, ok, "reverted field is omitted")

	assert.Empty(t, out[poolB].Values)
}

func TestGetOptionCaps(t *testing.T) {
	a, set := newAggregator(t)

	chain := testutil.NewFakeChain(137).
		On(capAdr, set.CapProvider, "getCap", testutil.Reply{Fn: func(args []any) testutil.Reply {
			if args[0].(common.Address) == common.HexToAddress(optionA) {
				return testutil.Reply{Values: []any{testutil.Uint(100000000)}}
			}
			return testutil.Reply{Revert: true}
		}})

	out, err := a.GetOptionCaps(context.Background(), chain, capAdr, []*entity.Option{newOption(optionA, poolA), newOption(optionB, poolB)})
	require.NoError(t, err)
	assert.Equal(t, "100", out[optionA].Cap.Humanized.String())
	assert.True(t, out[optionB].Cap.IsZero())

	_, err = a.GetOptionCaps(context.Background(), chain, "", nil)
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestGetProtocolConfiguration(t *testing.T) {
	a, set := newAggregator(t)
	manager := "0x1000000000000000000000000000000000000001"
	ivProvider := "0x2000000000000000000000000000000000000002"

	chain := testutil.NewFakeChain(137).
		On(manager, set.ConfigurationManager, "getIVProvider", testutil.Reply{Values: []any{common.HexToAddress(ivProvider)}})

	statics, err := a.GetProtocolConfiguration(context.Background(), chain, manager)
	require.NoError(t, err)
	v, ok := statics.Get("getIVProvider")
	require.True(t, ok)
	assert.Equal(t, ivProvider, v)
}
