package aggregator

import (
	"context"
	"fmt"
	"math/big"

	"options_sdk/internal/app/port"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/multicall"
	"options_sdk/internal/pkg/utils"
)

// Call references used across the dynamics batches.
const (
	refSellingPrice        = "sellingPrice"
	refBuyingPrice         = "buyingPrice"
	refABPrice             = "abPrice"
	refIV                  = "iv"
	refAdjustedIV          = "adjustedIV"
	refTotalBalances       = "totalBalances"
	refDeamortizedBalances = "deamortizedBalances"
	refTotalSupply         = "totalSupply"
	refUserPositions       = "userPositions"
	refSellerWithdrawable  = "sellerWithdrawable"
	refMintedOptions       = "mintedOptions"
	refOptionBalance       = "optionBalance"
	refRebalancePrice      = "rebalancePrice"
	refCap                 = "cap"
)

// removeAll is the percentage passed for both pool sides when asking how much
// a user could withdraw.
var removeAll = big.NewInt(100)

// GetGeneralDynamics reads live pricing for every option with a pool. Options
// whose pool or tokenA is unknown are skipped; an unknown tokenB is an error.
func (a *Aggregator) GetGeneralDynamics(ctx context.Context, provider port.ChainProvider, options []*entity.Option) (entity.MetricsMap, error) {
	var (
		descriptors []multicall.CallDescriptor
		included    []*entity.Option
	)

	for _, o := range uniqueOptions(options) {
		if o.Pool == nil || o.Pool.TokenA == nil {
			a.logger.Warn("skipping option without pool", "option", o.ID())
			continue
		}
		if o.Pool.TokenB == nil {
			return nil, fmt.Errorf("%w: tokenB decimals of pool %s", ErrMissingParameter, o.PoolAddress())
		}
		unit, err := utils.OneUnit(o.Pool.TokenA.Decimals)
		if err != nil {
			return nil, fmt.Errorf("%w: tokenA decimals of pool %s: %v", ErrMissingParameter, o.PoolAddress(), err)
		}

		id := o.ID()
		pool, err := multicall.Instructions(
			correlationID("pool-general", id), o.PoolAddress(), a.abis.Pool,
			multicall.Context{multicall.ContextID: id}, multicall.Custom(),
			multicall.Call(refSellingPrice, "getOptionTradeDetailsExactAInput", unit),
			multicall.Call(refBuyingPrice, "getOptionTradeDetailsExactAOutput", unit),
			multicall.Call(refABPrice, "getABPrice"),
			multicall.Call(refIV, "priceProperties"),
			multicall.Call(refAdjustedIV, "getAdjustedIV"),
			multicall.Call(refTotalBalances, "getPoolBalances"),
			multicall.Call(refDeamortizedBalances, "getDeamortizedBalances"),
		)
		if err != nil {
			return nil, err
		}
		option, err := multicall.Instructions(
			correlationID("option-general", id), id, a.abis.Option,
			multicall.Context{multicall.ContextID: id}, multicall.Custom(),
			multicall.Call(refTotalSupply, "totalSupply"),
		)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, pool, option)
		included = append(included, o)
	}

	batch, err := a.engine.Execute(ctx, provider, descriptors)
	if err != nil {
		return nil, err
	}
	routed := multicall.Route(batch)

	out := make(entity.MetricsMap, len(included))
	for _, o := range included {
		slots := routed.Entity(o.ID())
		tokenA, tokenB := o.Pool.TokenA, o.Pool.TokenB

		selling := a.interpreter.SellingPrice(callResult(slots, refSellingPrice), tokenA, tokenB)
		buying := a.interpreter.BuyingPrice(callResult(slots, refBuyingPrice), tokenA, tokenB)
		abPrice := a.interpreter.ABPrice(callResult(slots, refABPrice), tokenB)
		iv := a.interpreter.IV(callResult(slots, refIV))
		adjustedIV := a.interpreter.AdjustedIV(callResult(slots, refAdjustedIV))
		total := a.interpreter.TotalBalances(callResult(slots, refTotalBalances), tokenA, tokenB)
		deamortized := a.interpreter.DeamortizedBalances(callResult(slots, refDeamortizedBalances), tokenA, tokenB)
		supply := a.interpreter.TotalSupply(callResult(slots, refTotalSupply), o)

		m := out.Entry(o.ID())
		m.SellingPrice = &selling
		m.BuyingPrice = &buying
		m.ABPrice = &abPrice
		m.IV = &iv
		m.AdjustedIV = &adjustedIV
		m.TotalBalances = &total
		m.DeamortizedBalances = &deamortized
		m.TotalSupply = &supply
	}
	return out, nil
}

// GetUserDynamics reads a user's position in every option: removable pool
// liquidity, seller withdrawable amounts, minted options and wallet balance.
func (a *Aggregator) GetUserDynamics(ctx context.Context, provider port.ChainProvider, user string, options []*entity.Option) (entity.MetricsMap, error) {
	holder, _, err := normalizeAddress(user)
	if err != nil {
		return nil, err
	}

	options = uniqueOptions(options)
	var descriptors []multicall.CallDescriptor

	for _, o := range options {
		id := o.ID()
		idContext := multicall.Context{multicall.ContextID: id}

		if o.Pool != nil && o.Pool.TokenA != nil && o.Pool.TokenB != nil {
			pool, err := multicall.Instructions(
				correlationID("pool-user", id), o.PoolAddress(), a.abis.Pool, idContext, multicall.Custom(),
				multicall.Call(refUserPositions, "getRemoveLiquidityAmounts", removeAll, removeAll, holder),
			)
			if err != nil {
				return nil, err
			}
			descriptors = append(descriptors, pool)
		}

		option, err := multicall.Instructions(
			correlationID("option-user", id), id, a.abis.Option, idContext, multicall.Custom(),
			multicall.Call(refSellerWithdrawable, "getSellerWithdrawAmounts", holder),
			multicall.Call(refMintedOptions, "mintedOptions", holder),
		)
		if err != nil {
			return nil, err
		}
		token, err := multicall.Instructions(
			correlationID("token-user", id), id, a.abis.ERC20, idContext, multicall.Custom(),
			multicall.Call(refOptionBalance, "balanceOf", holder),
		)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, option, token)
	}

	batch, err := a.engine.Execute(ctx, provider, descriptors)
	if err != nil {
		return nil, err
	}
	routed := multicall.Route(batch)

	out := make(entity.MetricsMap, len(options))
	for _, o := range options {
		slots := routed.Entity(o.ID())
		m := out.Entry(o.ID())

		if _, ok := slots[refUserPositions]; ok {
			positions := a.interpreter.UserRemovableLiquidity(callResult(slots, refUserPositions), o.Pool.TokenA, o.Pool.TokenB)
			m.UserPositions = &positions
		}
		withdrawable := a.interpreter.SellerWithdrawAmounts(callResult(slots, refSellerWithdrawable), o.StrikeAsset, o.UnderlyingAsset)
		minted := a.interpreter.MintedOptions(callResult(slots, refMintedOptions), o)
		balance := a.interpreter.OptionBalance(callResult(slots, refOptionBalance), o)

		m.SellerWithdrawable = &withdrawable
		m.MintedOptions = &minted
		m.OptionBalance = &balance
	}
	return out, nil
}
