package aggregator

import (
	"context"
	"fmt"
	"strings"

	"options_sdk/internal/app/port"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/interpreter"
	"options_sdk/internal/multicall"
)

// RebalancePlan is the quote request derived for one option from the user's
// removable liquidity and the options they originally provided.
type RebalancePlan struct {
	Surplus  entity.Value
	Shortage entity.Value
	Method   string
	Amount   entity.Value
}

// PlanRebalance compares the tokenA side the user can remove with what they
// still have outstanding in the pool. A positive difference is a surplus to
// sell; anything else is a shortage to buy. With no shortage the quote is for
// selling the surplus, which also covers an exact match (selling zero).
func PlanRebalance(removable entity.Value, position entity.Position, tokenA *entity.Token) (RebalancePlan, error) {
	if tokenA == nil {
		return RebalancePlan{}, fmt.Errorf("%w: tokenA", ErrMissingParameter)
	}

	initial := position.OptionsOutstanding()
	difference := removable.Humanized.Sub(initial.Humanized)

	surplus, shortage := entity.Zero(), entity.Zero()
	var err error
	if difference.IsPositive() {
		surplus, err = entity.NewValueFromHumanized(difference, tokenA.Decimals)
	} else {
		shortage, err = entity.NewValueFromHumanized(difference.Neg(), tokenA.Decimals)
	}
	if err != nil {
		return RebalancePlan{}, err
	}

	plan := RebalancePlan{Surplus: surplus, Shortage: shortage}
	if shortage.IsZero() {
		plan.Method, plan.Amount = "getOptionTradeDetailsExactAInput", surplus
	} else {
		plan.Method, plan.Amount = "getOptionTradeDetailsExactAOutput", shortage
	}
	return plan, nil
}

// GetUserRebalanceDynamics runs GetUserDynamics, derives a rebalance plan for
// every option with both removable liquidity and a known position, then
// prices the plans in a second batch. The returned map holds the user
// dynamics merged with the rebalance quotes.
func (a *Aggregator) GetUserRebalanceDynamics(
	ctx context.Context,
	provider port.ChainProvider,
	user string,
	options []*entity.Option,
	positions []entity.Position,
) (entity.MetricsMap, error) {
	dynamics, err := a.GetUserDynamics(ctx, provider, user, options)
	if err != nil {
		return nil, err
	}

	byOption := make(map[string]entity.Position, len(positions))
	for _, p := range positions {
		byOption[strings.ToLower(p.Option)] = p
	}

	var (
		descriptors []multicall.CallDescriptor
		planned     []*entity.Option
	)
	for _, o := range uniqueOptions(options) {
		m, ok := dynamics[o.ID()]
		if !ok || m.UserPositions == nil {
			continue
		}
		position, ok := byOption[o.ID()]
		if !ok {
			continue
		}

		plan, err := PlanRebalance(m.UserPositions.TokenA, position, o.Pool.TokenA)
		if err != nil {
			a.logger.Warn("skipping rebalance", "option", o.ID(), "error", err)
			continue
		}

		d, err := multicall.Instructions(
			correlationID("pool-rebalance", o.ID()), o.PoolAddress(), a.abis.Pool,
			multicall.Context{
				multicall.ContextID:         o.ID(),
				interpreter.ContextSurplus:  plan.Surplus,
				interpreter.ContextShortage: plan.Shortage,
			},
			multicall.Custom(),
			multicall.Call(refRebalancePrice, plan.Method, plan.Amount.Raw),
		)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
		planned = append(planned, o)
	}

	if len(descriptors) == 0 {
		return dynamics, nil
	}

	batch, err := a.engine.Execute(ctx, provider, descriptors)
	if err != nil {
		return nil, err
	}
	routed := multicall.Route(batch)

	rebalance := make(entity.MetricsMap, len(planned))
	for _, o := range planned {
		slots := routed.Entity(o.ID())
		slot, ok := slots[refRebalancePrice]
		if !ok {
			continue
		}
		quote := a.interpreter.RebalancePrice(slot.Result, slot.Context, o.Pool.TokenA, o.Pool.TokenB)
		rebalance.Entry(o.ID()).RebalancePrice = &quote
	}

	dynamics.Merge(rebalance)
	return dynamics, nil
}
