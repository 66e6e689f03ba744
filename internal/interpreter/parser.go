package interpreter

import (
	"errors"
	"fmt"

	"options_sdk/internal/domain/entity"
	"options_sdk/internal/multicall"
)

// IVDecimals is the fixed precision of sigma values in the pool contracts.
const IVDecimals = 18

var (
	// ErrCallFailed means the wrapped call reverted.
	ErrCallFailed = errors.New("call failed")
	// ErrEmptyResult means the call succeeded with nothing to decode.
	ErrEmptyResult = errors.New("call returned no values")
	// ErrMalformedResult means the return payload did not have the expected shape.
	ErrMalformedResult = errors.New("malformed call result")
	// ErrMissingMetadata means the token or option needed to scale a result is unknown.
	ErrMissingMetadata = errors.New("missing token metadata")
)

// quoteLayout describes where a trade quote keeps its fields in the return tuple.
const (
	quoteAmount = 0
	quoteFeesA  = 2
	quoteFeesB  = 3
	sigmaIndex  = 5
)

// resultErr classifies why r carries no usable values.
func resultErr(r multicall.CallResult) error {
	if !r.Success {
		return ErrCallFailed
	}
	if r.DecodeErr != nil {
		if errors.Is(r.DecodeErr, multicall.ErrEmptyReturnData) {
			return ErrEmptyResult
		}
		return fmt.Errorf("%w: %v", ErrMalformedResult, r.DecodeErr)
	}
	if len(r.Values) == 0 {
		return ErrEmptyResult
	}
	return nil
}

func valueAt(r multicall.CallResult, index, decimals int) (entity.Value, error) {
	raw, err := multicall.BigIntAt(r.Values, index)
	if err != nil {
		return entity.Zero(), fmt.Errorf("%w: %s[%d]: %v", ErrMalformedResult, r.Method, index, err)
	}
	v, err := entity.NewValue(raw, decimals)
	if err != nil {
		return entity.Zero(), fmt.Errorf("%w: %v", ErrMissingMetadata, err)
	}
	return v, nil
}

func decimalsOf(tokens ...*entity.Token) error {
	for _, t := range tokens {
		if t == nil {
			return ErrMissingMetadata
		}
	}
	return nil
}

func parseScalar(r multicall.CallResult, index, decimals int) (entity.Value, error) {
	if err := resultErr(r); err != nil {
		return entity.Zero(), err
	}
	return valueAt(r, index, decimals)
}

// parseQuote reads (amount, newIV, feesA, feesB); amount is denominated in tokenB.
func parseQuote(r multicall.CallResult, tokenA, tokenB *entity.Token) (entity.PriceQuote, error) {
	if err := decimalsOf(tokenA, tokenB); err != nil {
		return entity.ZeroQuote(), err
	}
	if err := resultErr(r); err != nil {
		return entity.ZeroQuote(), err
	}

	value, err := valueAt(r, quoteAmount, tokenB.Decimals)
	if err != nil {
		return entity.ZeroQuote(), err
	}
	feesA, err := valueAt(r, quoteFeesA, tokenA.Decimals)
	if err != nil {
		return entity.ZeroQuote(), err
	}
	feesB, err := valueAt(r, quoteFeesB, tokenB.Decimals)
	if err != nil {
		return entity.ZeroQuote(), err
	}
	return entity.PriceQuote{Value: value, FeesA: feesA, FeesB: feesB}, nil
}

func parsePair(r multicall.CallResult, tokenA, tokenB *entity.Token) (entity.BalancePair, error) {
	if err := decimalsOf(tokenA, tokenB); err != nil {
		return entity.ZeroPair(), err
	}
	if err := resultErr(r); err != nil {
		return entity.ZeroPair(), err
	}

	a, err := valueAt(r, 0, tokenA.Decimals)
	if err != nil {
		return entity.ZeroPair(), err
	}
	b, err := valueAt(r, 1, tokenB.Decimals)
	if err != nil {
		return entity.ZeroPair(), err
	}
	return entity.BalancePair{TokenA: a, TokenB: b}, nil
}

func parseWithdraw(r multicall.CallResult, strike, underlying *entity.Token) (entity.WithdrawAmounts, error) {
	if err := decimalsOf(strike, underlying); err != nil {
		return entity.ZeroWithdraw(), err
	}
	if err := resultErr(r); err != nil {
		return entity.ZeroWithdraw(), err
	}

	s, err := valueAt(r, 0, strike.Decimals)
	if err != nil {
		return entity.ZeroWithdraw(), err
	}
	u, err := valueAt(r, 1, underlying.Decimals)
	if err != nil {
		return entity.ZeroWithdraw(), err
	}
	return entity.WithdrawAmounts{Strike: s, Underlying: u}, nil
}

func parseRebalance(r multicall.CallResult, ctx multicall.Context, tokenA, tokenB *entity.Token) (entity.RebalanceQuote, error) {
	out := entity.RebalanceQuote{
		PriceQuote: entity.ZeroQuote(),
		Surplus:    contextValue(ctx, ContextSurplus),
		Shortage:   contextValue(ctx, ContextShortage),
	}
	quote, err := parseQuote(r, tokenA, tokenB)
	if err != nil {
		return out, err
	}
	out.PriceQuote = quote
	return out, nil
}

// Context keys the rebalance aggregator stores its precomputed amounts under.
const (
	ContextSurplus  = "surplus"
	ContextShortage = "shortage"
)

func contextValue(ctx multicall.Context, key string) entity.Value {
	if v, ok := ctx[key].(entity.Value); ok {
		return v.WithLabel(key)
	}
	return entity.Zero().WithLabel(key)
}
