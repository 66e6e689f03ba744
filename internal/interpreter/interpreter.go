// Package interpreter turns raw multicall results into decimal-scaled metrics.
//
// Every public method returns a value, never an error: a call that could not
// be decoded yields the zero sentinel. Reverts are expected for pricing and
// withdrawal lookups, which revert when the honest answer is zero, so they are
// only reported at the Expected verbosity. Balance and mint lookups must never
// revert for a valid address and are reported as errors.
package interpreter

import (
	"errors"

	"options_sdk/internal/app/port"
	"options_sdk/internal/domain/entity"
	"options_sdk/internal/multicall"
	"options_sdk/internal/pkg/logger"
)

// Interpreter applies a verbosity policy to the parsers.
type Interpreter struct {
	logger    port.Logger
	verbosity logger.Verbosity
}

func New(log port.Logger, verbosity logger.Verbosity) *Interpreter {
	if log == nil {
		log = logger.NewNop()
	}
	return &Interpreter{logger: log, verbosity: verbosity}
}

// report logs err according to the policy. mustSucceed promotes reverts to errors.
func (i *Interpreter) report(field string, r multicall.CallResult, err error, mustSucceed bool) {
	if err == nil {
		return
	}
	expected := !mustSucceed && (errors.Is(err, ErrCallFailed) || errors.Is(err, ErrEmptyResult))
	if expected {
		if i.verbosity.Expected {
			i.logger.Debug("call yielded no value", "field", field, "method", r.Method, "error", err)
		}
		return
	}
	if i.verbosity.Errors {
		i.logger.Error("failed to interpret call", "field", field, "method", r.Method, "error", err)
	}
}

// SellingPrice decodes getOptionTradeDetailsExactAInput.
func (i *Interpreter) SellingPrice(r multicall.CallResult, tokenA, tokenB *entity.Token) entity.PriceQuote {
	q, err := parseQuote(r, tokenA, tokenB)
	i.report("sellingPrice", r, err, false)
	return q
}

// BuyingPrice decodes getOptionTradeDetailsExactAOutput.
func (i *Interpreter) BuyingPrice(r multicall.CallResult, tokenA, tokenB *entity.Token) entity.PriceQuote {
	q, err := parseQuote(r, tokenA, tokenB)
	i.report("buyingPrice", r, err, false)
	return q
}

// ABPrice decodes the pool spot price, denominated in tokenB.
func (i *Interpreter) ABPrice(r multicall.CallResult, tokenB *entity.Token) entity.Value {
	if tokenB == nil {
		i.report("abPrice", r, ErrMissingMetadata, false)
		return entity.Zero()
	}
	v, err := parseScalar(r, 0, tokenB.Decimals)
	i.report("abPrice", r, err, false)
	return v
}

// IV reads currentSigma out of priceProperties.
func (i *Interpreter) IV(r multicall.CallResult) entity.Value {
	v, err := parseScalar(r, sigmaIndex, IVDecimals)
	i.report("iv", r, err, false)
	return v
}

func (i *Interpreter) AdjustedIV(r multicall.CallResult) entity.Value {
	v, err := parseScalar(r, 0, IVDecimals)
	i.report("adjustedIV", r, err, false)
	return v
}

func (i *Interpreter) TotalBalances(r multicall.CallResult, tokenA, tokenB *entity.Token) entity.BalancePair {
	p, err := parsePair(r, tokenA, tokenB)
	i.report("totalBalances", r, err, false)
	return p
}

func (i *Interpreter) DeamortizedBalances(r multicall.CallResult, tokenA, tokenB *entity.Token) entity.BalancePair {
	p, err := parsePair(r, tokenA, tokenB)
	i.report("deamortizedBalances", r, err, false)
	return p
}

// UserRemovableLiquidity decodes getRemoveLiquidityAmounts. A revert means
// the user has no position, so it decodes to a zero pair.
func (i *Interpreter) UserRemovableLiquidity(r multicall.CallResult, tokenA, tokenB *entity.Token) entity.BalancePair {
	p, err := parsePair(r, tokenA, tokenB)
	i.report("userPositions", r, err, false)
	return p
}

func (i *Interpreter) SellerWithdrawAmounts(r multicall.CallResult, strike, underlying *entity.Token) entity.WithdrawAmounts {
	w, err := parseWithdraw(r, strike, underlying)
	i.report("sellerWithdrawable", r, err, false)
	return w
}

// MintedOptions must never revert for a valid holder.
func (i *Interpreter) MintedOptions(r multicall.CallResult, option *entity.Option) entity.Value {
	return i.optionAmount("mintedOptions", r, option, true)
}

// OptionBalance must never revert for a valid holder.
func (i *Interpreter) OptionBalance(r multicall.CallResult, option *entity.Option) entity.Value {
	return i.optionAmount("optionBalance", r, option, true)
}

func (i *Interpreter) TotalSupply(r multicall.CallResult, option *entity.Option) entity.Value {
	return i.optionAmount("totalSupply", r, option, false)
}

// Cap decodes the cap provider's limit for an option; a revert means uncapped.
func (i *Interpreter) Cap(r multicall.CallResult, option *entity.Option) entity.Value {
	return i.optionAmount("cap", r, option, false)
}

func (i *Interpreter) optionAmount(field string, r multicall.CallResult, option *entity.Option, mustSucceed bool) entity.Value {
	if option == nil {
		i.report(field, r, ErrMissingMetadata, mustSucceed)
		return entity.Zero()
	}
	v, err := parseScalar(r, 0, option.Decimals)
	i.report(field, r, err, mustSucceed)
	return v
}

// RebalancePrice decodes the quote and echoes the surplus and shortage the
// quote was requested for from the descriptor context.
func (i *Interpreter) RebalancePrice(r multicall.CallResult, ctx multicall.Context, tokenA, tokenB *entity.Token) entity.RebalanceQuote {
	q, err := parseRebalance(r, ctx, tokenA, tokenB)
	i.report("rebalancePrice", r, err, false)
	return q
}
