package service

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"options_sdk/internal/app/port"
	"options_sdk/internal/domain/entity"
)

var errMissingStatic = errors.New("missing static field")

// buildOption assembles an option graph from its statics. Only the option
// decimals are required; other unreadable fields stay at their zero value.
func buildOption(ref port.OptionRef, option, pool *entity.StaticFields, tokens map[string]*entity.StaticFields) (*entity.Option, error) {
	decimals, err := intField(option, "decimals")
	if err != nil {
		return nil, err
	}

	o := &entity.Option{Address: ref.Option, Decimals: decimals, StrikePrice: entity.Zero()}
	o.Name, _ = option.Get("name")
	o.Symbol, _ = option.Get("symbol")
	if v, err := intField(option, "optionType"); err == nil {
		o.Type = entity.OptionType(v)
	}
	if v, err := intField(option, "exerciseType"); err == nil {
		o.Exercise = entity.ExerciseType(v)
	}
	o.Expiration, _ = int64Field(option, "expiration")
	o.StartOfExerciseWindow, _ = int64Field(option, "startOfExerciseWindow")

	if strike, ok := option.Get("strikePrice"); ok {
		strikeDecimals, err := intField(option, "strikePriceDecimals")
		if err != nil {
			return nil, err
		}
		raw, ok := new(big.Int).SetString(strike, 10)
		if !ok {
			return nil, fmt.Errorf("invalid strike price %q", strike)
		}
		if o.StrikePrice, err = entity.NewValue(raw, strikeDecimals); err != nil {
			return nil, err
		}
	}

	o.UnderlyingAsset = assetToken(option, "underlyingAsset", "underlyingAssetDecimals", tokens)
	o.StrikeAsset = assetToken(option, "strikeAsset", "strikeAssetDecimals", tokens)

	if ref.Pool != "" && pool != nil {
		o.Pool = &entity.Pool{
			Address: ref.Pool,
			TokenA:  assetToken(pool, "tokenA", "tokenADecimals", tokens),
			TokenB:  assetToken(pool, "tokenB", "tokenBDecimals", tokens),
		}
		o.Pool.FeePoolA, _ = pool.Get("feePoolA")
		o.Pool.FeePoolB, _ = pool.Get("feePoolB")
	}
	return o, nil
}

// assetToken resolves the token named by addressField. Decimals come from
// decimalsField on the owning contract, else from the token's own statics.
func assetToken(owner *entity.StaticFields, addressField, decimalsField string, tokens map[string]*entity.StaticFields) *entity.Token {
	address, ok := owner.Get(addressField)
	if !ok || !isTokenAddress(address) {
		return nil
	}
	token := tokens[address]

	decimals, err := intField(owner, decimalsField)
	if err != nil {
		if decimals, err = intField(token, "decimals"); err != nil {
			return nil
		}
	}

	symbol, _ := token.Get("symbol")
	t := entity.NewToken(address, symbol, decimals)
	t.Name, _ = token.Get("name")
	return t
}

func intField(fields *entity.StaticFields, name string) (int, error) {
	v, ok := fields.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errMissingStatic, name)
	}
	return strconv.Atoi(v)
}

func int64Field(fields *entity.StaticFields, name string) (int64, error) {
	v, ok := fields.Get(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errMissingStatic, name)
	}
	return strconv.ParseInt(v, 10, 64)
}
