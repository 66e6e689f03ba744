package utils

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrInvalidDecimals is returned when a decimals count is negative.
var ErrInvalidDecimals = errors.New("invalid decimals")

func checkDecimals(decimals int) error {
	if decimals < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDecimals, decimals)
	}
	return nil
}

// ToHumanized divides a raw token amount by 10^decimals.
// The result is exact: the raw integer becomes the coefficient of the decimal
// and decimals its negative exponent, so 256-bit amounts lose no precision.
func ToHumanized(raw *big.Int, decimals int) (decimal.Decimal, error) {
	if err := checkDecimals(decimals); err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)), nil
}

// ToRaw multiplies a humanized amount by 10^decimals and truncates toward zero,
// matching the integer arithmetic the contracts apply to call arguments.
func ToRaw(humanized decimal.Decimal, decimals int) (*big.Int, error) {
	if err := checkDecimals(decimals); err != nil {
		return nil, err
	}
	return humanized.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// OneUnit returns 10^decimals, the raw size of one whole token.
func OneUnit(decimals int) (*big.Int, error) {
	if err := checkDecimals(decimals); err != nil {
		return nil, err
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil), nil
}
