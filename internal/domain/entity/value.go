package entity

import (
	"encoding/json"
	"math/big"

	"options_sdk/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

// Value is a token amount carried in both its on-chain integer form and its
// decimal-scaled form.
type Value struct {
	Raw       *big.Int
	Humanized decimal.Decimal
	Label     string
}

// Zero returns the sentinel value used when a call failed or inputs are absent.
// Each call returns a fresh Raw so callers can never mutate a shared sentinel.
func Zero() Value {
	return Value{Raw: big.NewInt(0), Humanized: decimal.Zero}
}

// NewValue scales raw by 10^decimals.
func NewValue(raw *big.Int, decimals int) (Value, error) {
	humanized, err := utils.ToHumanized(raw, decimals)
	if err != nil {
		return Zero(), err
	}
	if raw == nil {
		raw = big.NewInt(0)
	}
	return Value{Raw: new(big.Int).Set(raw), Humanized: humanized}, nil
}

// NewValueFromHumanized builds a value from a decimal amount, truncating the raw side.
func NewValueFromHumanized(humanized decimal.Decimal, decimals int) (Value, error) {
	raw, err := utils.ToRaw(humanized, decimals)
	if err != nil {
		return Zero(), err
	}
	return NewValue(raw, decimals)
}

// WithLabel returns a copy of v carrying label.
func (v Value) WithLabel(label string) Value {
	v.Label = label
	return v
}

// IsZero reports whether the raw amount is zero or unset.
func (v Value) IsZero() bool {
	return v.Raw == nil || v.Raw.Sign() == 0
}

type valueJSON struct {
	Raw       string `json:"raw"`
	Humanized string `json:"humanized"`
	Label     string `json:"label,omitempty"`
}

// MarshalJSON encodes both sides as strings so no precision is lost to floats.
func (v Value) MarshalJSON() ([]byte, error) {
	raw := "0"
	if v.Raw != nil {
		raw = v.Raw.String()
	}
	return json.Marshal(valueJSON{Raw: raw, Humanized: v.Humanized.String(), Label: v.Label})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var aux valueJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	raw, ok := new(big.Int).SetString(aux.Raw, 10)
	if !ok {
		raw = big.NewInt(0)
	}
	humanized, err := decimal.NewFromString(aux.Humanized)
	if err != nil {
		return err
	}
	v.Raw, v.Humanized, v.Label = raw, humanized, aux.Label
	return nil
}
