package entity

import "strings"

// OptionType mirrors the on-chain enum.
type OptionType int

const (
	OptionTypePut OptionType = iota
	OptionTypeCall
)

func (t OptionType) String() string {
	if t == OptionTypeCall {
		return "call"
	}
	return "put"
}

// ExerciseType mirrors the on-chain enum.
type ExerciseType int

const (
	ExerciseTypeEuropean ExerciseType = iota
	ExerciseTypeAmerican
)

// Pool is the AMM pool trading an option (tokenA) against a stable asset (tokenB).
type Pool struct {
	Address  string `json:"address"`
	TokenA   *Token `json:"tokenA,omitempty"`
	TokenB   *Token `json:"tokenB,omitempty"`
	FeePoolA string `json:"feePoolA,omitempty"`
	FeePoolB string `json:"feePoolB,omitempty"`
}

// Option is a tokenized option contract and, when one exists, its pool.
type Option struct {
	Address               string       `json:"address"`
	Name                  string       `json:"name,omitempty"`
	Symbol                string       `json:"symbol,omitempty"`
	Decimals              int          `json:"decimals"`
	Type                  OptionType   `json:"type"`
	Exercise              ExerciseType `json:"exerciseType"`
	StrikePrice           Value        `json:"strikePrice"`
	Expiration            int64        `json:"expiration"`
	StartOfExerciseWindow int64        `json:"startOfExerciseWindow"`
	UnderlyingAsset       *Token       `json:"underlyingAsset,omitempty"`
	StrikeAsset           *Token       `json:"strikeAsset,omitempty"`
	Pool                  *Pool        `json:"pool,omitempty"`
}

// ID is the lower-cased address every metrics map is keyed by.
func (o *Option) ID() string {
	return strings.ToLower(o.Address)
}

// PoolAddress returns the pool address or "" when the option has no pool.
func (o *Option) PoolAddress() string {
	if o.Pool == nil {
		return ""
	}
	return strings.ToLower(o.Pool.Address)
}
