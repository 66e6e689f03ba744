package entity

import "math/big"

// Position is a user's liquidity snapshot for one option, as indexed by the subgraph.
// Both amounts are denominated in option (tokenA) units.
type Position struct {
	Option                 string `json:"option"`
	User                   string `json:"user"`
	InitialOptionsProvided Value  `json:"initialOptionsProvided"`
	FinalOptionsRemoved    Value  `json:"finalOptionsRemoved"`
}

// OptionsOutstanding returns initialOptionsProvided - finalOptionsRemoved.
func (p *Position) OptionsOutstanding() Value {
	return Value{
		Raw:       new(big.Int).Sub(rawOrZero(p.InitialOptionsProvided), rawOrZero(p.FinalOptionsRemoved)),
		Humanized: p.InitialOptionsProvided.Humanized.Sub(p.FinalOptionsRemoved.Humanized),
	}
}

func rawOrZero(v Value) *big.Int {
	if v.Raw == nil {
		return big.NewInt(0)
	}
	return v.Raw
}
