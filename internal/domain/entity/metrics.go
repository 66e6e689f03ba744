package entity

import "strings"

// PriceQuote is a trade quote together with the fees charged on each pool side.
type PriceQuote struct {
	Value Value `json:"value"`
	FeesA Value `json:"feesA"`
	FeesB Value `json:"feesB"`
}

// ZeroQuote is the PriceQuote sentinel.
func ZeroQuote() PriceQuote {
	return PriceQuote{Value: Zero(), FeesA: Zero(), FeesB: Zero()}
}

// BalancePair holds one amount per pool side.
type BalancePair struct {
	TokenA Value `json:"tokenA"`
	TokenB Value `json:"tokenB"`
}

// ZeroPair is the BalancePair sentinel.
func ZeroPair() BalancePair {
	return BalancePair{TokenA: Zero(), TokenB: Zero()}
}

// WithdrawAmounts is what an option seller can withdraw, per collateral asset.
type WithdrawAmounts struct {
	Strike     Value `json:"strike"`
	Underlying Value `json:"underlying"`
}

// ZeroWithdraw is the WithdrawAmounts sentinel.
func ZeroWithdraw() WithdrawAmounts {
	return WithdrawAmounts{Strike: Zero(), Underlying: Zero()}
}

// RebalanceQuote prices bringing a liquidity position back to its provided size.
// Surplus and Shortage echo the amounts the quote was requested for.
type RebalanceQuote struct {
	PriceQuote
	Surplus  Value `json:"surplus"`
	Shortage Value `json:"shortage"`
}

// Metrics is the named metrics object of one option. Fields stay nil until a
// batch decodes them, which is what lets partial objects merge across batches.
type Metrics struct {
	SellingPrice        *PriceQuote      `json:"sellingPrice,omitempty"`
	BuyingPrice         *PriceQuote      `json:"buyingPrice,omitempty"`
	ABPrice             *Value           `json:"abPrice,omitempty"`
	IV                  *Value           `json:"iv,omitempty"`
	AdjustedIV          *Value           `json:"adjustedIV,omitempty"`
	TotalBalances       *BalancePair     `json:"totalBalances,omitempty"`
	DeamortizedBalances *BalancePair     `json:"deamortizedBalances,omitempty"`
	TotalSupply         *Value           `json:"totalSupply,omitempty"`
	UserPositions       *BalancePair     `json:"userPositions,omitempty"`
	SellerWithdrawable  *WithdrawAmounts `json:"sellerWithdrawable,omitempty"`
	MintedOptions       *Value           `json:"mintedOptions,omitempty"`
	OptionBalance       *Value           `json:"optionBalance,omitempty"`
	RebalancePrice      *RebalanceQuote  `json:"rebalancePrice,omitempty"`
	Cap                 *Value           `json:"cap,omitempty"`
}

// Merge copies every field set in other onto m; fields other leaves nil are kept.
func (m *Metrics) Merge(other *Metrics) {
	if other == nil {
		return
	}
	if other.SellingPrice != nil {
		m.SellingPrice = other.SellingPrice
	}
	if other.BuyingPrice != nil {
		m.BuyingPrice = other.BuyingPrice
	}
	if other.ABPrice != nil {
		m.ABPrice = other.ABPrice
	}
	if other.IV != nil {
		m.IV = other.IV
	}
	if other.AdjustedIV != nil {
		m.AdjustedIV = other.AdjustedIV
	}
	if other.TotalBalances != nil {
		m.TotalBalances = other.TotalBalances
	}
	if other.DeamortizedBalances != nil {
		m.DeamortizedBalances = other.DeamortizedBalances
	}
	if other.TotalSupply != nil {
		m.TotalSupply = other.TotalSupply
	}
	if other.UserPositions != nil {
		m.UserPositions = other.UserPositions
	}
	if other.SellerWithdrawable != nil {
		m.SellerWithdrawable = other.SellerWithdrawable
	}
	if other.MintedOptions != nil {
		m.MintedOptions = other.MintedOptions
	}
	if other.OptionBalance != nil {
		m.OptionBalance = other.OptionBalance
	}
	if other.RebalancePrice != nil {
		m.RebalancePrice = other.RebalancePrice
	}
	if other.Cap != nil {
		m.Cap = other.Cap
	}
}

// MetricsMap is keyed by lower-cased entity address.
type MetricsMap map[string]*Metrics

// Entry returns the metrics object for id, creating it when absent.
func (mm MetricsMap) Entry(id string) *Metrics {
	id = strings.ToLower(id)
	m, ok := mm[id]
	if !ok {
		m = &Metrics{}
		mm[id] = m
	}
	return m
}

// Merge folds other into mm entity by entity.
func (mm MetricsMap) Merge(other MetricsMap) {
	for id, m := range other {
		mm.Entry(id).Merge(m)
	}
}

// StaticFields are the decoded static values of one contract, keyed by method name.
// Text and integer fields are kept as strings; integer-array fields as string slices.
type StaticFields struct {
	Values map[string]string   `json:"values"`
	Arrays map[string][]string `json:"arrays,omitempty"`
}

// NewStaticFields returns an empty StaticFields.
func NewStaticFields() *StaticFields {
	return &StaticFields{Values: make(map[string]string), Arrays: make(map[string][]string)}
}

// Get returns the named scalar field.
func (s *StaticFields) Get(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	v, ok := s.Values[name]
	return v, ok
}
