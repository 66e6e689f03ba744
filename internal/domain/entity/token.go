package entity

import "strings"

// Token holds the static details of an ERC20 the protocol trades.
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Decimals int    `json:"decimals"`
}

// NewToken returns a token with a lower-cased address.
func NewToken(address, symbol string, decimals int) *Token {
	return &Token{Address: strings.ToLower(address), Symbol: symbol, Decimals: decimals}
}

// ZeroAddress represents the Ethereum zero address.
const ZeroAddress = "0x0000000000000000000000000000000000000000"
