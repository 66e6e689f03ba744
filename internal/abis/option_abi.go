package abis

import "github.com/ethereum/go-ethereum/accounts/abi"

// GetOptionABI returns the option token interface (an ERC20 plus option terms).
func GetOptionABI() (*abi.ABI, error) {
	return ParseABI(`[
		{"inputs": [], "name": "name", "outputs": [{"name": "", "type": "string"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "symbol", "outputs": [{"name": "", "type": "string"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "decimals", "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "totalSupply", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [{"name": "owner", "type": "address"}], "name": "balanceOf", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "underlyingAsset", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "underlyingAssetDecimals", "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "strikeAsset", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "strikeAssetDecimals", "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "strikePrice", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "strikePriceDecimals", "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "expiration", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "startOfExerciseWindow", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "optionType", "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "exerciseType", "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
		{"inputs": [{"name": "owner", "type": "address"}], "name": "mintedOptions", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [{"name": "owner", "type": "address"}], "name": "getSellerWithdrawAmounts", "outputs": [{"name": "strikeAmount", "type": "uint256"}, {"name": "underlyingAmount", "type": "uint256"}], "stateMutability": "view", "type": "function"}
	]`)
}
