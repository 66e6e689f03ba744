package abis

import "github.com/ethereum/go-ethereum/accounts/abi"

// GetPoolABI returns the option AMM pool interface. Trade-detail methods return
// (amount, newIV, feesTokenA, feesTokenB).
func GetPoolABI() (*abi.ABI, error) {
	return ParseABI(`[
		{"inputs": [], "name": "tokenA", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "tokenB", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "tokenADecimals", "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "tokenBDecimals", "outputs": [{"name": "", "type": "uint8"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "feePoolA", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "feePoolB", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getABPrice", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getAdjustedIV", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getPoolBalances", "outputs": [{"name": "totalTokenA", "type": "uint256"}, {"name": "totalTokenB", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getDeamortizedBalances", "outputs": [{"name": "deamortizedTokenA", "type": "uint256"}, {"name": "deamortizedTokenB", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "priceProperties", "outputs": [
			{"name": "expiration", "type": "uint256"},
			{"name": "startOfDeamortization", "type": "uint256"},
			{"name": "strikePrice", "type": "uint256"},
			{"name": "underlyingAsset", "type": "address"},
			{"name": "optionType", "type": "uint8"},
			{"name": "currentSigma", "type": "uint256"},
			{"name": "riskFree", "type": "int256"},
			{"name": "initialIVGuess", "type": "uint256"}
		], "stateMutability": "view", "type": "function"},
		{"inputs": [{"name": "percentA", "type": "uint256"}, {"name": "percentB", "type": "uint256"}, {"name": "user", "type": "address"}], "name": "getRemoveLiquidityAmounts", "outputs": [{"name": "withdrawAmountA", "type": "uint256"}, {"name": "withdrawAmountB", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [{"name": "exactAmountAIn", "type": "uint256"}], "name": "getOptionTradeDetailsExactAInput", "outputs": [{"name": "amountBOut", "type": "uint256"}, {"name": "newIV", "type": "uint256"}, {"name": "feesTokenA", "type": "uint256"}, {"name": "feesTokenB", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [{"name": "exactAmountAOut", "type": "uint256"}], "name": "getOptionTradeDetailsExactAOutput", "outputs": [{"name": "amountBIn", "type": "uint256"}, {"name": "newIV", "type": "uint256"}, {"name": "feesTokenA", "type": "uint256"}, {"name": "feesTokenB", "type": "uint256"}], "stateMutability": "view", "type": "function"}
	]`)
}
