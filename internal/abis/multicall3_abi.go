package abis

import "github.com/ethereum/go-ethereum/accounts/abi"

// GetMulticall3ABI returns the subset of Multicall3 the batch engine uses.
func GetMulticall3ABI() (*abi.ABI, error) {
	return ParseABI(`[
		{"inputs": [{"components": [{"name": "target", "type": "address"}, {"name": "allowFailure", "type": "bool"}, {"name": "callData", "type": "bytes"}], "name": "calls", "type": "tuple[]"}],
		 "name": "aggregate3",
		 "outputs": [{"components": [{"name": "success", "type": "bool"}, {"name": "returnData", "type": "bytes"}], "name": "returnData", "type": "tuple[]"}],
		 "stateMutability": "payable", "type": "function"},
		{"inputs": [], "name": "getBlockNumber", "outputs": [{"name": "blockNumber", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getChainId", "outputs": [{"name": "chainid", "type": "uint256"}], "stateMutability": "view", "type": "function"}
	]`)
}
