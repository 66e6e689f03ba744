package abis

import "github.com/ethereum/go-ethereum/accounts/abi"

func GetConfigurationManagerABI() (*abi.ABI, error) {
	return ParseABI(`[
		{"inputs": [], "name": "getEmergencyStop", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getPriceProvider", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getIVProvider", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getIVGuesser", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getOptionPoolRegistry", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getAMMFactory", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "getOptionHelper", "outputs": [{"name": "", "type": "address"}], "stateMutability": "view", "type": "function"},
		{"inputs": [{"name": "name", "type": "bytes32"}], "name": "getParameter", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [{"name": "target", "type": "address"}], "name": "getCap", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
	]`)
}

// GetCapProviderABI returns the capability (cap) provider interface.
func GetCapProviderABI() (*abi.ABI, error) {
	return ParseABI(`[
		{"inputs": [{"name": "target", "type": "address"}], "name": "getCap", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"}
	]`)
}
