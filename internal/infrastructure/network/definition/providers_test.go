package networkdefinition

import (
	"os"
	"path/filepath"
	"testing"

	"options_sdk/internal/domain/entity"
	"options_sdk/internal/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_ActivatesNetworksWithOptionLists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polygon.json"), []byte(`[]`), 0o600))

	p := NewNetworkDefinitionProvider(logger.NewNop(), dir, []entity.NetworkDefinition{
		{Identifier: "arbitrum", SubgraphURL: "https://example.org/subgraphs/options"},
	})

	active := p.GetAllNetworkDefinitions()
	require.Len(t, active, 2)
	assert.Equal(t, "arbitrum", active[0].Identifier)
	assert.Equal(t, "polygon", active[1].Identifier)
	assert.Equal(t, filepath.Join(dir, "polygon.json"), active[1].OptionsFile)

	def, ok := p.GetNetworkDefinitionByName("137")
	require.True(t, ok)
	assert.Equal(t, "polygon", def.Identifier)

	_, ok = p.GetNetworkDefinitionByName("ethereum")
	assert.False(t, ok, "known but inactive")
}

func TestProvider_MulticallAddress(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNop(), "", []entity.NetworkDefinition{
		{Identifier: "devnet", ChainID: 31337, MulticallAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3"},
		{Identifier: "nowhere"},
	})

	addr, ok := p.MulticallAddress(1)
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress(Multicall3Address), addr)

	addr, ok = p.MulticallAddress(31337)
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"), addr)

	_, ok = p.MulticallAddress(999)
	assert.False(t, ok)
}
