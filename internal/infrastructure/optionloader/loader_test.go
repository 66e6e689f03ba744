package optionloader

import (
	"os"
	"path/filepath"
	"testing"

	"options_sdk/internal/domain/entity"
	"options_sdk/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOptionRefs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polygon.json")
	content := `[
		{"option": "0xAA00000000000000000000000000000000000001", "pool": "0xBB00000000000000000000000000000000000001"},
		{"option": "0xaa00000000000000000000000000000000000001", "pool": ""},
		{"option": "not-an-address", "pool": ""},
		{"option": "0xaa00000000000000000000000000000000000002", "pool": "0x0000000000000000000000000000000000000000"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loader := NewOptionLoader(logger.NewNop())
	refs, err := loader.GetOptionRefs(entity.NetworkDefinition{Identifier: "polygon", OptionsFile: path})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "0xaa00000000000000000000000000000000000001", refs[0].Option)
	assert.Equal(t, "0xbb00000000000000000000000000000000000001", refs[0].Pool)
	assert.Equal(t, "0xaa00000000000000000000000000000000000002", refs[1].Option)
	assert.Empty(t, refs[1].Pool)
}

func TestGetOptionRefs_Errors(t *testing.T) {
	loader := NewOptionLoader(logger.NewNop())

	refs, err := loader.GetOptionRefs(entity.NetworkDefinition{Identifier: "polygon"})
	require.NoError(t, err)
	assert.Empty(t, refs)

	_, err = loader.GetOptionRefs(entity.NetworkDefinition{OptionsFile: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err = loader.GetOptionRefs(entity.NetworkDefinition{OptionsFile: path})
	assert.Error(t, err)
}
