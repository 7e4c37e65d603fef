package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax, err := Default()
	require.NoError(t, err)
	assert.Greater(t, tax.Len(), 10)

	assert.True(t, tax.Contains("wastewater.secondary"))
	assert.True(t, tax.Contains("wastewater.secondary.clarifier"), "descendants of listed prefixes are valid")
	assert.True(t, tax.Contains("chemical.dosing"))
	assert.False(t, tax.Contains("wastewater"))
	assert.False(t, tax.Contains("mining.crusher"))
	assert.False(t, tax.Contains(""))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	content := `process_unit_types:
  - brewery.mash
  - brewery.fermentation
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tax, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tax.Len())
	assert.True(t, tax.Contains("brewery.mash"))
	assert.True(t, tax.Contains("brewery.fermentation.fv01"))
	assert.False(t, tax.Contains("wastewater.secondary"))
}

func TestLoadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("process_unit_types: []\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
