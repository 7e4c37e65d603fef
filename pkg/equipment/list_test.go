package equipment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadListYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equipment.yaml")
	content := `equipment:
  - tag: 200-P-01
    description: RAS Pump No.1
    feeder_type: VFD
  - tag: 200-B-01/02
    description: Blower duty/standby
    feeder_type: DOL
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	list, err := LoadList(path)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "200-P-01", list[0].Tag)
	assert.Equal(t, "VFD", list[0].FeederType)
	assert.Equal(t, "P", list[0].TypeCode())
}

func TestLoadListQMDFrontmatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equipment-list.qmd")
	content := `---
title: Equipment List
equipment:
  - tag: 200-MX-03
    description: Anoxic zone mixer
    feeder_type: DOL
    high_power: false
---

# Equipment List

Narrative body ignored by the loader.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	list, err := LoadList(path)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "200-MX-03", list[0].Tag)
	assert.Equal(t, "MX", list[0].TypeCode())
}

func TestLoadListQMDWithoutFrontmatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equipment-list.qmd")
	require.NoError(t, os.WriteFile(path, []byte("# Just markdown\n"), 0o644))

	_, err := LoadList(path)
	assert.Error(t, err)
}

func TestTypeCode(t *testing.T) {
	tests := []struct {
		tag  string
		code string
	}{
		{"200-P-01", "P"},
		{"200-MOV-12", "MOV"},
		{"200-B-01/02", "B"},
		{"not a tag", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, TypeCode(tt.tag), tt.tag)
	}
}

func TestExpandTags(t *testing.T) {
	list := []Equipment{
		{Tag: "200-P-01"},
		{Tag: "200-B-01/02"},
		{Tag: "100-TK-01, 100-TK-02"},
	}

	tags := ExpandTags(list)

	for _, want := range []string{
		"200-P-01",
		"200-B-01/02",
		"200-B-01",
		"200-B-02",
		"100-TK-01",
		"100-TK-02",
	} {
		_, ok := tags[want]
		assert.True(t, ok, "missing %s", want)
	}
}

func TestIndex(t *testing.T) {
	list := []Equipment{
		{Tag: "200-P-01", FeederType: "VFD"},
		{Tag: ""},
	}

	idx := Index(list)
	require.Len(t, idx, 1)
	assert.Equal(t, "VFD", idx["200-P-01"].FeederType)
}
