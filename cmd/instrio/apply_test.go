package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puran-water/instrio/pkg/apply"
	"github.com/puran-water/instrio/pkg/db"
	"github.com/puran-water/instrio/pkg/equipment"
	"github.com/puran-water/instrio/pkg/patterns"
)

func TestShouldPersistApply(t *testing.T) {
	tests := []struct {
		name     string
		strict   bool
		warnings int
		want     bool
	}{
		{name: "lenient with warnings", strict: false, warnings: 2, want: true},
		{name: "lenient clean", strict: false, warnings: 0, want: true},
		{name: "strict clean", strict: true, warnings: 0, want: true},
		{name: "strict with warnings", strict: true, warnings: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldPersistApply(tt.strict, tt.warnings))
		})
	}
}

// A strict run that raised warnings must never reach the write-back, so the
// database on disk stays byte-for-byte what was loaded.
func TestStrictApplyWithWarningsLeavesDatabaseUntouched(t *testing.T) {
	const sample = `project_id: WTP-2044
loops:
  - loop_key: 200-Y-01
    tag_area: "200"
    loop_number: "01"
    variable: Y
instruments:
  - instrument_id: inst-0001
    loop_key: 200-Y-01
    tag:
      full_tag: 200-YS-01
      area: "200"
      variable: Y
      function: S
      loop_number: "01"
    equipment_tag: 200-P-01
`
	path := filepath.Join(t.TempDir(), "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	database, err := db.Load(path)
	require.NoError(t, err)

	catalog, err := patterns.Default()
	require.NoError(t, err)

	// Pump without feeder_type draws a MissingFeederType warning.
	list := []equipment.Equipment{{Tag: "200-P-01", Description: "RAS Pump No.1"}}

	result, err := apply.Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)
	require.NotEmpty(t, result.Warnings)

	require.False(t, shouldPersistApply(true, len(result.Warnings)))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sample, string(onDisk))
}
