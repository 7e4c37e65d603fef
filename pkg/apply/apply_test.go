package apply

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puran-water/instrio/pkg/db"
	"github.com/puran-water/instrio/pkg/equipment"
	"github.com/puran-water/instrio/pkg/patterns"
)

func writePatternFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `unrelated:
  signals:
    - suffix: RUN
      function: Status
      io_type: DI
      signal_type: 24V DC
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testCatalog(t *testing.T) *patterns.Catalog {
	t.Helper()
	catalog, err := patterns.Default()
	require.NoError(t, err)
	return catalog
}

func testDatabase() *db.Database {
	return &db.Database{
		ProjectID: "WTP-2044",
		Loops: []db.Loop{
			{LoopKey: "200-Y-01", TagArea: "200", LoopNumber: "01", Variable: "Y"},
		},
		Instruments: []db.Instrument{
			{
				InstrumentID: "inst-0001",
				LoopKey:      "200-Y-01",
				Tag: db.TagParts{
					FullTag:    "200-YS-01",
					Area:       "200",
					Variable:   "Y",
					Function:   "S",
					LoopNumber: "01",
				},
				EquipmentTag:       "200-P-01",
				ServiceDescription: "RAS Pump No.1",
			},
		},
	}
}

func TestApplyGeneratesSignals(t *testing.T) {
	database := testDatabase()
	list := []equipment.Equipment{
		{Tag: "200-P-01", Description: "RAS Pump No.1", FeederType: "VFD"},
	}

	result, err := Apply(context.Background(), database, list, testCatalog(t))
	require.NoError(t, err)
	require.Len(t, result.Applied, 1)
	assert.Equal(t, "pump_vfd", result.Applied[0].Pattern)
	assert.Equal(t, 6, result.Applied[0].Points)
	assert.Empty(t, result.Warnings)

	signals := database.Instruments[0].IOSignals
	require.Len(t, signals, 6)

	ids := map[string]bool{}
	for _, sig := range signals {
		assert.Equal(t, "pump_vfd", sig.PatternSource)
		assert.NotEmpty(t, sig.IOPointID)
		assert.False(t, ids[sig.IOPointID], "io_point_id reused")
		ids[sig.IOPointID] = true
		require.NotNil(t, sig.Electrical)
		assert.Equal(t, "VFD", sig.Electrical.FeederType)
		assert.Equal(t, "PLC", sig.Termination)
	}

	assert.Equal(t, "200-YS-01-RUN", signals[0].PLCTag)
	assert.Equal(t, "RAS Pump No.1 - Running status", signals[0].Description)
}

func TestApplyIsIdempotent(t *testing.T) {
	database := testDatabase()
	list := []equipment.Equipment{
		{Tag: "200-P-01", FeederType: "VFD"},
	}
	catalog := testCatalog(t)

	_, err := Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)
	first := append([]db.IOSignal(nil), database.Instruments[0].IOSignals...)

	result, err := Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, first, database.Instruments[0].IOSignals)
}

func TestApplyPreservesManualSignals(t *testing.T) {
	database := testDatabase()
	manual := db.IOSignal{
		IOPointID:      "manual-0001",
		SignalFunction: "Status",
		IOType:         "DI",
		SignalType:     "24V DC",
		Description:    "Seal leak probe (manual entry)",
	}
	database.Instruments[0].IOSignals = []db.IOSignal{manual}

	list := []equipment.Equipment{
		{Tag: "200-P-01", FeederType: "VFD"},
	}
	catalog := testCatalog(t)

	_, err := Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)

	signals := database.Instruments[0].IOSignals
	require.Len(t, signals, 7)
	assert.Equal(t, manual, signals[6], "manual signal must survive at the end of the list")

	// Re-running keeps the manual point and changes nothing.
	_, err = Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)
	require.Len(t, database.Instruments[0].IOSignals, 7)
	assert.Equal(t, manual, database.Instruments[0].IOSignals[6])
}

func TestApplyReplacesStaleGeneratedBlock(t *testing.T) {
	database := testDatabase()
	list := []equipment.Equipment{
		{Tag: "200-P-01", FeederType: "DOL"},
	}
	catalog := testCatalog(t)

	_, err := Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)
	require.Equal(t, "pump_dol", database.Instruments[0].IOSignals[0].PatternSource)

	// Feeder changed to VFD: the generated block is replaced wholesale.
	list[0].FeederType = "VFD"
	result, err := Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)
	require.Len(t, result.Applied, 1)
	assert.Equal(t, "pump_vfd", result.Applied[0].Pattern)
	require.Len(t, database.Instruments[0].IOSignals, 6)
	for _, sig := range database.Instruments[0].IOSignals {
		assert.Equal(t, "pump_vfd", sig.PatternSource)
	}
}

func TestApplyRefreshesFeederOnSamePattern(t *testing.T) {
	database := testDatabase()
	list := []equipment.Equipment{
		{Tag: "200-P-01", FeederType: "DOL"},
	}
	catalog := testCatalog(t)

	_, err := Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)

	// VENDOR resolves to pump_dol as well, but the feeder column must not
	// stay stale.
	list[0].FeederType = "VENDOR"
	result, err := Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)
	require.Len(t, result.Applied, 1)
	assert.Equal(t, "pump_dol", result.Applied[0].Pattern)
	assert.Equal(t, "Vendor Panel", result.Applied[0].Feeder)
	assert.Zero(t, result.Skipped)

	for _, sig := range database.Instruments[0].IOSignals {
		require.NotNil(t, sig.Electrical)
		assert.Equal(t, "Vendor Panel", sig.Electrical.FeederType)
	}

	// Unchanged inputs are still a no-op afterwards.
	again, err := Apply(context.Background(), database, list, catalog)
	require.NoError(t, err)
	assert.Empty(t, again.Applied)
	assert.Equal(t, 1, again.Skipped)
}

func TestApplyMissingFeederType(t *testing.T) {
	database := testDatabase()
	existing := db.IOSignal{IOPointID: "keep-0001", SignalFunction: "Status", IOType: "DI", SignalType: "24V DC"}
	database.Instruments[0].IOSignals = []db.IOSignal{existing}

	list := []equipment.Equipment{
		{Tag: "200-P-01", Description: "RAS Pump No.1"},
	}

	result, err := Apply(context.Background(), database, list, testCatalog(t))
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnMissingFeederType, result.Warnings[0].Kind)
	assert.Equal(t, "200-P-01", result.Warnings[0].EquipmentTag)

	// Existing signals are left untouched when generation is skipped.
	assert.Equal(t, []db.IOSignal{existing}, database.Instruments[0].IOSignals)
}

func TestApplyNoMatchingInstrument(t *testing.T) {
	database := testDatabase()
	list := []equipment.Equipment{
		{Tag: "200-P-01", FeederType: "VFD"},
		{Tag: "200-P-99", FeederType: "DOL"},
	}

	result, err := Apply(context.Background(), database, list, testCatalog(t))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnNoMatchingInstrument, result.Warnings[0].Kind)
	assert.Equal(t, "200-P-99", result.Warnings[0].EquipmentTag)
}

func TestApplyUnknownPatternIsFatal(t *testing.T) {
	database := testDatabase()
	list := []equipment.Equipment{
		{Tag: "200-P-01", FeederType: "VFD"},
	}

	// A catalog missing the resolved pattern is an internal consistency
	// error.
	catalog, err := patterns.LoadFile(writePatternFile(t))
	require.NoError(t, err)

	_, err = Apply(context.Background(), database, list, catalog)
	require.Error(t, err)
	assert.ErrorIs(t, err, patterns.ErrUnknownPattern)
}

func TestApplySkipsUnlistedEquipmentTypes(t *testing.T) {
	database := testDatabase()
	database.Instruments[0].EquipmentTag = "200-TK-01"

	list := []equipment.Equipment{
		{Tag: "200-TK-01", FeederType: "DOL"},
	}

	result, err := Apply(context.Background(), database, list, testCatalog(t))
	require.NoError(t, err)
	assert.Empty(t, result.Applied)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, database.Instruments[0].IOSignals)
}
