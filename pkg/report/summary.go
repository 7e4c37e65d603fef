package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/puran-water/instrio/pkg/db"
)

const summarySheet = "IO Summary"

// DefaultSparePct is the conventional design margin for IO capacity.
const DefaultSparePct = 20.0

// CountIOTypes tallies IO points per type across the database. Unknown
// io_type values are ignored; the validator reports those separately.
func CountIOTypes(database *db.Database) map[string]int {
	counts := make(map[string]int, len(db.IOTypes))
	for _, t := range db.IOTypes {
		counts[t] = 0
	}
	for i := range database.Instruments {
		for _, sig := range database.Instruments[i].IOSignals {
			if _, ok := counts[sig.IOType]; ok {
				counts[sig.IOType]++
			}
		}
	}
	return counts
}

// SpareCount rounds the margin up so a nonzero requirement always yields at
// least one spare point.
func SpareCount(required int, sparePct float64) int {
	return int(math.Ceil(float64(required) * sparePct / 100))
}

// BuildIOSummary renders the per-type capacity table with spare margin and
// a totals row. The Provided and Available columns are left blank for the
// panel designer to fill in.
func BuildIOSummary(database *db.Database, sparePct float64) (*excelize.File, map[string]int, error) {
	counts := CountIOTypes(database)

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, nil, err
	}
	styles, err := newStyleSet(f)
	if err != nil {
		return nil, nil, err
	}

	columns := []column{
		{"IO Type", 12},
		{"Required", 12},
		{fmt.Sprintf("Spare (%g%%)", sparePct), 12},
		{"Total Recommended", 16},
		{"Provided", 12},
		{"Available", 12},
	}

	title := fmt.Sprintf("IO SUMMARY - %s", database.ProjectID)
	rev := fmt.Sprintf("Revision: %s | Date: %s | Spare: %g%%",
		revisionNumber(database.Revision.Number), database.Revision.Date, sparePct)
	if err := writeBanner(f, summarySheet, len(columns), title, rev, styles); err != nil {
		return nil, nil, err
	}
	if err := writeHeader(f, summarySheet, columns, styles); err != nil {
		return nil, nil, err
	}

	row := headerRow
	totalRequired := 0
	for _, ioType := range db.IOTypes {
		required := counts[ioType]
		spare := SpareCount(required, sparePct)
		totalRequired += required
		row++

		values := []interface{}{ioType, required, spare, required + spare, nil, nil}
		for col, value := range values {
			style := styles.numRight
			if col == 0 {
				style = styles.boldCenter
			}
			if err := setCell(f, summarySheet, col+1, row, value, style); err != nil {
				return nil, nil, err
			}
		}
	}

	// Totals row
	row++
	totalSpare := SpareCount(totalRequired, sparePct)
	totals := []interface{}{"TOTAL", totalRequired, totalSpare, totalRequired + totalSpare, nil, nil}
	for col, value := range totals {
		style := styles.boldRight
		if col == 0 {
			style = styles.boldCenter
		}
		if err := setCell(f, summarySheet, col+1, row, value, style); err != nil {
			return nil, nil, err
		}
	}

	if counts["PI"] > 0 || counts["PO"] > 0 {
		row += 2
		start := fmt.Sprintf("A%d", row)
		end, err := excelize.CoordinatesToCellName(len(columns), row)
		if err != nil {
			return nil, nil, err
		}
		if err := f.MergeCell(summarySheet, start, end); err != nil {
			return nil, nil, err
		}
		note := "Note: Protocol IO (PI/PO) represents Modbus/HART/Profibus device connections"
		if err := f.SetCellValue(summarySheet, start, note); err != nil {
			return nil, nil, err
		}
		if err := f.SetCellStyle(summarySheet, start, end, styles.note); err != nil {
			return nil, nil, err
		}
	}

	return f, counts, nil
}
