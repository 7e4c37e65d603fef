package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/puran-water/instrio/pkg/db"
)

const ioListSheet = "IO List"

// ioListColumns is the standard IO list layout, one row per IO signal.
var ioListColumns = []column{
	{"Area", 8},
	{"ISA PLC", 10},
	{"ISA Field", 10},
	{"S.No.", 8},
	{"PLC Tag Number", 18},
	{"Field Tag Number", 18},
	{"Service Description", 35},
	{"Component Description", 25},
	{"P&ID Number", 12},
	{"Instrument Location", 15},
	{"Signal Type", 12},
	{"I/O Type", 8},
	{"Signal Type (Voltage)", 15},
	{"Termination Point", 12},
	{"Function", 12},
	{"Feeder Type", 12},
	{"IO Pattern", 12},
	{"Remarks", 25},
}

// signalCategory groups an io_type into the hardwired/protocol families.
func signalCategory(ioType string) string {
	switch ioType {
	case "DI", "DO":
		return "Digital"
	case "AI", "AO":
		return "Analog"
	case "PI", "PO":
		return "Protocol"
	}
	return ""
}

// BuildIOList renders one row per IO signal, walking instruments in
// database order. Instruments without signals are skipped. Returns the
// workbook and the number of signal rows written.
func BuildIOList(database *db.Database) (*excelize.File, int, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), ioListSheet); err != nil {
		return nil, 0, err
	}
	styles, err := newStyleSet(f)
	if err != nil {
		return nil, 0, err
	}

	title := fmt.Sprintf("IO LIST - %s", database.ProjectID)
	rev := fmt.Sprintf("Revision: %s | Date: %s | By: %s",
		revisionNumber(database.Revision.Number), database.Revision.Date, database.Revision.By)
	if err := writeBanner(f, ioListSheet, len(ioListColumns), title, rev, styles); err != nil {
		return nil, 0, err
	}
	if err := writeHeader(f, ioListSheet, ioListColumns, styles); err != nil {
		return nil, 0, err
	}

	row := headerRow
	item := 0
	for i := range database.Instruments {
		inst := &database.Instruments[i]
		location := inst.Location
		if location == nil {
			location = &db.Location{}
		}

		for j := range inst.IOSignals {
			sig := &inst.IOSignals[j]
			item++
			row++

			fieldTag := sig.FieldTag
			if fieldTag == "" {
				fieldTag = inst.Tag.FullTag
				if sig.Suffix != "" {
					fieldTag = inst.Tag.FullTag + "-" + sig.Suffix
				}
			}
			plcTag := sig.PLCTag
			if plcTag == "" {
				plcTag = fieldTag
			}

			feeder := ""
			if sig.Electrical != nil {
				feeder = sig.Electrical.FeederType
			}

			values := []interface{}{
				inst.Tag.Area,
				inst.Tag.Variable,
				inst.Tag.Variable,
				item,
				plcTag,
				fieldTag,
				inst.ServiceDescription,
				sig.ComponentType,
				location.PIDReference,
				location.PhysicalLocation,
				signalCategory(sig.IOType),
				sig.IOType,
				sig.SignalType,
				sig.Termination,
				sig.SignalFunction,
				feeder,
				sig.PatternSource,
				sig.Description,
			}

			for col, value := range values {
				style := styles.textLeft
				switch col {
				case 0, 1, 2, 3, 10, 11:
					style = styles.textCenter
				}
				if err := setCell(f, ioListSheet, col+1, row, value, style); err != nil {
					return nil, 0, err
				}
			}
		}
	}

	if err := freezeHeader(f, ioListSheet); err != nil {
		return nil, 0, err
	}
	return f, item, nil
}
