package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/puran-water/instrio/pkg/db"
)

const indexSheet = "Instrument Index"

// indexColumns is the standard 19-column instrument index layout.
var indexColumns = []column{
	{"ITEM", 8},
	{"TAG NUMBER", 15},
	{"SERVICE DESCRIPTION", 35},
	{"P&ID DRG NO", 12},
	{"EQUIPMENT LOCATION", 18},
	{"LOCATION", 10},
	{"MAKE", 15},
	{"TYPE OF INSTRUMENT", 25},
	{"SIGNAL TYPE", 12},
	{"ENGG UNITS", 10},
	{"LOW RANGE", 10},
	{"MAX RANGE", 10},
	{"LO-LO ALARM", 10},
	{"LOW ALARM", 10},
	{"HI ALARM", 10},
	{"HI-HI ALARM", 10},
	{"PLC 4mA Value", 12},
	{"PLC 20mA Value", 12},
	{"REMARKS", 30},
}

// BuildInstrumentIndex renders one row per instrument in database order.
// The PLC range columns mirror the calibrated range: 4mA maps to range_min
// and 20mA to range_max.
func BuildInstrumentIndex(database *db.Database) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), indexSheet); err != nil {
		return nil, err
	}
	styles, err := newStyleSet(f)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("INSTRUMENT INDEX - %s", database.ProjectID)
	rev := fmt.Sprintf("Revision: %s | Date: %s | By: %s",
		revisionNumber(database.Revision.Number), database.Revision.Date, database.Revision.By)
	if err := writeBanner(f, indexSheet, len(indexColumns), title, rev, styles); err != nil {
		return nil, err
	}
	if err := writeHeader(f, indexSheet, indexColumns, styles); err != nil {
		return nil, err
	}

	for i := range database.Instruments {
		inst := &database.Instruments[i]
		row := headerRow + i + 1

		device := inst.Device
		if device == nil {
			device = &db.Device{}
		}
		measurement := inst.Measurement
		if measurement == nil {
			measurement = &db.Measurement{}
		}
		alarms := inst.Alarms
		if alarms == nil {
			alarms = &db.Alarms{}
		}
		location := inst.Location
		if location == nil {
			location = &db.Location{}
		}

		values := []interface{}{
			i + 1,
			inst.Tag.FullTag,
			inst.ServiceDescription,
			location.PIDReference,
			inst.EquipmentTag,
			location.PhysicalLocation,
			device.Manufacturer,
			device.Type,
			inst.PrimarySignalType,
			measurement.RangeUnit,
			floatCell(measurement.RangeMin),
			floatCell(measurement.RangeMax),
			floatCell(alarms.LoLo),
			floatCell(alarms.Lo),
			floatCell(alarms.Hi),
			floatCell(alarms.HiHi),
			floatCell(measurement.RangeMin),
			floatCell(measurement.RangeMax),
			inst.Remarks,
		}

		for col, value := range values {
			style := styles.textLeft
			if col == 0 || (col >= 9 && col <= 17) {
				style = styles.textCenter
			}
			if err := setCell(f, indexSheet, col+1, row, value, style); err != nil {
				return nil, err
			}
		}
	}

	if err := freezeHeader(f, indexSheet); err != nil {
		return nil, err
	}
	return f, nil
}
