// Package db defines the instrument database schema and its YAML-backed
// store. The database is a single document holding loops, instruments and
// their IO signals; every command loads it whole, mutates in memory and
// writes it back atomically.
package db

// Database is the root document of the shared instrument database.
type Database struct {
	ProjectID   string       `yaml:"project_id"`
	Revision    Revision     `yaml:"revision"`
	SourcePIDs  []SourcePID  `yaml:"source_pids,omitempty"`
	Loops       []Loop       `yaml:"loops"`
	Instruments []Instrument `yaml:"instruments"`

	path      string
	loadedSum string
}

// Revision identifies the issue state of the database.
type Revision struct {
	Number string `yaml:"number"`
	Date   string `yaml:"date"`
	By     string `yaml:"by"`
}

// SourcePID records a P&ID drawing the database was extracted from.
type SourcePID struct {
	PIDNumber string `yaml:"pid_number"`
	Title     string `yaml:"title,omitempty"`
	Revision  string `yaml:"revision,omitempty"`
}

// Loop is a named control relationship shared by all instruments
// participating in it. Identity is LoopKey, globally unique.
type Loop struct {
	LoopKey         string `yaml:"loop_key"`
	TagArea         string `yaml:"tag_area"`
	LoopNumber      string `yaml:"loop_number"`
	Variable        string `yaml:"variable"`
	Service         string `yaml:"service,omitempty"`
	ProcessUnitType string `yaml:"process_unit_type,omitempty"`
}

// Instrument is a single tagged field device or function.
type Instrument struct {
	InstrumentID      string       `yaml:"instrument_id"`
	LoopKey           string       `yaml:"loop_key"`
	Tag               TagParts     `yaml:"tag"`
	EquipmentTag      string       `yaml:"equipment_tag,omitempty"`
	ServiceDescription string      `yaml:"service_description,omitempty"`
	ProcessUnitType   string       `yaml:"process_unit_type,omitempty"`
	PrimarySignalType string       `yaml:"primary_signal_type,omitempty"`
	Device            *Device      `yaml:"device,omitempty"`
	Measurement       *Measurement `yaml:"measurement,omitempty"`
	Alarms            *Alarms      `yaml:"alarms,omitempty"`
	Location          *Location    `yaml:"location,omitempty"`
	Remarks           string       `yaml:"remarks,omitempty"`
	IOSignals         []IOSignal   `yaml:"io_signals,omitempty"`
}

// TagParts stores the decomposed ISA-5.1 tag. FullTag must stay derivable
// from the parts; the validator flags divergence.
type TagParts struct {
	FullTag    string `yaml:"full_tag"`
	Area       string `yaml:"area"`
	Variable   string `yaml:"variable"`
	Function   string `yaml:"function"`
	Modifier   string `yaml:"modifier,omitempty"`
	LoopNumber string `yaml:"loop_number"`
	Suffix     string `yaml:"suffix,omitempty"`
}

// Device carries hardware selection data for the instrument index.
type Device struct {
	Manufacturer string `yaml:"manufacturer,omitempty"`
	Type         string `yaml:"type,omitempty"`
}

// Measurement carries the calibrated range.
type Measurement struct {
	RangeMin  *float64 `yaml:"range_min,omitempty"`
	RangeMax  *float64 `yaml:"range_max,omitempty"`
	RangeUnit string   `yaml:"range_unit,omitempty"`
}

// Alarms carries the configured alarm setpoints.
type Alarms struct {
	LoLo *float64 `yaml:"lolo,omitempty"`
	Lo   *float64 `yaml:"lo,omitempty"`
	Hi   *float64 `yaml:"hi,omitempty"`
	HiHi *float64 `yaml:"hihi,omitempty"`
}

// Location ties the instrument to its drawing and physical position.
type Location struct {
	PIDReference     string `yaml:"pid_reference,omitempty"`
	PhysicalLocation string `yaml:"physical_location,omitempty"`
}

// IOSignal is one IO point owned by exactly one instrument. A non-empty
// PatternSource marks the signal as pattern-generated; manually authored
// signals leave it empty and survive re-application untouched.
type IOSignal struct {
	IOPointID      string      `yaml:"io_point_id"`
	SignalFunction string      `yaml:"signal_function"`
	IOType         string      `yaml:"io_type"`
	SignalType     string      `yaml:"signal_type"`
	Termination    string      `yaml:"termination,omitempty"`
	ComponentType  string      `yaml:"component_type,omitempty"`
	PLCTag         string      `yaml:"plc_tag,omitempty"`
	FieldTag       string      `yaml:"field_tag,omitempty"`
	Suffix         string      `yaml:"suffix,omitempty"`
	Description    string      `yaml:"description,omitempty"`
	Protocol       string      `yaml:"protocol,omitempty"`
	Marshalling    string      `yaml:"marshalling,omitempty"`
	PatternSource  string      `yaml:"pattern_source,omitempty"`
	Electrical     *Electrical `yaml:"electrical,omitempty"`
}

// Electrical records the starter/feeder context a signal belongs to.
type Electrical struct {
	FeederType string `yaml:"feeder_type,omitempty"`
}

// IOTypes is the closed set of valid io_type values.
var IOTypes = []string{"DI", "DO", "AI", "AO", "PI", "PO"}

// ValidIOType reports whether t is one of the six supported IO types.
func ValidIOType(t string) bool {
	for _, v := range IOTypes {
		if t == v {
			return true
		}
	}
	return false
}

// LoopIndex returns loops keyed by loop_key. Later duplicates do not
// overwrite earlier entries; the validator reports them.
func (d *Database) LoopIndex() map[string]*Loop {
	idx := make(map[string]*Loop, len(d.Loops))
	for i := range d.Loops {
		loop := &d.Loops[i]
		if _, exists := idx[loop.LoopKey]; !exists {
			idx[loop.LoopKey] = loop
		}
	}
	return idx
}

// InstrumentsByEquipmentTag groups instruments by their equipment_tag
// reference, preserving database order within each group.
func (d *Database) InstrumentsByEquipmentTag() map[string][]*Instrument {
	idx := make(map[string][]*Instrument)
	for i := range d.Instruments {
		inst := &d.Instruments[i]
		if inst.EquipmentTag != "" {
			idx[inst.EquipmentTag] = append(idx[inst.EquipmentTag], inst)
		}
	}
	return idx
}
