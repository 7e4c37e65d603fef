package patterns

import (
	"strings"

	"github.com/puran-water/instrio/pkg/equipment"
)

// highPowerThresholdKW is the motor rating above which a VFD gets the
// extended monitoring pattern even without an explicit high_power flag.
const highPowerThresholdKW = 75.0

// Feeder-type rows per equipment class. The tables are the single source of
// truth for equipment type + feeder type -> IO pattern.
var motorPatterns = map[string]string{
	"DOL":          "pump_dol",
	"VFD":          "pump_vfd",
	"VFD-EXT":      "pump_vfd_extended",
	"VFD_EXTENDED": "pump_vfd_extended",
	"SOFT-STARTER": "motor_soft_starter",
	"SOFT_STARTER": "motor_soft_starter",
	"VENDOR":       "pump_dol", // vendor packages get minimal IO
	"VENDOR_PANEL": "pump_dol",
}

var pumpPatterns = map[string]string{
	"DOL":           "pump_dol",
	"VFD":           "pump_vfd",
	"VFD-EXT":       "pump_vfd_extended",
	"VFD_EXTENDED":  "pump_vfd_extended",
	"SOFT-STARTER":  "motor_soft_starter",
	"SOFT_STARTER":  "motor_soft_starter",
	"VENDOR":        "pump_dol",
	"VENDOR_PANEL":  "pump_dol",
	"AODD":          "aodd_pump",
	"METERING":      "metering_pump_speed",
	"METERING-FULL": "metering_pump_full",
}

var valvePatterns = map[string]string{
	"MOD-ELECTRIC":    "valve_modulating_electric",
	"MOD-PNEUMATIC":   "valve_modulating_pneumatic",
	"ONOFF-ELECTRIC":  "valve_onoff_electric",
	"ONOFF-PNEUMATIC": "valve_onoff_pneumatic",
	"POSITIONER":      "valve_positioner",
	"SOLENOID":        "solenoid_valve",
}

// equipmentPatternMap routes an equipment type code to its feeder-type table.
var equipmentPatternMap = map[string]map[string]string{
	// Motors and rotating equipment
	"P":  pumpPatterns,
	"PU": pumpPatterns,
	"BL": motorPatterns,
	"MX": motorPatterns,
	"AG": motorPatterns, // agitator
	"CP": motorPatterns, // compressor
	"FN": motorPatterns, // fan
	// Valves
	"CV":  valvePatterns,
	"BV":  valvePatterns,
	"GV":  valvePatterns,
	"MOV": {"DEFAULT": "valve_onoff_electric"},
	"SOV": {"DEFAULT": "solenoid_valve"},
}

// feederDisplay maps raw feeder types to the display name used on the IO
// list's feeder column.
var feederDisplay = map[string]string{
	"DOL":             "DOL",
	"VFD":             "VFD",
	"VFD-EXT":         "VFD",
	"VFD_EXTENDED":    "VFD",
	"SOFT-STARTER":    "Soft-Starter",
	"SOFT_STARTER":    "Soft-Starter",
	"VENDOR":          "Vendor Panel",
	"VENDOR_PANEL":    "Vendor Panel",
	"AODD":            "DOL",
	"METERING":        "DOL",
	"METERING-FULL":   "DOL",
	"MOD-ELECTRIC":    "Direct",
	"MOD-PNEUMATIC":   "Direct",
	"ONOFF-ELECTRIC":  "Direct",
	"ONOFF-PNEUMATIC": "Direct",
	"POSITIONER":      "Direct",
	"SOLENOID":        "Direct",
	"DEFAULT":         "Direct",
}

// Resolution is the outcome of mapping an equipment record to a pattern.
type Resolution struct {
	Pattern       string
	FeederDisplay string
}

// overrideRule upgrades an already-resolved pattern when its predicate
// holds. Rules run in declaration order so results are reproducible.
type overrideRule struct {
	when    func(eq equipment.Equipment, current string) bool
	pattern string
}

var overrideRules = []overrideRule{
	// A VFD mentioned in the free-text description upgrades a plain DOL
	// resolution.
	{
		when: func(eq equipment.Equipment, current string) bool {
			return current == "pump_dol" && strings.Contains(strings.ToUpper(eq.Description), "VFD")
		},
		pattern: "pump_vfd",
	},
	// High-power drives get the extended monitoring set.
	{
		when: func(eq equipment.Equipment, current string) bool {
			if current != "pump_vfd" {
				return false
			}
			return eq.HighPower || (eq.PowerKW != nil && *eq.PowerKW >= highPowerThresholdKW)
		},
		pattern: "pump_vfd_extended",
	},
}

// Mappable reports whether the equipment type code participates in pattern
// generation at all. Equipment outside the map is silently skipped;
// equipment inside it without a feeder type draws a warning.
func Mappable(typeCode string) bool {
	_, ok := equipmentPatternMap[typeCode]
	return ok
}

// Resolve maps an equipment record to an IO pattern name and feeder display
// name. It returns false when the record is not mappable (unknown type code,
// missing or unmapped feeder type).
func Resolve(eq equipment.Equipment) (Resolution, bool) {
	feederType := strings.ToUpper(strings.TrimSpace(eq.FeederType))
	if feederType == "" {
		return Resolution{}, false
	}

	typeCode := eq.TypeCode()
	if typeCode == "" {
		return Resolution{}, false
	}

	table, ok := equipmentPatternMap[typeCode]
	if !ok {
		return Resolution{}, false
	}

	pattern, ok := table[feederType]
	if !ok {
		pattern, ok = table["DEFAULT"]
		if !ok {
			return Resolution{}, false
		}
	}

	for _, rule := range overrideRules {
		if rule.when(eq, pattern) {
			pattern = rule.pattern
		}
	}

	display, ok := feederDisplay[feederType]
	if !ok {
		display = feederType
	}

	return Resolution{Pattern: pattern, FeederDisplay: display}, true
}
