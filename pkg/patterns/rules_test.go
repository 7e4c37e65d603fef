package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puran-water/instrio/pkg/equipment"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		eq      equipment.Equipment
		pattern string
		display string
	}{
		{
			name:    "pump on VFD",
			eq:      equipment.Equipment{Tag: "200-P-01", FeederType: "VFD"},
			pattern: "pump_vfd",
			display: "VFD",
		},
		{
			name:    "pump DOL",
			eq:      equipment.Equipment{Tag: "200-P-02", FeederType: "DOL"},
			pattern: "pump_dol",
			display: "DOL",
		},
		{
			name:    "blower soft starter",
			eq:      equipment.Equipment{Tag: "200-BL-01", FeederType: "SOFT-STARTER"},
			pattern: "motor_soft_starter",
			display: "Soft-Starter",
		},
		{
			name:    "aodd pump",
			eq:      equipment.Equipment{Tag: "300-P-07", FeederType: "AODD"},
			pattern: "aodd_pump",
			display: "DOL",
		},
		{
			name:    "motor operated valve falls back to default row",
			eq:      equipment.Equipment{Tag: "200-MOV-01", FeederType: "ONOFF-ELECTRIC"},
			pattern: "valve_onoff_electric",
			display: "Direct",
		},
		{
			name:    "control valve positioner",
			eq:      equipment.Equipment{Tag: "200-CV-03", FeederType: "POSITIONER"},
			pattern: "valve_positioner",
			display: "Direct",
		},
		{
			name:    "feeder type normalised",
			eq:      equipment.Equipment{Tag: "200-P-03", FeederType: " vfd "},
			pattern: "pump_vfd",
			display: "VFD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := Resolve(tt.eq)
			require.True(t, ok)
			assert.Equal(t, tt.pattern, res.Pattern)
			assert.Equal(t, tt.display, res.FeederDisplay)
		})
	}
}

func TestResolveNotMappable(t *testing.T) {
	tests := []struct {
		name string
		eq   equipment.Equipment
	}{
		{"missing feeder type", equipment.Equipment{Tag: "200-P-01"}},
		{"unknown type code", equipment.Equipment{Tag: "200-TK-01", FeederType: "DOL"}},
		{"non-ISA tag", equipment.Equipment{Tag: "FEED TANK", FeederType: "DOL"}},
		{"unmapped feeder without default", equipment.Equipment{Tag: "200-P-01", FeederType: "HYDRAULIC"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Resolve(tt.eq)
			assert.False(t, ok)
		})
	}
}

func TestResolveOverrides(t *testing.T) {
	t.Run("VFD in description upgrades DOL", func(t *testing.T) {
		res, ok := Resolve(equipment.Equipment{
			Tag:         "200-P-04",
			Description: "RAS pump with packaged VFD",
			FeederType:  "DOL",
		})
		require.True(t, ok)
		assert.Equal(t, "pump_vfd", res.Pattern)
	})

	t.Run("high power flag upgrades VFD", func(t *testing.T) {
		res, ok := Resolve(equipment.Equipment{
			Tag:        "200-P-05",
			FeederType: "VFD",
			HighPower:  true,
		})
		require.True(t, ok)
		assert.Equal(t, "pump_vfd_extended", res.Pattern)
	})

	t.Run("power rating above threshold upgrades VFD", func(t *testing.T) {
		power := 110.0
		res, ok := Resolve(equipment.Equipment{
			Tag:        "200-BL-02",
			FeederType: "VFD",
			PowerKW:    &power,
		})
		require.True(t, ok)
		assert.Equal(t, "pump_vfd_extended", res.Pattern)
	})

	t.Run("overrides chain deterministically", func(t *testing.T) {
		// DOL + VFD note + high power walks pump_dol -> pump_vfd ->
		// pump_vfd_extended in rule order.
		res, ok := Resolve(equipment.Equipment{
			Tag:         "200-P-06",
			Description: "Dewatering feed pump (VFD)",
			FeederType:  "DOL",
			HighPower:   true,
		})
		require.True(t, ok)
		assert.Equal(t, "pump_vfd_extended", res.Pattern)
	})

	t.Run("no upgrade below power threshold", func(t *testing.T) {
		power := 30.0
		res, ok := Resolve(equipment.Equipment{
			Tag:        "200-P-08",
			FeederType: "VFD",
			PowerKW:    &power,
		})
		require.True(t, ok)
		assert.Equal(t, "pump_vfd", res.Pattern)
	})
}

func TestMappable(t *testing.T) {
	assert.True(t, Mappable("P"))
	assert.True(t, Mappable("MOV"))
	assert.False(t, Mappable("TK"))
	assert.False(t, Mappable(""))
}
