// Package apply joins equipment records against the IO pattern catalog and
// attaches generated IO signals to the matching instruments. Application is
// idempotent: pattern-generated signals are tracked by their pattern_source
// marker and replaced wholesale when stale, while manually authored signals
// always survive untouched.
package apply

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/puran-water/instrio/pkg/db"
	"github.com/puran-water/instrio/pkg/equipment"
	"github.com/puran-water/instrio/pkg/logger"
	"github.com/puran-water/instrio/pkg/patterns"
)

// WarningKind classifies recoverable apply findings.
type WarningKind string

const (
	// WarnMissingFeederType flags motor-class equipment without the
	// feeder_type required for IO generation.
	WarnMissingFeederType WarningKind = "MissingFeederType"
	// WarnNoMatchingInstrument flags equipment that resolved to a pattern
	// but is referenced by no instrument.
	WarnNoMatchingInstrument WarningKind = "NoMatchingInstrument"
)

// Warning is one recoverable finding from a pattern application run.
type Warning struct {
	Kind         WarningKind
	EquipmentTag string
	Message      string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.EquipmentTag, w.Message)
}

// Applied describes one instrument that received a generated block.
type Applied struct {
	FullTag string
	Pattern string
	Feeder  string
	Points  int
}

// Result summarises a pattern application run.
type Result struct {
	Applied  []Applied
	Skipped  int // instruments whose generated block already matched
	Warnings []Warning
}

// Apply resolves a pattern for every equipment record and regenerates the
// io_signals of the instruments referencing it. The database is mutated in
// memory; persisting it is the caller's concern. An unknown pattern name in
// the decision table is an internal consistency error and fails the run.
func Apply(ctx context.Context, database *db.Database, list []equipment.Equipment, catalog *patterns.Catalog) (*Result, error) {
	log := logger.G(ctx)
	result := &Result{}

	for _, eq := range list {
		if eq.Tag == "" {
			continue
		}
		if eq.FeederType == "" && patterns.Mappable(eq.TypeCode()) {
			result.Warnings = append(result.Warnings, Warning{
				Kind:         WarnMissingFeederType,
				EquipmentTag: eq.Tag,
				Message:      "missing feeder_type (required for IO generation)",
			})
		}
	}

	equipmentIndex := equipment.Index(list)
	referenced := make(map[string]bool, len(equipmentIndex))

	for i := range database.Instruments {
		inst := &database.Instruments[i]
		if inst.EquipmentTag == "" {
			continue
		}

		eq, ok := equipmentIndex[inst.EquipmentTag]
		if !ok {
			continue
		}
		referenced[eq.Tag] = true

		resolution, ok := patterns.Resolve(eq)
		if !ok {
			continue
		}

		pattern, err := catalog.Lookup(resolution.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "decision table references pattern missing from catalog (equipment %s)", eq.Tag)
		}

		generated, manual := splitSignals(inst.IOSignals)
		if blockMatches(generated, pattern, resolution.FeederDisplay) {
			result.Skipped++
			log.WithField("tag", inst.Tag.FullTag).Debug("generated block up to date, skipping")
			continue
		}

		block := instantiate(pattern, inst, resolution.FeederDisplay)
		inst.IOSignals = append(block, manual...)

		result.Applied = append(result.Applied, Applied{
			FullTag: inst.Tag.FullTag,
			Pattern: pattern.Name,
			Feeder:  resolution.FeederDisplay,
			Points:  len(block),
		})
		log.WithFields(map[string]interface{}{
			"tag":     inst.Tag.FullTag,
			"pattern": pattern.Name,
			"points":  len(block),
		}).Debug("applied IO pattern")
	}

	for _, eq := range list {
		if eq.Tag == "" || referenced[eq.Tag] {
			continue
		}
		if _, ok := patterns.Resolve(eq); !ok {
			continue
		}
		result.Warnings = append(result.Warnings, Warning{
			Kind:         WarnNoMatchingInstrument,
			EquipmentTag: eq.Tag,
			Message:      "no instrument references this equipment",
		})
	}

	return result, nil
}

// splitSignals separates pattern-generated signals from manual ones,
// preserving relative order in both halves.
func splitSignals(signals []db.IOSignal) (generated, manual []db.IOSignal) {
	for _, sig := range signals {
		if sig.PatternSource != "" {
			generated = append(generated, sig)
		} else {
			manual = append(manual, sig)
		}
	}
	return generated, manual
}

// blockMatches reports whether the existing generated block was produced
// from the same pattern and feeder and still has its ordered shape. A
// matching block is left untouched so repeated runs keep stable
// io_point_ids. The feeder is part of the comparison because distinct
// feeder types can resolve to the same pattern (DOL and VENDOR both yield
// pump_dol) while the IO list still reports the feeder per signal.
func blockMatches(generated []db.IOSignal, pattern *patterns.Pattern, feeder string) bool {
	if len(generated) != len(pattern.Signals) {
		return false
	}
	for i, sig := range generated {
		skeleton := pattern.Signals[i]
		if sig.PatternSource != pattern.Name ||
			sig.SignalFunction != skeleton.Function ||
			sig.IOType != skeleton.IOType ||
			sig.SignalType != skeleton.SignalType ||
			sig.Suffix != skeleton.Suffix {
			return false
		}
		if sig.Electrical == nil || sig.Electrical.FeederType != feeder {
			return false
		}
	}
	return len(generated) > 0
}

// instantiate fills a pattern's skeletons into concrete IO signals for the
// instrument.
func instantiate(pattern *patterns.Pattern, inst *db.Instrument, feeder string) []db.IOSignal {
	baseTag := inst.Tag.FullTag
	block := make([]db.IOSignal, 0, len(pattern.Signals))
	for _, skeleton := range pattern.Signals {
		tag := baseTag
		if skeleton.Suffix != "" {
			tag = baseTag + "-" + skeleton.Suffix
		}
		description := skeleton.Description
		if inst.ServiceDescription != "" {
			description = fmt.Sprintf("%s - %s", inst.ServiceDescription, skeleton.Description)
		}
		block = append(block, db.IOSignal{
			IOPointID:      uuid.New().String(),
			SignalFunction: skeleton.Function,
			IOType:         skeleton.IOType,
			SignalType:     skeleton.SignalType,
			Termination:    "PLC",
			ComponentType:  skeleton.Component,
			PLCTag:         tag,
			FieldTag:       tag,
			Suffix:         skeleton.Suffix,
			Description:    description,
			Protocol:       skeleton.Protocol,
			PatternSource:  pattern.Name,
			Electrical:     &db.Electrical{FeederType: feeder},
		})
	}
	return block
}
