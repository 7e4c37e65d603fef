package validate

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/puran-water/instrio/pkg/db"
	"github.com/puran-water/instrio/pkg/equipment"
	"github.com/puran-water/instrio/pkg/isa"
	"github.com/puran-water/instrio/pkg/logger"
	"github.com/puran-water/instrio/pkg/taxonomy"
)

// loopKeyPattern is the fixed loop_key format: area, single variable letter,
// 2-4 digit loop number.
var loopKeyPattern = regexp.MustCompile(`^[0-9]{3}-[A-Z]-[0-9]{2,4}$`)

// parentheticalPattern strips trailing descriptions from equipment
// references: "200-T-06 (Digester Tank No.6)" -> "200-T-06".
var parentheticalPattern = regexp.MustCompile(`\s*\(.*\)\s*$`)

// Validator runs the full check suite over a database. The equipment list
// and taxonomy collaborators are optional; their checks are skipped when
// absent.
type Validator struct {
	equipmentTags map[string]struct{}
	taxonomy      *taxonomy.Taxonomy
}

// Option configures a Validator.
type Option func(*Validator)

// WithEquipment supplies the external equipment list for reference checks.
func WithEquipment(list []equipment.Equipment) Option {
	return func(v *Validator) {
		v.equipmentTags = equipment.ExpandTags(list)
	}
}

// WithTaxonomy supplies the process-unit taxonomy for reference checks.
func WithTaxonomy(t *taxonomy.Taxonomy) Option {
	return func(v *Validator) {
		v.taxonomy = t
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs every check and returns the accumulated report.
func (v *Validator) Validate(ctx context.Context, database *db.Database) *Report {
	report := &Report{}

	loops := v.checkLoops(database, report)
	v.checkInstruments(database, loops, report)
	v.checkIOSignals(database, report)
	v.checkReferences(database, report)

	logger.G(ctx).WithFields(map[string]interface{}{
		"findings": len(report.Findings),
		"errors":   report.Errors(),
	}).Debug("validation completed")
	return report
}

// checkLoops validates loop identity and internal consistency, returning
// the index of first-seen loops for the instrument checks.
func (v *Validator) checkLoops(database *db.Database, report *Report) map[string]*db.Loop {
	seen := make(map[string]*db.Loop, len(database.Loops))

	for i := range database.Loops {
		loop := &database.Loops[i]
		location := "loop " + loop.LoopKey

		if loop.LoopKey == "" {
			report.add(SeverityError, KindLoopKeyFormat, "loop", "missing required loop_key")
			continue
		}
		if !loopKeyPattern.MatchString(loop.LoopKey) {
			report.add(SeverityError, KindLoopKeyFormat, location, "loop_key %q does not match AAA-V-NN format", loop.LoopKey)
		}
		if _, dup := seen[loop.LoopKey]; dup {
			report.add(SeverityError, KindDuplicateID, location, "duplicate loop_key %q", loop.LoopKey)
			continue
		}
		seen[loop.LoopKey] = loop

		if loop.TagArea != "" && loop.Variable != "" && loop.LoopNumber != "" {
			derived := loop.TagArea + "-" + loop.Variable + "-" + loop.LoopNumber
			if derived != loop.LoopKey {
				report.add(SeverityError, KindLoopKeyMismatch, location,
					"loop fields derive %q, not %q", derived, loop.LoopKey)
			}
		}
	}
	return seen
}

func (v *Validator) checkInstruments(database *db.Database, loops map[string]*db.Loop, report *Report) {
	seenIDs := make(map[string]bool, len(database.Instruments))
	seenTags := make(map[string]bool, len(database.Instruments))

	for i := range database.Instruments {
		inst := &database.Instruments[i]
		location := inst.Tag.FullTag
		if location == "" {
			location = inst.InstrumentID
		}

		if inst.InstrumentID == "" {
			report.add(SeverityError, KindDuplicateID, location, "missing instrument_id")
		} else if seenIDs[inst.InstrumentID] {
			report.add(SeverityError, KindDuplicateID, location, "duplicate instrument_id %q", inst.InstrumentID)
		} else {
			seenIDs[inst.InstrumentID] = true
		}

		if inst.Tag.FullTag != "" {
			if seenTags[inst.Tag.FullTag] {
				report.add(SeverityError, KindDuplicateID, location, "duplicate full_tag %q", inst.Tag.FullTag)
			} else {
				seenTags[inst.Tag.FullTag] = true
			}
			v.checkTag(inst, location, report)
		}

		v.checkLoopMembership(inst, loops, location, report)
	}
}

// checkTag decodes the full tag under the ISA grammar and verifies it stays
// derivable from the stored parts.
func (v *Validator) checkTag(inst *db.Instrument, location string, report *Report) {
	if _, err := isa.Decode(inst.Tag.FullTag); err != nil {
		var unknown *isa.UnknownLetterError
		if errors.As(err, &unknown) {
			report.add(SeverityError, KindUnknownLetter, location, "%s", unknown.Error())
		} else {
			report.add(SeverityError, KindInvalidTagFormat, location, "full_tag %q does not match the ISA tag grammar", inst.Tag.FullTag)
		}
		return
	}

	expected := inst.Tag.Area + "-" + inst.Tag.Variable + inst.Tag.Function + inst.Tag.Modifier +
		"-" + inst.Tag.LoopNumber + inst.Tag.Suffix
	if !strings.EqualFold(inst.Tag.FullTag, expected) {
		report.add(SeverityError, KindTagMismatch, location, "full_tag diverges from parts (computed %q)", expected)
	}
}

// checkLoopMembership verifies the instrument's loop reference and the
// shared area/variable/loop_number invariant.
func (v *Validator) checkLoopMembership(inst *db.Instrument, loops map[string]*db.Loop, location string, report *Report) {
	if inst.LoopKey == "" {
		report.add(SeverityError, KindLoopKeyFormat, location, "missing required loop_key")
		return
	}
	if !loopKeyPattern.MatchString(inst.LoopKey) {
		report.add(SeverityError, KindLoopKeyFormat, location, "loop_key %q does not match AAA-V-NN format", inst.LoopKey)
	}

	loop, ok := loops[inst.LoopKey]
	if !ok {
		report.add(SeverityError, KindUnresolvedReference, location, "references non-existent loop_key %q", inst.LoopKey)
		return
	}

	if loop.TagArea != "" && inst.Tag.Area != loop.TagArea {
		report.add(SeverityError, KindLoopKeyMismatch, location,
			"area %q does not match loop area %q", inst.Tag.Area, loop.TagArea)
	}
	if loop.Variable != "" && inst.Tag.Variable != loop.Variable {
		report.add(SeverityError, KindLoopKeyMismatch, location,
			"variable %q does not match loop variable %q", inst.Tag.Variable, loop.Variable)
	}
	if loop.LoopNumber != "" && inst.Tag.LoopNumber != loop.LoopNumber {
		report.add(SeverityError, KindLoopKeyMismatch, location,
			"loop number %q does not match loop number %q", inst.Tag.LoopNumber, loop.LoopNumber)
	}
}

func (v *Validator) checkIOSignals(database *db.Database, report *Report) {
	owners := make(map[string]string)

	for i := range database.Instruments {
		inst := &database.Instruments[i]
		location := inst.Tag.FullTag

		sources := map[string]bool{}
		for _, sig := range inst.IOSignals {
			if sig.IOPointID != "" {
				if owner, dup := owners[sig.IOPointID]; dup {
					report.add(SeverityError, KindDuplicateID, location,
						"duplicate io_point_id %q (also in %s)", sig.IOPointID, owner)
				} else {
					owners[sig.IOPointID] = location
				}
			}
			if sig.IOType != "" && !db.ValidIOType(sig.IOType) {
				report.add(SeverityError, KindInvalidIOType, location, "invalid io_type %q", sig.IOType)
			}
			if sig.PatternSource != "" {
				sources[sig.PatternSource] = true
			}
		}
		// A mixed generated block means the tag or equipment data was edited
		// after generation without re-applying patterns.
		if len(sources) > 1 {
			names := make([]string, 0, len(sources))
			for name := range sources {
				names = append(names, name)
			}
			sort.Strings(names)
			report.add(SeverityWarning, KindUnresolvedReference, location,
				"io_signals mix pattern sources %s, re-run apply-patterns", strings.Join(names, ", "))
		}
	}
}

// checkReferences validates the cross-references into external
// collaborators: equipment list, taxonomy and source P&IDs.
func (v *Validator) checkReferences(database *db.Database, report *Report) {
	sourcePIDs := make(map[string]bool, len(database.SourcePIDs))
	for _, pid := range database.SourcePIDs {
		sourcePIDs[pid.PIDNumber] = true
	}

	for i := range database.Loops {
		loop := &database.Loops[i]
		v.checkProcessUnit(loop.ProcessUnitType, "loop "+loop.LoopKey, report)
	}

	for i := range database.Instruments {
		inst := &database.Instruments[i]
		location := inst.Tag.FullTag

		v.checkProcessUnit(inst.ProcessUnitType, location, report)

		if inst.EquipmentTag != "" && v.equipmentTags != nil {
			cleaned := strings.TrimSpace(parentheticalPattern.ReplaceAllString(inst.EquipmentTag, ""))
			base := pairedSuffixPattern.ReplaceAllString(cleaned, "")
			if _, ok := v.equipmentTags[cleaned]; !ok {
				if _, ok := v.equipmentTags[base]; !ok {
					report.add(SeverityWarning, KindUnresolvedReference, location,
						"references unknown equipment %q", inst.EquipmentTag)
				}
			}
		}

		if inst.Location != nil && inst.Location.PIDReference != "" && !sourcePIDs[inst.Location.PIDReference] {
			report.add(SeverityWarning, KindUnresolvedReference, location,
				"P&ID %q not in source_pids", inst.Location.PIDReference)
		}
	}
}

func (v *Validator) checkProcessUnit(value, location string, report *Report) {
	if value == "" || v.taxonomy == nil {
		return
	}
	if !v.taxonomy.Contains(value) {
		report.add(SeverityWarning, KindUnresolvedReference, location,
			"process_unit_type %q not in taxonomy", value)
	}
}
