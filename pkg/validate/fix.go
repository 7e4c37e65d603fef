package validate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/puran-water/instrio/pkg/db"
	"github.com/puran-water/instrio/pkg/logger"
)

// pairedSuffixPattern matches duty/standby suffixes: "202-B-01/02".
var pairedSuffixPattern = regexp.MustCompile(`(/\d+)+$`)

// isaEquipmentTagPattern matches area-code-sequence equipment tags.
var isaEquipmentTagPattern = regexp.MustCompile(`^([A-Z]?\d{3,4})-([A-Z]{1,5})-(\d+)$`)

// siblingOffsets is the fixed search order for nearby equipment sequences.
var siblingOffsets = []int{1, -1, 2, -2}

// FixResult reports the outcome of an auto-fix pass.
type FixResult struct {
	Fixed    int
	Messages []string
}

// FixEquipmentRefs repairs orphan equipment_tag references in place.
// Strategies, in order: strip a /NN paired suffix, then try sibling
// sequence offsets for ISA-format tags. Non-ISA descriptive tags are never
// guessed at; they are reported for manual review.
func (v *Validator) FixEquipmentRefs(ctx context.Context, database *db.Database) *FixResult {
	result := &FixResult{}
	if v.equipmentTags == nil {
		return result
	}
	log := logger.G(ctx)

	for i := range database.Instruments {
		inst := &database.Instruments[i]
		ref := inst.EquipmentTag
		if ref == "" {
			continue
		}
		if _, ok := v.equipmentTags[ref]; ok {
			continue
		}

		location := inst.Tag.FullTag
		if location == "" {
			location = inst.InstrumentID
		}

		if fixed, ok := v.fixPairedSuffix(ref); ok {
			inst.EquipmentTag = fixed
			result.Fixed++
			result.Messages = append(result.Messages,
				fmt.Sprintf("[fix] %s: %q -> %q (stripped paired suffix)", location, ref, fixed))
			continue
		}

		if fixed, offset, ok := v.fixSiblingOffset(ref); ok {
			inst.EquipmentTag = fixed
			result.Fixed++
			result.Messages = append(result.Messages,
				fmt.Sprintf("[fix] %s: %q -> %q (sibling offset %+d)", location, ref, fixed, offset))
			continue
		}

		if !isaEquipmentTagPattern.MatchString(ref) {
			result.Messages = append(result.Messages,
				fmt.Sprintf("[info] %s: non-ISA equipment_tag %q skipped (manual review)", location, ref))
		}
	}

	log.WithField("fixed", result.Fixed).Debug("equipment reference auto-fix completed")
	return result
}

func (v *Validator) fixPairedSuffix(ref string) (string, bool) {
	base := pairedSuffixPattern.ReplaceAllString(ref, "")
	if base == ref || base == "" {
		return "", false
	}
	_, ok := v.equipmentTags[base]
	return base, ok
}

func (v *Validator) fixSiblingOffset(ref string) (string, int, bool) {
	m := isaEquipmentTagPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", 0, false
	}
	prefix, code, seqStr := m[1], m[2], m[3]

	seq, err := strconv.Atoi(seqStr)
	if err != nil {
		return "", 0, false
	}

	for _, offset := range siblingOffsets {
		sibling := seq + offset
		if sibling < 1 {
			continue
		}
		candidate := fmt.Sprintf("%s-%s-%0*d", prefix, code, len(seqStr), sibling)
		if _, ok := v.equipmentTags[candidate]; ok {
			return candidate, offset, true
		}
	}
	return "", 0, false
}
