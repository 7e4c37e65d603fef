// Package isa decodes ISA-5.1 instrument tags into their structural
// components: plant area, measured variable, function letters, modifier,
// loop number and suffix. Decoding is a pure function with no I/O.
package isa

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidTagFormat indicates the tag string does not match the
// {AREA}-{LETTERS}-{LOOP}{SUFFIX?} grammar.
var ErrInvalidTagFormat = errors.New("invalid tag format")

// UnknownLetterError indicates a function letter that is not part of the
// ISA-5.1 succeeding-letter table.
type UnknownLetterError struct {
	Letter string
}

func (e *UnknownLetterError) Error() string {
	return fmt.Sprintf("unknown ISA-5.1 function letter %q", e.Letter)
}

// tagPattern matches {AREA}-{LETTERS}-{LOOP}{SUFFIX?}, e.g. "200-FIT-01A".
var tagPattern = regexp.MustCompile(`^(\d{3})-([A-Z]+)-(\d+)([A-Z]?)$`)

// Tag is a decoded ISA-5.1 instrument tag.
type Tag struct {
	Area          string   `json:"area" yaml:"area"`
	Variable      string   `json:"variable" yaml:"variable"`
	VariableName  string   `json:"variable_name" yaml:"variable_name"`
	Function      string   `json:"function" yaml:"function"`
	FunctionNames []string `json:"function_names" yaml:"function_names"`
	Modifier      string   `json:"modifier" yaml:"modifier"`
	LoopNumber    string   `json:"loop_number" yaml:"loop_number"`
	Suffix        string   `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Category      string   `json:"category" yaml:"category"`
	FullTag       string   `json:"full_tag" yaml:"full_tag"`
}

// Decode parses an ISA-5.1 instrument tag. The input is upper-cased before
// matching. On failure no partial result is returned.
func Decode(tag string) (*Tag, error) {
	normalized := strings.ToUpper(strings.TrimSpace(tag))

	m := tagPattern.FindStringSubmatch(normalized)
	if m == nil {
		return nil, errors.Wrap(ErrInvalidTagFormat, normalized)
	}

	area, letters, loopNumber, suffix := m[1], m[2], m[3], m[4]
	if len(letters) < 2 {
		return nil, errors.Wrap(ErrInvalidTagFormat, normalized)
	}

	variable := letters[:1]
	variableName, ok := FirstLetters[variable]
	if !ok {
		return nil, &UnknownLetterError{Letter: variable}
	}

	function, modifier := splitModifier(letters[1:])

	functionNames := make([]string, 0, len(function))
	for _, c := range strings.Split(function, "") {
		name, ok := SucceedingLetters[c]
		if !ok {
			return nil, &UnknownLetterError{Letter: c}
		}
		functionNames = append(functionNames, name)
	}

	return &Tag{
		Area:          area,
		Variable:      variable,
		VariableName:  variableName,
		Function:      function,
		FunctionNames: functionNames,
		Modifier:      modifier,
		LoopNumber:    loopNumber,
		Suffix:        suffix,
		Category:      classify(function, modifier),
		FullTag:       normalized,
	}, nil
}

// splitModifier splits function letters into the function proper and a
// trailing setpoint modifier (HH, LL, H, L, or A). A trailing S or D is
// never a modifier here: S is the switch/safety function letter (LS, PS)
// and D marks differential measurements (PDT), so both stay part of the
// function.
func splitModifier(letters string) (function, modifier string) {
	for _, m := range []string{"HH", "LL"} {
		if len(letters) > len(m) && strings.HasSuffix(letters, m) {
			return letters[:len(letters)-len(m)], m
		}
	}
	last := letters[len(letters)-1:]
	if len(letters) > 1 && (last == "H" || last == "L" || last == "A") {
		return letters[:len(letters)-1], last
	}
	return letters, ""
}

// classify derives the instrument category from its function letters.
// Transmitting and controlling dominate; a bare alarm letter is an alarm
// when qualified high/low and a safety function otherwise.
func classify(function, modifier string) string {
	switch {
	case strings.Contains(function, "T"):
		return "transmitting"
	case strings.Contains(function, "C"):
		return "controlling"
	case function == "A":
		if modifier == "H" || modifier == "L" || modifier == "HH" || modifier == "LL" {
			return "alarm"
		}
		return "safety"
	case strings.Contains(function, "S"):
		return "switching"
	case strings.Contains(function, "V"):
		return "valve"
	case strings.Contains(function, "R"):
		return "recording"
	case strings.Contains(function, "I"):
		return "indicating"
	default:
		return "primary"
	}
}

// Render reassembles the tag from its components. For any tag accepted by
// Decode, Render reproduces the normalized input exactly.
func (t *Tag) Render() string {
	return fmt.Sprintf("%s-%s%s%s-%s%s", t.Area, t.Variable, t.Function, t.Modifier, t.LoopNumber, t.Suffix)
}

// LoopKey returns the {area}-{variable}-{loop} key shared by all
// instruments in the same control loop.
func (t *Tag) LoopKey() string {
	return fmt.Sprintf("%s-%s-%s", t.Area, t.Variable, t.LoopNumber)
}

// Validate checks a tag string without returning the decoded record.
func Validate(tag string) error {
	_, err := Decode(tag)
	return err
}
