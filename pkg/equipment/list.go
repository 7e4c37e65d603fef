// Package equipment loads the external equipment list consumed by the
// pattern applier and validator. The list is read-only input: either a plain
// YAML file or a QMD document whose YAML frontmatter carries the records.
package equipment

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Equipment is one record from the equipment list.
type Equipment struct {
	Tag         string   `yaml:"tag"`
	Description string   `yaml:"description,omitempty"`
	FeederType  string   `yaml:"feeder_type,omitempty"`
	HighPower   bool     `yaml:"high_power,omitempty"`
	PowerKW     *float64 `yaml:"power_kw,omitempty"`
}

type document struct {
	Equipment []Equipment `yaml:"equipment"`
}

// typeCodePattern extracts the equipment type code from a tag,
// e.g. "200-P-01" -> "P".
var typeCodePattern = regexp.MustCompile(`^\d{3}-([A-Z]+)-\d+`)

// TypeCode returns the equipment type code embedded in the tag, or "" when
// the tag does not follow the area-code-sequence convention.
func (e Equipment) TypeCode() string {
	return TypeCode(e.Tag)
}

// TypeCode extracts the equipment type code from any tag string.
func TypeCode(tag string) string {
	m := typeCodePattern.FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	return m[1]
}

// LoadList reads equipment records from path. Files with a .qmd extension
// are parsed as markdown with YAML frontmatter; anything else is parsed as a
// plain YAML document with a top-level "equipment" sequence.
func LoadList(path string) ([]Equipment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read equipment list")
	}

	content := data
	if strings.EqualFold(filepath.Ext(path), ".qmd") {
		front, err := frontmatter(string(data))
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
		content = []byte(front)
	}

	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse equipment list %s", path)
	}
	return doc.Equipment, nil
}

// frontmatter returns the YAML between the leading "---" fence pair.
func frontmatter(content string) (string, error) {
	if !strings.HasPrefix(content, "---") {
		return "", errors.New("no YAML frontmatter found")
	}

	lines := strings.Split(content, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return "", errors.New("unterminated YAML frontmatter")
	}
	return strings.Join(lines[1:end], "\n"), nil
}

// pairedSuffixPattern matches trailing /NN duty-standby suffixes.
var pairedSuffixPattern = regexp.MustCompile(`(/\d+)+$`)

// siblingPattern splits a slash-sibling tag into prefix, first sequence and
// the remaining /NN parts, e.g. "200-B-01/02" -> ("200-B-", "01", "/02").
var siblingPattern = regexp.MustCompile(`^(.*?-)(\d+)((?:/\d+)+)$`)

// ExpandTags builds the full set of tags the equipment list answers for,
// including comma-separated parts, slash-stripped bases and individual
// slash siblings ("200-B-01/02" expands to itself, "200-B-01" and
// "200-B-02").
func ExpandTags(list []Equipment) map[string]struct{} {
	tags := make(map[string]struct{})
	for _, eq := range list {
		if eq.Tag == "" {
			continue
		}
		tags[eq.Tag] = struct{}{}

		for _, part := range strings.Split(eq.Tag, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if base := pairedSuffixPattern.ReplaceAllString(part, ""); base != "" {
				tags[base] = struct{}{}
			}
			m := siblingPattern.FindStringSubmatch(part)
			if m == nil {
				continue
			}
			prefix, first, rest := m[1], m[2], m[3]
			seqs := []string{first}
			for _, s := range strings.Split(rest, "/") {
				if s != "" {
					seqs = append(seqs, s)
				}
			}
			for _, seq := range seqs {
				tags[prefix+seq] = struct{}{}
			}
		}
	}
	return tags
}

// Index returns equipment records keyed by their raw tag. Records without a
// tag are dropped.
func Index(list []Equipment) map[string]Equipment {
	idx := make(map[string]Equipment, len(list))
	for _, eq := range list {
		if eq.Tag != "" {
			idx[eq.Tag] = eq
		}
	}
	return idx
}
