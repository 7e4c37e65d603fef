// Package taxonomy provides the process-unit taxonomy used to validate
// process_unit_type references. A default water/wastewater taxonomy is
// embedded; projects can supply their own as a YAML list of dotted paths.
package taxonomy

import (
	_ "embed"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed process-units.yaml
var builtinTaxonomy []byte

// Taxonomy answers membership queries over a set of dotted process-unit
// paths. A listed path also covers its descendants, so
// "wastewater.secondary" accepts "wastewater.secondary.clarifier".
type Taxonomy struct {
	entries map[string]struct{}
}

type document struct {
	ProcessUnitTypes []string `yaml:"process_unit_types"`
}

// Default returns the embedded taxonomy.
func Default() (*Taxonomy, error) {
	return parse(builtinTaxonomy)
}

// LoadFile reads a taxonomy from an external YAML file.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read taxonomy")
	}
	taxonomy, err := parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return taxonomy, nil
}

func parse(data []byte) (*Taxonomy, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse taxonomy")
	}
	if len(doc.ProcessUnitTypes) == 0 {
		return nil, errors.New("taxonomy has no process_unit_types")
	}

	entries := make(map[string]struct{}, len(doc.ProcessUnitTypes))
	for _, entry := range doc.ProcessUnitTypes {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			entries[entry] = struct{}{}
		}
	}
	return &Taxonomy{entries: entries}, nil
}

// Contains reports whether path is a listed entry or a descendant of one.
func (t *Taxonomy) Contains(path string) bool {
	if _, ok := t.entries[path]; ok {
		return true
	}
	for idx := strings.LastIndex(path, "."); idx > 0; idx = strings.LastIndex(path, ".") {
		path = path[:idx]
		if _, ok := t.entries[path]; ok {
			return true
		}
	}
	return false
}

// Len returns the number of listed entries.
func (t *Taxonomy) Len() int {
	return len(t.entries)
}
