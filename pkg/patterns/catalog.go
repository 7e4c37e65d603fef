// Package patterns holds the IO pattern catalog and the decision rules that
// map equipment records to pattern names. The catalog is embedded in the
// binary and can be overridden with an external YAML file.
package patterns

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed io-patterns.yaml
var builtinCatalog []byte

// ErrUnknownPattern indicates a pattern name absent from the catalog.
var ErrUnknownPattern = errors.New("unknown IO pattern")

// Signal is one IO point skeleton within a pattern. It carries everything an
// IO point needs except the generated io_point_id and the specialised
// description.
type Signal struct {
	Suffix      string `yaml:"suffix,omitempty"`
	Function    string `yaml:"function"`
	IOType      string `yaml:"io_type"`
	SignalType  string `yaml:"signal_type"`
	Component   string `yaml:"component,omitempty"`
	Description string `yaml:"description,omitempty"`
	Protocol    string `yaml:"protocol,omitempty"`
}

// Pattern is an immutable named template: an ordered list of signal
// skeletons.
type Pattern struct {
	Name        string
	Description string   `yaml:"description,omitempty"`
	Signals     []Signal `yaml:"signals"`
}

// Catalog is a read-only mapping from pattern name to pattern.
type Catalog struct {
	patterns map[string]*Pattern
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return parse(builtinCatalog)
}

// LoadFile reads a catalog from an external YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read pattern catalog")
	}
	catalog, err := parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return catalog, nil
}

func parse(data []byte) (*Catalog, error) {
	var raw map[string]*Pattern
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse pattern catalog")
	}

	for name, pattern := range raw {
		if pattern == nil || len(pattern.Signals) == 0 {
			return nil, errors.Errorf("pattern %q has no signals", name)
		}
		pattern.Name = name
	}
	return &Catalog{patterns: raw}, nil
}

// Lookup returns the named pattern or ErrUnknownPattern.
func (c *Catalog) Lookup(name string) (*Pattern, error) {
	pattern, ok := c.patterns[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownPattern, name)
	}
	return pattern, nil
}

// Names returns all pattern names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.patterns))
	for name := range c.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of patterns in the catalog.
func (c *Catalog) Len() int {
	return len(c.patterns)
}

// CountByIOType summarises a pattern's signals per IO type, useful for
// catalog listings.
func (p *Pattern) CountByIOType() string {
	counts := map[string]int{}
	for _, sig := range p.Signals {
		counts[sig.IOType]++
	}
	out := ""
	for _, io := range []string{"DI", "DO", "AI", "AO", "PI", "PO"} {
		if counts[io] == 0 {
			continue
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%d %s", counts[io], io)
	}
	return out
}
