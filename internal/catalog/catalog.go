// Package catalog holds the static weapon-modifier reference data.
//
// A Catalog is loaded once at startup and never mutated afterwards; lookups
// hand out copies so callers cannot alter the shared entries.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Kind names the catalog a modifier comes from.
type Kind string

// Catalog kinds, in lookup order. KindInline marks a modifier that was not
// found in any catalog and was taken from the item itself.
const (
	KindMelee    Kind = "melee"
	KindRanged   Kind = "ranged"
	KindFirearms Kind = "firearms"
	KindInline   Kind = "inline"
)

// Modifier is a weapon modifier definition.
type Modifier struct {
	Name         string `yaml:"name" json:"name"`
	Effect       string `yaml:"effect" json:"effect"`
	Cost         string `yaml:"cost,omitempty" json:"cost,omitempty"`
	Restrictions string `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
	Kind         Kind   `yaml:"-" json:"kind"`
}

type file struct {
	Melee    []Modifier `yaml:"melee"`
	Ranged   []Modifier `yaml:"ranged"`
	Firearms []Modifier `yaml:"firearms"`
}

// Catalog is the union of the melee, ranged and firearms modifier lists.
type Catalog struct {
	entries []Modifier
	// Names present in more than one list; first match wins on lookup.
	duplicates []string
}

//go:embed data/modifiers.yaml
var defaultData []byte

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(bytes.NewReader(defaultData))
})

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return loadDefault()
}

// MustDefault is like Default but panics if the embedded data is malformed.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML catalog with top-level melee, ranged and firearms lists.
func Load(r io.Reader) (*Catalog, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return New(f.Melee, f.Ranged, f.Firearms), nil
}

// New builds a catalog from the three lists. Entries without a name are skipped.
func New(melee, ranged, firearms []Modifier) *Catalog {
	c := &Catalog{entries: make([]Modifier, 0, len(melee)+len(ranged)+len(firearms))}
	seen := make(map[string]Kind)
	add := func(kind Kind, list []Modifier) {
		for _, m := range list {
			key := fold(m.Name)
			if key == "" {
				continue
			}
			if prev, ok := seen[key]; ok && prev != kind {
				c.duplicates = append(c.duplicates, m.Name)
			}
			if _, ok := seen[key]; !ok {
				seen[key] = kind
			}
			m.Kind = kind
			c.entries = append(c.entries, m)
		}
	}
	add(KindMelee, melee)
	add(KindRanged, ranged)
	add(KindFirearms, firearms)
	return c
}

// Lookup finds a modifier by case-insensitive name. Lists are scanned in
// melee, ranged, firearms order and the first match wins.
func (c *Catalog) Lookup(name string) (Modifier, bool) {
	if c == nil {
		return Modifier{}, false
	}
	key := fold(name)
	if key == "" {
		return Modifier{}, false
	}
	for _, m := range c.entries {
		if fold(m.Name) == key {
			return m, true
		}
	}
	return Modifier{}, false
}

// Len returns the total number of entries across all lists.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of every entry in lookup order.
func (c *Catalog) Entries() []Modifier {
	if c == nil {
		return nil
	}
	return append([]Modifier(nil), c.entries...)
}

// Duplicates returns names defined in more than one list.
func (c *Catalog) Duplicates() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.duplicates...)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
