package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_Loads(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}
	if d := c.Duplicates(); len(d) != 0 {
		t.Errorf("embedded catalog has cross-list duplicates: %v", d)
	}
	m, ok := c.Lookup("afiada")
	if !ok || m.Kind != KindMelee {
		t.Errorf("Lookup(afiada) = %+v, %v", m, ok)
	}
}

func TestLoad_OrderAndKinds(t *testing.T) {
	src := `
melee:
  - name: Alpha
    effect: melee alpha
ranged:
  - name: Beta
    effect: ranged beta
  - name: alpha
    effect: ranged alpha
firearms:
  - name: Gamma
    effect: firearm gamma
  - name: ""
    effect: skipped
`
	c, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 4 {
		t.Errorf("Len = %d, want 4", c.Len())
	}
	m, _ := c.Lookup("ALPHA")
	if m.Effect != "melee alpha" {
		t.Errorf("first match should be melee, got %+v", m)
	}
	m, _ = c.Lookup("gamma")
	if m.Kind != KindFirearms {
		t.Errorf("gamma kind = %q", m.Kind)
	}
	if d := c.Duplicates(); len(d) != 1 || d[0] != "alpha" {
		t.Errorf("Duplicates = %v, want [alpha]", d)
	}
}

func TestLoad_Empty(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d", c.Len())
	}
	if _, ok := c.Lookup("anything"); ok {
		t.Error("empty catalog should not match")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(strings.NewReader("melee: [")); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mods.yaml")
	if err := os.WriteFile(path, []byte("firearms:\n  - name: Mira\n    effect: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, ok := c.Lookup("mira"); !ok {
		t.Error("expected Mira entry")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c := New([]Modifier{{Name: "A", Effect: "a"}}, nil, nil)
	e := c.Entries()
	e[0].Effect = "changed"
	m, _ := c.Lookup("a")
	if m.Effect != "a" {
		t.Errorf("catalog mutated through Entries: %+v", m)
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	if _, ok := c.Lookup("x"); ok {
		t.Error("nil catalog lookup should miss")
	}
	if c.Len() != 0 {
		t.Error("nil catalog Len should be 0")
	}
}
