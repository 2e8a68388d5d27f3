// Package equipment resolves item modifiers against the modifier catalog.
package equipment

import (
	"strings"

	"github.com/starford/warband/internal/catalog"
	"github.com/starford/warband/internal/models"
)

// Resolver looks up item modifiers in an injected catalog.
type Resolver struct {
	catalog *catalog.Catalog
}

// NewResolver creates a resolver over c. A nil catalog resolves every
// modifier to its inline stub.
func NewResolver(c *catalog.Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Resolve returns the modifier attached to item. Items without a named stub
// have no modifier. A stub that matches no catalog entry is returned as-is.
func (r *Resolver) Resolve(item models.Item) (catalog.Modifier, bool) {
	stub := item.Modifier
	if stub == nil || strings.TrimSpace(stub.Name) == "" {
		return catalog.Modifier{}, false
	}
	if r != nil {
		if m, ok := r.catalog.Lookup(stub.Name); ok {
			return m, true
		}
	}
	return catalog.Modifier{Name: stub.Name, Effect: stub.Effect, Kind: catalog.KindInline}, true
}

// EffectText returns the effect line for item's modifier: the resolved
// effect, or the stub's own text when the catalog entry has none.
func (r *Resolver) EffectText(item models.Item) string {
	m, ok := r.Resolve(item)
	if !ok {
		return ""
	}
	if m.Effect != "" {
		return m.Effect
	}
	return item.Modifier.Effect
}

// DisplayName composes "{item} ({modifier})" when a modifier stub is named,
// otherwise the bare item name.
func DisplayName(item models.Item) string {
	if item.Modifier != nil && strings.TrimSpace(item.Modifier.Name) != "" {
		return item.Name + " (" + item.Modifier.Name + ")"
	}
	return item.Name
}
