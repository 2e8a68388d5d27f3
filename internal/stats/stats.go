// Package stats resolves a figure's effective attributes.
package stats

import (
	"math"
	"strconv"

	"github.com/starford/warband/internal/models"
)

// Resolve returns base + advancement + injury + misc for key. Missing layers
// contribute 0 and the result is never clamped.
func Resolve(fig models.Figure, key models.Attribute) float64 {
	total := finite(fig.Base.Value(key)) +
		finite(fig.Advancement.Value(key)) +
		finite(fig.Injury.Value(key)) +
		finite(fig.Misc.Value(key))
	return finite(total)
}

// Signed reports whether key is conventionally shown with a leading "+".
func Signed(key models.Attribute) bool {
	switch key {
	case models.Melee, models.Ranged, models.Willpower:
		return true
	}
	return false
}

// Format renders v for display. Signed attributes get a "+" for values >= 0;
// negative values always keep their "-".
func Format(key models.Attribute, v float64) string {
	s := Number(v)
	if Signed(key) && v >= 0 {
		return "+" + s
	}
	return s
}

// Number renders v without trailing zeros ("3", "2.5").
func Number(v float64) string {
	if v == 0 {
		// Avoid "-0".
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Label returns the printed label for key.
func Label(key models.Attribute) string {
	switch key {
	case models.Movement:
		return "Movimento"
	case models.Melee:
		return "Ímpeto"
	case models.Ranged:
		return "Precisão"
	case models.Armour:
		return "Armadura"
	case models.Willpower:
		return "Vontade"
	case models.Health:
		return "Vigor"
	case models.Strength:
		return "Força"
	}
	return string(key)
}

// Shown reports whether key has a row in the attribute table. Only strength
// is optional: its row needs the field to be present in the base profile.
func Shown(fig models.Figure, key models.Attribute) bool {
	if key == models.Strength {
		return fig.Base.Has(models.Strength)
	}
	return true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
