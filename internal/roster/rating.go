// Package roster aggregates and orders the members of a warband.
package roster

import (
	"math"

	"github.com/starford/warband/internal/models"
)

// Points every active member contributes to the rating on top of its
// experience and quality.
const memberWeight = 5

// Active returns the entities not flagged inactive, in roster order.
func Active(units []models.Entity) []models.Entity {
	out := make([]models.Entity, 0, len(units))
	for _, u := range units {
		if !u.Inactive {
			out = append(out, u)
		}
	}
	return out
}

// Rating computes the warband rating: 5 per active member plus the sum of
// their experience and quality.
func Rating(sheet models.Sheet) float64 {
	var total float64
	for _, u := range sheet.Units {
		if u.Inactive {
			continue
		}
		total += Contribution(u)
	}
	return total
}

// Contribution is what a single active entity adds to the rating.
func Contribution(u models.Entity) float64 {
	return memberWeight + finite(u.Figure.Experience) + finite(u.Figure.Quality)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
