package roster

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/starford/warband/internal/models"
)

// Role ranks, lowest first.
const (
	RankLeader = iota + 1
	RankLegend
	RankHero
	RankMercenary
	RankSoldier
	RankOther
)

// Rank maps a free-form role tag to its display rank. Matching is
// case-insensitive and ignores surrounding whitespace.
func Rank(role string) int {
	r := strings.ToLower(strings.TrimSpace(role))
	switch r {
	case "líder", "lider", "leader":
		return RankLeader
	case "lenda", "legend":
		return RankLegend
	case "herói", "heroi", "héroi", "hero":
		return RankHero
	case "", "soldado", "soldier":
		return RankSoldier
	}
	if strings.Contains(r, "mercen") {
		return RankMercenary
	}
	return RankOther
}

// Sort returns a new slice ordered by role rank, then by name using pt-BR
// collation. Ties on both keys keep their input order.
func Sort(units []models.Entity) []models.Entity {
	out := make([]models.Entity, len(units))
	copy(out, units)
	// A Collator is not safe for concurrent use; one per call.
	col := collate.New(language.BrazilianPortuguese)
	slices.SortStableFunc(out, func(a, b models.Entity) int {
		if ra, rb := Rank(a.Role), Rank(b.Role); ra != rb {
			return ra - rb
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
