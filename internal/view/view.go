// Package view derives the interactive read-only view of a warband sheet.
//
// Unlike the printable document, the view lists only active entities and
// orders them by role and name.
package view

import (
	"strings"

	"github.com/starford/warband/internal/equipment"
	"github.com/starford/warband/internal/models"
	"github.com/starford/warband/internal/roster"
	"github.com/starford/warband/internal/stats"
)

// View is the derived state shown for one warband.
type View struct {
	Header Header `json:"header"`
	Units  []Unit `json:"units"`
}

// Header summarises the warband.
type Header struct {
	Owner        string  `json:"owner"`
	Name         string  `json:"name"`
	Faction      string  `json:"faction"`
	FactionLabel string  `json:"faction_label"`
	Gold         int64   `json:"gold"`
	Wyrdstone    int64   `json:"wyrdstone"`
	Notes        string  `json:"notes"`
	Rating       float64 `json:"rating"`
}

// Unit is one active roster entity as displayed.
type Unit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Badge is the role shown next to the title; set for leaders and heroes only.
	Badge string `json:"badge,omitempty"`
	Cost  string `json:"cost"`

	ShowExperience bool        `json:"show_experience"`
	Experience     float64     `json:"experience"`
	Advancements   []Described `json:"advancements"`
	Injuries       []Described `json:"injuries"`

	Attributes       []Attribute     `json:"attributes"`
	Skills           []models.Skill  `json:"skills"`
	Spells           []models.Spell  `json:"spells"`
	SpecialAbilities []AbilityGroup  `json:"special_abilities"`
	Equipment        []EquipmentLine `json:"equipment"`
	SpecialRules     []Described     `json:"special_rules"`
}

// Described is a name with optional rules text.
type Described struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Attribute is one row of the attribute list.
type Attribute struct {
	Key     models.Attribute `json:"key"`
	Label   string           `json:"label"`
	Value   float64          `json:"value"`
	Display string           `json:"display"`
}

// AbilityGroup holds the special abilities of one category.
type AbilityGroup struct {
	Category string      `json:"category"`
	Label    string      `json:"label"`
	Entries  []Described `json:"entries"`
}

// EquipmentLine is an equipped item with its resolved modifier effect.
type EquipmentLine struct {
	Name   string `json:"name"`
	Effect string `json:"effect,omitempty"`
}

// Build derives the view of sheet.
func Build(sheet models.Sheet, res *equipment.Resolver) View {
	v := View{
		Header: Header{
			Owner:        sheet.OwnerName,
			Name:         sheet.Name,
			Faction:      sheet.Faction,
			FactionLabel: roster.FactionLabel(sheet),
			Gold:         sheet.Gold,
			Wyrdstone:    sheet.Wyrdstone,
			Notes:        sheet.Notes,
			Rating:       roster.Rating(sheet),
		},
		Units: []Unit{},
	}
	for _, u := range roster.Sort(roster.Active(sheet.Units)) {
		v.Units = append(v.Units, unit(u, res))
	}
	return v
}

type roleFlags struct {
	legend, hero, leader, soldier bool
}

func classify(role string) roleFlags {
	r := strings.ToLower(strings.TrimSpace(role))
	return roleFlags{
		legend:  strings.Contains(r, "lenda") || strings.Contains(r, "legend"),
		hero:    strings.Contains(r, "hero") || strings.Contains(r, "herói") || strings.Contains(r, "héroi"),
		leader:  strings.Contains(r, "lider") || strings.Contains(r, "líder") || strings.Contains(r, "leader"),
		soldier: r == "soldado" || r == "soldier",
	}
}

func unit(u models.Entity, res *equipment.Resolver) Unit {
	fig := u.Figure
	role := classify(u.Role)

	out := Unit{
		ID:               u.ID,
		Title:            u.Name,
		Cost:             u.Stats.Cost,
		ShowExperience:   !role.legend && !fig.NoXP,
		Advancements:     []Described{},
		Injuries:         []Described{},
		Attributes:       []Attribute{},
		Skills:           []models.Skill{},
		Spells:           []models.Spell{},
		SpecialAbilities: []AbilityGroup{},
		Equipment:        []EquipmentLine{},
		SpecialRules:     []Described{},
	}
	if !role.legend && u.NarrativeName != "" {
		out.Title = u.NarrativeName + ", " + u.Name
	}
	if role.hero || role.leader {
		out.Badge = u.Role
	}

	if out.ShowExperience {
		out.Experience = fig.Experience
		for _, a := range fig.Advancements {
			out.Advancements = append(out.Advancements, Described{Name: a, Description: AdvancementDescription(a)})
		}
	}
	if role.hero || role.leader || role.legend {
		for _, inj := range fig.Injuries {
			out.Injuries = append(out.Injuries, Described{Name: inj, Description: InjuryDescription(inj)})
		}
	}

	for _, key := range models.Attributes {
		if !stats.Shown(fig, key) {
			continue
		}
		total := stats.Resolve(fig, key)
		out.Attributes = append(out.Attributes, Attribute{
			Key:     key,
			Label:   stats.Label(key),
			Value:   total,
			Display: stats.Format(key, total),
		})
	}

	if !role.soldier {
		out.Skills = append(out.Skills, fig.Skills...)
		out.Spells = append(out.Spells, fig.Spells...)
	}
	if !role.soldier && !role.legend {
		out.SpecialAbilities = abilityGroups(fig.SpecialAbilities)
	}

	if u.Stats.EquipmentSlots > 0 {
		for _, item := range fig.Equipped {
			out.Equipment = append(out.Equipment, EquipmentLine{
				Name:   equipment.DisplayName(item),
				Effect: res.EffectText(item),
			})
		}
	}

	for _, r := range fig.SpecialRules {
		out.SpecialRules = append(out.SpecialRules, Described{Name: r.Label, Description: r.Text})
	}
	return out
}

// abilityGroups buckets abilities by category in the fixed category order,
// skipping empty categories.
func abilityGroups(abilities []models.SpecialAbility) []AbilityGroup {
	out := []AbilityGroup{}
	for _, cat := range models.Categories {
		g := AbilityGroup{Category: cat, Label: models.CategoryLabel(cat), Entries: []Described{}}
		for _, a := range abilities {
			if a.Category == cat {
				g.Entries = append(g.Entries, Described{Name: a.Name, Description: a.Description})
			}
		}
		if len(g.Entries) > 0 {
			out = append(out, g)
		}
	}
	return out
}
