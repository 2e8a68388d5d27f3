package document

import (
	"strings"

	"github.com/starford/warband/internal/equipment"
	"github.com/starford/warband/internal/models"
	"github.com/starford/warband/internal/roster"
	"github.com/starford/warband/internal/stats"
)

// DefaultTitle is used when the sheet has no name.
const DefaultTitle = "Bando"

// Options tunes document construction.
type Options struct {
	// IncludeInactive keeps inactive entities in the cards and detail pages.
	// The rating in the header never counts them.
	IncludeInactive bool
}

// Build lays out sheet as a printable document. Cards and detail pages follow
// the raw roster order, not the sorted display order.
func Build(sheet models.Sheet, res *equipment.Resolver, opts Options) Document {
	doc := Document{
		Title: sheet.Name,
		Header: Header{
			Name:         sheet.Name,
			Owner:        sheet.OwnerName,
			Faction:      sheet.Faction,
			FactionLabel: roster.FactionLabel(sheet),
			Rating:       roster.Rating(sheet),
			Gold:         sheet.Gold,
			Wyrdstone:    sheet.Wyrdstone,
		},
		Cards:       []Card{},
		DetailPages: []DetailPage{},
	}
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}

	units := sheet.Units
	if !opts.IncludeInactive {
		units = roster.Active(units)
	}

	for _, u := range units {
		card := unitCard(sheet, u)
		doc.Cards = append(doc.Cards, Card{Kind: KindUnit, EntityID: u.ID, Unit: &card})
		for _, item := range u.Figure.Equipped {
			if !item.HasDetails() {
				continue
			}
			eq := equipmentCard(u.ID, item, res)
			doc.Cards = append(doc.Cards, Card{Kind: KindEquipment, EntityID: u.ID, Equipment: &eq})
		}
	}
	for _, u := range units {
		doc.DetailPages = append(doc.DetailPages, detailPage(u))
	}
	return doc
}

func unitCard(sheet models.Sheet, u models.Entity) UnitCard {
	fig := u.Figure
	card := UnitCard{
		EntityID:         u.ID,
		Title:            u.Name,
		Role:             u.Role,
		Faction:          sheet.Faction,
		Cost:             u.Stats.Cost,
		Attributes:       attributeTable(fig),
		Equipment:        []string{},
		Skills:           []string{},
		SpecialAbilities: []string{},
		Spells:           []string{},
		Injuries:         append([]string{}, fig.Injuries...),
	}
	if u.NarrativeName != "" {
		card.Title = u.NarrativeName + ", " + u.Name
	}
	for _, item := range fig.Equipped {
		if name := equipment.DisplayName(item); name != "" {
			card.Equipment = append(card.Equipment, name)
		}
	}
	for _, s := range fig.Skills {
		card.Skills = append(card.Skills, s.Name)
	}
	for _, a := range fig.SpecialAbilities {
		card.SpecialAbilities = append(card.SpecialAbilities, a.Name)
	}
	for _, s := range fig.Spells {
		card.Spells = append(card.Spells, s.Name)
	}
	if len(fig.Advancements) > 0 {
		card.Advancements = append([]string{}, fig.Advancements...)
	}
	for _, r := range fig.SpecialRules {
		card.SpecialRules = append(card.SpecialRules, Field{Key: "rule", Label: r.Label, Value: r.Text})
	}
	return card
}

func attributeTable(fig models.Figure) []Field {
	out := make([]Field, 0, len(models.Attributes))
	for _, key := range models.Attributes {
		if !stats.Shown(fig, key) {
			continue
		}
		out = append(out, Field{
			Key:   string(key),
			Label: stats.Label(key),
			Value: stats.Format(key, stats.Resolve(fig, key)),
		})
	}
	return out
}

func equipmentCard(entityID string, item models.Item, res *equipment.Resolver) EquipmentCard {
	card := EquipmentCard{
		EntityID: entityID,
		Title:    equipment.DisplayName(item),
		Fields: []Field{
			{Key: "type", Label: "Tipo", Value: item.Type},
			{Key: "cost", Label: "Custo", Value: item.Cost},
			{Key: "spaces", Label: "Espaços", Value: item.Spaces},
		},
		Effect: item.Effect,
		Rules:  []Field{},
	}
	optional := []struct {
		key, label string
		v          *float64
	}{
		{"damage_modifier", "Mod. Dano", item.DamageModifier},
		{"armor_bonus", "Bônus Armadura", item.ArmorBonus},
		{"move_penalty", "Penal. Movimento", item.MovePenalty},
	}
	for _, o := range optional {
		if o.v != nil {
			card.Fields = append(card.Fields, Field{Key: o.key, Label: o.label, Value: stats.Number(*o.v)})
		}
	}
	for _, r := range item.Rules {
		card.Rules = append(card.Rules, Field{Key: "rule", Label: r.Label, Value: r.Text})
	}
	if effect := res.EffectText(item); effect != "" {
		card.Rules = append(card.Rules, Field{Key: "modifier", Label: "Modificador", Value: effect})
	}
	return card
}

func detailPage(u models.Entity) DetailPage {
	fig := u.Figure
	page := DetailPage{
		EntityID:         u.ID,
		Name:             u.Name,
		Role:             u.Role,
		Skills:           DetailSection{Title: "Habilidades", Entries: []DetailEntry{}},
		Spells:           DetailSection{Title: "Magias", Entries: []DetailEntry{}},
		SpecialAbilities: DetailSection{Title: "Habilidades Especiais", Entries: []DetailEntry{}},
	}

	for _, s := range fig.Skills {
		page.Skills.Entries = append(page.Skills.Entries, DetailEntry{Title: s.Name, Body: s.Description})
	}
	for _, sp := range fig.Spells {
		entry := DetailEntry{
			Title:  sp.Name,
			Fields: []Field{{Key: "casting_number", Label: "CD", Value: sp.CastingNumber}},
			Body:   sp.Effect,
		}
		if len(sp.Keywords) > 0 {
			entry.Fields = append(entry.Fields, Field{Key: "keywords", Label: "Palavras-chave", Value: strings.Join(sp.Keywords, ", ")})
		}
		page.Spells.Entries = append(page.Spells.Entries, entry)
	}
	for _, a := range fig.SpecialAbilities {
		page.SpecialAbilities.Entries = append(page.SpecialAbilities.Entries, DetailEntry{
			Title:  a.Name,
			Fields: []Field{{Key: "category", Label: "Categoria", Value: models.CategoryLabel(a.Category)}},
			Body:   a.Description,
		})
	}

	if len(page.Skills.Entries) == 0 {
		page.Skills.Placeholder = "Sem habilidades"
	}
	if len(page.Spells.Entries) == 0 {
		page.Spells.Placeholder = "Sem magias"
	}
	if len(page.SpecialAbilities.Entries) == 0 {
		page.SpecialAbilities.Placeholder = "Sem habilidades especiais"
	}
	return page
}
