// Package normalize maps raw, loosely-typed warband snapshots into
// models.Sheet.
//
// Normalization is total: any input, including invalid JSON, yields a fully
// defaulted sheet. Every field access goes through a coalescing helper.
package normalize

import (
	"encoding/json"
	"reflect"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/starford/warband/internal/models"
)

// Defaults for absent snapshot fields.
const (
	DefaultOwner          = "Desconhecido"
	DefaultFigureName     = "Figura"
	DefaultCost           = "-"
	DefaultMovement       = 10
	DefaultArmour         = 10
	DefaultEquipmentSlots = 5
)

// Option configures a normalization pass.
type Option func(*options)

type options struct {
	newID func() string
}

// WithIDGenerator overrides how missing entity identifiers are synthesized.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// FromValue normalizes an already-decoded snapshot (maps, slices, scalars).
// Parts that cannot be encoded as JSON (non-finite floats, channels,
// functions) are dropped as if absent; the rest normalizes as usual.
func FromValue(v any, opts ...Option) models.Sheet {
	data, err := json.Marshal(encodable(reflect.ValueOf(v)))
	if err != nil {
		data = nil
	}
	return FromJSON(data, opts...)
}

// FromJSON normalizes a raw JSON snapshot document.
func FromJSON(data []byte, opts ...Option) models.Sheet {
	o := options{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}

	var root gjson.Result
	if gjson.ValidBytes(data) {
		root = gjson.ParseBytes(data)
	}

	sheet := models.Sheet{
		Name:      text(root.Get("name")),
		Faction:   text(root.Get("faction")),
		Notes:     text(root.Get("notes")),
		Gold:      counter(root.Get("gold")),
		Wyrdstone: counter(root.Get("wyrdstone")),
		Vault:     items(root.Get("vault")),
		Units:     []models.Entity{},
		OwnerName: text(root.Get("ownerName")),
	}
	if sheet.OwnerName == "" {
		sheet.OwnerName = DefaultOwner
	}
	each(root.Get("figures"), func(fig gjson.Result) {
		sheet.Units = append(sheet.Units, entity(fig, o.newID))
	})
	return sheet
}

func counter(r gjson.Result) int64 {
	return toInt64(number(r))
}

func entity(fig gjson.Result, newID func() string) models.Entity {
	base := fig.Get("baseStats")

	e := models.Entity{
		ID:            text(fig.Get("id")),
		Name:          text(fig.Get("name")),
		NarrativeName: text(fig.Get("narrativeName")),
		Role:          text(fig.Get("role")),
		Inactive:      truthy(fig.Get("inactive")),
		Stats: models.Stats{
			Movement:        numberOr(base.Get("move"), DefaultMovement),
			Armour:          numberOr(base.Get("armour"), DefaultArmour),
			Cost:            firstText(base.Get("cost")),
			StartingXP:      number(fig.Get("xp")),
			EquipmentSlots:  toInt(numberOr(fig.Get("equipmentSlots"), DefaultEquipmentSlots)),
			AvailableSkills: availableSkills(fig, base),
		},
		Figure: figure(fig, base),
	}
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Name == "" {
		e.Name = DefaultFigureName
	}
	if e.Stats.Cost == "" {
		e.Stats.Cost = DefaultCost
	}
	return e
}

func availableSkills(fig, base gjson.Result) []string {
	if r := base.Get("avaiableSkills"); r.IsArray() {
		return names(r)
	}
	return names(fig.Get("avaiableSkills"))
}

func figure(fig, base gjson.Result) models.Figure {
	raw := fig.Raw
	if raw == "" {
		raw = "null"
	}
	return models.Figure{
		Raw:              json.RawMessage(raw),
		Base:             baseBlock(base),
		Advancement:      block(fig.Get("advancementsStatsModifiers")),
		Injury:           block(fig.Get("injuryStatsModifiers")),
		Misc:             block(fig.Get("miscStatsModifiers")),
		Experience:       number(fig.Get("xp")),
		Quality:          number(fig.Get("qualidade")),
		NoXP:             truthy(fig.Get("noXP")),
		Skills:           skills(fig.Get("skills")),
		Spells:           spells(fig.Get("spells")),
		Injuries:         names(fig.Get("injuries")),
		Advancements:     names(fig.Get("advancements")),
		Equipped:         items(fig.Get("equiped")),
		SpecialAbilities: specialAbilities(fig),
		SpecialRules:     figureRules(fig.Get("specialRules")),
	}
}

// baseBlock is block with movement and armour defaulted when absent.
func baseBlock(r gjson.Result) models.StatBlock {
	b := block(r)
	if !b.Has(models.Movement) {
		b[models.Movement] = DefaultMovement
	}
	if !b.Has(models.Armour) {
		b[models.Armour] = DefaultArmour
	}
	return b
}

// block reads the attribute keys present in r. Null entries count as absent.
func block(r gjson.Result) models.StatBlock {
	b := models.StatBlock{}
	if !r.IsObject() {
		return b
	}
	for _, key := range models.Attributes {
		if v := r.Get(string(key)); present(v) {
			b[key] = number(v)
		}
	}
	return b
}

func skills(r gjson.Result) []models.Skill {
	out := []models.Skill{}
	each(r, func(v gjson.Result) {
		if n := entryName(v); n != "" {
			out = append(out, models.Skill{Name: n, Description: entryField(v, "description")})
		}
	})
	return out
}

func spells(r gjson.Result) []models.Spell {
	out := []models.Spell{}
	each(r, func(v gjson.Result) {
		n := entryName(v)
		if n == "" {
			return
		}
		sp := models.Spell{Name: n}
		if v.IsObject() {
			sp.Effect = text(v.Get("effect"))
			sp.CastingNumber = firstText(v.Get("castingNumber"), v.Get("cn"))
			sp.Keywords = names(v.Get("keywords"))
		}
		out = append(out, sp)
	})
	return out
}

var abilityBuckets = []struct {
	key      string
	category string
}{
	{"nurgleBlessings", models.CategoryBlessing},
	{"mutations", models.CategoryMutation},
	{"sacredMarks", models.CategoryMark},
}

func specialAbilities(fig gjson.Result) []models.SpecialAbility {
	out := []models.SpecialAbility{}
	for _, bucket := range abilityBuckets {
		each(fig.Get(bucket.key), func(v gjson.Result) {
			if n := entryName(v); n != "" {
				out = append(out, models.SpecialAbility{
					Category:    bucket.category,
					Name:        n,
					Description: entryField(v, "description"),
				})
			}
		})
	}
	return out
}

func figureRules(r gjson.Result) []models.Rule {
	out := []models.Rule{}
	each(r, func(v gjson.Result) {
		if n := entryField(v, "name"); n != "" {
			out = append(out, models.Rule{Label: n, Text: entryField(v, "description")})
		}
	})
	return out
}

func items(r gjson.Result) []models.Item {
	out := []models.Item{}
	each(r, func(v gjson.Result) {
		if it, ok := item(v); ok {
			out = append(out, it)
		}
	})
	return out
}

func item(v gjson.Result) (models.Item, bool) {
	if !v.IsObject() {
		n := text(v)
		return models.Item{Name: n}, n != ""
	}
	it := models.Item{
		Name:           text(v.Get("name")),
		Type:           text(v.Get("type")),
		Cost:           firstText(v.Get("purchaseCost"), v.Get("cost")),
		Spaces:         firstText(v.Get("slots"), v.Get("spaces")),
		DamageModifier: optNumber(v.Get("damageModifier")),
		ArmorBonus:     optNumber(v.Get("armorBonus")),
		MovePenalty:    optNumber(v.Get("movePenalty")),
		Effect:         text(v.Get("effect")),
		Rules:          itemRules(v.Get("specialRules")),
	}
	if m := v.Get("modifier"); m.IsObject() {
		it.Modifier = &models.ModifierStub{
			Name:   text(m.Get("name")),
			Effect: text(m.Get("effect")),
		}
	}
	return it, true
}

// itemRules accepts {label, value} and {term, description} entries; entries
// missing either half are skipped.
func itemRules(r gjson.Result) []models.Rule {
	var out []models.Rule
	each(r, func(v gjson.Result) {
		if !v.IsObject() {
			return
		}
		if l, val := text(v.Get("label")), text(v.Get("value")); l != "" && val != "" {
			out = append(out, models.Rule{Label: l, Text: val})
			return
		}
		if term, desc := text(v.Get("term")), text(v.Get("description")); term != "" && desc != "" {
			out = append(out, models.Rule{Label: term, Text: desc})
		}
	})
	return out
}
