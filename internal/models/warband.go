// Package models defines the domain types for warband sheets.
package models

import "encoding/json"

// Attribute is a key into a figure's statistic blocks.
type Attribute string

// Attribute keys as they appear in persisted snapshots.
const (
	Movement  Attribute = "move"
	Melee     Attribute = "fight"
	Ranged    Attribute = "shoot"
	Armour    Attribute = "armour"
	Willpower Attribute = "Vontade"
	Health    Attribute = "health"
	Strength  Attribute = "strength"
)

// Attributes lists the seven displayed attributes in table order.
var Attributes = []Attribute{Movement, Melee, Ranged, Armour, Willpower, Health, Strength}

// StatBlock maps attribute keys to numeric values. A missing key means the
// snapshot did not carry the field at all.
type StatBlock map[Attribute]float64

// Value returns the value stored for key, or 0 when absent.
func (b StatBlock) Value(key Attribute) float64 {
	return b[key]
}

// Has reports whether the block carries key.
func (b StatBlock) Has(key Attribute) bool {
	_, ok := b[key]
	return ok
}

// Special-ability categories, in display order.
const (
	CategoryBlessing = "blessing"
	CategoryMutation = "mutation"
	CategoryMark     = "mark"
)

// Categories lists the special-ability categories in their fixed order.
var Categories = []string{CategoryBlessing, CategoryMutation, CategoryMark}

// CategoryLabel returns the display heading of a special-ability category.
func CategoryLabel(category string) string {
	switch category {
	case CategoryBlessing:
		return "Bênçãos de Nurgle"
	case CategoryMutation:
		return "Mutações"
	case CategoryMark:
		return "Marcas Sagradas"
	}
	return category
}

// Sheet is the normalized warband document. It is rebuilt from scratch on
// every snapshot event and never mutated afterwards.
type Sheet struct {
	Name      string   `json:"name"`
	Faction   string   `json:"faction"`
	Notes     string   `json:"notes"`
	Gold      int64    `json:"gold"`
	Wyrdstone int64    `json:"wyrdstone"`
	Vault     []Item   `json:"vault"`
	Units     []Entity `json:"units"`
	OwnerName string   `json:"owner_name"`
}

// Entity is a roster member.
type Entity struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	NarrativeName string `json:"narrative_name,omitempty"`
	Role          string `json:"role,omitempty"`
	Inactive      bool   `json:"inactive"`
	Stats         Stats  `json:"stats"`
	Figure        Figure `json:"figure"`
}

// Stats is the defaulted summary of a figure's base profile.
type Stats struct {
	Movement        float64  `json:"move"`
	Armour          float64  `json:"armour"`
	Cost            string   `json:"cost"`
	StartingXP      float64  `json:"starting_xp"`
	EquipmentSlots  int      `json:"equipment_slots"`
	AvailableSkills []string `json:"available_skills"`
}

// Figure is the authoritative game record of an entity. Raw carries the
// persisted figure unchanged; the remaining fields are typed projections of it.
type Figure struct {
	Raw json.RawMessage `json:"raw"`

	Base        StatBlock `json:"base"`
	Advancement StatBlock `json:"advancement"`
	Injury      StatBlock `json:"injury"`
	Misc        StatBlock `json:"misc"`

	Experience float64 `json:"xp"`
	Quality    float64 `json:"quality"`
	NoXP       bool    `json:"no_xp"`

	Skills           []Skill          `json:"skills"`
	Spells           []Spell          `json:"spells"`
	Injuries         []string         `json:"injuries"`
	Advancements     []string         `json:"advancements"`
	Equipped         []Item           `json:"equipped"`
	SpecialAbilities []SpecialAbility `json:"special_abilities"`
	SpecialRules     []Rule           `json:"special_rules"`
}

// Skill is a named skill with optional rules text.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Spell is a named spell with its casting number and keywords.
type Spell struct {
	Name          string   `json:"name"`
	Effect        string   `json:"effect,omitempty"`
	CastingNumber string   `json:"casting_number,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// SpecialAbility is one entry of the blessing/mutation/mark buckets.
type SpecialAbility struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Rule is a label/text pair attached to a figure or an item.
type Rule struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Item is an equipped or stored piece of equipment.
type Item struct {
	Name           string        `json:"name"`
	Type           string        `json:"type,omitempty"`
	Cost           string        `json:"cost,omitempty"`
	Spaces         string        `json:"spaces,omitempty"`
	DamageModifier *float64      `json:"damage_modifier,omitempty"`
	ArmorBonus     *float64      `json:"armor_bonus,omitempty"`
	MovePenalty    *float64      `json:"move_penalty,omitempty"`
	Effect         string        `json:"effect,omitempty"`
	Rules          []Rule        `json:"rules,omitempty"`
	Modifier       *ModifierStub `json:"modifier,omitempty"`
}

// HasDetails reports whether the item carries anything worth a detail card.
func (it Item) HasDetails() bool {
	return it.Type != "" || it.Cost != "" || it.Spaces != "" ||
		it.DamageModifier != nil || it.ArmorBonus != nil || it.MovePenalty != nil ||
		it.Effect != "" || len(it.Rules) > 0
}

// ModifierStub is the player-entered enchantment carried inline on an item.
type ModifierStub struct {
	Name   string `json:"name"`
	Effect string `json:"effect,omitempty"`
}
