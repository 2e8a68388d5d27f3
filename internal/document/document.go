// Package document builds the printable representation of a warband sheet.
//
// The document is a plain tree of cards and fields; turning it into markup is
// left to a renderer.
package document

// CardKind tells unit cards and equipment cards apart.
type CardKind string

// Card kinds.
const (
	KindUnit      CardKind = "unit"
	KindEquipment CardKind = "equipment"
)

// Document is the printable warband: a header, the summary cards in roster
// order, then the detail appendix.
type Document struct {
	Title       string       `json:"title"`
	Header      Header       `json:"header"`
	Cards       []Card       `json:"cards"`
	DetailPages []DetailPage `json:"detail_pages"`
}

// UnitCards returns only the unit cards, in document order.
func (d Document) UnitCards() []UnitCard {
	out := []UnitCard{}
	for _, c := range d.Cards {
		if c.Kind == KindUnit && c.Unit != nil {
			out = append(out, *c.Unit)
		}
	}
	return out
}

// Header is the document heading.
type Header struct {
	Name         string  `json:"name"`
	Owner        string  `json:"owner"`
	Faction      string  `json:"faction"`
	FactionLabel string  `json:"faction_label"`
	Rating       float64 `json:"rating"`
	Gold         int64   `json:"gold"`
	Wyrdstone    int64   `json:"wyrdstone"`
}

// Card is one node of the summary pass. Exactly one of Unit or Equipment is set.
type Card struct {
	Kind      CardKind       `json:"kind"`
	EntityID  string         `json:"entity_id"`
	Unit      *UnitCard      `json:"unit,omitempty"`
	Equipment *EquipmentCard `json:"equipment,omitempty"`
}

// Field is a labelled value. Key is stable across locales; Label is for display.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// UnitCard is the quick-reference card of a roster entity.
type UnitCard struct {
	EntityID         string   `json:"entity_id"`
	Title            string   `json:"title"`
	Role             string   `json:"role"`
	Faction          string   `json:"faction"`
	Cost             string   `json:"cost"`
	Attributes       []Field  `json:"attributes"`
	Equipment        []string `json:"equipment"`
	Skills           []string `json:"skills"`
	SpecialAbilities []string `json:"special_abilities"`
	Spells           []string `json:"spells"`
	Injuries         []string `json:"injuries"`
	// Advancements and SpecialRules are omitted from the card when empty.
	Advancements []string `json:"advancements,omitempty"`
	SpecialRules []Field  `json:"special_rules,omitempty"`
}

// EquipmentCard details one equipped item.
type EquipmentCard struct {
	EntityID string  `json:"entity_id"`
	Title    string  `json:"title"`
	Fields   []Field `json:"fields"`
	Effect   string  `json:"effect,omitempty"`
	Rules    []Field `json:"rules"`
}

// DetailPage is the appendix page of a roster entity.
type DetailPage struct {
	EntityID         string        `json:"entity_id"`
	Name             string        `json:"name"`
	Role             string        `json:"role"`
	Skills           DetailSection `json:"skills"`
	Spells           DetailSection `json:"spells"`
	SpecialAbilities DetailSection `json:"special_abilities"`
}

// DetailSection lists full rules text. Placeholder is set when there are no
// entries and should be rendered in their place.
type DetailSection struct {
	Title       string        `json:"title"`
	Placeholder string        `json:"placeholder,omitempty"`
	Entries     []DetailEntry `json:"entries"`
}

// DetailEntry is one skill, spell or special ability.
type DetailEntry struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields,omitempty"`
	Body   string  `json:"body"`
}
