package document

import (
	"strconv"
	"testing"

	"github.com/starford/warband/internal/catalog"
	"github.com/starford/warband/internal/equipment"
	"github.com/starford/warband/internal/models"
	"github.com/starford/warband/internal/normalize"
)

func sheetFrom(t *testing.T, raw string) models.Sheet {
	t.Helper()
	n := 0
	return normalize.FromJSON([]byte(raw), normalize.WithIDGenerator(func() string {
		n++
		return "gen-" + strconv.Itoa(n)
	}))
}

func resolver() *equipment.Resolver {
	return equipment.NewResolver(catalog.MustDefault())
}

func TestBuild_EmptyRoster(t *testing.T) {
	sheet := sheetFrom(t, `{"name":"Bando Teste","figures":[]}`)
	doc := Build(sheet, resolver(), Options{IncludeInactive: true})

	if doc.Title != "Bando Teste" || doc.Header.Name != "Bando Teste" {
		t.Errorf("title = %q, header = %q", doc.Title, doc.Header.Name)
	}
	if doc.Header.Rating != 0 {
		t.Errorf("rating = %v, want 0", doc.Header.Rating)
	}
	if len(doc.Cards) != 0 || len(doc.UnitCards()) != 0 {
		t.Errorf("cards = %d, want 0", len(doc.Cards))
	}
	if doc.Cards == nil || doc.DetailPages == nil {
		t.Error("expected non-nil slices")
	}
}

func TestBuild_DefaultTitle(t *testing.T) {
	doc := Build(models.Sheet{}, resolver(), Options{})
	if doc.Title != DefaultTitle {
		t.Errorf("title = %q, want %q", doc.Title, DefaultTitle)
	}
}

func TestBuild_SingleInactive(t *testing.T) {
	raw := `{"name":"B","figures":[{"id":"a","name":"Ana","inactive":true,"xp":10,"qualidade":2}]}`
	sheet := sheetFrom(t, raw)

	excluded := Build(sheet, resolver(), Options{IncludeInactive: false})
	if len(excluded.Cards) != 0 || len(excluded.DetailPages) != 0 {
		t.Errorf("inactive entity leaked: cards=%d pages=%d", len(excluded.Cards), len(excluded.DetailPages))
	}

	included := Build(sheet, resolver(), Options{IncludeInactive: true})
	if len(included.UnitCards()) != 1 || len(included.DetailPages) != 1 {
		t.Fatalf("cards=%d pages=%d, want 1/1", len(included.UnitCards()), len(included.DetailPages))
	}
	if included.Header.Rating != 0 {
		t.Errorf("rating = %v, want 0", included.Header.Rating)
	}
}

func TestBuild_ModifierFallback(t *testing.T) {
	raw := `{"figures":[{"id":"a","name":"Ana","equiped":[
		{"name":"Espada","type":"Arma","modifier":{"name":"Inexistente","effect":"Custom effect"}}
	]}]}`
	doc := Build(sheetFrom(t, raw), resolver(), Options{IncludeInactive: true})

	if len(doc.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(doc.Cards))
	}
	unit := doc.Cards[0].Unit
	if unit == nil || len(unit.Equipment) != 1 || unit.Equipment[0] != "Espada (Inexistente)" {
		t.Fatalf("unit equipment = %+v", unit)
	}
	eq := doc.Cards[1].Equipment
	if eq == nil || doc.Cards[1].Kind != KindEquipment {
		t.Fatalf("second card = %+v", doc.Cards[1])
	}
	if eq.Title != "Espada (Inexistente)" {
		t.Errorf("equipment title = %q", eq.Title)
	}
	last := eq.Rules[len(eq.Rules)-1]
	if last.Key != "modifier" || last.Value != "Custom effect" {
		t.Errorf("trailing rule = %+v", last)
	}
}

func TestBuild_CatalogModifierEffect(t *testing.T) {
	raw := `{"figures":[{"id":"a","name":"Ana","equiped":[
		{"name":"Machado","cost":"10","modifier":{"name":"afiada"}}
	]}]}`
	doc := Build(sheetFrom(t, raw), resolver(), Options{IncludeInactive: true})

	m, ok := catalog.MustDefault().Lookup("Afiada")
	if !ok {
		t.Fatal("catalog entry missing")
	}
	eq := doc.Cards[1].Equipment
	last := eq.Rules[len(eq.Rules)-1]
	if last.Value != m.Effect {
		t.Errorf("modifier line = %q, want %q", last.Value, m.Effect)
	}
}

func TestBuild_StrengthOmission(t *testing.T) {
	raw := `{"figures":[
		{"id":"a","name":"Sem","baseStats":{"move":6,"fight":2}},
		{"id":"b","name":"Zero","baseStats":{"move":6,"strength":0}}
	]}`
	cards := Build(sheetFrom(t, raw), resolver(), Options{IncludeInactive: true}).UnitCards()
	if len(cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(cards))
	}
	if hasField(cards[0].Attributes, string(models.Strength)) {
		t.Error("strength row shown for figure without strength field")
	}
	if len(cards[0].Attributes) != 6 {
		t.Errorf("attributes = %d, want 6", len(cards[0].Attributes))
	}
	f, ok := field(cards[1].Attributes, string(models.Strength))
	if !ok || f.Value != "0" {
		t.Errorf("strength row = %+v, %v; want value 0", f, ok)
	}
}

func TestBuild_AttributesUseResolvedTotals(t *testing.T) {
	raw := `{"figures":[{"id":"a","name":"Ana",
		"baseStats":{"fight":2,"shoot":-1},
		"advancementsStatsModifiers":{"fight":1},
		"injuryStatsModifiers":{"shoot":-1,"move":-1}
	}]}`
	card := Build(sheetFrom(t, raw), resolver(), Options{IncludeInactive: true}).UnitCards()[0]

	if f, _ := field(card.Attributes, "fight"); f.Value != "+3" {
		t.Errorf("fight = %q, want +3", f.Value)
	}
	if f, _ := field(card.Attributes, "shoot"); f.Value != "-2" {
		t.Errorf("shoot = %q, want -2", f.Value)
	}
	// Absent base movement and armour start at 10.
	if f, _ := field(card.Attributes, "move"); f.Value != "9" {
		t.Errorf("move = %q, want 9", f.Value)
	}
	if f, _ := field(card.Attributes, "armour"); f.Value != "10" {
		t.Errorf("armour = %q, want 10", f.Value)
	}
}

func TestBuild_RawRosterOrder(t *testing.T) {
	raw := `{"figures":[
		{"id":"1","name":"Zeca","role":"Soldado","equiped":[{"name":"Arco","type":"Arma"}]},
		{"id":"2","name":"Ana","role":"Líder"},
		{"id":"3","name":"Bruno","role":"Herói","narrativeName":"O Bravo"}
	]}`
	doc := Build(sheetFrom(t, raw), resolver(), Options{IncludeInactive: true})

	var kinds []CardKind
	var ids []string
	for _, c := range doc.Cards {
		kinds = append(kinds, c.Kind)
		ids = append(ids, c.EntityID)
	}
	wantKinds := []CardKind{KindUnit, KindEquipment, KindUnit, KindUnit}
	wantIDs := []string{"1", "1", "2", "3"}
	for i := range wantKinds {
		if i >= len(kinds) || kinds[i] != wantKinds[i] || ids[i] != wantIDs[i] {
			t.Fatalf("cards = %v %v, want %v %v", kinds, ids, wantKinds, wantIDs)
		}
	}
	if got := doc.UnitCards()[2].Title; got != "O Bravo, Bruno" {
		t.Errorf("title = %q", got)
	}
	pageIDs := []string{}
	for _, p := range doc.DetailPages {
		pageIDs = append(pageIDs, p.EntityID)
	}
	if len(pageIDs) != 3 || pageIDs[0] != "1" || pageIDs[1] != "2" || pageIDs[2] != "3" {
		t.Errorf("detail pages = %v", pageIDs)
	}
}

func TestBuild_ItemsWithoutDetailsGetNoCard(t *testing.T) {
	raw := `{"figures":[{"id":"a","name":"Ana","equiped":[{"name":"Adaga"},{"name":"Escudo","armorBonus":1}]}]}`
	doc := Build(sheetFrom(t, raw), resolver(), Options{IncludeInactive: true})
	if len(doc.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(doc.Cards))
	}
	eq := doc.Cards[1].Equipment
	if f, ok := field(eq.Fields, "armor_bonus"); !ok || f.Value != "1" {
		t.Errorf("armor bonus = %+v, %v", f, ok)
	}
	if _, ok := field(eq.Fields, "damage_modifier"); ok {
		t.Error("unexpected damage modifier field")
	}
}

func TestBuild_DetailPlaceholders(t *testing.T) {
	raw := `{"figures":[
		{"id":"a","name":"Vazio"},
		{"id":"b","name":"Mago",
		 "skills":[{"name":"Esquiva","description":"Evita golpes."}],
		 "spells":[{"name":"Raio","cn":12,"effect":"Dano.","keywords":["Fogo","Alcance"]}],
		 "mutations":["Tentáculo"]}
	]}`
	pages := Build(sheetFrom(t, raw), resolver(), Options{IncludeInactive: true}).DetailPages
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}

	empty := pages[0]
	if empty.Skills.Placeholder == "" || empty.Spells.Placeholder == "" || empty.SpecialAbilities.Placeholder == "" {
		t.Errorf("missing placeholders: %+v", empty)
	}

	full := pages[1]
	if full.Skills.Placeholder != "" || len(full.Skills.Entries) != 1 || full.Skills.Entries[0].Body != "Evita golpes." {
		t.Errorf("skills = %+v", full.Skills)
	}
	spell := full.Spells.Entries[0]
	if f, ok := field(spell.Fields, "casting_number"); !ok || f.Value != "12" {
		t.Errorf("casting number = %+v", spell.Fields)
	}
	if f, ok := field(spell.Fields, "keywords"); !ok || f.Value != "Fogo, Alcance" {
		t.Errorf("keywords = %+v", spell.Fields)
	}
	ab := full.SpecialAbilities.Entries
	if len(ab) != 1 || ab[0].Title != "Tentáculo" {
		t.Errorf("special abilities = %+v", ab)
	}
}

func TestBuild_AdvancementsAndRulesOmittedWhenEmpty(t *testing.T) {
	raw := `{"figures":[
		{"id":"a","name":"Ana"},
		{"id":"b","name":"Bia","advancements":["+1 Ímpeto"],"specialRules":[{"name":"Medo","description":"Causa medo."}]}
	]}`
	cards := Build(sheetFrom(t, raw), resolver(), Options{IncludeInactive: true}).UnitCards()
	if cards[0].Advancements != nil || cards[0].SpecialRules != nil {
		t.Errorf("expected omitted blocks, got %+v", cards[0])
	}
	if len(cards[1].Advancements) != 1 {
		t.Errorf("advancements = %v", cards[1].Advancements)
	}
	if len(cards[1].SpecialRules) != 1 || cards[1].SpecialRules[0].Label != "Medo" {
		t.Errorf("special rules = %+v", cards[1].SpecialRules)
	}
}

func field(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

func hasField(fields []Field, key string) bool {
	_, ok := field(fields, key)
	return ok
}
