package roster

import "github.com/starford/warband/internal/models"

var factionLabels = map[string]string{
	"mercenaries":            "Mercenários",
	"sisters-of-sigmar":      "Irmãs de Sigmar",
	"skaven":                 "Skaven",
	"beastman-raiders":       "Saqueadores Homem-Fera",
	"dwarf-treasure-hunters": "Caçadores de Tesouro Anões",
	"lizardmen":              "Reptilianos",
	"orc-mob":                "Horda Orc",
	"goblins":                "Goblins",
	"sons-of-hashut":         "Filhos de Hashut",
	"vampire-courts":         "Cortes Vampíricas",
	"cult-of-the-possessed":  "Culto dos Possuídos",
	"carnival-of-chaos":      "Circo do Caos",
	"dark-elf-corsairs":      "Corsários Druchii",
}

// FactionLabel returns the display name of the sheet's faction. Unknown codes
// are returned unchanged.
func FactionLabel(sheet models.Sheet) string {
	return Label(sheet.Faction)
}

// Label maps a faction code to its display name.
func Label(code string) string {
	if label, ok := factionLabels[code]; ok {
		return label
	}
	return code
}
