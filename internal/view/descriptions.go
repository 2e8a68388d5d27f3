package view

import "regexp"

var advancementText = map[string]string{
	"Nova Habilidade":        "Escolha e adicione uma nova habilidade à figura.",
	"Nova Magia":             "Escolha e adicione uma nova magia à figura.",
	"Diminuir CD de Magia":   "Reduza em 1 o Número de Conjuração (CD) de uma magia conhecida.",
	"+1 Ímpeto":              "Aumenta permanentemente o atributo Ímpeto em +1.",
	"+1 Precisão":            "Aumenta permanentemente a Precisão em +1.",
	"+1 Armadura":            "Aumenta permanentemente a Armadura base em +1.",
	"+2 Vigor":               "Aumenta permanentemente o Vigor em +2.",
	"+2 Movimento":           "Aumenta permanentemente o Movimento em +2.",
	"+1 Vontade":             "Aumenta permanentemente a Vontade em +1.",
	"+1 Força":               "Aumenta permanentemente a Força em +1.",
	"O Moleque Tem Talento!": "Promoção: transforme um soldado promissor em herói conforme as regras da sua facção.",
}

var injuryText = map[string]string{
	"Ferimento na Perna":       "-2 permanentes em Movimento.",
	"Ombro Deslocado":          "Perde o Próximo Jogo se recuperando.",
	"Antebraço Esmagado":       "Braço Amputado. Só pode usar uma arma por vez e sem a característica Duas Mãos.",
	"Insanidade(Estupidez)":    "O Personagem ganha a característica Estupidez.",
	"Insanidade(Fúria)":        "O Personagem ganha a característica Fúria.",
	"Perna Deslocada":          "Perde o próximo jogo se recuperando.",
	"Fratura Exposta na Perna": "Não pode mais usar a ação de disparada e a ação de carga não dobra mais o movimento.",
	"Costelas Quebradas":       "-4 permanentes em Vida.",
	"Cego de Um Olho":          "-2 permanentes em Precisão. Se rolar de novo, é removido do bando.",
	"Ferimento Infectado":      "Rola um d20 antes de cada partida. Em um resultado de 1-5, não pode participar aquela partida.",
	"Trauma":                   "-1 permanente em Vontade.",
	"Mão Esmigalhada":          "-1 permanente em Ímpeto.",
	"Ferimento Profundo":       "Perde os próximos 3 jogos se recuperando. Não pode fazer atividades na fase de campanha enquanto se recupera.",
}

var parenthesised = regexp.MustCompile(`\(([^)]+)\)`)

// AdvancementDescription returns the canned rules text for an advancement,
// or "" for unknown names.
func AdvancementDescription(name string) string {
	return advancementText[name]
}

// InjuryDescription returns the canned rules text for an injury. Unknown
// injuries fall back to the text inside the first pair of parentheses.
func InjuryDescription(name string) string {
	if d, ok := injuryText[name]; ok {
		return d
	}
	if m := parenthesised.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}
