package mcpserver

// SnapshotFormatContract describes the raw warband snapshot format that
// LLM consumers should follow when writing or reading snapshot documents.
const SnapshotFormatContract = `# Warband Snapshot Format Contract

A snapshot is one JSON object stored as ` + "`" + `<id>.json` + "`" + ` in the snapshot directory.
Unknown keys are ignored. Missing keys take the defaults below; nothing is rejected.

## Root

| key         | type            | default          |
|-------------|-----------------|------------------|
| name        | string          | ""               |
| faction     | string (code)   | ""               |
| ownerName   | string          | "Desconhecido"   |
| notes       | string          | ""               |
| gold        | number          | 0                |
| wyrdstone   | number          | 0                |
| vault       | item[]          | []               |
| figures     | figure[]        | []               |

## Figure

` + "```" + `json
{
  "id": "m1",
  "name": "Mestre",
  "role": "Líder",
  "narrativeName": "O Corvo",
  "inactive": false,
  "xp": 10,
  "qualidade": 2,
  "noXP": false,
  "baseStats": {"move": 6, "fight": 3, "shoot": 1, "armour": 11, "Vontade": 4, "health": 14, "strength": 0, "cost": "100"},
  "equipmentSlots": 5,
  "advancementsStatsModifiers": {"fight": 1},
  "injuryStatsModifiers": {"move": -1},
  "miscStatsModifiers": {},
  "skills": ["Esquiva", {"name": "Liderança", "description": "..."}],
  "spells": [{"name": "Raio", "castingNumber": 12, "effect": "...", "keywords": ["Ataque"]}],
  "injuries": ["Perna Ferida (-1 Movimento)"],
  "advancements": ["+1 Ímpeto"],
  "equiped": [{"name": "Espada", "type": "Arma de mão", "purchaseCost": 10, "slots": 1,
               "modifier": {"name": "Afiada"}}],
  "nurgleBlessings": [], "mutations": [], "sacredMarks": [],
  "specialRules": [{"label": "Medo", "value": "..."}]
}
` + "```" + `

## Rules

1. **Numbers** may be JSON numbers, numeric strings (` + "`" + `"+2"` + "`" + `) or booleans.
   Anything else counts as 0.
2. **Attributes** are ` + "`" + `move, fight, shoot, armour, Vontade, health, strength` + "`" + `.
   The displayed value is base + advancements + injuries + misc modifiers.
   ` + "`" + `strength` + "`" + ` is shown only when the base value is present.
3. **Inactive** figures do not count towards the rating and are hidden from the view.
4. **Rating** = 5 × active figures + Σ (xp + qualidade) over active figures.
5. **Modifiers** are looked up by name in the catalog (case-insensitive). An unknown
   modifier falls back to its inline ` + "`" + `effect` + "`" + ` text.
6. **List entries** (skills, spells, injuries, advancements, abilities) may be bare
   strings or objects with a ` + "`" + `name` + "`" + `.
7. **Ids** match ` + "`" + `[A-Za-z0-9][A-Za-z0-9_-]*` + "`" + `; a figure without an id receives a
   generated one.
`
