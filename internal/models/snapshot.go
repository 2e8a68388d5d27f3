package models

import "time"

// SnapshotMeta describes a persisted raw snapshot document.
type SnapshotMeta struct {
	ID        string    `json:"id"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarbandSummary is the indexed digest of a warband, derived from its sheet.
type WarbandSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Faction      string    `json:"faction"`
	FactionLabel string    `json:"faction_label"`
	Owner        string    `json:"owner"`
	Rating       float64   `json:"rating"`
	Units        int       `json:"units"`
	ActiveUnits  int       `json:"active_units"`
	Checksum     string    `json:"checksum,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
