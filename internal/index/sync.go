package index

import (
	"log/slog"
	"strings"
	"time"

	"github.com/starford/warband/internal/models"
	"github.com/starford/warband/internal/normalize"
	"github.com/starford/warband/internal/roster"
	"github.com/starford/warband/internal/storage"
)

// Sync walks the snapshot directory and brings the index up to date:
//   - new/changed snapshots are normalized and upserted
//   - snapshots removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.ID] = struct{}{}

		if checksums[m.ID] == m.Checksum {
			continue
		}

		data, err := store.Read(m.ID)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("id", m.ID), slog.String("error", err.Error()))
			continue
		}
		if err := indexSnapshot(db, m.ID, data, m.UpdatedAt); err != nil {
			logger.Warn("sync: index failed", slog.String("id", m.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("id", m.ID))
		}
	}

	// Remove stale entries.
	for id := range checksums {
		if _, ok := disk[id]; !ok {
			if err := db.DeleteWarband(id); err != nil {
				logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("id", id))
			}
		}
	}

	return nil
}

// Summarize derives the index row and searchable text of a raw snapshot.
func Summarize(id string, data []byte, updatedAt time.Time) (models.WarbandSummary, string) {
	sheet := normalize.FromJSON(data)
	s := models.WarbandSummary{
		ID:           id,
		Name:         sheet.Name,
		Faction:      sheet.Faction,
		FactionLabel: roster.FactionLabel(sheet),
		Owner:        sheet.OwnerName,
		Rating:       roster.Rating(sheet),
		Units:        len(sheet.Units),
		ActiveUnits:  len(roster.Active(sheet.Units)),
		Checksum:     storage.Checksum(data),
		UpdatedAt:    updatedAt,
	}

	parts := []string{sheet.Name, sheet.OwnerName, s.FactionLabel}
	for _, u := range sheet.Units {
		parts = append(parts, u.Name)
		if u.NarrativeName != "" {
			parts = append(parts, u.NarrativeName)
		}
	}
	if sheet.Notes != "" {
		parts = append(parts, sheet.Notes)
	}
	return s, strings.Join(parts, " ")
}

// indexSnapshot summarizes data and upserts it into the DB.
func indexSnapshot(db *DB, id string, data []byte, updatedAt time.Time) error {
	s, body := Summarize(id, data, updatedAt)
	return db.UpsertWarband(s, body)
}
