package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/warband/internal/apperr"
	"github.com/starford/warband/internal/models"
)

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Snippet string `json:"snippet"`
}

// Sort keys accepted by ListWarbands.
const (
	SortName    = "name"
	SortRating  = "rating"
	SortUpdated = "updated"
)

var orderBy = map[string]string{
	SortName:    "name COLLATE NOCASE ASC, id ASC",
	SortRating:  "rating DESC, name COLLATE NOCASE ASC",
	SortUpdated: "updated_at DESC, id ASC",
}

const summaryColumns = `id, name, faction, faction_label, owner, rating, units, active_units, checksum, updated_at`

// UpsertWarband inserts or replaces a summary row and its FTS entry within a
// transaction. body is the searchable text of the warband.
func (db *DB) UpsertWarband(s models.WarbandSummary, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO warbands (id, name, faction, faction_label, owner, rating, units, active_units, checksum, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name          = excluded.name,
			faction       = excluded.faction,
			faction_label = excluded.faction_label,
			owner         = excluded.owner,
			rating        = excluded.rating,
			units         = excluded.units,
			active_units  = excluded.active_units,
			checksum      = excluded.checksum,
			body          = excluded.body,
			updated_at    = excluded.updated_at
	`, s.ID, s.Name, s.Faction, s.FactionLabel, s.Owner, s.Rating, s.Units, s.ActiveUnits, s.Checksum, body, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert warband: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, s.ID, s.Name, s.Owner, body); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteWarband removes a summary row and its FTS entry.
func (db *DB) DeleteWarband(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	if _, err := tx.Exec(`DELETE FROM warbands WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete warband: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a warband, or empty string if not found.
func (db *DB) GetChecksum(id string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM warbands WHERE id = ?`, id).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// GetWarband returns the summary row for id.
func (db *DB) GetWarband(id string) (*models.WarbandSummary, error) {
	row := db.conn.QueryRow(`SELECT `+summaryColumns+` FROM warbands WHERE id = ?`, id)
	s, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: get %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("index: get %s: %w", id, err)
	}
	return &s, nil
}

// ListWarbands returns a page of summaries plus the total matching count.
// faction filters by exact faction code when non-empty; unknown sort keys
// fall back to SortName.
func (db *DB) ListWarbands(limit, offset int, faction, sort string) ([]models.WarbandSummary, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	order, ok := orderBy[sort]
	if !ok {
		order = orderBy[SortName]
	}

	where := ""
	args := []any{}
	if faction != "" {
		where = " WHERE faction = ?"
		args = append(args, faction)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM warbands`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count warbands: %w", err)
	}

	rows, err := db.conn.Query(`SELECT `+summaryColumns+` FROM warbands`+where+` ORDER BY `+order+` LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list warbands: %w", err)
	}
	defer rows.Close()

	out := []models.WarbandSummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// AllChecksums returns id → checksum for every indexed warband.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM warbands`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(r scanner) (models.WarbandSummary, error) {
	var s models.WarbandSummary
	err := r.Scan(&s.ID, &s.Name, &s.Faction, &s.FactionLabel, &s.Owner, &s.Rating,
		&s.Units, &s.ActiveUnits, &s.Checksum, &s.UpdatedAt)
	return s, err
}
