package index

import "github.com/starford/warband/internal/models"

// WarbandIndex defines the interface for warband summary indexing.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type WarbandIndex interface {
	UpsertWarband(s models.WarbandSummary, body string) error
	DeleteWarband(id string) error
	GetChecksum(id string) (string, error)
	GetWarband(id string) (*models.WarbandSummary, error)
	ListWarbands(limit, offset int, faction, sort string) ([]models.WarbandSummary, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies WarbandIndex at compile time.
var _ WarbandIndex = (*DB)(nil)
