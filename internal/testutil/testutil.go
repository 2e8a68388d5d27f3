// Package testutil provides shared test helpers for setting up snapshot
// directories, databases and services.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/starford/warband/internal/catalog"
	"github.com/starford/warband/internal/document"
	"github.com/starford/warband/internal/index"
	"github.com/starford/warband/internal/snapshot"
	"github.com/starford/warband/internal/sse"
	"github.com/starford/warband/internal/storage"
	"github.com/starford/warband/internal/warbandservice"
)

// Corvos is a small but complete raw snapshot: a leader with an enchanted
// weapon, a hero with a spell and an inactive soldier. Its rating is 22.
const Corvos = `{
	"name": "Corvos",
	"faction": "undead",
	"ownerName": "Ana",
	"gold": 120,
	"wyrdstone": 3,
	"figures": [
		{"id": "m", "name": "Mestre", "role": "Líder", "xp": 10, "qualidade": 2,
		 "baseStats": {"move": 6, "fight": 3, "shoot": 1, "armour": 11, "Vontade": 4, "health": 14, "cost": "100"},
		 "equiped": [{"name": "Espada", "type": "Arma de mão", "modifier": {"name": "Afiada"}}]},
		{"id": "h", "name": "Bruxa", "role": "Herói", "xp": 0,
		 "spells": [{"name": "Raio", "cn": 12, "effect": "Dano 5."}]},
		{"id": "z", "name": "Zeca", "role": "Soldado", "inactive": true, "xp": 9}
	]
}`

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "warband-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a temporary snapshot directory with a storage provider.
func TestStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Env bundles a fully wired service for handler tests.
type Env struct {
	Dir     string
	Store   *storage.FS
	DB      *index.DB
	Broker  *sse.Broker
	Service *warbandservice.Service
}

// NewEnv wires storage, index, broker and service over temporary resources.
// Inactive entities are included in documents.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	dir, store := TestStore(t)
	db := TestDB(t)
	broker := sse.NewBroker(100 * time.Millisecond)
	t.Cleanup(broker.Close)

	src := snapshot.NewFileSource(store, broker, nil)
	svc := warbandservice.NewService(store, db, src, catalog.MustDefault(), document.Options{IncludeInactive: true})
	return &Env{Dir: dir, Store: store, DB: db, Broker: broker, Service: svc}
}

// Seed stores raw under id through the service so it is indexed too.
func (e *Env) Seed(t *testing.T, id, raw string) {
	t.Helper()
	if _, err := e.Service.PutSnapshot(t.Context(), id, []byte(raw), ""); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}
