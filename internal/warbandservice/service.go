// Package warbandservice runs the warband derivation pipeline over stored
// snapshots.
package warbandservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/warband/internal/apperr"
	"github.com/starford/warband/internal/catalog"
	"github.com/starford/warband/internal/document"
	"github.com/starford/warband/internal/equipment"
	"github.com/starford/warband/internal/index"
	"github.com/starford/warband/internal/models"
	"github.com/starford/warband/internal/normalize"
	"github.com/starford/warband/internal/snapshot"
	"github.com/starford/warband/internal/storage"
	"github.com/starford/warband/internal/view"
)

// State is the derived state of one snapshot event. View and Sheet are nil
// when the document is absent.
type State struct {
	ID     string        `json:"id"`
	Exists bool          `json:"exists"`
	Sheet  *models.Sheet `json:"-"`
	View   *view.View    `json:"view,omitempty"`
}

// Service coordinates storage, index and the derivation core.
type Service struct {
	store    storage.Provider
	db       index.WarbandIndex
	source   snapshot.Source
	catalog  *catalog.Catalog
	resolver *equipment.Resolver
	docOpts  document.Options
}

// NewService creates a new warband service. source may be nil, in which case
// Stream is unavailable.
func NewService(store storage.Provider, db index.WarbandIndex, source snapshot.Source, cat *catalog.Catalog, docOpts document.Options) *Service {
	return &Service{
		store:    store,
		db:       db,
		source:   source,
		catalog:  cat,
		resolver: equipment.NewResolver(cat),
		docOpts:  docOpts,
	}
}

// GetRaw returns the stored snapshot bytes for id.
func (s *Service) GetRaw(_ context.Context, id string) ([]byte, error) {
	data, err := s.store.Read(id)
	if err != nil {
		return nil, fmt.Errorf("warbandservice: get %s: %w", id, err)
	}
	return data, nil
}

// GetSheet reads and normalizes the snapshot for id.
func (s *Service) GetSheet(ctx context.Context, id string) (models.Sheet, error) {
	data, err := s.GetRaw(ctx, id)
	if err != nil {
		return models.Sheet{}, err
	}
	return normalize.FromJSON(data), nil
}

// GetView derives the interactive view for id.
func (s *Service) GetView(ctx context.Context, id string) (view.View, error) {
	sheet, err := s.GetSheet(ctx, id)
	if err != nil {
		return view.View{}, err
	}
	return view.Build(sheet, s.resolver), nil
}

// GetDocument builds the printable document for id.
func (s *Service) GetDocument(ctx context.Context, id string) (document.Document, error) {
	sheet, err := s.GetSheet(ctx, id)
	if err != nil {
		return document.Document{}, err
	}
	return document.Build(sheet, s.resolver, s.docOpts), nil
}

// GetSummary returns the indexed summary for id.
func (s *Service) GetSummary(_ context.Context, id string) (*models.WarbandSummary, error) {
	return s.db.GetWarband(id)
}

// ListWarbands returns paginated summaries with optional faction filter.
func (s *Service) ListWarbands(_ context.Context, limit, offset int, faction, sort string) ([]models.WarbandSummary, int, error) {
	return s.db.ListWarbands(limit, offset, faction, sort)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// ResolveModifier looks up a modifier by name in the catalog.
func (s *Service) ResolveModifier(name string) (catalog.Modifier, bool) {
	return s.catalog.Lookup(name)
}

// Catalog returns the modifier catalog in use.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// PutSnapshot stores a raw snapshot under id and indexes it. data must be a
// JSON object; its content is otherwise accepted as-is. A non-empty ifMatch
// must equal the checksum of the stored snapshot.
func (s *Service) PutSnapshot(_ context.Context, id string, data []byte, ifMatch string) (*models.WarbandSummary, error) {
	if !storage.ValidID(id) {
		return nil, fmt.Errorf("warbandservice: put %q: %w", id, apperr.ErrInvalidID)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("warbandservice: put %s: %w", id, apperr.ErrInvalidInput)
	}
	if ifMatch != "" {
		existing, err := s.store.Read(id)
		if err != nil {
			return nil, fmt.Errorf("warbandservice: put %s: %w", id, err)
		}
		if storage.Checksum(existing) != ifMatch {
			return nil, fmt.Errorf("warbandservice: put %s: %w", id, apperr.ErrConflict)
		}
	}
	if err := s.store.Write(id, data); err != nil {
		return nil, fmt.Errorf("warbandservice: put %s: %w", id, err)
	}
	return s.IndexSnapshot(id, data)
}

// ImportSnapshot stores a new snapshot under id. Unless overwrite is set an
// existing snapshot yields apperr.ErrAlreadyExists.
func (s *Service) ImportSnapshot(ctx context.Context, id string, data []byte, overwrite bool) (*models.WarbandSummary, error) {
	if !overwrite {
		if _, err := s.store.Read(id); err == nil {
			return nil, fmt.Errorf("warbandservice: import %s: %w", id, apperr.ErrAlreadyExists)
		}
	}
	return s.PutSnapshot(ctx, id, data, "")
}

// IndexSnapshot upserts the summary of data into the index.
func (s *Service) IndexSnapshot(id string, data []byte) (*models.WarbandSummary, error) {
	sum, body := index.Summarize(id, data, time.Now().UTC())
	if err := s.db.UpsertWarband(sum, body); err != nil {
		return nil, err
	}
	return &sum, nil
}

// DeleteSnapshot removes a snapshot from storage and index.
func (s *Service) DeleteSnapshot(_ context.Context, id string) error {
	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("warbandservice: delete %s: %w", id, err)
	}
	return s.db.DeleteWarband(id)
}

// Stream runs the pipeline for every snapshot event of id and hands the
// derived state to fn until ctx is done. Each state fully replaces the
// previous one; events that arrive while fn runs are coalesced to the latest.
func (s *Service) Stream(ctx context.Context, id string, fn func(State) error) error {
	if s.source == nil {
		return fmt.Errorf("warbandservice: stream: no snapshot source")
	}
	events, err := s.source.Subscribe(ctx, id)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := fn(s.derive(ev)); err != nil {
				return err
			}
		}
	}
}

func (s *Service) derive(ev snapshot.Event) State {
	if !ev.Exists {
		return State{ID: ev.ID}
	}
	sheet := normalize.FromJSON(ev.Data)
	v := view.Build(sheet, s.resolver)
	return State{ID: ev.ID, Exists: true, Sheet: &sheet, View: &v}
}
