// Package storage defines the snapshot directory abstraction.
package storage

import "github.com/starford/warband/internal/models"

// Ext is the file extension of snapshot documents.
const Ext = ".json"

// Provider is the interface for snapshot document operations. Documents are
// addressed by warband id and stored as <id>.json.
type Provider interface {
	// List returns metadata for every snapshot document.
	List() ([]models.SnapshotMeta, error)
	// Read returns the raw bytes of the snapshot for id.
	// A missing document yields apperr.ErrNotFound.
	Read(id string) ([]byte, error)
	// Write atomically replaces the snapshot for id.
	Write(id string, content []byte) error
	// Delete removes the snapshot for id.
	Delete(id string) error
}
