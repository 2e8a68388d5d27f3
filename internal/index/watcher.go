package index

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/starford/warband/internal/storage"
)

// Event kinds reported to an EventCallback.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of KindCreated, KindUpdated, KindDeleted.
type EventCallback func(kind string, id string)

const reconcileDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the snapshot directory and processes
// change events until ctx is cancelled. It calls cb (if non-nil) after each
// successful index mutation.
//
// Whether a change is reported is decided against the checksum the watcher
// last saw for the snapshot, not against the index: writers such as the HTTP
// API index a snapshot themselves right after writing it, and their change
// must still reach subscribers.
//
// Rename events trigger a debounced reconciliation pass that removes stale
// index entries whose snapshots no longer exist on disk and indexes any new
// ones.
func Watch(ctx context.Context, db *DB, store storage.Provider, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	seen, err := db.AllChecksums()
	if err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, seen, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			id := storage.IDFromPath(ev.Name)
			if id == "" {
				// Temp files from atomic writes land here; their rename
				// shows up as a Create on the target.
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := store.Read(id)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("id", id), slog.String("error", readErr.Error()))
					continue
				}
				sum := storage.Checksum(data)
				prev, known := seen[id]
				if known && prev == sum {
					continue
				}
				if idxErr := indexSnapshot(db, id, data, time.Now().UTC()); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("id", id), slog.String("error", idxErr.Error()))
					continue
				}
				seen[id] = sum
				kind := KindUpdated
				if !known {
					kind = KindCreated
				}
				logger.Debug("watcher: indexed", slog.String("id", id), slog.String("op", kind))
				if cb != nil {
					cb(kind, id)
				}

			case ev.Op&fsnotify.Remove != 0:
				delete(seen, id)
				if delErr := db.DeleteWarband(id); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("id", id), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("id", id))
				if cb != nil {
					cb(KindDeleted, id)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new
				// path arrives as a separate Create event when it stays
				// inside the directory; the reconciliation pass catches
				// the rest.
				delete(seen, id)
				if delErr := db.DeleteWarband(id); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("id", id), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("id", id))
					if cb != nil {
						cb(KindDeleted, id)
					}
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile does a lightweight sync using batch lookups: index entries
// without a snapshot on disk are removed and snapshots unseen or changed
// since the last pass are indexed. seen is updated in place.
func reconcile(db *DB, store storage.Provider, seen map[string]string, logger *slog.Logger, cb EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := store.List()
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.ID] = m.Checksum
	}

	for id := range seen {
		if _, ok := disk[id]; !ok {
			delete(seen, id)
		}
	}

	for id := range checksums {
		if _, ok := disk[id]; !ok {
			if delErr := db.DeleteWarband(id); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("id", id))
				if cb != nil {
					cb(KindDeleted, id)
				}
			}
		}
	}

	for _, m := range metas {
		prev, known := seen[m.ID]
		if known && prev == m.Checksum {
			continue
		}
		data, readErr := store.Read(m.ID)
		if readErr != nil {
			continue
		}
		if idxErr := indexSnapshot(db, m.ID, data, m.UpdatedAt); idxErr == nil {
			seen[m.ID] = m.Checksum
			kind := KindUpdated
			if !known {
				kind = KindCreated
			}
			logger.Debug("reconcile: indexed", slog.String("id", m.ID), slog.String("op", kind))
			if cb != nil {
				cb(kind, m.ID)
			}
		}
	}
}
