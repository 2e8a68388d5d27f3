// Package snapshot delivers raw warband documents to subscribers as they
// change.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/warband/internal/apperr"
	"github.com/starford/warband/internal/storage"
)

// Event is one whole-document replacement. Exists is false when the
// document is absent; Data is then nil.
type Event struct {
	ID     string
	Data   []byte
	Exists bool
}

// Source yields snapshot events for a warband id until ctx is cancelled.
type Source interface {
	Subscribe(ctx context.Context, id string) (<-chan Event, error)
}

// Notifier fans out change notifications per warband id. *sse.Broker
// satisfies it.
type Notifier interface {
	SubscribeTopic(topic string) chan []byte
	Unsubscribe(ch chan []byte)
}

// FileSource reads snapshots from a storage.Provider and re-reads them on
// every change notification.
type FileSource struct {
	store    storage.Provider
	notifier Notifier
	logger   *slog.Logger
}

// NewFileSource creates a FileSource.
func NewFileSource(store storage.Provider, notifier Notifier, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{store: store, notifier: notifier, logger: logger}
}

// Subscribe emits the current document immediately and then one event per
// change notification. The returned channel holds at most one pending event:
// a newer event replaces an unread older one. The channel is closed when ctx
// is done or the notifier shuts down.
func (s *FileSource) Subscribe(ctx context.Context, id string) (<-chan Event, error) {
	if !storage.ValidID(id) {
		return nil, fmt.Errorf("snapshot: subscribe %q: %w", id, apperr.ErrInvalidID)
	}

	// Subscribe before the first read so no change between the two is lost.
	changes := s.notifier.SubscribeTopic(id)
	out := make(chan Event, 1)

	go func() {
		defer close(out)
		defer s.notifier.Unsubscribe(changes)

		offer(out, s.read(id))
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				offer(out, s.read(id))
			}
		}
	}()
	return out, nil
}

func (s *FileSource) read(id string) Event {
	data, err := s.store.Read(id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.logger.Warn("snapshot: read failed", slog.String("id", id), slog.String("error", err.Error()))
		}
		return Event{ID: id}
	}
	return Event{ID: id, Data: data, Exists: true}
}

// offer puts ev on a 1-slot channel, discarding an unread older event.
// Only the producing goroutine sends, so the drain-then-send cannot block.
func offer(ch chan Event, ev Event) {
	select {
	case <-ch:
	default:
	}
	ch <- ev
}
