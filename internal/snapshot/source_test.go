package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/warband/internal/apperr"
	"github.com/starford/warband/internal/sse"
	"github.com/starford/warband/internal/storage"
)

func testEnv(t *testing.T) (*storage.FS, *sse.Broker, *FileSource) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	b := sse.NewBroker(time.Second)
	t.Cleanup(b.Close)
	return store, b, NewFileSource(store, b, nil)
}

func next(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for snapshot event")
	}
	return Event{}
}

func TestSubscribe_InitialDocument(t *testing.T) {
	store, _, src := testEnv(t)
	_ = store.Write("bando", []byte(`{"name":"Bando"}`))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := src.Subscribe(ctx, "bando")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	ev := next(t, ch)
	if !ev.Exists || string(ev.Data) != `{"name":"Bando"}` || ev.ID != "bando" {
		t.Errorf("event = %+v", ev)
	}
}

func TestSubscribe_AbsentDocument(t *testing.T) {
	_, _, src := testEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := src.Subscribe(ctx, "missing")
	ev := next(t, ch)
	if ev.Exists || ev.Data != nil {
		t.Errorf("event = %+v, want absent", ev)
	}
}

func TestSubscribe_ChangeNotification(t *testing.T) {
	store, b, src := testEnv(t)
	_ = store.Write("bando", []byte(`{"v":1}`))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := src.Subscribe(ctx, "bando")
	_ = next(t, ch)

	_ = store.Write("bando", []byte(`{"v":2}`))
	b.PublishSnapshotEvent("updated", "bando")
	if ev := next(t, ch); string(ev.Data) != `{"v":2}` {
		t.Errorf("event = %s, want v2", ev.Data)
	}

	_ = store.Delete("bando")
	b.PublishSnapshotEvent("deleted", "bando")
	if ev := next(t, ch); ev.Exists {
		t.Errorf("event = %+v, want absent", ev)
	}
}

func TestSubscribe_LastEventWins(t *testing.T) {
	store, b, src := testEnv(t)
	_ = store.Write("bando", []byte(`{"v":0}`))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := src.Subscribe(ctx, "bando")

	// Nobody reads while several changes land.
	for _, v := range []string{`{"v":1}`, `{"v":2}`, `{"v":3}`} {
		_ = store.Write("bando", []byte(v))
		b.PublishSnapshotEvent("updated", "bando")
		time.Sleep(30 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if ev := next(t, ch); string(ev.Data) != `{"v":3}` {
		t.Errorf("event = %s, want only the latest", ev.Data)
	}
	select {
	case ev := <-ch:
		t.Errorf("stale event delivered: %s", ev.Data)
	default:
	}
}

func TestSubscribe_ClosesOnCancel(t *testing.T) {
	_, b, src := testEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := src.Subscribe(ctx, "bando")
	_ = next(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
	time.Sleep(50 * time.Millisecond)
	if n := b.ClientCount(); n != 0 {
		t.Errorf("clients = %d, want 0", n)
	}
}

func TestSubscribe_InvalidID(t *testing.T) {
	_, _, src := testEnv(t)
	_, err := src.Subscribe(context.Background(), "../etc")
	if !errors.Is(err, apperr.ErrInvalidID) {
		t.Errorf("err = %v, want ErrInvalidID", err)
	}
}
