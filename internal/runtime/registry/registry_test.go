package registry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/wirelink-io/wirelink/internal/runtime/envelope"
	"github.com/wirelink-io/wirelink/internal/runtime/handler"
)

var noop = handler.HandlerFunc(func(ctx context.Context, req *envelope.Envelope) *envelope.Envelope {
	return nil
})

// quiet returns a registry whose sweeper effectively never fires, so tests
// control eviction explicitly.
func quiet(t *testing.T, ttl time.Duration, onExpire ExpireFunc) *Registry {
	t.Helper()
	r := New(ttl, time.Hour, onExpire)
	t.Cleanup(r.Shutdown)
	return r
}

func TestSetGetRemove(t *testing.T) {
	r := quiet(t, time.Minute, nil)

	r.Set("X", noop)
	if _, ok := r.Get("X"); !ok {
		t.Fatal("expected entry to be live")
	}

	r.Remove("X")
	if _, ok := r.Get("X"); ok {
		t.Fatal("expected entry to be gone after Remove")
	}

	// Removing an absent key is a no-op.
	r.Remove("X")
}

func TestSetOverwritesExistingEntry(t *testing.T) {
	r := quiet(t, time.Minute, nil)

	var hit string
	first := handler.HandlerFunc(func(ctx context.Context, req *envelope.Envelope) *envelope.Envelope {
		hit = "first"
		return nil
	})
	second := handler.HandlerFunc(func(ctx context.Context, req *envelope.Envelope) *envelope.Envelope {
		hit = "second"
		return nil
	})

	r.Set("X", first)
	r.Set("X", second)
	if r.Len() != 1 {
		t.Fatalf("expected one live entry, got %d", r.Len())
	}

	h, ok := r.Claim("X")
	if !ok {
		t.Fatal("expected claim to succeed")
	}
	h.Handle(context.Background(), envelope.New())
	if hit != "second" {
		t.Fatalf("expected the second handler, got %q", hit)
	}
}

func TestClaimIsSingleShot(t *testing.T) {
	r := quiet(t, time.Minute, nil)
	r.Set("X", noop)

	if _, ok := r.Claim("X"); !ok {
		t.Fatal("first claim should succeed")
	}
	if _, ok := r.Claim("X"); ok {
		t.Fatal("second claim should fail")
	}
}

func TestGetEvictsExpiredLazily(t *testing.T) {
	r := quiet(t, 20*time.Millisecond, func(key string, h handler.Handler) {
		t.Errorf("lazy eviction must not invoke the expiry callback (key %s)", key)
	})

	r.Set("X", noop)
	time.Sleep(40 * time.Millisecond)

	if _, ok := r.Get("X"); ok {
		t.Fatal("expired entry must not be returned")
	}
	if r.Len() != 0 {
		t.Fatal("expired entry must be evicted on read")
	}
}

func TestSweepInvokesExpiryCallback(t *testing.T) {
	var (
		mu      sync.Mutex
		expired []string
	)
	r := quiet(t, 10*time.Millisecond, func(key string, h handler.Handler) {
		mu.Lock()
		expired = append(expired, key)
		mu.Unlock()
	})

	r.Set("X", noop)
	r.Set("Y", noop)
	time.Sleep(25 * time.Millisecond)

	r.Sweep()

	mu.Lock()
	defer mu.Unlock()
	if len(expired) != 2 {
		t.Fatalf("expected 2 expired entries, got %v", expired)
	}
	if r.Len() != 0 {
		t.Fatal("swept entries must be removed")
	}
}

func TestSweepSkipsLiveEntries(t *testing.T) {
	r := quiet(t, time.Minute, func(key string, h handler.Handler) {
		t.Errorf("live entry %s must not expire", key)
	})

	r.Set("X", noop)
	r.Sweep()

	if _, ok := r.Get("X"); !ok {
		t.Fatal("live entry must survive the sweep")
	}
}

func TestBackgroundSweeperFires(t *testing.T) {
	fired := make(chan string, 1)
	r := New(10*time.Millisecond, 10*time.Millisecond, func(key string, h handler.Handler) {
		fired <- key
	})
	defer r.Shutdown()

	r.Set("X", noop)

	select {
	case key := <-fired:
		if key != "X" {
			t.Fatalf("unexpected key %q", key)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never fired")
	}
}

func TestShutdownDropsEntriesSilently(t *testing.T) {
	r := New(10*time.Millisecond, 10*time.Millisecond, func(key string, h handler.Handler) {
		t.Errorf("shutdown must not invoke the expiry callback (key %s)", key)
	})

	r.Set("X", noop)
	r.Shutdown()

	if r.Len() != 0 {
		t.Fatal("shutdown must drop all entries")
	}

	// A second shutdown is fine.
	r.Shutdown()

	// Give a pending tick the chance to misfire if Shutdown failed to stop
	// the sweeper.
	time.Sleep(30 * time.Millisecond)
}
