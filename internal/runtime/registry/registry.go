// Package registry tracks pending-reply handlers keyed by envelope ID.
// Entries expire after a fixed TTL; a background sweeper evicts them and
// hands the evicted handler to an expiry callback so the dispatcher can
// deliver a synthetic timeout reply.
package registry

import (
	"sync"
	"time"

	handlerpkg "github.com/wirelink-io/wirelink/internal/runtime/handler"
)

// Defaults applied when New receives zero durations.
const (
	DefaultTTL           = 2 * time.Minute
	DefaultSweepInterval = time.Minute
)

// ExpireFunc receives entries evicted by the sweep, before any new entry
// can reuse the key.
type ExpireFunc func(key string, h handlerpkg.Handler)

type entry struct {
	h         handlerpkg.Handler
	expiresAt time.Time
}

// Registry is a keyed store of pending-reply handlers with TTL-based
// eviction. Safe for concurrent use; the sweeper runs in its own goroutine
// from construction until Shutdown.
type Registry struct {
	mu      sync.Mutex
	entries map[string]entry

	ttl      time.Duration
	onExpire ExpireFunc

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Registry and starts its sweeper. onExpire may be nil, in
// which case swept entries are dropped without notification.
func New(ttl, sweepInterval time.Duration, onExpire ExpireFunc) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	r := &Registry{
		entries:  make(map[string]entry),
		ttl:      ttl,
		onExpire: onExpire,
		done:     make(chan struct{}),
	}
	go r.sweepLoop(sweepInterval)
	return r
}

func (r *Registry) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-r.done:
			return
		}
	}
}

// Set stores h under key with expiry now + TTL, silently replacing any
// existing entry for the same key.
func (r *Registry) Set(key string, h handlerpkg.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = entry{h: h, expiresAt: time.Now().Add(r.ttl)}
}

// Get returns the live handler for key. An entry found expired is evicted
// as a side effect, without invoking the expiry callback.
func (r *Registry) Get(key string) (handlerpkg.Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.After(time.Now()) {
		delete(r.entries, key)
		return nil, false
	}
	return e.h, true
}

// Claim atomically removes and returns the live handler for key. Used when
// a reply arrives: at most one claim succeeds per registration.
func (r *Registry) Claim(key string) (handlerpkg.Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	delete(r.entries, key)
	if !e.expiresAt.After(time.Now()) {
		return nil, false
	}
	return e.h, true
}

// Remove unconditionally deletes the entry for key, cancelling delivery of
// its reply or timeout. No-op when absent.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

// Len returns the number of live and not-yet-swept entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep runs one eviction pass. Expired entries are removed from the store
// and their handlers passed to the expiry callback. The callback runs
// outside the registry lock so it may re-enter the registry.
func (r *Registry) Sweep() {
	now := time.Now()

	type expired struct {
		key string
		h   handlerpkg.Handler
	}
	var evicted []expired

	r.mu.Lock()
	for key, e := range r.entries {
		if !e.expiresAt.After(now) {
			evicted = append(evicted, expired{key: key, h: e.h})
			delete(r.entries, key)
		}
	}
	r.mu.Unlock()

	if r.onExpire == nil {
		return
	}
	for _, e := range evicted {
		r.onExpire(e.key, e.h)
	}
}

// Shutdown stops the sweeper and drops all entries without invoking the
// expiry callback. Idempotent.
func (r *Registry) Shutdown() {
	r.stopOnce.Do(func() { close(r.done) })

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]entry)
}
