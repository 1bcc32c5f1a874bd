package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Registry owns one Store per cart session id. Stores are created lazily and,
// when a Persister is configured, hydrated from it on first use.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*entry
	persister Persister
	log       *slog.Logger
	now       func() time.Time
}

// NewRegistry accepts a nil persister.
func NewRegistry(p Persister, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		entries:   make(map[string]*entry),
		persister: p,
		log:       log,
		now:       time.Now,
	}
}

// Get returns the store for id, creating it if needed. A failing persister
// degrades to an empty cart rather than failing the request.
func (r *Registry) Get(ctx context.Context, id string) *Store {
	r.mu.Lock()
	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
		r.mu.Unlock()
		return e.store
	}
	r.mu.Unlock()

	s := NewStore()
	if r.persister != nil {
		snap, ok, err := r.persister.Load(ctx, id)
		switch {
		case err != nil:
			r.log.WarnContext(ctx, "cart_load_failed", slog.String("cart_id", id), slog.Any("err", err))
		case ok:
			s.Restore(snap)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request may have won the race while we were loading
	if e, ok := r.entries[id]; ok {
		e.lastSeen = r.now()
		return e.store
	}
	r.entries[id] = &entry{store: s, lastSeen: r.now()}
	return s
}

// Save writes the current snapshot of id through the persister, if any.
func (r *Registry) Save(ctx context.Context, id string) error {
	if r.persister == nil {
		return nil
	}
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return r.persister.Save(ctx, id, e.store.Snapshot())
}

// Drop forgets id in memory and in the persister.
func (r *Registry) Drop(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
	if r.persister == nil {
		return nil
	}
	return r.persister.Delete(ctx, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict removes stores idle for longer than maxIdle, saving them first when a
// persister is configured. Without a persister evicted carts are lost, which is
// the expected lifetime of an unpersisted cart.
func (r *Registry) Evict(ctx context.Context, maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var stale []string
	snaps := map[string]Snapshot{}
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, id)
			snaps[id] = e.store.Snapshot()
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	if r.persister != nil {
		for _, id := range stale {
			if err := r.persister.Save(ctx, id, snaps[id]); err != nil {
				r.log.WarnContext(ctx, "cart_evict_save_failed", slog.String("cart_id", id), slog.Any("err", err))
			}
		}
	}
	return len(stale)
}

// RunEvictor calls Evict every interval until ctx is done.
func (r *Registry) RunEvictor(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Evict(ctx, maxIdle); n > 0 {
				r.log.Info("cart_evicted", slog.Int("count", n), slog.Int("remaining", r.Len()))
			}
		}
	}
}

// Flush saves every live store. Called on shutdown.
func (r *Registry) Flush(ctx context.Context) error {
	if r.persister == nil {
		return nil
	}
	r.mu.Lock()
	snaps := make(map[string]Snapshot, len(r.entries))
	for id, e := range r.entries {
		snaps[id] = e.store.Snapshot()
	}
	r.mu.Unlock()

	var firstErr error
	for id, snap := range snaps {
		if err := r.persister.Save(ctx, id, snap); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
