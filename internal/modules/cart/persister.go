package cart

import (
	"context"
	"sync"
)

// Persister stores cart snapshots across process restarts. It is optional:
// without one, carts live only as long as the process.
type Persister interface {
	Load(ctx context.Context, id string) (Snapshot, bool, error)
	Save(ctx context.Context, id string, snap Snapshot) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

var (
	_ Persister = (*MemoryPersister)(nil)
	_ Persister = (*RedisPersister)(nil)
)

// MemoryPersister keeps snapshots in a map.
type MemoryPersister struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{snaps: make(map[string]Snapshot)}
}

func (m *MemoryPersister) Load(_ context.Context, id string) (Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[id]
	if !ok {
		return Snapshot{}, false, nil
	}
	snap.Items = append([]Item(nil), snap.Items...)
	return snap, true, nil
}

func (m *MemoryPersister) Save(_ context.Context, id string, snap Snapshot) error {
	snap.Items = append([]Item(nil), snap.Items...)
	m.mu.Lock()
	m.snaps[id] = snap
	m.mu.Unlock()
	return nil
}

func (m *MemoryPersister) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.snaps, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryPersister) Ping(context.Context) error { return nil }
