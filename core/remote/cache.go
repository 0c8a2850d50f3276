package remote

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Snapshot is one fetched copy of the remote category tree.
type Snapshot struct {
	// Categories holds every category at fetch time.
	Categories []Category

	// Built is the timestamp when this snapshot was fetched.
	Built time.Time

	// TTL is the time-to-live for this snapshot.
	TTL time.Duration
}

// IsExpired returns true if this snapshot has outlived its TTL.
func (s *Snapshot) IsExpired() bool {
	if s.TTL == 0 {
		return true // No caching
	}
	return time.Since(s.Built) > s.TTL
}

// SnapshotCache serves read-only views of the remote tree to the HTTP API.
// Reconciliation runs never read from it; they always fetch fresh state.
type SnapshotCache struct {
	client Client
	ttl    time.Duration

	mu   sync.RWMutex
	snap *Snapshot
	sf   singleflight.Group
}

// NewSnapshotCache creates a cache over client. A zero TTL disables caching.
func NewSnapshotCache(client Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

// Get returns a fresh snapshot, fetching it if missing or expired.
// Uses singleflight so concurrent callers share one fetch.
func (c *SnapshotCache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil && !snap.IsExpired() {
		return snap, nil
	}

	result, err, _ := c.sf.Do("snapshot", func() (interface{}, error) {
		c.mu.RLock()
		snap := c.snap
		c.mu.RUnlock()
		if snap != nil && !snap.IsExpired() {
			return snap, nil
		}

		categories, err := c.client.FetchAll(ctx)
		if err != nil {
			return nil, err
		}
		fresh := &Snapshot{Categories: categories, Built: time.Now(), TTL: c.ttl}

		c.mu.Lock()
		c.snap = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

// Invalidate drops the cached snapshot, e.g. after a reconciliation run.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}
