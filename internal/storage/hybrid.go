package storage

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/jonathan/jobfiltr/internal/types"
	"golang.org/x/sync/singleflight"
)

// DefaultBlocklistTTL is how long a fetched remote blocklist is reused.
const DefaultBlocklistTTL = time.Hour

// RemoteBlocklist is the shared community blocklist service.
type RemoteBlocklist interface {
	GetCommunityBlocklist(ctx context.Context) ([]types.BlocklistEntry, error)
}

// HybridStore keeps settings, lists and scores in a local Store and merges the
// remote community blocklist into GetCommunityBlocklist. The remote list is
// cached for the TTL; when the remote call fails the last cached copy is served.
type HybridStore struct {
	Store

	remote RemoteBlocklist
	ttl    time.Duration
	now    func() time.Time
	group  singleflight.Group

	mu        sync.RWMutex
	cached    []types.BlocklistEntry
	fetchedAt time.Time
}

// NewHybridStore layers remote over local. A nil remote makes the store behave like local.
func NewHybridStore(local Store, remote RemoteBlocklist, ttl time.Duration) *HybridStore {
	if ttl <= 0 {
		ttl = DefaultBlocklistTTL
	}
	return &HybridStore{Store: local, remote: remote, ttl: ttl, now: time.Now}
}

// GetCommunityBlocklist returns the local entries merged with the remote
// entries, remote winning on the same normalized name. It never fails.
func (h *HybridStore) GetCommunityBlocklist(ctx context.Context) ([]types.BlocklistEntry, error) {
	local, err := h.Store.GetCommunityBlocklist(ctx)
	if err != nil {
		log.Printf("[storage] local blocklist unavailable: %v", err)
		local = nil
	}
	return MergeBlocklists(local, h.remoteBlocklist(ctx)), nil
}

// Invalidate forces the next GetCommunityBlocklist to refetch the remote list.
func (h *HybridStore) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fetchedAt = time.Time{}
}

func (h *HybridStore) remoteBlocklist(ctx context.Context) []types.BlocklistEntry {
	if h.remote == nil {
		return nil
	}

	h.mu.RLock()
	cached, fetchedAt := h.cached, h.fetchedAt
	h.mu.RUnlock()
	if !fetchedAt.IsZero() && h.now().Sub(fetchedAt) < h.ttl {
		return cached
	}

	v, err, _ := h.group.Do("blocklist", func() (interface{}, error) {
		entries, err := h.remote.GetCommunityBlocklist(ctx)
		if err != nil {
			return nil, err
		}
		h.mu.Lock()
		h.cached = entries
		h.fetchedAt = h.now()
		h.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		log.Printf("[storage] remote blocklist unavailable, serving %d cached entries: %v", len(cached), err)
		return cached
	}
	return slices.Clone(v.([]types.BlocklistEntry))
}
