package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/models"
)

type Priority string

const (
	PriorityNormal      Priority = "NORMAL"
	PriorityNeverRemove Priority = "NEVER_REMOVE"
)

// Config is the immutable set of options the cache entry is installed with.
type Config struct {
	// Key the pending collection is stored under.
	Key string
	// AbsoluteExpiration is the hard deadline measured from the last Replace.
	AbsoluteExpiration time.Duration
	// SlidingExpiration, when non-zero, is a reset-on-access window. The entry
	// expires at the sooner of the sliding and absolute deadlines.
	SlidingExpiration time.Duration
	// Priority is an eviction hint. The backing store never sheds entries under
	// memory pressure, so NEVER_REMOVE holds for free; the field is kept so the
	// deployment profile stays explicit.
	Priority Priority
}

// PendingCache holds the materialized pending-deletion-request collection
// under a single well-known key.
//
// Every operation serializes through one mutex, read-modify-write sequences
// included, and callers only ever receive copies of the collection. Wholesale
// replacement is reserved for the refresh scheduler; the request path is
// limited to Upsert/RemoveByCustomerID.
type PendingCache struct {
	cfg   Config
	mu    sync.Mutex
	store *gocache.Cache

	// deadline is the absolute expiry of the currently installed entry.
	// Sliding extensions never push past it.
	deadline time.Time

	evictions chan struct{}
}

func NewPendingCache(cfg Config) *PendingCache {
	cleanup := cfg.AbsoluteExpiration / 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}

	c := &PendingCache{
		cfg:       cfg,
		store:     gocache.New(cfg.AbsoluteExpiration, cleanup),
		evictions: make(chan struct{}, 1),
	}

	c.store.OnEvicted(func(key string, _ any) {
		if key != cfg.Key {
			return
		}
		// Non-blocking: a pending signal already guarantees a refresh.
		select {
		case c.evictions <- struct{}{}:
		default:
		}
	})

	return c
}

// Evictions signals whenever the entry is removed for any reason (deadline
// reached or manual clear). The refresh scheduler listens on this channel to
// re-arm the populate cycle.
func (c *PendingCache) Evictions() <-chan struct{} {
	return c.evictions
}

// Replace installs a fresh collection, resetting the absolute deadline.
func (c *PendingCache) Replace(requests []models.DeletionRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deadline = time.Now().Add(c.cfg.AbsoluteExpiration)
	c.store.Set(c.cfg.Key, copyRequests(requests), c.initialTTL())
}

// Get returns a copy of the cached collection. found is false on miss or
// post-expiration; the cache itself never errors.
func (c *PendingCache) Get() ([]models.DeletionRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.current()
	if !ok {
		return nil, false
	}
	c.slide(current)
	return copyRequests(current), true
}

// Find linear-searches the cached collection for the first record with the
// given customer ID. found is false when the entry is cold or the customer is
// not in the collection.
func (c *PendingCache) Find(customerID int) (models.DeletionRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.current()
	if !ok {
		return models.DeletionRequest{}, false
	}
	c.slide(current)
	for _, r := range current {
		if r.CustomerID == customerID {
			return r, true
		}
	}
	return models.DeletionRequest{}, false
}

// Upsert merges one record into a warm collection: an existing record with the
// same store ID is replaced, otherwise the record is appended. No-op when the
// entry is cold; repopulation is the scheduler's job.
func (c *PendingCache) Upsert(request models.DeletionRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.current()
	if !ok {
		return
	}

	next := copyRequests(current)
	replaced := false
	for i := range next {
		if next[i].ID == request.ID {
			next[i] = request
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, request)
	}
	c.reinstall(next)
}

// RemoveByCustomerID drops every record for the customer from a warm
// collection. No-op when the entry is cold.
func (c *PendingCache) RemoveByCustomerID(customerID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.current()
	if !ok {
		return
	}

	next := make([]models.DeletionRequest, 0, len(current))
	for _, r := range current {
		if r.CustomerID != customerID {
			next = append(next, r)
		}
	}
	c.reinstall(next)
}

// Clear removes the entry outright. The eviction signal fires, so the
// scheduler repopulates shortly after.
func (c *PendingCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Delete(c.cfg.Key)
}

// current returns the live cached slice. Callers must hold c.mu and must not
// hand the slice out without copying.
func (c *PendingCache) current() ([]models.DeletionRequest, bool) {
	v, ok := c.store.Get(c.cfg.Key)
	if !ok {
		return nil, false
	}
	return v.([]models.DeletionRequest), true
}

// slide extends the entry on access within the sliding window, capped at the
// absolute deadline. Callers must hold c.mu.
func (c *PendingCache) slide(current []models.DeletionRequest) {
	if c.cfg.SlidingExpiration <= 0 {
		return
	}
	c.store.Set(c.cfg.Key, current, c.remainingTTL(c.cfg.SlidingExpiration))
}

// reinstall swaps the collection in place, preserving the absolute deadline.
// Callers must hold c.mu.
func (c *PendingCache) reinstall(next []models.DeletionRequest) {
	window := c.cfg.AbsoluteExpiration
	if c.cfg.SlidingExpiration > 0 {
		window = c.cfg.SlidingExpiration
	}
	c.store.Set(c.cfg.Key, next, c.remainingTTL(window))
}

func (c *PendingCache) initialTTL() time.Duration {
	if c.cfg.SlidingExpiration > 0 && c.cfg.SlidingExpiration < c.cfg.AbsoluteExpiration {
		return c.cfg.SlidingExpiration
	}
	return c.cfg.AbsoluteExpiration
}

// remainingTTL caps a window at the time left before the absolute deadline.
func (c *PendingCache) remainingTTL(window time.Duration) time.Duration {
	remaining := time.Until(c.deadline)
	if remaining <= 0 {
		// Deadline passed between the lazy-expiry check and now; the shortest
		// positive TTL lets the janitor collect it immediately.
		return time.Nanosecond
	}
	if window < remaining {
		return window
	}
	return remaining
}

func copyRequests(in []models.DeletionRequest) []models.DeletionRequest {
	out := make([]models.DeletionRequest, len(in))
	copy(out, in)
	return out
}
