package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"clarifi/internal/models"
)

// Loader fetches the full transaction list of one user from the store.
type Loader func(ctx context.Context) ([]models.Transaction, error)

// TransactionCache holds one transaction list per user. Every dashboard view
// is derived from the same cached list, and Invalidate is called after each
// mutation so the next read of any view sees the new state.
//
// Returned slices are shared between callers and must not be modified.
type TransactionCache struct {
	entries *LRUCache[[]models.Transaction]
	group   singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64
}

// NewTransactionCache creates a cache for up to size users.
func NewTransactionCache(size int, ttl time.Duration) *TransactionCache {
	return &TransactionCache{
		entries:     NewLRUCache[[]models.Transaction](size, ttl),
		generations: make(map[string]uint64),
	}
}

// Load returns the cached list for userID or runs load. Concurrent misses for
// the same user share one load. A load that overlaps an Invalidate returns
// its result to its callers but does not populate the cache.
func (c *TransactionCache) Load(ctx context.Context, userID string, load Loader) ([]models.Transaction, error) {
	if txs, ok := c.entries.Get(userID); ok {
		return txs, nil
	}

	c.mu.Lock()
	gen := c.generations[userID]
	c.mu.Unlock()

	key := userID + "#" + strconv.FormatUint(gen, 10)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		txs, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generations[userID] == gen {
			c.entries.Set(userID, txs)
		}
		c.mu.Unlock()
		return txs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Transaction), nil
}

// Invalidate drops the cached list of userID.
func (c *TransactionCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[userID]++
	c.entries.Delete(userID)
}

// CleanExpired implements Cleaner.
func (c *TransactionCache) CleanExpired() int {
	return c.entries.CleanExpired()
}

// Size returns the number of users with a cached list.
func (c *TransactionCache) Size() int {
	return c.entries.Size()
}
