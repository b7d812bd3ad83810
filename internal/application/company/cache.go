package company

import (
	"context"
	"sync"

	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// Directory is the upstream company lookup.
type Directory interface {
	CompanyName(ctx context.Context, companyID string) (string, error)
}

// Cache memoizes company display names for the life of the process. A
// company's name does not change mid-session in a way that matters, so
// entries never expire; Clear exists for tests and explicit invalidation.
//
// Empty names are cached too: "looked it up and it was blank" must not turn
// into a lookup per render. Failed lookups are NOT cached, so the next call
// retries the network.
type Cache struct {
	mu        sync.RWMutex
	names     map[string]string
	directory Directory
	log       logger.Logger
}

func NewCache(directory Directory, log logger.Logger) *Cache {
	if log == nil {
		log = logger.NewNop()
	}
	return &Cache{
		names:     make(map[string]string),
		directory: directory,
		log:       log,
	}
}

// GetOne returns the company's display name, hitting the network only on a
// cache miss. On remote failure the error is returned and the cache is left
// untouched.
func (c *Cache) GetOne(ctx context.Context, companyID string) (string, error) {
	c.mu.RLock()
	name, ok := c.names[companyID]
	c.mu.RUnlock()
	if ok {
		return name, nil
	}

	name, err := c.directory.CompanyName(ctx, companyID)
	if err != nil {
		c.log.Warn("company lookup failed",
			logger.String("company_id", companyID),
			logger.Error(err),
		)
		return "", err
	}

	// Concurrent misses for the same key may both fetch; last write wins,
	// which is harmless for a referentially stable value.
	c.mu.Lock()
	c.names[companyID] = name
	c.mu.Unlock()
	return name, nil
}

// GetMany resolves a set of ids, deduplicated, serving cached entries from
// memory and fetching the rest in parallel. Ids whose lookup fails map to ""
// in the returned map and stay uncached.
func (c *Cache) GetMany(ctx context.Context, companyIDs []string) map[string]string {
	out := make(map[string]string, len(companyIDs))
	var missing []string

	c.mu.RLock()
	for _, id := range companyIDs {
		if _, seen := out[id]; seen {
			continue
		}
		if name, ok := c.names[id]; ok {
			out[id] = name
		} else {
			out[id] = ""
			missing = append(missing, id)
		}
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return out
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	fetched := make(map[string]string, len(missing))

	for _, id := range missing {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			name, err := c.directory.CompanyName(ctx, id)
			if err != nil {
				c.log.Warn("company lookup failed",
					logger.String("company_id", id),
					logger.Error(err),
				)
				return
			}
			mu.Lock()
			fetched[id] = name
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	c.mu.Lock()
	for id, name := range fetched {
		c.names[id] = name
		out[id] = name
	}
	c.mu.Unlock()

	return out
}

// Clear empties the cache; subsequent lookups go back to the network.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.names = make(map[string]string)
	c.mu.Unlock()
}
