package standings

import (
	"slices"
	"strconv"
	"sync"

	"github.com/AdamBeresnev/courtkeeper/internal/game"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	version int
	rows    []game.Standing
}

// Cache is a read-through cache keyed by tournament and version. Concurrent misses for
// the same key share one computation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

func (c *Cache) Get(tournamentID string, version int, compute func() ([]game.Standing, error)) ([]game.Standing, error) {
	c.mu.RLock()
	e, ok := c.entries[tournamentID]
	c.mu.RUnlock()
	if ok && e.version == version {
		return slices.Clone(e.rows), nil
	}

	key := tournamentID + "@" + strconv.Itoa(version)
	v, err, _ := c.group.Do(key, func() (any, error) {
		rows, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if cur, ok := c.entries[tournamentID]; !ok || cur.version <= version {
			c.entries[tournamentID] = entry{version: version, rows: rows}
		}
		c.mu.Unlock()
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]game.Standing)), nil
}

func (c *Cache) Invalidate(tournamentID string) {
	c.mu.Lock()
	delete(c.entries, tournamentID)
	c.mu.Unlock()
}
