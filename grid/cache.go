package grid

import "sync"

type cacheKey struct {
	cell, page  Size
	margin, gap float64
}

// Cache memoises grid computations. The zero value is ready to use and
// safe for concurrent use.
type Cache struct {
	mu sync.Mutex
	m  map[cacheKey]Params
}

// Compute returns the cached result of ComputeWithGap.
func (c *Cache) Compute(cell, page Size, margin, gap float64) Params {
	key := cacheKey{cell: cell, page: page, margin: margin, gap: gap}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.m[key]; ok {
		return p
	}
	if c.m == nil {
		c.m = make(map[cacheKey]Params)
	}
	p := ComputeWithGap(cell, page, margin, gap)
	c.m[key] = p
	return p
}

// Len reports the number of cached layouts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
