package cache

// Source is anything with a validity epoch, usually another Cache.
type Source interface {
	// Epoch returns a counter that increases on every invalidation.
	Epoch() uint64
}

type entry struct {
	epoch uint64
	value any
}

// Cache is the per-object memo table. The zero value is not usable;
// construct with New.
type Cache struct {
	local   uint64
	deps    []Source
	entries map[string]entry
}

// New builds an empty cache depending on the given upstream sources.
// Any bump of an upstream epoch invalidates every entry here as well.
func New(deps ...Source) *Cache {
	return &Cache{
		local:   1,
		deps:    deps,
		entries: make(map[string]entry),
	}
}

// Epoch returns the effective validity epoch: the local counter plus all
// upstream epochs. Counters only grow, so equal sums mean nothing changed.
func (c *Cache) Epoch() uint64 {
	e := c.local
	for _, d := range c.deps {
		e += d.Epoch()
	}
	return e
}

// Invalidate marks every entry stale by bumping the local epoch.
// Stored values are kept and overwritten on the next recomputation.
func (c *Cache) Invalidate() {
	c.local++
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int { return len(c.entries) }

// Get returns the value stored under key if it was computed at the
// current epoch, otherwise calls compute, stores the result and returns
// it. compute must not mutate any dof vector reachable from this cache.
func Get[T any](c *Cache, key string, compute func() T) T {
	ep := c.Epoch()
	if e, ok := c.entries[key]; ok && e.epoch == ep {
		return e.value.(T)
	}
	v := compute()
	c.entries[key] = entry{epoch: ep, value: v}
	return v
}
