package img2char

import (
	"sync"
	"sync/atomic"
)

// cacheShardCount must be a power of two; see shardFor.
const cacheShardCount = 32

// matchCache memoizes quantized descriptor keys to resolved entry
// indices. Repeated or near-repeated cells, which dominate flat regions
// and consecutive video frames, skip the tree or brute-force search
// entirely.
//
// The map is lock striped so concurrent per-row matching never blocks
// on a miss-then-compute race: two rows may both miss and recompute the
// same key, but the value written is deterministic for a given key, so
// last-writer-wins is harmless. Entries are never evicted; callers
// processing unbounded varied content should call Clear periodically.
type matchCache struct {
	shards [cacheShardCount]cacheShard
	hits   atomic.Int64
	misses atomic.Int64
}

type cacheShard struct {
	mu sync.RWMutex
	m  map[uint64]int32
}

// CacheStats reports hit/miss counters and current occupancy of a
// match cache.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Size    int
	HitRate float64
}

func newMatchCache() *matchCache {
	c := &matchCache{}
	for i := range c.shards {
		c.shards[i].m = make(map[uint64]int32)
	}
	return c
}

// shardFor spreads quantized keys across shards. The low bits of a
// quantized key are just component zero, so the key is mixed first.
func shardFor(key uint64) uint64 {
	return (key * 0x9E3779B97F4A7C15) >> 59
}

func (c *matchCache) get(key uint64) (int32, bool) {
	s := &c.shards[shardFor(key)]
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

func (c *matchCache) put(key uint64, v int32) {
	s := &c.shards[shardFor(key)]
	s.mu.Lock()
	s.m[key] = v
	s.mu.Unlock()
}

func (c *matchCache) size() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

func (c *matchCache) clear() {
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		s.m = make(map[uint64]int32)
		s.mu.Unlock()
	}
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *matchCache) stats() CacheStats {
	st := CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.size(),
	}
	if total := st.Hits + st.Misses; total > 0 {
		st.HitRate = float64(st.Hits) / float64(total)
	}
	return st
}
