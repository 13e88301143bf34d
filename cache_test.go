package img2char

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCacheGetPut(t *testing.T) {
	c := newMatchCache()

	_, ok := c.get(42)
	assert.False(t, ok, "empty cache reported a hit")

	c.put(42, 7)
	idx, ok := c.get(42)
	require.True(t, ok)
	assert.Equal(t, int32(7), idx)
	assert.Equal(t, 1, c.size())
}

func TestMatchCacheStats(t *testing.T) {
	c := newMatchCache()
	c.get(1)
	c.put(1, 0)
	c.get(1)
	c.get(1)

	stats := c.stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 1e-9)
}

func TestMatchCacheClear(t *testing.T) {
	c := newMatchCache()
	for k := uint64(0); k < 100; k++ {
		c.put(k, int32(k))
	}
	require.Equal(t, 100, c.size())

	c.clear()
	assert.Equal(t, 0, c.size())
	_, ok := c.get(3)
	assert.False(t, ok)
}

func TestMatchCacheShardDistribution(t *testing.T) {
	// sequential keys should not all land in one shard
	seen := make(map[uint64]bool)
	for k := uint64(0); k < 1000; k++ {
		seen[shardFor(k)] = true
	}
	assert.Greater(t, len(seen), cacheShardCount/2,
		"sequential keys collapsed into too few shards")
}

// Matching through the cache must agree with a direct tree search for
// the same input vector.
func TestCachedMatchConsistency(t *testing.T) {
	cm := buildTestMap(t, " .:-=+*#%@")
	rng := rand.New(rand.NewSource(99))

	for i := 0; i < 1000; i++ {
		var v ShapeVector
		for d := 0; d < ShapeDims; d++ {
			v[d] = rng.Float32()
		}

		cm.ClearCache()
		cached := cm.matchIndex(v)
		direct := cm.matchIndexDirect(v)
		require.Equal(t, direct, cached, "vector %d: %v", i, v)

		// a second lookup hits the cache and must not change the answer
		again := cm.matchIndex(v)
		require.Equal(t, cached, again, "vector %d: cache hit diverged", i)
	}
}

func TestCachedMatchConcurrent(t *testing.T) {
	cm := buildTestMap(t, " .:-=+*#%@")

	// vectors aligned to the quantization grid, so every repeat of a
	// value is a genuine cache hit rather than a key collision
	rng := rand.New(rand.NewSource(5))
	vecs := make([]ShapeVector, 64)
	want := make([]int, len(vecs))
	for i := range vecs {
		for d := 0; d < ShapeDims; d++ {
			vecs[i][d] = float32(rng.Intn(32)) / 31.0
		}
		want[i] = cm.matchIndexDirect(vecs[i])
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for n := 0; n < 2000; n++ {
				i := r.Intn(len(vecs))
				if got := cm.matchIndex(vecs[i]); got != want[i] {
					errs <- assert.AnError
					return
				}
			}
		}(int64(g))
	}
	wg.Wait()
	close(errs)

	for range errs {
		t.Fatal("concurrent cached match diverged from direct match")
	}

	stats := cm.CacheStats()
	assert.Greater(t, stats.Hits, int64(0))
	assert.LessOrEqual(t, stats.Size, len(vecs))
}
