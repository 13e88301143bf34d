package img2char

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomVectors(rng *rand.Rand, n int) []ShapeVector {
	vecs := make([]ShapeVector, n)
	for i := range vecs {
		for d := 0; d < ShapeDims; d++ {
			vecs[i][d] = rng.Float32()
		}
	}
	return vecs
}

// linearNearest is the reference brute-force scan the tree must agree
// with.
func linearNearest(vecs []ShapeVector, q ShapeVector) (int32, float32) {
	best := int32(0)
	bestDist := q.DistanceSquared(vecs[0])
	for i := 1; i < len(vecs); i++ {
		if d := q.DistanceSquared(vecs[i]); d < bestDist {
			bestDist = d
			best = int32(i)
		}
	}
	return best, bestDist
}

func TestShapeTreeMatchesBruteForce(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for _, size := range []int{1, 2, 7, 64, 500} {
		vecs := randomVectors(rng, size)
		tree := buildShapeTree(vecs)

		for q := 0; q < 200; q++ {
			var query ShapeVector
			for d := 0; d < ShapeDims; d++ {
				query[d] = rng.Float32()
			}

			gotIdx, gotDist := tree.nearest(query)
			require.GreaterOrEqual(t, gotIdx, int32(0))

			_, wantDist := linearNearest(vecs, query)
			assert.Equal(t, wantDist, gotDist,
				"size %d query %d: tree returned a farther neighbor", size, q)
			assert.Equal(t, gotDist, query.DistanceSquared(vecs[gotIdx]),
				"size %d query %d: reported distance does not match entry", size, q)
		}
	}
}

func TestShapeTreeSelfMatch(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	vecs := randomVectors(rng, 256)
	tree := buildShapeTree(vecs)

	for i, v := range vecs {
		_, dist := tree.nearest(v)
		assert.Equal(t, float32(0), dist,
			"entry %d did not match itself exactly", i)
	}
}

func TestShapeTreeSingleEntry(t *testing.T) {
	vecs := []ShapeVector{{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}}
	tree := buildShapeTree(vecs)

	idx, _ := tree.nearest(ShapeVector{})
	assert.Equal(t, int32(0), idx)
	idx, _ = tree.nearest(ShapeVector{1, 1, 1, 1, 1, 1})
	assert.Equal(t, int32(0), idx)
}

func TestShapeTreeEmpty(t *testing.T) {
	tree := buildShapeTree(nil)
	idx, _ := tree.nearest(ShapeVector{})
	assert.Equal(t, int32(-1), idx)
}

func TestShapeTreeDuplicateVectors(t *testing.T) {
	// duplicates must not break construction or search
	vecs := make([]ShapeVector, 16)
	for i := range vecs {
		vecs[i] = ShapeVector{0.25, 0.25, 0.25, 0.25, 0.25, 0.25}
	}
	tree := buildShapeTree(vecs)

	idx, dist := tree.nearest(ShapeVector{0.3, 0.2, 0.25, 0.25, 0.25, 0.25})
	require.GreaterOrEqual(t, idx, int32(0))
	require.Less(t, int(idx), len(vecs))
	assert.InDelta(t, 0.005, dist, 1e-4)
}
