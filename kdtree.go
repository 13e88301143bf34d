package img2char

import (
	"math"
	"sort"
)

// shapeNode is a node in a KD-tree over shape descriptors. Nodes live
// in a flat arena and reference their children by index, which keeps
// the build-once/query-many tree cache friendly.
type shapeNode struct {
	entry    int32 // index into the owning table's entries
	left     int32 // arena index, -1 when absent
	right    int32
	splitDim uint8
	splitVal float32
}

// shapeTree is a balanced KD-tree over the glyph descriptor table,
// built once per CharacterMap and read-only afterward. The split
// dimension cycles 0..5 with tree depth; every query returns exactly
// the entry an exhaustive linear scan would.
type shapeTree struct {
	nodes []shapeNode
	root  int32
	vecs  []ShapeVector
}

// buildShapeTree constructs the KD-tree from a list of shape vectors.
// The vectors are referenced by index; the slice must not be mutated
// for the lifetime of the tree.
func buildShapeTree(vecs []ShapeVector) *shapeTree {
	t := &shapeTree{
		nodes: make([]shapeNode, 0, len(vecs)),
		root:  -1,
		vecs:  vecs,
	}
	idx := make([]int32, len(vecs))
	for i := range idx {
		idx[i] = int32(i)
	}
	t.root = t.build(idx, 0)
	return t
}

// build recursively splits the index subset on dimension depth mod 6,
// taking the median as this node's entry and recursing on the
// partitions below and above it.
func (t *shapeTree) build(idx []int32, depth int) int32 {
	if len(idx) == 0 {
		return -1
	}
	dim := depth % ShapeDims
	sort.Slice(idx, func(i, j int) bool {
		return t.vecs[idx[i]][dim] < t.vecs[idx[j]][dim]
	})

	median := len(idx) / 2
	ni := int32(len(t.nodes))
	t.nodes = append(t.nodes, shapeNode{
		entry:    idx[median],
		left:     -1,
		right:    -1,
		splitDim: uint8(dim),
		splitVal: t.vecs[idx[median]][dim],
	})
	left := t.build(idx[:median], depth+1)
	right := t.build(idx[median+1:], depth+1)
	t.nodes[ni].left = left
	t.nodes[ni].right = right
	return ni
}

// nearest returns the index of the entry closest to target by squared
// Euclidean distance, along with that distance. Returns -1 on an empty
// tree.
func (t *shapeTree) nearest(target ShapeVector) (int32, float32) {
	best := int32(-1)
	bestDist := float32(math.MaxFloat32)
	t.search(t.root, target, &best, &bestDist)
	return best, bestDist
}

// search descends toward the side of the splitting plane the target
// falls on, then explores the far side only when the plane is closer
// than the best match found so far (standard branch and bound).
func (t *shapeTree) search(ni int32, target ShapeVector, best *int32, bestDist *float32) {
	if ni < 0 {
		return
	}
	n := &t.nodes[ni]

	dist := target.DistanceSquared(t.vecs[n.entry])
	if dist < *bestDist {
		*bestDist = dist
		*best = n.entry
	}

	delta := target[n.splitDim] - n.splitVal
	near, far := n.left, n.right
	if delta >= 0 {
		near, far = n.right, n.left
	}

	t.search(near, target, best, bestDist)
	if delta*delta < *bestDist {
		t.search(far, target, best, bestDist)
	}
}
