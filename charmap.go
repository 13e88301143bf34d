package img2char

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrNoCandidateCharacters is returned when the configured character
	// set is empty after deduplication. Fatal: there is nothing to match
	// against and no degraded table is built.
	ErrNoCandidateCharacters = errors.New("img2char: character set has no candidate characters")

	// ErrNoFontAvailable is returned when no usable monospace font could
	// be rasterized. Fatal at construction; callers must fall back to a
	// different font or abort.
	ErrNoFontAvailable = errors.New("img2char: no usable font available")
)

// defaultCacheBits is the per-component quantization width for cache
// keys. Five bits per component keeps the whole key in 30 bits while
// being fine enough that cache collisions land on visually identical
// matches.
const defaultCacheBits = 5

// GlyphEntry pairs one output character with its shape descriptor.
type GlyphEntry struct {
	Char rune
	Vec  ShapeVector
}

// CharacterMap is the glyph descriptor table for one combination of
// character set, font, and cell size: one normalized ShapeVector per
// candidate character, a KD-tree index over them, and a quantized-key
// result cache. Built once and reused across all frames; everything
// except the cache is read-only after construction, so a single map can
// serve concurrent render calls.
type CharacterMap struct {
	entries   []GlyphEntry
	tree      *shapeTree
	cache     *matchCache
	cacheBits uint
	cellSize  int
}

// NewCharacterMap builds the glyph descriptor table. Every distinct
// character in charset (duplicates removed, order preserved) is
// rasterized at cellSize pixels, sampled into a raw shape vector, and
// the whole table is then normalized per dimension: after construction
// each of the six dimensions has maximum 1.0 across the table, unless
// no glyph covers that dimension at all.
func NewCharacterMap(charset string, rast FontRasterizer, cellSize int) (*CharacterMap, error) {
	if rast == nil {
		return nil, ErrNoFontAvailable
	}
	chars := dedupRunes(charset)
	if len(chars) == 0 {
		return nil, ErrNoCandidateCharacters
	}

	start := time.Now()
	entries := make([]GlyphEntry, len(chars))
	for i, r := range chars {
		cov := rast.Rasterize(r, cellSize)
		entries[i] = GlyphEntry{Char: r, Vec: glyphVector(cov)}
	}
	normalizeEntries(entries)

	cm := newCharacterMap(entries, cellSize)
	log.WithFields(log.Fields{
		"glyphs":   len(entries),
		"cellSize": cellSize,
		"elapsed":  time.Since(start),
	}).Debug("character map built")
	return cm, nil
}

// newCharacterMap assembles a CharacterMap around already-normalized
// entries. Shared by NewCharacterMap and table deserialization.
func newCharacterMap(entries []GlyphEntry, cellSize int) *CharacterMap {
	vecs := make([]ShapeVector, len(entries))
	for i, e := range entries {
		vecs[i] = e.Vec
	}
	return &CharacterMap{
		entries:   entries,
		tree:      buildShapeTree(vecs),
		cache:     newMatchCache(),
		cacheBits: defaultCacheBits,
		cellSize:  cellSize,
	}
}

// dedupRunes removes duplicate runes from a string, preserving the
// order of first appearance.
func dedupRunes(s string) []rune {
	seen := make(map[rune]bool)
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// glyphVector samples a rasterized coverage grid into a raw shape
// vector, using the same six positions and concentric-ring pattern the
// cell sampler applies to source pixels. Coverage grids use 1 for ink,
// so grid brightness is 1 - coverage.
func glyphVector(cov [][]float32) ShapeVector {
	h := len(cov)
	if h == 0 {
		return ShapeVector{}
	}
	w := len(cov[0])
	at := func(x, y float32) (float32, bool) {
		if x < 0 || y < 0 {
			return 0, false
		}
		px, py := int(x), int(y)
		if px >= w || py >= h {
			return 0, false
		}
		return 1 - cov[py][px], true
	}

	rx := float32(w) * sampleRadius
	ry := float32(h) * sampleRadius
	var vec ShapeVector
	for i, pos := range samplePositions {
		vec[i] = sampleCoverage(at, pos[0]*float32(w), pos[1]*float32(h), rx, ry)
	}
	return vec
}

// normalizeEntries scales every entry so that each of the six
// dimensions independently reaches 1.0 at its strongest glyph. A single
// global scalar would under-serve asymmetric glyphs: typography makes
// some sampling regions systematically weaker than others, and matching
// quality depends on each region using its full range. Dimensions no
// glyph covers stay zero.
func normalizeEntries(entries []GlyphEntry) {
	var dimMax [ShapeDims]float32
	for _, e := range entries {
		for d := 0; d < ShapeDims; d++ {
			if e.Vec[d] > dimMax[d] {
				dimMax[d] = e.Vec[d]
			}
		}
	}
	for i := range entries {
		for d := 0; d < ShapeDims; d++ {
			if dimMax[d] > 0 {
				entries[i].Vec[d] /= dimMax[d]
			}
		}
	}
}

// Len returns the number of glyphs in the table.
func (cm *CharacterMap) Len() int {
	return len(cm.entries)
}

// CellSize returns the rasterization cell size the table was built at.
func (cm *CharacterMap) CellSize() int {
	return cm.cellSize
}

// Entries returns a copy of the glyph table in character-set order.
func (cm *CharacterMap) Entries() []GlyphEntry {
	out := make([]GlyphEntry, len(cm.entries))
	copy(out, cm.entries)
	return out
}

// Match resolves a shape vector to the closest glyph in the table,
// consulting the quantized-key cache before the KD-tree.
func (cm *CharacterMap) Match(v ShapeVector) rune {
	return cm.entries[cm.matchIndex(v)].Char
}

// matchIndex resolves a shape vector to a table index. The cache maps
// quantized keys to indices; on a miss the KD-tree is searched and the
// result inserted. A concurrent duplicate computation for the same key
// writes the same deterministic value.
func (cm *CharacterMap) matchIndex(v ShapeVector) int {
	key := v.QuantizedKey(cm.cacheBits)
	if idx, ok := cm.cache.get(key); ok {
		return int(idx)
	}
	idx, _ := cm.tree.nearest(v)
	cm.cache.put(key, idx)
	return int(idx)
}

// matchIndexDirect resolves a shape vector through the KD-tree alone,
// bypassing the cache. Used to validate cache consistency.
func (cm *CharacterMap) matchIndexDirect(v ShapeVector) int {
	idx, _ := cm.tree.nearest(v)
	return int(idx)
}

// CacheStats returns hit/miss statistics for the match cache.
func (cm *CharacterMap) CacheStats() CacheStats {
	return cm.cache.stats()
}

// ClearCache discards all cached match results and resets the
// counters. The cache grows without bound on highly varied content;
// long-running callers should clear it periodically.
func (cm *CharacterMap) ClearCache() {
	cm.cache.clear()
}

// String describes the table for logs and errors.
func (cm *CharacterMap) String() string {
	return fmt.Sprintf("CharacterMap(%d glyphs, %dpx cells)", len(cm.entries), cm.cellSize)
}
