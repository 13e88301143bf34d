package img2char

import "math"

// DotDims is the number of dots in one braille cell descriptor.
const DotDims = 8

// brailleBase is the first Unicode braille pattern codepoint (all dots
// off).
const brailleBase = 0x2800

// brailleCacheBits is the per-component quantization for the braille
// match cache: 4 bits x 8 components packs into 32 bits.
const brailleCacheBits = 4

// DotVector is the 8-component boolean-as-float descriptor of one
// braille cell: coverage of the eight dot positions of the standard
// 2-column x 4-row layout, slot = row*2 + col.
type DotVector [DotDims]float32

// brailleSlot maps braille bit positions to dot-grid slots. The Unicode
// braille encoding numbers dots 1-3 down the left column, 4-6 down the
// right, and 7/8 across the bottom row; the table is fixed by that
// encoding, not derived from any rendering.
//
//	+------+
//	|(1)(4)|
//	|(2)(5)|
//	|(3)(6)|
//	|(7)(8)|
//	+------+
var brailleSlot = [DotDims]int{0, 2, 4, 1, 3, 5, 6, 7}

// DistanceSquared returns the sum of squared per-component differences.
// Eight float32 lanes fit a single wide SIMD register, which is why the
// braille matcher scans linearly instead of using a tree.
func (v DotVector) DistanceSquared(other DotVector) float32 {
	var sum float32
	for i := 0; i < DotDims; i++ {
		d := v[i] - other[i]
		sum += d * d
	}
	return sum
}

// quantizedKey packs the vector into a 32-bit cache key at 4 bits per
// component.
func (v DotVector) quantizedKey() uint64 {
	const levels = float32(1<<brailleCacheBits - 1)
	var key uint64
	for i := 0; i < DotDims; i++ {
		c := v[i]
		if c < 0 {
			c = 0
		} else if c > 1 {
			c = 1
		}
		q := uint64(c*levels + 0.5)
		key |= q << (uint(i) * brailleCacheBits)
	}
	return key
}

// BrailleMap is the 256-pattern descriptor space over the Unicode
// braille block, used for the higher-resolution dot-rendering mode. The
// table is derived purely from the bit patterns, so it needs no font
// and has no failure modes. Matching is a brute-force scan: 256
// candidates are too few for tree overhead to pay off, and a flat scan
// is friendlier to the cache and the vectorizer.
type BrailleMap struct {
	vecs  [256]DotVector
	cache *matchCache
}

// NewBrailleMap builds the 256-entry dot pattern table.
func NewBrailleMap() *BrailleMap {
	bm := &BrailleMap{cache: newMatchCache()}
	for code := 0; code < 256; code++ {
		for bit := 0; bit < DotDims; bit++ {
			if code&(1<<bit) != 0 {
				bm.vecs[code][brailleSlot[bit]] = 1
			}
		}
	}
	return bm
}

// Vector returns the dot vector for a braille code 0x00-0xFF.
func (bm *BrailleMap) Vector(code int) DotVector {
	return bm.vecs[code&0xFF]
}

// Match resolves a dot vector to the closest braille codepoint,
// consulting the quantized-key cache before the brute-force scan.
func (bm *BrailleMap) Match(v DotVector) rune {
	return rune(brailleBase + bm.matchCode(v))
}

func (bm *BrailleMap) matchCode(v DotVector) int {
	key := v.quantizedKey()
	if code, ok := bm.cache.get(key); ok {
		return int(code)
	}
	code := bm.matchCodeDirect(v)
	bm.cache.put(key, int32(code))
	return code
}

// matchCodeDirect scans all 256 candidates for the minimum squared
// distance, bypassing the cache. Lower codes win ties so the result is
// deterministic.
func (bm *BrailleMap) matchCodeDirect(v DotVector) int {
	best := 0
	bestDist := float32(math.MaxFloat32)
	for code := 0; code < 256; code++ {
		d := v.DistanceSquared(bm.vecs[code])
		if d < bestDist {
			bestDist = d
			best = code
		}
	}
	return best
}

// CacheStats returns hit/miss statistics for the braille match cache.
func (bm *BrailleMap) CacheStats() CacheStats {
	return bm.cache.stats()
}

// ClearCache discards all cached braille match results.
func (bm *BrailleMap) ClearCache() {
	bm.cache.clear()
}

// ApplyContrast reshapes a dot vector with the same max-normalized
// power rule ShapeVector.ApplyContrast uses, including the
// MinCoverage floor for uniform cells.
func (v DotVector) ApplyContrast(power float32) DotVector {
	m := v[0]
	for i := 1; i < DotDims; i++ {
		if v[i] > m {
			m = v[i]
		}
	}
	if m <= MinCoverage {
		return DotVector{}
	}
	if power == 1.0 {
		return v
	}
	var out DotVector
	for i := 0; i < DotDims; i++ {
		out[i] = float32(math.Pow(float64(v[i]/m), float64(power))) * m
	}
	return out
}
