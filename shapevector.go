package img2char

import (
	"fmt"
	"math"
)

const (
	// ShapeDims is the number of sampling regions in a cell descriptor.
	ShapeDims = 6

	// MinCoverage is the coverage floor below which a cell is treated as
	// uniform background. Cells darker than this in no region would
	// otherwise be amplified into noisy, randomly matched characters.
	// Tuned empirically; change only against reference output.
	MinCoverage = 0.03
)

// ShapeVector is a fixed six-component descriptor of normalized ink
// coverage, sampled at six fixed sub-regions of a character cell
// arranged in a staggered 3x2 grid. It is an immutable value type;
// the zero vector doubles as the sentinel for a uniform, blank cell.
//
// Components are kept in a fixed-size float32 array so that
// DistanceSquared compiles to straight-line code the compiler can
// vectorize; there is no runtime SIMD dispatch.
type ShapeVector [ShapeDims]float32

// Component returns the coverage value for one sampling region.
// Indexing outside 0..5 is a logic bug in the caller, not bad input,
// and panics.
func (v ShapeVector) Component(i int) float32 {
	if i < 0 || i >= ShapeDims {
		panic(fmt.Sprintf("img2char: shape dimension index %d out of range", i))
	}
	return v[i]
}

// DistanceSquared returns the sum of squared per-component differences
// between two shape vectors.
func (v ShapeVector) DistanceSquared(other ShapeVector) float32 {
	var sum float32
	for i := 0; i < ShapeDims; i++ {
		d := v[i] - other[i]
		sum += d * d
	}
	return sum
}

// Max returns the largest of the six components.
func (v ShapeVector) Max() float32 {
	m := v[0]
	for i := 1; i < ShapeDims; i++ {
		if v[i] > m {
			m = v[i]
		}
	}
	return m
}

// ApplyContrast reshapes the vector by normalizing each component
// against the maximum, raising it to the given power, and scaling back:
// (c/m)^power * m. Vectors whose maximum is at or below MinCoverage
// collapse to the zero vector, so near-uniform background cells match a
// low-density glyph deterministically instead of being amplified into
// noise. power == 1.0 is an exact identity only above that floor.
func (v ShapeVector) ApplyContrast(power float32) ShapeVector {
	m := v.Max()
	if m <= MinCoverage {
		return ShapeVector{}
	}
	if power == 1.0 {
		return v
	}
	var out ShapeVector
	for i := 0; i < ShapeDims; i++ {
		out[i] = float32(math.Pow(float64(v[i]/m), float64(power))) * m
	}
	return out
}

// ApplyDirectionalContrast attenuates each component against the
// matching external coverage maximum: c * (1 - e*strength). It is the
// cheaper alternative to the max-then-power rule used by the sampler's
// directional contrast path.
func (v ShapeVector) ApplyDirectionalContrast(externalMax ShapeVector, strength float32) ShapeVector {
	var out ShapeVector
	for i := 0; i < ShapeDims; i++ {
		out[i] = v[i] * (1 - externalMax[i]*strength)
	}
	return out
}

// QuantizedKey packs the vector into a single integer cache key. Each
// component is clamped to [0, 1], scaled to 2^bits - 1 levels, and
// stored at bit offset i*bits. The key is lossy and only ever used for
// cache lookup, never for matching precision.
func (v ShapeVector) QuantizedKey(bits uint) uint64 {
	levels := float32(uint64(1)<<bits - 1)
	var key uint64
	for i := 0; i < ShapeDims; i++ {
		c := v[i]
		if c < 0 {
			c = 0
		} else if c > 1 {
			c = 1
		}
		q := uint64(c*levels + 0.5)
		key |= q << (uint(i) * bits)
	}
	return key
}
