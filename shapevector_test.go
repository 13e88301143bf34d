package img2char

import (
	"math"
	"math/rand"
	"testing"
)

func TestDistanceSquaredSymmetryAndZero(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		var a, b ShapeVector
		for d := 0; d < ShapeDims; d++ {
			a[d] = rng.Float32()
			b[d] = rng.Float32()
		}

		if a.DistanceSquared(b) != b.DistanceSquared(a) {
			t.Errorf("DistanceSquared not symmetric for %v, %v", a, b)
		}
		if a.DistanceSquared(a) != 0 {
			t.Errorf("DistanceSquared(a,a) = %f, want 0", a.DistanceSquared(a))
		}
	}
}

func TestDistanceSquaredKnownValue(t *testing.T) {
	a := ShapeVector{1, 0, 0, 0, 0, 0}
	b := ShapeVector{0, 1, 0, 0, 0, 0}
	if got := a.DistanceSquared(b); got != 2 {
		t.Errorf("DistanceSquared = %f, want 2", got)
	}
}

func TestMax(t *testing.T) {
	v := ShapeVector{0.1, 0.9, 0.3, 0.2, 0.5, 0.4}
	if got := v.Max(); got != 0.9 {
		t.Errorf("Max = %f, want 0.9", got)
	}
	var zero ShapeVector
	if got := zero.Max(); got != 0 {
		t.Errorf("Max of zero vector = %f, want 0", got)
	}
}

func TestApplyContrastIdentity(t *testing.T) {
	t.Parallel()

	// power 1.0 is an exact identity whenever the vector clears the
	// minimum-coverage floor
	v := ShapeVector{0.2, 0.4, 0.6, 0.1, 0.3, 0.5}
	if got := v.ApplyContrast(1.0); got != v {
		t.Errorf("ApplyContrast(1.0) = %v, want %v", got, v)
	}
}

func TestApplyContrastMinCoverageFloor(t *testing.T) {
	t.Parallel()

	// everything at or below the floor collapses to the zero vector,
	// regardless of power
	low := ShapeVector{0.03, 0.02, 0.01, 0.03, 0.0, 0.005}
	for _, power := range []float32{0.5, 1.0, 2.0, 5.0} {
		if got := low.ApplyContrast(power); got != (ShapeVector{}) {
			t.Errorf("ApplyContrast(%f) on low-coverage vector = %v, want zero",
				power, got)
		}
	}

	// just above the floor survives
	v := ShapeVector{0.031, 0, 0, 0, 0, 0}
	if got := v.ApplyContrast(1.0); got != v {
		t.Errorf("ApplyContrast(1.0) just above floor = %v, want %v", got, v)
	}
}

func TestApplyContrastReshaping(t *testing.T) {
	v := ShapeVector{0.25, 0.5, 1.0, 0, 0, 0}
	got := v.ApplyContrast(2.0)

	// (c/m)^2 * m with m = 1.0
	want := ShapeVector{0.0625, 0.25, 1.0, 0, 0, 0}
	for d := 0; d < ShapeDims; d++ {
		if math.Abs(float64(got[d]-want[d])) > epsilon {
			t.Errorf("dim %d: got %f, want %f", d, got[d], want[d])
		}
	}

	// the maximum component is a fixed point of the reshaping
	if math.Abs(float64(got.Max()-v.Max())) > epsilon {
		t.Errorf("max changed: %f -> %f", v.Max(), got.Max())
	}
}

func TestApplyDirectionalContrast(t *testing.T) {
	v := ShapeVector{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}
	ext := ShapeVector{1.0, 0.5, 0, 1.0, 0.5, 0}
	got := v.ApplyDirectionalContrast(ext, 0.5)

	want := ShapeVector{0.25, 0.375, 0.5, 0.25, 0.375, 0.5}
	for d := 0; d < ShapeDims; d++ {
		if math.Abs(float64(got[d]-want[d])) > epsilon {
			t.Errorf("dim %d: got %f, want %f", d, got[d], want[d])
		}
	}
}

func TestQuantizedKeyPacking(t *testing.T) {
	t.Parallel()

	// extremes pack to all-zero and all-max fields
	var zero ShapeVector
	if got := zero.QuantizedKey(5); got != 0 {
		t.Errorf("zero vector key = %x, want 0", got)
	}

	ones := ShapeVector{1, 1, 1, 1, 1, 1}
	want := uint64(0)
	for i := 0; i < ShapeDims; i++ {
		want |= 31 << (uint(i) * 5)
	}
	if got := ones.QuantizedKey(5); got != want {
		t.Errorf("ones vector key = %x, want %x", got, want)
	}

	// out-of-range components clamp instead of corrupting other fields
	wild := ShapeVector{-3, 7, 0.5, 0, 1, 0.25}
	key := wild.QuantizedKey(5)
	if field := key & 31; field != 0 {
		t.Errorf("negative component quantized to %d, want 0", field)
	}
	if field := (key >> 5) & 31; field != 31 {
		t.Errorf("oversized component quantized to %d, want 31", field)
	}
}

func TestQuantizedKeyDistinguishesComponents(t *testing.T) {
	// the same values in different positions must give different keys
	a := ShapeVector{1, 0, 0, 0, 0, 0}
	b := ShapeVector{0, 0, 0, 0, 0, 1}
	if a.QuantizedKey(5) == b.QuantizedKey(5) {
		t.Error("keys collide across component positions")
	}
}

func TestComponentPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Component(6) should panic")
		}
	}()
	var v ShapeVector
	v.Component(6)
}
