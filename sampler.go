package img2char

import (
	"math"
)

// PixelSource is the decoded, already resized pixel surface the sampler
// reads from. Implementations must be safe for concurrent reads; the
// sampler never writes through this interface.
type PixelSource interface {
	Width() int
	Height() int
	// PixelAt returns the 8-bit RGBA channels at (x, y). Coordinates
	// are always within [0, Width) x [0, Height).
	PixelAt(x, y int) (r, g, b, a uint8)
}

// CellRect maps one output cell onto a rectangle of source pixels.
// Coordinates are in pixels and may be fractional when the source
// dimensions do not divide evenly by the output grid.
type CellRect struct {
	X, Y, W, H float32
}

// externalProbeCount is the number of single-circle coverage probes
// taken just outside a cell's boundary for directional contrast.
const externalProbeCount = 10

// ExternalSamples holds the ten outside-the-boundary coverage probes
// for one cell, ordered above x3, below x3, left x2, right x2.
type ExternalSamples [externalProbeCount]float32

// samplePositions are the six cell-relative sampling centers: columns
// at x = 0.17/0.50/0.83, the top row lowered on the left and raised on
// the right, and the bottom row mirrored. The stagger keeps the sampled
// regions from leaving visual gaps between rows of cells.
var samplePositions = [ShapeDims][2]float32{
	{0.17, 0.30}, {0.50, 0.25}, {0.83, 0.20},
	{0.17, 0.70}, {0.50, 0.75}, {0.83, 0.80},
}

// externalPositions are the probe centers just outside the cell
// boundary, aligned with the internal grid columns and rows.
var externalPositions = [externalProbeCount][2]float32{
	{0.17, -0.10}, {0.50, -0.10}, {0.83, -0.10}, // above
	{0.17, 1.10}, {0.50, 1.10}, {0.83, 1.10}, // below
	{-0.10, 0.25}, {-0.10, 0.75}, // left
	{1.10, 0.25}, {1.10, 0.75}, // right
}

// externalNeighbors maps each internal sampling position to the
// external probes that can carry a stroke across that edge of the
// cell. Corner positions see two probes, middle positions one.
var externalNeighbors = [ShapeDims][]int{
	{0, 6}, {1}, {2, 8},
	{3, 7}, {4}, {5, 9},
}

// sampleRadius is the coverage circle radius for one sampling region,
// relative to the cell dimensions. Matches the internal column spacing
// so adjacent regions abut without heavy overlap.
const sampleRadius = 0.17

// ringOffsets holds the 37 unit-circle offsets used for concentric-ring
// super-sampling: 1 center point, 6 inner-ring points at 0.4r, 12
// mid-ring points at 0.7r offset by a half step, and 18 outer-ring
// points at the full radius.
var ringOffsets = buildRingOffsets()

func buildRingOffsets() [][2]float32 {
	offs := make([][2]float32, 0, 37)
	offs = append(offs, [2]float32{0, 0})
	ring := func(n int, radius, phase float64) {
		for i := 0; i < n; i++ {
			a := phase + 2*math.Pi*float64(i)/float64(n)
			offs = append(offs, [2]float32{
				float32(radius * math.Cos(a)),
				float32(radius * math.Sin(a)),
			})
		}
	}
	ring(6, 0.4, 0)
	ring(12, 0.7, math.Pi/12)
	ring(18, 1.0, 0)
	return offs
}

// brightnessAt reports the brightness in [0, 1] at a point, and whether
// the point was inside the sampled surface.
type brightnessAt func(x, y float32) (float32, bool)

// sampleCoverage averages ink coverage (1 - brightness) over the
// concentric-ring pattern centered at (cx, cy) with radii (rx, ry).
// Out-of-bounds points are excluded from the average rather than
// counted as zero; a fully out-of-bounds circle reads as blank.
func sampleCoverage(at brightnessAt, cx, cy, rx, ry float32) float32 {
	var sum float32
	var n int
	for _, off := range ringOffsets {
		b, ok := at(cx+off[0]*rx, cy+off[1]*ry)
		if !ok {
			continue
		}
		sum += 1 - b
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}

// sourceBrightness adapts a PixelSource to a brightnessAt over pixel
// coordinates.
func sourceBrightness(src PixelSource) brightnessAt {
	w, h := src.Width(), src.Height()
	return func(x, y float32) (float32, bool) {
		// int() truncates toward zero, so (-1, 0) would land on pixel 0
		// instead of out of bounds
		if x < 0 || y < 0 {
			return 0, false
		}
		px, py := int(x), int(y)
		if px >= w || py >= h {
			return 0, false
		}
		r, g, b, a := src.PixelAt(px, py)
		return brightnessRGBA(r, g, b, a), true
	}
}

// SampleCell samples the source pixel rectangle for one output cell.
// It returns the raw internal shape vector, the ten external probes
// (nil unless directionalStrength > 0), and the average color of the
// cell taken over a coarser 3x3 sub-sample grid.
func SampleCell(src PixelSource, rect CellRect, directionalStrength float32) (ShapeVector, *ExternalSamples, RGB) {
	at := sourceBrightness(src)
	rx := rect.W * sampleRadius
	ry := rect.H * sampleRadius

	var vec ShapeVector
	for i, pos := range samplePositions {
		vec[i] = sampleCoverage(at,
			rect.X+pos[0]*rect.W, rect.Y+pos[1]*rect.H, rx, ry)
	}

	var ext *ExternalSamples
	if directionalStrength > 0 {
		ext = &ExternalSamples{}
		for i, pos := range externalPositions {
			ext[i] = sampleCoverage(at,
				rect.X+pos[0]*rect.W, rect.Y+pos[1]*rect.H, rx, ry)
		}
	}

	return vec, ext, averageCellColor(src, rect)
}

// averageCellColor averages RGB over a 3x3 grid of points inside the
// cell. Coarser than the shape sampling on purpose: color only needs
// to be representative, not shaped.
func averageCellColor(src PixelSource, rect CellRect) RGB {
	w, h := src.Width(), src.Height()
	var sumR, sumG, sumB, n int
	for gy := 0; gy < 3; gy++ {
		for gx := 0; gx < 3; gx++ {
			px := int(rect.X + (float32(gx)+0.5)/3*rect.W)
			py := int(rect.Y + (float32(gy)+0.5)/3*rect.H)
			if px < 0 || px >= w || py < 0 || py >= h {
				continue
			}
			r, g, b, _ := src.PixelAt(px, py)
			sumR += int(r)
			sumG += int(g)
			sumB += int(b)
			n++
		}
	}
	if n == 0 {
		return RGB{}
	}
	return RGB{
		R: uint8(sumR / n),
		G: uint8(sumG / n),
		B: uint8(sumB / n),
	}
}

// resolveContrast applies the configured contrast shaping to one
// sampled cell, in priority order: directional (external max then
// power), plain power when above 1.0, otherwise identity.
//
// An external probe only boosts its internal neighbor when its own
// coverage reaches edgePriority; weak outside coverage is noise, while
// a strong stroke crossing the cell boundary should not be
// underrepresented in the cell it clips.
func resolveContrast(v ShapeVector, ext *ExternalSamples, power, strength, edgePriority float32) ShapeVector {
	if strength > 0 && ext != nil {
		boosted := v
		for i, nbrs := range externalNeighbors {
			for _, e := range nbrs {
				c := ext[e]
				if c >= edgePriority && c*strength > boosted[i] {
					boosted[i] = c * strength
				}
			}
		}
		return boosted.ApplyContrast(power)
	}
	if power > 1.0 {
		return v.ApplyContrast(power)
	}
	return v
}
