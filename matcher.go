package img2char

import (
	"math"
	"runtime"
	"sync"
)

// EdgeDetector supplies per-cell edge magnitude and angle planes for a
// frame, one value per output cell. The matcher consumes the planes
// read-only; imageutil.ComputeEdges is the stock implementation.
type EdgeDetector func(src PixelSource, cols, rows int) (magnitude, angle [][]float32)

// Cell is one resolved output cell: the matched character and the
// averaged source color behind it.
type Cell struct {
	Char  rune
	Color RGB
}

// edgeStrokes are the directional override characters, indexed by
// quantized stroke direction: horizontal, rising diagonal, vertical,
// falling diagonal.
var edgeStrokes = [4]rune{'-', '/', '|', '\\'}

// Matcher resolves sampled cells to output characters for one
// configuration of character map and tuning options. The character map
// and braille table are read-only after construction and shared across
// all concurrent row tasks; the quantized-key caches inside them are
// the only mutable shared state during rendering.
type Matcher struct {
	charMap *CharacterMap
	braille *BrailleMap

	contrastPower       float32
	directionalStrength float32
	edgePriority        float32
	ditherLevels        int
	edgeThreshold       float32
	edgeDetector        EdgeDetector
	invert              bool
	parallelThreshold   int
}

// MatcherOption is a functional option for configuring a Matcher.
type MatcherOption func(*Matcher)

// NewMatcher creates a Matcher over a built character map.
// Defaults: contrast power 1.0 (off), directional strength 0 (off),
// dithering off, edge blending off, invert off, parallel row fan-out
// above 4 rows.
func NewMatcher(cm *CharacterMap, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		charMap:           cm,
		braille:           NewBrailleMap(),
		contrastPower:     1.0,
		edgePriority:      0.6,
		parallelThreshold: 4,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithContrastPower sets the plain contrast exponent. Values above 1.0
// sharpen cell descriptors before matching.
func WithContrastPower(power float32) MatcherOption {
	return func(m *Matcher) {
		m.contrastPower = power
	}
}

// WithDirectionalStrength enables directional contrast: cells sample
// ten extra probes outside their boundary and strokes crossing the
// boundary boost the adjacent internal regions. 0 disables.
func WithDirectionalStrength(strength float32) MatcherOption {
	return func(m *Matcher) {
		m.directionalStrength = strength
	}
}

// WithEdgePriority sets the minimum external coverage an outside probe
// needs before it boosts a cell. The 0.6 default is an empirically
// tuned constant; change it only against reference output.
func WithEdgePriority(priority float32) MatcherOption {
	return func(m *Matcher) {
		m.edgePriority = priority
	}
}

// WithDitherLevels enables whole-frame error diffusion at the given
// number of quantization levels per descriptor dimension. Values below
// 2 disable dithering.
func WithDitherLevels(levels int) MatcherOption {
	return func(m *Matcher) {
		m.ditherLevels = levels
	}
}

// WithEdgeBlend enables directional stroke override: cells whose edge
// magnitude exceeds threshold render as / \ | - according to the local
// edge angle. The detector runs once per frame.
func WithEdgeBlend(threshold float32, det EdgeDetector) MatcherOption {
	return func(m *Matcher) {
		m.edgeThreshold = threshold
		m.edgeDetector = det
	}
}

// WithInvert mirrors every match to its opposite position in the
// character set: index i becomes N-1-i. Intended for dark-on-light
// terminals with character sets ordered by density.
func WithInvert(invert bool) MatcherOption {
	return func(m *Matcher) {
		m.invert = invert
	}
}

// WithParallelThreshold sets the minimum number of rows before frame
// conversion fans out over goroutines. Task overhead dominates for tiny
// frames.
func WithParallelThreshold(rows int) MatcherOption {
	return func(m *Matcher) {
		m.parallelThreshold = rows
	}
}

// CharacterMap returns the glyph table the matcher resolves against.
func (m *Matcher) CharacterMap() *CharacterMap {
	return m.charMap
}

// BrailleMap returns the dot pattern table used by braille mode.
func (m *Matcher) BrailleMap() *BrailleMap {
	return m.braille
}

// MatchVector resolves a single shape vector to a character, applying
// invert mode but no contrast shaping; the vector is matched as given.
func (m *Matcher) MatchVector(v ShapeVector) rune {
	idx := m.charMap.matchIndex(v)
	if m.invert {
		idx = m.charMap.Len() - 1 - idx
	}
	return m.charMap.entries[idx].Char
}

// ConvertFrame samples, shapes, and matches every cell of a frame,
// returning a rows x cols grid of resolved cells.
//
// The per-frame pipeline: (1) row-parallel sampling of raw vectors,
// external probes, and colors; (2) an optional strictly serial
// whole-frame dither pass; (3) row-parallel contrast resolution and
// matching, with optional edge-stroke override and invert applied per
// cell. Rows share only the immutable tables and the striped cache, so
// no ordering exists between them in passes 1 and 3.
func (m *Matcher) ConvertFrame(src PixelSource, cols, rows int) [][]Cell {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cellW := float32(src.Width()) / float32(cols)
	cellH := float32(src.Height()) / float32(rows)

	raw := make([][]ShapeVector, rows)
	exts := make([][]*ExternalSamples, rows)
	colors := make([][]RGB, rows)

	m.forEachRow(rows, func(y int) {
		raw[y] = make([]ShapeVector, cols)
		exts[y] = make([]*ExternalSamples, cols)
		colors[y] = make([]RGB, cols)
		for x := 0; x < cols; x++ {
			rect := CellRect{
				X: float32(x) * cellW,
				Y: float32(y) * cellH,
				W: cellW,
				H: cellH,
			}
			raw[y][x], exts[y][x], colors[y][x] =
				SampleCell(src, rect, m.directionalStrength)
		}
	})

	if m.ditherLevels >= 2 {
		raw = DitherFrame(raw, m.ditherLevels)
	}

	var edgeMag, edgeAng [][]float32
	if m.edgeThreshold > 0 && m.edgeDetector != nil {
		edgeMag, edgeAng = m.edgeDetector(src, cols, rows)
	}

	out := make([][]Cell, rows)
	m.forEachRow(rows, func(y int) {
		out[y] = make([]Cell, cols)
		for x := 0; x < cols; x++ {
			shaped := resolveContrast(raw[y][x], exts[y][x],
				m.contrastPower, m.directionalStrength, m.edgePriority)
			ch := m.MatchVector(shaped)
			if edgeMag != nil && edgeMag[y][x] > m.edgeThreshold {
				ch = strokeForAngle(edgeAng[y][x])
			}
			out[y][x] = Cell{Char: ch, Color: colors[y][x]}
		}
	})
	return out
}

// ConvertFrameBraille is the higher-resolution dot-rendering pipeline:
// each output cell is sampled as a 2x4 dot grid and matched against the
// 256 braille patterns instead of the font-based table. Contrast power
// applies; directional contrast, dithering, and invert do not (the dot
// space is its own descriptor space, and its patterns have no density
// ordering to mirror).
func (m *Matcher) ConvertFrameBraille(src PixelSource, cols, rows int) [][]Cell {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cellW := float32(src.Width()) / float32(cols)
	cellH := float32(src.Height()) / float32(rows)

	out := make([][]Cell, rows)
	m.forEachRow(rows, func(y int) {
		out[y] = make([]Cell, cols)
		at := sourceBrightness(src)
		for x := 0; x < cols; x++ {
			rect := CellRect{
				X: float32(x) * cellW,
				Y: float32(y) * cellH,
				W: cellW,
				H: cellH,
			}
			vec := sampleDots(at, rect)
			if m.contrastPower > 1.0 {
				vec = vec.ApplyContrast(m.contrastPower)
			}
			out[y][x] = Cell{
				Char:  m.braille.Match(vec),
				Color: averageCellColor(src, rect),
			}
		}
	})
	return out
}

// sampleDots samples the eight dot regions of a cell, slot = row*2+col
// over the 2-column x 4-row braille layout.
func sampleDots(at brightnessAt, rect CellRect) DotVector {
	rx := rect.W * 0.25
	ry := rect.H * 0.125
	var vec DotVector
	for slot := 0; slot < DotDims; slot++ {
		col := slot % 2
		row := slot / 2
		cx := rect.X + (float32(col)+0.5)/2*rect.W
		cy := rect.Y + (float32(row)+0.5)/4*rect.H
		vec[slot] = sampleCoverage(at, cx, cy, rx, ry)
	}
	return vec
}

// strokeForAngle picks the directional override character for a
// gradient angle. The stroke runs perpendicular to the gradient; the
// perpendicular is quantized to the nearest of four directions.
func strokeForAngle(gradAngle float32) rune {
	deg := float64(gradAngle)*180.0/math.Pi + 90.0
	for deg < 0 {
		deg += 180
	}
	for deg >= 180 {
		deg -= 180
	}
	switch {
	case deg < 22.5 || deg >= 157.5:
		return edgeStrokes[0] // horizontal
	case deg < 67.5:
		return edgeStrokes[1] // rising diagonal
	case deg < 112.5:
		return edgeStrokes[2] // vertical
	default:
		return edgeStrokes[3] // falling diagonal
	}
}

// forEachRow runs fn for every row index, fanning out over available
// cores when the frame is tall enough to amortize goroutine overhead.
// Rows must not depend on each other.
func (m *Matcher) forEachRow(rows int, fn func(y int)) {
	if rows < m.parallelThreshold {
		for y := 0; y < rows; y++ {
			fn(y)
		}
		return
	}

	workers := runtime.NumCPU()
	if workers > rows {
		workers = rows
	}
	rowCh := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for y := range rowCh {
				fn(y)
			}
		}()
	}
	for y := 0; y < rows; y++ {
		rowCh <- y
	}
	close(rowCh)
	wg.Wait()
}
