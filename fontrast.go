package img2char

import (
	"fmt"
	"image"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// FontRasterizer produces glyph coverage bitmaps for the character map
// builder. Implementations render one character into a square grid of
// coverage values, 0 = background through 1 = full ink, with
// anti-aliased intermediates preserved. Characters the font cannot
// render come back as a blank grid rather than an error; a cell that
// samples as blank simply matches like a space.
type FontRasterizer interface {
	Rasterize(r rune, cellPx int) [][]float32
}

// TrueTypeRasterizer rasterizes glyphs from a parsed TrueType font
// using freetype, preserving anti-aliased coverage.
type TrueTypeRasterizer struct {
	font *truetype.Font
}

// LoadTrueTypeFont loads and parses a TrueType font from disk. Failures
// wrap ErrNoFontAvailable so table construction surfaces them as the
// fatal no-font condition.
func LoadTrueTypeFont(path string) (*TrueTypeRasterizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNoFontAvailable, path, err)
	}
	return ParseTrueTypeFont(data)
}

// ParseTrueTypeFont parses TTF bytes into a rasterizer.
func ParseTrueTypeFont(data []byte) (*TrueTypeRasterizer, error) {
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFontAvailable, err)
	}
	return &TrueTypeRasterizer{font: f}, nil
}

// Rasterize renders one glyph into a cellPx x cellPx coverage grid.
//
// The glyph is drawn into an alpha image because TrueType rendering is
// anti-aliased and the alpha channel is the direct pixel-coverage
// signal; no thresholding is applied, the shape sampler averages the
// intermediate values as-is. The baseline comes from the face metrics
// and the glyph is centered horizontally using its measured advance, so
// descenders and narrow glyphs land where the terminal would put them.
func (t *TrueTypeRasterizer) Rasterize(r rune, cellPx int) [][]float32 {
	face := truetype.NewFace(t.font, &truetype.Options{
		Size:    float64(cellPx),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	img := image.NewAlpha(image.Rect(0, 0, cellPx, cellPx))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(t.font)
	ctx.SetFontSize(float64(cellPx))
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	metrics := face.Metrics()
	ascent := int(metrics.Ascent >> 6)
	descent := int(metrics.Descent >> 6)
	baselineY := (cellPx + ascent - descent) / 2

	startX := 0
	if advance, ok := face.GlyphAdvance(r); ok {
		if aw := int(advance >> 6); aw < cellPx {
			startX = (cellPx - aw) / 2
		}
	}

	if _, err := ctx.DrawString(string(r), freetype.Pt(startX, baselineY)); err != nil {
		return blankCoverage(cellPx)
	}

	cov := make([][]float32, cellPx)
	for y := 0; y < cellPx; y++ {
		cov[y] = make([]float32, cellPx)
		for x := 0; x < cellPx; x++ {
			cov[y][x] = float32(img.AlphaAt(x, y).A) / 255.0
		}
	}
	return cov
}

// BasicFontRasterizer renders through the embedded Inconsolata bitmap
// face, so a character map can always be built even when no TTF is
// installed on the host.
type BasicFontRasterizer struct {
	face font.Face
}

// NewBasicFontRasterizer returns a rasterizer over the embedded
// Inconsolata 8x16 regular face.
func NewBasicFontRasterizer() *BasicFontRasterizer {
	return &BasicFontRasterizer{face: inconsolata.Regular8x16}
}

// Rasterize draws the glyph at the face's natural size, then resamples
// the result into the requested square cell with nearest-neighbor
// lookups. Bitmap faces have no anti-aliasing to preserve, so nearest
// sampling loses nothing.
func (b *BasicFontRasterizer) Rasterize(r rune, cellPx int) [][]float32 {
	_, advance, ok := b.face.GlyphBounds(r)
	if !ok {
		return blankCoverage(cellPx)
	}

	metrics := b.face.Metrics()
	natW := int(advance >> 6)
	if natW <= 0 {
		natW = int(metrics.XHeight >> 6)
		if natW <= 0 {
			natW = cellPx
		}
	}
	natH := int(metrics.Height >> 6)
	if natH <= 0 {
		natH = cellPx
	}

	img := image.NewAlpha(image.Rect(0, 0, natW, natH))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: b.face,
		Dot:  fixed.P(0, int(metrics.Ascent>>6)),
	}
	d.DrawString(string(r))

	cov := make([][]float32, cellPx)
	for y := 0; y < cellPx; y++ {
		cov[y] = make([]float32, cellPx)
		sy := y * natH / cellPx
		for x := 0; x < cellPx; x++ {
			sx := x * natW / cellPx
			cov[y][x] = float32(img.AlphaAt(sx, sy).A) / 255.0
		}
	}
	return cov
}

func blankCoverage(cellPx int) [][]float32 {
	cov := make([][]float32, cellPx)
	for y := range cov {
		cov[y] = make([]float32, cellPx)
	}
	return cov
}
