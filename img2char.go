// Package img2char converts raster images into dense grids of text
// characters, or Unicode braille dot patterns, that visually
// approximate the source image when rendered in a fixed-width terminal
// font.
//
// The core of the package is a shape-matching engine: candidate output
// glyphs and source-image cells are both reduced to fixed six-component
// "shape vectors" of ink coverage, a KD-tree over the glyph vectors
// resolves the nearest glyph for every cell, and optional contrast
// shaping and error-diffusion dithering smooth the result. A separate
// 256-pattern braille descriptor space provides a higher-resolution,
// font-independent rendering mode.
//
// Typical use:
//
//	rast := img2char.NewBasicFontRasterizer()
//	cm, err := img2char.NewCharacterMap(" .:-=+*#%@", rast, 12)
//	if err != nil {
//		// empty character set or no usable font; fatal
//	}
//	m := img2char.NewMatcher(cm, img2char.WithContrastPower(1.5))
//	cells := m.ConvertFrame(src, 80, 24)
//	fmt.Print(img2char.RenderText(cells))
//
// Image decoding, resizing, and edge filtering live in the imageutil
// subpackage; terminal escapes, animation pacing, and file encoding are
// out of scope for this package.
package img2char

import "strings"

// DefaultCharset orders characters roughly by ink density, suitable for
// light-on-dark terminals.
const DefaultCharset = " .:-=+*#%@"

// RenderText joins a cell grid into a newline-separated string frame,
// dropping color information.
func RenderText(cells [][]Cell) string {
	var sb strings.Builder
	for _, row := range cells {
		for _, c := range row {
			sb.WriteRune(c.Char)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// GridSize computes the output grid for a source image: cols fixed by
// the caller, rows derived from the source aspect ratio divided by
// scaleFactor, which compensates for terminal characters being taller
// than wide (2.0 is typical). Braille cells pack 2x4 dots, so braille
// mode usually wants a smaller scaleFactor.
func GridSize(srcW, srcH, cols int, scaleFactor float64) (int, int) {
	if srcW <= 0 || srcH <= 0 || cols <= 0 {
		return 0, 0
	}
	aspect := float64(srcH) / float64(srcW)
	rows := int(float64(cols) * aspect / scaleFactor)
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
