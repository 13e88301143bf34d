package imageutil

import "image/color"

// Luma returns the Rec. 601 brightness of 8-bit channels in [0, 1].
// This is the same weighting the cell sampler and the edge detector
// reduce source pixels with, so grayscale output and shape matching
// agree on what "dark" means.
func Luma(r, g, b uint8) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255.0
}

// ToGrayscale reduces an RGBA image to 8-bit grayscale through Luma.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.RGBAAt(x, y)
			v := Luma(c.R, c.G, c.B)*255 + 0.5
			if v > 255 {
				v = 255
			}
			gray.Gray.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return gray
}
