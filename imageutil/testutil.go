package imageutil

// Synthetic test images shared by the package tests. Both generators
// are gray-valued; the pipeline's shape path only ever reads luma.

// fillImage builds an image from a per-pixel color function.
func fillImage(width, height int, at func(x, y int) RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, at(x, y))
		}
	}
	return img
}

// CreateGradientImage ramps brightness left to right.
func CreateGradientImage(width, height int) *RGBAImage {
	return fillImage(width, height, func(x, y int) RGB {
		v := uint8(255 * x / (width - 1))
		return RGB{R: v, G: v, B: v}
	})
}

// CreateEdgeImage draws a white block and a black diagonal on a gray
// field, giving the edge detector horizontal, vertical, and diagonal
// boundaries to find.
func CreateEdgeImage(width, height int) *RGBAImage {
	diag := width / 2
	if height/2 < diag {
		diag = height / 2
	}
	return fillImage(width, height, func(x, y int) RGB {
		if x == y && x < diag {
			return RGB{}
		}
		if x >= width/4 && x < 3*width/4 && y >= height/4 && y < 3*height/4 {
			return RGB{R: 255, G: 255, B: 255}
		}
		return RGB{R: 128, G: 128, B: 128}
	})
}
