package img2char

// RGB represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255.
type RGB struct {
	R, G, B uint8
}

// Brightness returns the perceptual luma of the color in [0, 1], using
// the Rec. 601 weights.
func (c RGB) Brightness() float32 {
	return (0.299*float32(c.R) + 0.587*float32(c.G) + 0.114*float32(c.B)) / 255.0
}

// brightnessRGBA computes luma in [0, 1] from raw 8-bit channels.
// Fully transparent pixels read as white so they sample as background.
func brightnessRGBA(r, g, b, a uint8) float32 {
	if a == 0 {
		return 1.0
	}
	return (0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)) / 255.0
}

const epsilon = 0.000001 // For floating-point comparisons
