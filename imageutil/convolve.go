package imageutil

import "math"

// Kernel is a small convolution kernel. The pipeline only uses odd
// square kernels (3x3 sharpen and Sobel), but nothing here assumes
// that.
type Kernel struct {
	Weights [][]float64
	Width   int
	Height  int
}

// NewKernel wraps a 2D weight slice as a Kernel.
func NewKernel(weights [][]float64) *Kernel {
	height := len(weights)
	width := 0
	if height > 0 {
		width = len(weights[0])
	}
	return &Kernel{Weights: weights, Width: width, Height: height}
}

// SharpeningKernel is the mild unsharp kernel PrepareCells applies
// after the downscale, restoring stroke contrast the area filter
// softens.
func SharpeningKernel() *Kernel {
	return NewKernel([][]float64{
		{0, -0.5, 0},
		{-0.5, 3, -0.5},
		{0, -0.5, 0},
	})
}

// Convolve applies a kernel to an RGBA image, channel by channel.
// Border pixels replicate edge values, matching what the cell sampler
// does when its rings leave the frame.
func Convolve(img *RGBAImage, kernel *Kernel) *RGBAImage {
	width, height := img.Width(), img.Height()
	dst := NewRGBAImage(width, height)

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sumR, sumG, sumB float64
			for ky := 0; ky < kernel.Height; ky++ {
				for kx := 0; kx < kernel.Width; kx++ {
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sy := clampInt(y+ky-halfKH, 0, height-1)
					c := img.RGBAAt(sx, sy)
					w := kernel.Weights[ky][kx]
					sumR += float64(c.R) * w
					sumG += float64(c.G) * w
					sumB += float64(c.B) * w
				}
			}
			dst.SetRGB(x, y, RGB{
				R: clampUint8(sumR),
				G: clampUint8(sumG),
				B: clampUint8(sumB),
			})
		}
	}
	return dst
}

// ConvolveGrayFloat applies a kernel to a float plane without
// clamping, so signed results like Sobel gradients survive. Borders
// replicate.
func ConvolveGrayFloat(plane [][]float64, kernel *Kernel) [][]float64 {
	height := len(plane)
	if height == 0 {
		return nil
	}
	width := len(plane[0])

	dst := make([][]float64, height)
	for y := range dst {
		dst[y] = make([]float64, width)
	}

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for ky := 0; ky < kernel.Height; ky++ {
				for kx := 0; kx < kernel.Width; kx++ {
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sy := clampInt(y+ky-halfKH, 0, height-1)
					sum += plane[sy][sx] * kernel.Weights[ky][kx]
				}
			}
			dst[y][x] = sum
		}
	}
	return dst
}

// Sharpen applies SharpeningKernel to an image.
func Sharpen(img *RGBAImage) *RGBAImage {
	return Convolve(img, SharpeningKernel())
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
