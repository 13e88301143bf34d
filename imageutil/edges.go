package imageutil

import "math"

// PixelSource is the read-only pixel surface consumed by the edge
// detector. It matches the interface the matching engine samples from,
// so an RGBAImage (or any other source) can feed both.
type PixelSource interface {
	Width() int
	Height() int
	PixelAt(x, y int) (r, g, b, a uint8)
}

// ComputeEdges builds per-cell edge magnitude and angle planes for an
// output grid of cols x rows cells. The source is reduced to one
// average brightness per cell and a Sobel convolution runs over that
// cell-resolution grid; the result is consumed per cell by the
// directional stroke override, so there is no reason to pay for
// pixel-resolution gradients.
//
// Magnitude is the Euclidean gradient norm over brightness in [0, 1];
// angle is math.Atan2(gy, gx) in radians.
func ComputeEdges(src PixelSource, cols, rows int) (magnitude, angle [][]float32) {
	if cols <= 0 || rows <= 0 {
		return nil, nil
	}
	brightness := cellBrightness(src, cols, rows)

	sobelX := NewKernel([][]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	})
	sobelY := NewKernel([][]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	})
	gx := ConvolveGrayFloat(brightness, sobelX)
	gy := ConvolveGrayFloat(brightness, sobelY)

	magnitude = make([][]float32, rows)
	angle = make([][]float32, rows)
	for y := 0; y < rows; y++ {
		magnitude[y] = make([]float32, cols)
		angle[y] = make([]float32, cols)
		for x := 0; x < cols; x++ {
			magnitude[y][x] = float32(math.Sqrt(gx[y][x]*gx[y][x] + gy[y][x]*gy[y][x]))
			angle[y][x] = float32(math.Atan2(gy[y][x], gx[y][x]))
		}
	}
	return magnitude, angle
}

// cellBrightness averages source brightness over each cell of the
// output grid, returning values in [0, 1]. Each cell is sampled on a
// 3x3 sub-grid rather than exhaustively; the Sobel pass smooths over
// the difference.
func cellBrightness(src PixelSource, cols, rows int) [][]float64 {
	srcW, srcH := src.Width(), src.Height()
	cellW := float64(srcW) / float64(cols)
	cellH := float64(srcH) / float64(rows)

	grid := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		grid[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			var sum float64
			var n int
			for gy := 0; gy < 3; gy++ {
				for gx := 0; gx < 3; gx++ {
					px := int((float64(x) + (float64(gx)+0.5)/3) * cellW)
					py := int((float64(y) + (float64(gy)+0.5)/3) * cellH)
					if px < 0 || px >= srcW || py < 0 || py >= srcH {
						continue
					}
					r, g, b, _ := src.PixelAt(px, py)
					sum += Luma(r, g, b)
					n++
				}
			}
			if n > 0 {
				grid[y][x] = sum / float64(n)
			}
		}
	}
	return grid
}
