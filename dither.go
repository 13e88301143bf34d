package img2char

// DitherFrame applies serpentine Floyd-Steinberg error diffusion to a
// whole frame of raw shape vectors, independently for each of the six
// descriptor dimensions, and returns a new frame. The input frame is
// not modified.
//
// The pass must run over the complete frame before any contrast or
// matching work starts: the diffusion kernel writes error forward into
// cells the scan has not visited yet, so rows cannot be processed
// independently here the way they can everywhere else in the pipeline.
//
// levels is the number of quantization steps per dimension; values
// below 2 disable dithering and return a plain copy.
func DitherFrame(frame [][]ShapeVector, levels int) [][]ShapeVector {
	rows := len(frame)
	if rows == 0 {
		return nil
	}
	cols := len(frame[0])

	out := make([][]ShapeVector, rows)
	for y := range frame {
		out[y] = make([]ShapeVector, cols)
		copy(out[y], frame[y])
	}
	if levels < 2 || cols == 0 {
		return out
	}

	plane := make([][]float32, rows)
	for y := range plane {
		plane[y] = make([]float32, cols)
	}

	for dim := 0; dim < ShapeDims; dim++ {
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				plane[y][x] = frame[y][x][dim]
			}
		}
		ditherPlane(plane, levels)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				out[y][x][dim] = plane[y][x]
			}
		}
	}
	return out
}

// ditherPlane runs serpentine Floyd-Steinberg diffusion over one
// dimension's plane in place. Row parity alternates scan direction and
// the kernel mirrors with it: 7/16 to the next cell in scan direction,
// then 3/16 diagonally behind, 5/16 straight below, and 1/16 diagonally
// ahead on the row below.
func ditherPlane(plane [][]float32, levels int) {
	rows := len(plane)
	cols := len(plane[0])
	steps := float32(levels - 1)

	diffuse := func(y, x int, err, weight float32) {
		if y < 0 || y >= rows || x < 0 || x >= cols {
			return
		}
		plane[y][x] += err * weight
	}

	for y := 0; y < rows; y++ {
		ltr := y%2 == 0
		for i := 0; i < cols; i++ {
			x := i
			dx := 1
			if !ltr {
				x = cols - 1 - i
				dx = -1
			}

			old := clamp01(plane[y][x])
			quantized := float32(int(old*steps+0.5)) / steps
			plane[y][x] = quantized
			err := old - quantized

			diffuse(y, x+dx, err, 7.0/16.0)
			diffuse(y+1, x-dx, err, 3.0/16.0)
			diffuse(y+1, x, err, 5.0/16.0)
			diffuse(y+1, x+dx, err, 1.0/16.0)
		}
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
