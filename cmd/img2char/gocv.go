package main

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/wbrown/img2char"
)

// matSource adapts an 8UC3 BGR gocv.Mat to the img2char.PixelSource
// interface. The Mat must outlive the source.
type matSource struct {
	mat gocv.Mat
}

func (s *matSource) Width() int {
	return s.mat.Cols()
}

func (s *matSource) Height() int {
	return s.mat.Rows()
}

func (s *matSource) PixelAt(x, y int) (r, g, b, a uint8) {
	v := s.mat.GetVecbAt(y, x)
	return v[2], v[1], v[0], 255
}

// prepareWithGoCV decodes and area-resizes the input through OpenCV.
// Returns an error when OpenCV cannot read the file, so the caller can
// fall back to the pure Go pipeline.
func prepareWithGoCV(path string, targetWidth int, scaleFactor float64, cellSize int) (img2char.PixelSource, int, int, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return nil, 0, 0, fmt.Errorf("could not read image from %s", path)
	}

	cols, rows := img2char.GridSize(mat.Cols(), mat.Rows(), targetWidth, scaleFactor)
	resized := gocv.NewMat()
	gocv.Resize(mat, &resized, image.Pt(cols*cellSize, rows*cellSize), 0, 0, gocv.InterpolationArea)
	mat.Close()

	return &matSource{mat: resized}, cols, rows, nil
}
