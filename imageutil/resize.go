package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation selects the resampling filter for Resize.
type Interpolation int

const (
	// InterpolationArea is the default for shrinking a frame onto the
	// cell grid: thin strokes contribute fractional coverage instead of
	// aliasing away. Catmull-Rom is the closest pure Go equivalent of
	// OpenCV's INTER_AREA, which the gocv path uses.
	InterpolationArea Interpolation = iota

	// InterpolationLinear is bilinear resampling.
	InterpolationLinear

	// InterpolationNearest is nearest-neighbor resampling.
	InterpolationNearest
)

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resamples an image to the given pixel dimensions. The cell
// sampler wants cols*cellPx by rows*cellPx input; PrepareCells wraps
// this with that arithmetic.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.RGBA, image.Rect(0, 0, width, height),
		img.RGBA, img.Bounds(), draw.Over, nil)
	return dst
}
