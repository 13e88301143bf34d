package imageutil

// PrepareCells resizes an image to the pixel dimensions the cell
// sampler wants for a cols x rows output grid, then applies a mild
// sharpening pass. cellPx is the pixel size of one cell; larger values
// give the concentric-ring sampler more texels to average but cost
// proportionally more to resize.
//
// Area interpolation is used for the downscale so thin strokes
// contribute fractional coverage instead of aliasing away.
func PrepareCells(img *RGBAImage, cols, rows, cellPx int) *RGBAImage {
	resized := Resize(img, cols*cellPx, rows*cellPx, InterpolationArea)
	return Sharpen(resized)
}
