package imageutil

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"os"

	_ "golang.org/x/image/tiff" // register TIFF decoder
)

// LoadImage decodes an image file into an RGBAImage. PNG, JPEG, GIF,
// and TIFF are recognized by content, not extension.
func LoadImage(path string) (*RGBAImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return RGBAImageFromImage(img), nil
}

// SavePNG writes an image as PNG. The pipeline only ever writes
// diagnostic snapshots of prepared frames, and PNG is lossless, so no
// other encoder is offered.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
