// compute_charmap precomputes a character map from a font and character
// set and writes it as a gzip-compressed gob table, so renderers can
// load the table without rasterizing the font at startup.
package main

import (
	"flag"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/wbrown/img2char"
)

func main() {
	fontPath := flag.String("font", "",
		"Path to a TTF font (default: embedded Inconsolata)")
	charset := flag.String("charset", img2char.DefaultCharset,
		"Character set to rasterize, ordered by ink density")
	cellSize := flag.Int("cellsize", 12,
		"Glyph rasterization cell size in pixels")
	output := flag.String("output", "",
		"Output path for the table file (required)")
	flag.Parse()

	if *output == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	var rast img2char.FontRasterizer
	if *fontPath != "" {
		ttf, err := img2char.LoadTrueTypeFont(*fontPath)
		if err != nil {
			log.WithError(err).Fatal("loading font")
		}
		rast = ttf
	} else {
		rast = img2char.NewBasicFontRasterizer()
	}

	cm, err := img2char.NewCharacterMap(*charset, rast, *cellSize)
	if err != nil {
		log.WithError(err).Fatal("building character map")
	}
	if err := cm.Save(*output); err != nil {
		log.WithError(err).Fatal("writing table")
	}

	log.WithFields(log.Fields{
		"glyphs": cm.Len(),
		"output": *output,
	}).Info("character map written")
}
