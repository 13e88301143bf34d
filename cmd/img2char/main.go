package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wbrown/img2char"
	"github.com/wbrown/img2char/imageutil"
)

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image file (required)")
	outputFile := flag.String("output", "",
		"Path to save the output (if not specified, prints to stdout)")
	charset := flag.String("charset", img2char.DefaultCharset,
		"Character set to match against, ordered by ink density")
	fontPath := flag.String("font", "",
		"Path to a TTF font (default: embedded Inconsolata)")
	tablePath := flag.String("table", "",
		"Path to a precomputed character map (overrides -charset/-font)")
	targetWidth := flag.Int("width", 80,
		"Target width of the output in characters")
	scaleFactor := flag.Float64("scale", 2.0,
		"Aspect scale factor compensating for tall terminal cells")
	cellSize := flag.Int("cellsize", 12,
		"Glyph rasterization cell size in pixels")
	contrast := flag.Float64("contrast", 1.0,
		"Contrast power applied to cell descriptors (1.0 = off)")
	directional := flag.Float64("directional", 0.0,
		"Directional contrast strength (0 = off)")
	ditherLevels := flag.Int("dither", 0,
		"Error-diffusion quantization levels per dimension (0 = off)")
	edgeThreshold := flag.Float64("edges", 0.0,
		"Edge magnitude threshold for directional stroke override (0 = off)")
	braille := flag.Bool("braille", false,
		"Render with Unicode braille dot patterns instead of the charset")
	invert := flag.Bool("invert", false,
		"Mirror matches to the opposite end of the character set")
	verbose := flag.Bool("v", false,
		"Enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *inputFile == "" {
		fmt.Println("Please provide the image using the -input flag")
		flag.PrintDefaults()
		os.Exit(1)
	}

	beginInit := time.Now()
	cm, err := loadCharacterMap(*tablePath, *charset, *fontPath, *cellSize)
	if err != nil {
		log.WithError(err).Fatal("building character map")
	}

	opts := []img2char.MatcherOption{
		img2char.WithContrastPower(float32(*contrast)),
		img2char.WithDirectionalStrength(float32(*directional)),
		img2char.WithDitherLevels(*ditherLevels),
		img2char.WithInvert(*invert),
	}
	if *edgeThreshold > 0 {
		opts = append(opts, img2char.WithEdgeBlend(
			float32(*edgeThreshold), img2char.EdgeDetector(imageutil.ComputeEdges)))
	}
	matcher := img2char.NewMatcher(cm, opts...)
	endInit := time.Now()

	src, cols, rows, err := prepareSource(*inputFile, *targetWidth, *scaleFactor, *cellSize)
	if err != nil {
		log.WithError(err).Fatal("preparing input image")
	}

	var cells [][]img2char.Cell
	if *braille {
		cells = matcher.ConvertFrameBraille(src, cols, rows)
	} else {
		cells = matcher.ConvertFrame(src, cols, rows)
	}
	text := img2char.RenderText(cells)
	endComputation := time.Now()

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(text), 0644); err != nil {
			log.WithError(err).Fatal("writing output")
		}
		fmt.Printf("Output written to %s\n", *outputFile)
	} else {
		fmt.Print(text)
	}

	stats := cm.CacheStats()
	log.WithFields(log.Fields{
		"init":        endInit.Sub(beginInit),
		"computation": endComputation.Sub(endInit),
		"cells":       cols * rows,
		"cacheHits":   stats.Hits,
		"cacheMisses": stats.Misses,
		"hitRate":     fmt.Sprintf("%.2f", stats.HitRate),
	}).Info("conversion complete")
}

// loadCharacterMap resolves the glyph table from a precomputed table
// file, a TTF path, or the embedded fallback face, in that order of
// preference.
func loadCharacterMap(tablePath, charset, fontPath string, cellSize int) (*img2char.CharacterMap, error) {
	if tablePath != "" {
		return img2char.LoadCharacterMap(tablePath)
	}
	var rast img2char.FontRasterizer
	if fontPath != "" {
		ttf, err := img2char.LoadTrueTypeFont(fontPath)
		if err != nil {
			return nil, err
		}
		rast = ttf
	} else {
		rast = img2char.NewBasicFontRasterizer()
	}
	return img2char.NewCharacterMap(charset, rast, cellSize)
}

// prepareSource decodes and resizes the input for a targetWidth-column
// grid. OpenCV handles decode and area resize when it can read the
// file; anything it rejects falls back to the pure Go pipeline in
// imageutil.
func prepareSource(path string, targetWidth int, scaleFactor float64, cellSize int) (img2char.PixelSource, int, int, error) {
	if src, cols, rows, err := prepareWithGoCV(path, targetWidth, scaleFactor, cellSize); err == nil {
		return src, cols, rows, nil
	} else {
		log.WithError(err).Debug("gocv decode failed, using pure Go pipeline")
	}

	img, err := imageutil.LoadImage(path)
	if err != nil {
		return nil, 0, 0, err
	}
	cols, rows := img2char.GridSize(img.Width(), img.Height(), targetWidth, scaleFactor)
	prepared := imageutil.PrepareCells(img, cols, rows, cellSize)
	return prepared, cols, rows, nil
}
