package img2char

import (
	"math"
	"testing"
)

func TestBrightness(t *testing.T) {
	if got := (RGB{0, 0, 0}).Brightness(); got != 0 {
		t.Errorf("black brightness = %f, want 0", got)
	}
	if got := (RGB{255, 255, 255}).Brightness(); math.Abs(float64(got-1.0)) > epsilon {
		t.Errorf("white brightness = %f, want 1", got)
	}

	// green dominates the luma weights
	green := (RGB{0, 255, 0}).Brightness()
	red := (RGB{255, 0, 0}).Brightness()
	blue := (RGB{0, 0, 255}).Brightness()
	if !(green > red && red > blue) {
		t.Errorf("luma ordering wrong: g=%f r=%f b=%f", green, red, blue)
	}
}

func TestBrightnessRGBATransparent(t *testing.T) {
	// transparent pixels sample as background white
	if got := brightnessRGBA(0, 0, 0, 0); got != 1.0 {
		t.Errorf("transparent black = %f, want 1.0", got)
	}
	if got := brightnessRGBA(0, 0, 0, 255); got != 0 {
		t.Errorf("opaque black = %f, want 0", got)
	}
}
