package img2char

import (
	"bytes"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
)

func TestTableRoundTrip(t *testing.T) {
	cm := buildTestMap(t, " .:-=+*#%@")
	path := filepath.Join(t.TempDir(), "charmap.gob.gz")

	if err := cm.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadCharacterMap(path)
	if err != nil {
		t.Fatalf("LoadCharacterMap: %v", err)
	}

	if loaded.Len() != cm.Len() {
		t.Fatalf("loaded %d glyphs, want %d", loaded.Len(), cm.Len())
	}
	if loaded.CellSize() != cm.CellSize() {
		t.Errorf("loaded cell size %d, want %d", loaded.CellSize(), cm.CellSize())
	}
	for i, e := range loaded.Entries() {
		want := cm.Entries()[i]
		if e.Char != want.Char || e.Vec != want.Vec {
			t.Errorf("entry %d: got %q %v, want %q %v",
				i, e.Char, e.Vec, want.Char, want.Vec)
		}
	}
}

// The rebuilt KD-tree must answer queries identically to the original.
func TestTableRoundTripMatching(t *testing.T) {
	cm := buildTestMap(t, " .:-=+*#%@")

	var buf bytes.Buffer
	if err := cm.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	loaded, err := DecodeCharacterMap(&buf)
	if err != nil {
		t.Fatalf("DecodeCharacterMap: %v", err)
	}

	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 500; i++ {
		var v ShapeVector
		for d := 0; d < ShapeDims; d++ {
			v[d] = rng.Float32()
		}
		if got, want := loaded.Match(v), cm.Match(v); got != want {
			t.Fatalf("query %d: loaded matched %q, original %q", i, got, want)
		}
	}
}

func TestDecodeCharacterMapRejectsGarbage(t *testing.T) {
	if _, err := DecodeCharacterMap(bytes.NewReader([]byte("not a table"))); err == nil {
		t.Error("garbage input decoded without error")
	}
}

func TestDecodeCharacterMapRejectsEmptyTable(t *testing.T) {
	empty := &CharacterMap{cellSize: 12}
	var buf bytes.Buffer
	if err := empty.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := DecodeCharacterMap(&buf); !errors.Is(err, ErrNoCandidateCharacters) {
		t.Errorf("empty table: got %v, want ErrNoCandidateCharacters", err)
	}
}

func TestLoadCharacterMapMissingFile(t *testing.T) {
	if _, err := LoadCharacterMap(filepath.Join(t.TempDir(), "nope.gob.gz")); err == nil {
		t.Error("missing file loaded without error")
	}
}
