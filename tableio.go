package img2char

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// tableBlob is the serialized form of a CharacterMap: just the
// normalized entries and cell size. The KD-tree and cache are rebuilt
// on load; rebuilding a few-hundred-entry tree is cheap, and not
// persisting it keeps the format independent of the arena layout.
type tableBlob struct {
	CellSize int
	Entries  []GlyphEntry
}

// Save writes the character map as a gzip-compressed gob blob, so a
// table built from a slow font rasterization pass can be reused without
// the font being present.
func (cm *CharacterMap) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating table file: %w", err)
	}
	if err := cm.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the table onto a writer. Not named WriteTo because it
// does not report a byte count the way io.WriterTo requires.
func (cm *CharacterMap) Encode(w io.Writer) error {
	gz := gzip.NewWriter(w)
	enc := gob.NewEncoder(gz)
	blob := tableBlob{
		CellSize: cm.cellSize,
		Entries:  cm.entries,
	}
	if err := enc.Encode(&blob); err != nil {
		return fmt.Errorf("encoding table: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compressing table: %w", err)
	}
	return nil
}

// LoadCharacterMap reads a table written by Save and rebuilds the
// KD-tree index over it.
func LoadCharacterMap(path string) (*CharacterMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table file: %w", err)
	}
	defer f.Close()
	return DecodeCharacterMap(f)
}

// DecodeCharacterMap decodes a table from a reader.
func DecodeCharacterMap(r io.Reader) (*CharacterMap, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing table: %w", err)
	}
	defer gz.Close()

	var blob tableBlob
	dec := gob.NewDecoder(gz)
	if err := dec.Decode(&blob); err != nil {
		return nil, fmt.Errorf("decoding table: %w", err)
	}
	if len(blob.Entries) == 0 {
		return nil, ErrNoCandidateCharacters
	}
	return newCharacterMap(blob.Entries, blob.CellSize), nil
}
