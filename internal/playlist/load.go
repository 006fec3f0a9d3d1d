package playlist

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/justestif/moodtunes/internal/mood"
)

// catalogFile is the YAML layout of a catalog file:
//
//	content:
//	  happy: [id1, id2]
//	  sad:   [id3]
type catalogFile struct {
	Content map[string][]string `yaml:"content"`
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses a YAML catalog. Unknown moods are an error.
func Decode(r io.Reader) (Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	catalog, err := FromStrings(file.Content)
	if err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return catalog, nil
}

// FromStrings converts a mood name → IDs table, as read from a file or a
// database, into a Catalog. Mood names are parsed case-insensitively.
func FromStrings(content map[string][]string) (Catalog, error) {
	catalog := make(Catalog, len(content))
	for name, ids := range content {
		m, err := mood.ParseMood(name)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			catalog[m] = append(catalog[m], Entry(id))
		}
	}
	return catalog, nil
}
