// Package playlist maps canonical moods to ordered lists of content
// identifiers.
package playlist

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/justestif/moodtunes/internal/mood"
)

// ErrMissingContent is returned by Validate when an advertised mood has no content.
var ErrMissingContent = errors.New("advertised mood has no content")

// Entry is an opaque content identifier. Its meaning belongs to the playback
// sink (a YouTube video ID for the built-in catalog).
type Entry string

// Catalog is the raw mood → content table. Slice order is display order.
type Catalog map[mood.Mood][]Entry

// Resolver answers content lookups for a catalog fixed at construction.
type Resolver struct {
	content map[mood.Mood][]Entry
}

// NewResolver copies catalog into a read-only resolver. Moods outside the
// canonical vocabulary and blank entries are rejected.
func NewResolver(catalog Catalog) (*Resolver, error) {
	content := make(map[mood.Mood][]Entry, len(catalog))
	for m, entries := range catalog {
		if !m.Valid() {
			return nil, fmt.Errorf("catalog: %w: %q", mood.ErrUnknownMood, m)
		}
		for i, e := range entries {
			if strings.TrimSpace(string(e)) == "" {
				return nil, fmt.Errorf("catalog: %s entry %d is blank", m, i)
			}
		}
		if len(entries) > 0 {
			content[m] = slices.Clone(entries)
		}
	}
	return &Resolver{content: content}, nil
}

// Resolve returns the content for m in display order. A mood without content
// yields an empty, non-nil slice; that is a normal outcome, not an error.
func (r *Resolver) Resolve(m mood.Mood) []Entry {
	entries, ok := r.content[m]
	if !ok {
		return []Entry{}
	}
	return slices.Clone(entries)
}

// Available reports whether m has any content.
func (r *Resolver) Available(m mood.Mood) bool {
	return len(r.content[m]) > 0
}

// Moods returns the moods that have content, in canonical display order.
func (r *Resolver) Moods() []mood.Mood {
	var out []mood.Mood
	for _, m := range mood.All() {
		if r.Available(m) {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks that every advertised mood has content. It is meant to run
// once at startup so a gap surfaces before any user sees an empty playlist.
func (r *Resolver) Validate(advertised []mood.Mood) error {
	var missing []string
	for _, m := range advertised {
		if !r.Available(m) {
			missing = append(missing, string(m))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingContent, strings.Join(missing, ", "))
	}
	return nil
}

// DefaultCatalog returns the built-in catalog of YouTube video IDs.
// anxious and neutral intentionally have no content.
func DefaultCatalog() Catalog {
	return Catalog{
		mood.Happy:     {"2Vv-BfVoq4g", "lY2yjAdbvdQ", "09R8_2nJtjg", "kJQP7kiw5Fk"},
		mood.Sad:       {"RgKAFK5djSk", "JGwWNGJdvx8", "RBumgq5yVrA", "hLQl3WQQoQ0"},
		mood.Calm:      {"0yW7w8F2TVA", "ktvTqknDobU", "YVkUvmDQ3HY", "UceaB4D0jpo"},
		mood.Angry:     {"gCYcHz2k5x0", "YqeW9_5kURI", "3AtDnEC4zak", "hTWKbfoikeg"},
		mood.Surprised: {"6Dh-RL__uN4", "pRpeEdMmmQ0", "OPf0YbXqDm0", "uelHwf8o7_U"},
	}
}

// Strings converts entries to plain strings.
func Strings(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = string(e)
	}
	return out
}
