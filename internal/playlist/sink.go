package playlist

import (
	"context"
	"fmt"
	"io"

	"github.com/justestif/moodtunes/internal/mood"
)

// Sink receives resolved content for playback. Publish returns a reference
// the user can follow (a playlist ID or URL).
type Sink interface {
	Publish(ctx context.Context, m mood.Mood, entries []Entry) (string, error)
}

// YouTubeWatchURL is the link format used for the built-in catalog.
const YouTubeWatchURL = "https://www.youtube.com/watch?v=%s"

// LinkSink writes one link per entry to a writer.
type LinkSink struct {
	w      io.Writer
	format string
}

// NewLinkSink creates a LinkSink. format must contain a single %s verb; an
// empty format uses YouTubeWatchURL.
func NewLinkSink(w io.Writer, format string) *LinkSink {
	if format == "" {
		format = YouTubeWatchURL
	}
	return &LinkSink{w: w, format: format}
}

// Publish writes the links. It returns the first link, or "" for no entries.
func (s *LinkSink) Publish(ctx context.Context, m mood.Mood, entries []Entry) (string, error) {
	if len(entries) == 0 {
		if _, err := fmt.Fprintf(s.w, "No songs found for %s.\n", m); err != nil {
			return "", fmt.Errorf("writing links: %w", err)
		}
		return "", nil
	}

	var first string
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return first, err
		}
		link := fmt.Sprintf(s.format, e)
		if i == 0 {
			first = link
		}
		if _, err := fmt.Fprintf(s.w, "%d. %s\n", i+1, link); err != nil {
			return first, fmt.Errorf("writing links: %w", err)
		}
	}
	return first, nil
}
