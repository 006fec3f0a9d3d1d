package spotify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/playlist"
)

const maxTracksPerRequest = 100

// ErrNoContent is returned when asked to publish a mood with no tracks.
var ErrNoContent = errors.New("no tracks to publish")

// CreatePlaylist creates a new playlist for the current user.
// Returns the playlist ID.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string, public bool) (string, error) {
	userID, err := c.UserID(ctx)
	if err != nil {
		return "", err
	}

	pl, err := c.api.CreatePlaylistForUser(ctx, userID, name, description, public, false)
	if err != nil {
		return "", fmt.Errorf("creating playlist: %w", err)
	}

	return pl.ID.String(), nil
}

// AddTracksToPlaylist adds tracks to a playlist, handling batching for large sets.
// Spotify allows max 100 tracks per request.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))
		batch := ids[i:end]

		_, err := c.api.AddTracksToPlaylist(ctx, spotify.ID(playlistID), batch...)
		if err != nil {
			return fmt.Errorf("adding tracks (batch %d-%d): %w", i+1, end, err)
		}
	}

	return nil
}

// Sink publishes a mood's content as a new Spotify playlist. Catalog entries
// must be Spotify track IDs or spotify:track: URIs.
type Sink struct {
	client *Client
	public bool
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithPublic makes created playlists public.
func WithPublic(public bool) SinkOption {
	return func(s *Sink) {
		s.public = public
	}
}

// NewSink creates a Sink that publishes through client.
func NewSink(client *Client, opts ...SinkOption) *Sink {
	s := &Sink{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ playlist.Sink = (*Sink)(nil)

// Publish creates a playlist named after m and fills it with entries in
// order. It returns the playlist's web URL.
func (s *Sink) Publish(ctx context.Context, m mood.Mood, entries []playlist.Entry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("%w for %s", ErrNoContent, m)
	}

	name, description := playlistName(m)
	id, err := s.client.CreatePlaylist(ctx, name, description, s.public)
	if err != nil {
		return "", err
	}

	if err := s.client.AddTracksToPlaylist(ctx, id, trackIDs(entries)); err != nil {
		return "", err
	}

	return "https://open.spotify.com/playlist/" + id, nil
}

// playlistName returns the name and description used for m.
func playlistName(m mood.Mood) (string, string) {
	return fmt.Sprintf("MoodTunes: %s %s", m.Title(), m.Emoji()),
		fmt.Sprintf("Songs for a %s mood, picked by MoodTunes.", m)
}

// trackIDs strips the spotify:track: prefix from entries where present.
func trackIDs(entries []playlist.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = strings.TrimPrefix(string(e), "spotify:track:")
	}
	return ids
}
