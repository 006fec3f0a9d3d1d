package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/moodtunes/internal/config"
	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/playlist"
)

// execute runs the root command with a config file holding extra.
func execute(t *testing.T, stdin string, extra string, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "moodtunes.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("capture_delay: 0s\n"+extra), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTextCommand(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  []string
	}{
		{
			name: "arguments",
			args: []string{"text", "I", "am", "so", "happy", "today"},
			want: []string{
				"Detected mood: Happy 😊 (via text analysis)",
				"1. https://www.youtube.com/watch?v=2Vv-BfVoq4g",
			},
		},
		{
			name:  "stdin",
			stdin: "feeling lonely and down\n",
			args:  []string{"text"},
			want:  []string{"Detected mood: Sad"},
		},
		{
			name: "no content for anxious",
			args: []string{"text", "so stressed and worried"},
			want: []string{"Detected mood: Anxious", "No songs found for anxious."},
		},
		{
			name: "custom link format",
			args: []string{"text", "--link-format", "id:%s", "so calm and peaceful"},
			want: []string{"1. id:0yW7w8F2TVA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, "", tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestTextCommand_Empty(t *testing.T) {
	_, err := execute(t, "   \n", "", "text")
	assert.ErrorIs(t, err, mood.ErrEmptyText)
}

func TestFaceCommand(t *testing.T) {
	signalPath := filepath.Join(t.TempDir(), "signal.json")
	require.NoError(t, os.WriteFile(signalPath, []byte(`{"neutral":0.1,"surprised":0.85,"happy":0.05}`), 0o600))

	out, err := execute(t, "", "", "face", "--file", signalPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Detected mood: Surprised 😲 (via facial expression), confidence 85%")
	assert.Contains(t, out, "1. https://www.youtube.com/watch?v=6Dh-RL__uN4")
}

func TestFaceCommand_Stdin(t *testing.T) {
	out, err := execute(t, `[{"expression":"happy","probability":0.2},{"expression":"sad","probability":0.3}]`, "", "face")
	require.NoError(t, err)
	assert.Contains(t, out, "Detected mood: Calm")
}

func TestFaceCommand_Errors(t *testing.T) {
	_, err := execute(t, `{}`, "", "face")
	assert.ErrorIs(t, err, mood.ErrEmptySignal)

	_, err = execute(t, `{"happy": 2}`, "", "face")
	assert.ErrorIs(t, err, mood.ErrInvalidProbability)

	_, err = execute(t, `not json`, "", "face")
	assert.Error(t, err)
}

func TestFaceCommand_NoFace(t *testing.T) {
	out, err := execute(t, "", "", "face", "--no-face")
	require.NoError(t, err)
	assert.Equal(t, "No face detected. Please try again.\n", out)
}

func TestPlaylistCommand(t *testing.T) {
	out, err := execute(t, "", "", "playlist", "ANGRY")
	require.NoError(t, err)
	assert.Contains(t, out, "Songs for Angry 😠")
	assert.Contains(t, out, "4. https://www.youtube.com/watch?v=hTWKbfoikeg")

	_, err = execute(t, "", "", "playlist", "bored")
	assert.ErrorIs(t, err, mood.ErrUnknownMood)
}

func TestPlaylistCommand_CatalogFile(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("content:\n  happy: [h1]\n  calm: [c1, c2]\n"), 0o600))

	out, err := execute(t, "", "catalog_path: "+catalogPath+"\nadvertised_moods: [happy, calm]\n", "playlist", "calm", "--link-format", "%s")
	require.NoError(t, err)
	assert.Contains(t, out, "1. c1\n2. c2\n")
}

func TestCatalogMissingAdvertisedMood(t *testing.T) {
	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte("content:\n  happy: [h1]\n"), 0o600))

	_, err := execute(t, "", "catalog_path: "+catalogPath+"\n", "moods")
	assert.ErrorIs(t, err, playlist.ErrMissingContent)
}

func TestMoodsCommand(t *testing.T) {
	out, err := execute(t, "", "", "moods")
	require.NoError(t, err)

	assert.Contains(t, out, "MOOD")
	for _, m := range mood.All() {
		assert.Contains(t, out, string(m))
	}
	assert.Contains(t, out, "Facial confidence threshold: 0.60")
}

func TestConfigurationGap(t *testing.T) {
	extra := `
expression:
  vocabulary: [happy, contempt]
  fallback: ""
`
	_, err := execute(t, "", extra, "moods")

	var gap *mood.ConfigurationGapError
	assert.ErrorAs(t, err, &gap)
}

func TestExportCommand_NoContent(t *testing.T) {
	out, err := execute(t, "", "", "export", "neutral")
	require.NoError(t, err)
	assert.Equal(t, "No songs found for neutral.\n", out)
}

func TestExportCommand_MissingCredentials(t *testing.T) {
	t.Setenv("SPOTIFY_ID", "")
	t.Setenv("SPOTIFY_SECRET", "")

	_, err := execute(t, "", "", "export", "happy")
	assert.ErrorIs(t, err, config.ErrMissingCredentials)
}

func TestLogoutCommand(t *testing.T) {
	t.Setenv("SPOTIFY_ID", "")
	t.Setenv("SPOTIFY_SECRET", "")

	tokenPath := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(tokenPath, []byte(`{}`), 0o600))

	out, err := execute(t, "", "spotify:\n  token_path: "+tokenPath+"\n", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed "+tokenPath)

	_, err = os.Stat(tokenPath)
	assert.True(t, os.IsNotExist(err))
}

func TestCatalogCommand_RequiresDatabase(t *testing.T) {
	_, err := execute(t, "", "", "catalog", "list")
	assert.Error(t, err)
}

func TestBuildService(t *testing.T) {
	cfg := &config.Config{
		Threshold:       0.9,
		AdvertisedMoods: []string{"happy"},
		Expression: config.ExpressionConfig{
			Vocabulary: mood.FaceAPIVocabulary,
			Labels: map[string]string{
				"happy": "happy", "sad": "sad", "angry": "angry", "surprised": "surprised",
				"neutral": "calm", "fearful": "sad", "disgusted": "angry",
			},
			Fallback: "calm",
		},
	}

	svc, err := buildService(cfg, playlist.Catalog{mood.Happy: {"h1"}}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0.9, svc.Threshold())

	resp, err := svc.FromExpressions(mood.ExpressionSignal{{Label: "happy", Probability: 0.8}})
	require.NoError(t, err)
	assert.Equal(t, mood.Calm, resp.Result.Mood)
	assert.False(t, resp.Available)
}
