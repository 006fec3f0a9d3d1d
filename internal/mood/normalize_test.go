package mood

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressionLabels_Total(t *testing.T) {
	table := ExpressionLabels()

	want := map[string]Mood{
		"happy":     Happy,
		"sad":       Sad,
		"angry":     Angry,
		"surprised": Surprised,
		"neutral":   Calm,
		"fearful":   Sad,
		"disgusted": Angry,
	}
	for label, m := range want {
		got, ok := table.Lookup(label)
		require.True(t, ok, label)
		assert.Equal(t, m, got, label)
	}

	got, ok := table.Lookup("contempt")
	assert.True(t, ok)
	assert.Equal(t, Calm, got)

	for _, label := range []string{"Happy", " sad", "ANGRY"} {
		got, ok := table.Lookup(label)
		assert.True(t, ok, label)
		assert.Equal(t, Calm, got, label)
	}
	assert.Equal(t, Calm, table.Fallback())
}

func TestTextLabels_Identity(t *testing.T) {
	table := TextLabels()
	for _, label := range TextVocabulary {
		got, ok := table.Lookup(label)
		require.True(t, ok, label)
		assert.Equal(t, Mood(label), got)
	}

	_, ok := table.Lookup("surprised")
	assert.False(t, ok)
}

func TestNormalizer_Register(t *testing.T) {
	tests := []struct {
		name          string
		vocabulary    []string
		table         LabelTable
		wantUncovered []string
		wantInvalid   []string
	}{
		{
			name:       "total table",
			vocabulary: []string{"smile", "frown"},
			table:      NewLabelTable(map[string]Mood{"smile": Happy, "frown": Sad}),
		},
		{
			name:       "catch-all covers the rest",
			vocabulary: []string{"smile", "frown", "squint"},
			table:      NewLabelTable(map[string]Mood{"smile": Happy}, WithFallback(Neutral)),
		},
		{
			name:          "missing label",
			vocabulary:    []string{"smile", "frown", "squint"},
			table:         NewLabelTable(map[string]Mood{"smile": Happy}),
			wantUncovered: []string{"frown", "squint"},
		},
		{
			name:        "non-canonical target",
			vocabulary:  []string{"smile"},
			table:       NewLabelTable(map[string]Mood{"smile": "joyful"}),
			wantInvalid: []string{"smile→joyful"},
		},
		{
			name:        "non-canonical catch-all",
			vocabulary:  []string{"smile"},
			table:       NewLabelTable(map[string]Mood{"smile": Happy}, WithFallback("meh")),
			wantInvalid: []string{"*→meh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer()
			err := n.Register(SourceFacial, tt.vocabulary, tt.table)

			if tt.wantUncovered == nil && tt.wantInvalid == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrConfigurationGap)
			var gap *ConfigurationGapError
			require.True(t, errors.As(err, &gap))
			assert.Equal(t, SourceFacial, gap.Source)
			assert.Equal(t, tt.wantUncovered, gap.Uncovered)
			assert.Equal(t, tt.wantInvalid, gap.Invalid)

			_, registered := n.Table(SourceFacial)
			assert.False(t, registered)
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := DefaultNormalizer()

	got, err := n.Normalize(SourceFacial, "neutral")
	require.NoError(t, err)
	assert.Equal(t, Calm, got)

	got, err = n.Normalize(SourceText, "neutral")
	require.NoError(t, err)
	assert.Equal(t, Neutral, got)

	_, err = n.Normalize(SourceText, "surprised")
	assert.ErrorIs(t, err, ErrUnmappedLabel)

	_, err = n.Normalize(Source("voice"), "happy")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestNormalizer_Canonical(t *testing.T) {
	n := DefaultNormalizer()
	for _, m := range All() {
		got, err := n.Canonical(m)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := n.Canonical("ecstatic")
	assert.ErrorIs(t, err, ErrUnknownMood)
}

func TestNormalizer_Reachable(t *testing.T) {
	n := DefaultNormalizer()

	assert.Equal(t, []Mood{Happy, Sad, Angry, Surprised, Calm}, n.Reachable(SourceFacial))
	assert.Equal(t, []Mood{Happy, Sad, Angry, Calm, Anxious, Neutral}, n.Reachable(SourceText))
	assert.Nil(t, n.Reachable(Source("voice")))
}

func TestParseMood(t *testing.T) {
	got, err := ParseMood("  Happy ")
	require.NoError(t, err)
	assert.Equal(t, Happy, got)

	_, err = ParseMood("bored")
	assert.ErrorIs(t, err, ErrUnknownMood)

	_, err = ParseMood("")
	assert.ErrorIs(t, err, ErrUnknownMood)
}

func TestMood_Presentation(t *testing.T) {
	assert.Equal(t, "Surprised", Surprised.Title())
	assert.Equal(t, "😌", Calm.Emoji())
	assert.Equal(t, "😐", Neutral.Emoji())
	assert.Equal(t, "😐", Anxious.Emoji())
	assert.Equal(t, "facial expression", SourceFacial.Label())
	assert.Equal(t, "text analysis", SourceText.Label())
}

func TestNewDetectionResult(t *testing.T) {
	conf := 0.8
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	r := NewDetectionResult(Happy, SourceFacial, &conf, at)
	conf = 0.1

	require.NotNil(t, r.Confidence)
	assert.Equal(t, 0.8, *r.Confidence)
	assert.Equal(t, Happy, r.Mood)
	assert.Equal(t, SourceFacial, r.Source)
	assert.True(t, r.DetectedAt.Equal(at))

	other := NewDetectionResult(Happy, SourceText, nil, at)
	assert.Nil(t, other.Confidence)
	assert.NotEqual(t, r.ID, other.ID)
}
