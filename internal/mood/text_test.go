package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextClassifier_Classify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Mood
	}{
		{
			name: "keyword match",
			text: "I am so happy and excited today",
			want: Happy,
		},
		{
			name: "no keywords and no patterns",
			text: "asdkjf qwoeiru",
			want: Neutral,
		},
		{
			name: "keyword with repeated punctuation",
			text: "Amazing!! Amazing!! ",
			want: Happy,
		},
		{
			name: "substring match counts",
			text: "I feel sadly blue",
			want: Sad,
		},
		{
			name: "uppercase input",
			text: "FURIOUS about the HOSTILE takeover",
			want: Angry,
		},
		{
			name: "tie between happy and calm goes to calm",
			text: "happy calm",
			want: Calm,
		},
		{
			name: "tie between angry and sad goes to angry",
			text: "angry and sad",
			want: Angry,
		},
		{
			name: "token scoring for two moods ties and sad wins",
			text: "unhappy",
			want: Sad,
		},
		{
			name: "anxious keywords",
			text: "so worried and nervous about tomorrow",
			want: Anxious,
		},
		{
			name: "fallback negative pattern",
			text: "nothing works",
			want: Sad,
		},
		{
			name: "fallback positive patterns",
			text: "wow... really??",
			want: Happy,
		},
		{
			name: "fallback balanced",
			text: "yes no",
			want: Neutral,
		},
	}

	c := NewTextClassifier(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextClassifier_EmptyText(t *testing.T) {
	c := NewTextClassifier(nil)

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := c.Classify(text)
		assert.ErrorIs(t, err, ErrEmptyText, "text %q", text)
	}
}

func TestTextClassifier_Idempotent(t *testing.T) {
	c := NewTextClassifier(nil)
	text := "stressed but still calm"

	first, err := c.Classify(text)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		got, err := c.Classify(text)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestTextClassifier_Analyze(t *testing.T) {
	c := NewTextClassifier(nil)

	a, err := c.Analyze("so happy I could smile, no tears")
	require.NoError(t, err)

	assert.Equal(t, Happy, a.Mood)
	assert.False(t, a.Fallback)
	assert.Equal(t, []Score{
		{Mood: Happy, Count: 2},
		{Mood: Sad, Count: 1},
		{Mood: Angry, Count: 0},
		{Mood: Anxious, Count: 0},
		{Mood: Calm, Count: 0},
	}, a.Scores)

	a, err = c.Analyze("nobody knows")
	require.NoError(t, err)
	assert.True(t, a.Fallback)
	assert.Equal(t, 0, a.Positive)
	assert.Equal(t, 2, a.Negative)
	assert.Equal(t, Sad, a.Mood)
}

func TestNewLexicon_Validation(t *testing.T) {
	tests := []struct {
		name     string
		entries  []LexiconEntry
		priority []Mood
	}{
		{
			name: "no entries",
		},
		{
			name:     "non-canonical mood",
			entries:  []LexiconEntry{{Mood: "joyful", Keywords: []string{"joy"}}},
			priority: []Mood{"joyful"},
		},
		{
			name:     "empty keyword",
			entries:  []LexiconEntry{{Mood: Happy, Keywords: []string{" "}}},
			priority: []Mood{Happy},
		},
		{
			name: "duplicate mood",
			entries: []LexiconEntry{
				{Mood: Happy, Keywords: []string{"joy"}},
				{Mood: Happy, Keywords: []string{"glee"}},
			},
			priority: []Mood{Happy, Happy},
		},
		{
			name: "priority misses a mood",
			entries: []LexiconEntry{
				{Mood: Happy, Keywords: []string{"joy"}},
				{Mood: Sad, Keywords: []string{"gloom"}},
			},
			priority: []Mood{Happy, Calm},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexicon(tt.entries, tt.priority)
			assert.Error(t, err)
		})
	}
}

func TestNewLexicon_CustomPriority(t *testing.T) {
	lex, err := NewLexicon([]LexiconEntry{
		{Mood: Happy, Keywords: []string{"Joy"}},
		{Mood: Sad, Keywords: []string{"gloom"}},
	}, []Mood{Happy, Sad})
	require.NoError(t, err)

	c := NewTextClassifier(lex)
	got, err := c.Classify("joy and gloom")
	require.NoError(t, err)
	assert.Equal(t, Happy, got)

	assert.Equal(t, []string{"joy"}, lex.Entries()[0].Keywords)
}

func TestDefaultLexicon(t *testing.T) {
	lex := DefaultLexicon()

	var moods []Mood
	for _, e := range lex.Entries() {
		moods = append(moods, e.Mood)
		assert.Len(t, e.Keywords, 20, "mood %s", e.Mood)
	}
	assert.Equal(t, []Mood{Happy, Sad, Angry, Anxious, Calm}, moods)
	assert.Equal(t, DefaultPriority, lex.Priority())
}
