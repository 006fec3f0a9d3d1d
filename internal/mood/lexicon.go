package mood

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// LexiconEntry lists the keywords that count towards one mood.
type LexiconEntry struct {
	Mood     Mood
	Keywords []string
}

// Sentiment fallback patterns. Neither pattern uses word boundaries, so "no"
// also matches inside "know" or "nothing".
var (
	positivePattern = regexp.MustCompile(`(?i)!{2,}|\?{2,}|\.{3,}|(amazing|wow|yes|yeah|yay)`)
	negativePattern = regexp.MustCompile(`(?i)(no|not|never|nothing|nobody|nowhere|none)`)
)

// Lexicon is the keyword data used by TextClassifier. It is immutable.
type Lexicon struct {
	entries  []LexiconEntry
	priority []Mood
}

// NewLexicon validates entries and a tie-break priority (highest first).
// priority must name each entry's mood exactly once.
func NewLexicon(entries []LexiconEntry, priority []Mood) (*Lexicon, error) {
	if len(entries) == 0 {
		return nil, errors.New("lexicon has no entries")
	}

	lex := &Lexicon{
		entries:  make([]LexiconEntry, 0, len(entries)),
		priority: slices.Clone(priority),
	}
	seen := make(map[Mood]bool, len(entries))
	for _, e := range entries {
		if !e.Mood.Valid() {
			return nil, fmt.Errorf("lexicon entry: %w: %q", ErrUnknownMood, e.Mood)
		}
		if seen[e.Mood] {
			return nil, fmt.Errorf("lexicon entry: duplicate mood %q", e.Mood)
		}
		seen[e.Mood] = true

		keywords := make([]string, 0, len(e.Keywords))
		for _, kw := range e.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("lexicon entry %q: empty keyword", e.Mood)
			}
			keywords = append(keywords, kw)
		}
		lex.entries = append(lex.entries, LexiconEntry{Mood: e.Mood, Keywords: keywords})
	}

	if len(priority) != len(entries) {
		return nil, fmt.Errorf("tie-break priority has %d moods, lexicon has %d", len(priority), len(entries))
	}
	ranked := make(map[Mood]bool, len(priority))
	for _, m := range priority {
		if !seen[m] || ranked[m] {
			return nil, fmt.Errorf("tie-break priority: %q is not a distinct lexicon mood", m)
		}
		ranked[m] = true
	}

	return lex, nil
}

// Entries returns a copy of the lexicon entries in declaration order.
func (l *Lexicon) Entries() []LexiconEntry {
	out := make([]LexiconEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = LexiconEntry{Mood: e.Mood, Keywords: slices.Clone(e.Keywords)}
	}
	return out
}

// Priority returns the tie-break order, highest priority first.
func (l *Lexicon) Priority() []Mood {
	return slices.Clone(l.priority)
}

// DefaultPriority is the tie-break order of the default lexicon. When two
// moods score the same, the one listed first wins.
var DefaultPriority = []Mood{Calm, Anxious, Angry, Sad, Happy}

// DefaultLexicon returns the built-in keyword lexicon.
func DefaultLexicon() *Lexicon {
	lex, err := NewLexicon(defaultEntries(), DefaultPriority)
	if err != nil {
		panic(err)
	}
	return lex
}

func defaultEntries() []LexiconEntry {
	return []LexiconEntry{
		{Mood: Happy, Keywords: []string{
			"happy", "joy", "excited", "great", "amazing", "wonderful", "fantastic",
			"love", "loved", "awesome", "brilliant", "excellent", "perfect", "smile",
			"laugh", "cheerful", "delighted", "thrilled", "ecstatic", "blissful",
		}},
		{Mood: Sad, Keywords: []string{
			"sad", "depressed", "down", "upset", "crying", "tears", "hurt", "pain",
			"grief", "sorrow", "melancholy", "gloomy", "blue", "miserable", "unhappy",
			"disappointed", "heartbroken", "devastated", "hopeless", "lonely",
		}},
		{Mood: Angry, Keywords: []string{
			"angry", "mad", "furious", "rage", "irritated", "annoyed", "frustrated",
			"hate", "hated", "disgusted", "outraged", "livid", "enraged", "fuming",
			"aggressive", "hostile", "bitter", "resentful", "indignant", "wrathful",
		}},
		{Mood: Anxious, Keywords: []string{
			"anxious", "worried", "nervous", "stressed", "tense", "uneasy", "restless",
			"fearful", "scared", "afraid", "panic", "overwhelmed", "pressured",
			"strained", "jittery", "apprehensive", "concerned", "troubled",
			"distressed", "agitated",
		}},
		{Mood: Calm, Keywords: []string{
			// "at ease" can never match a single whitespace-split token.
			"calm", "peaceful", "relaxed", "serene", "tranquil", "content", "satisfied",
			"comfortable", "at ease", "composed", "collected", "balanced", "centered",
			"grounded", "stable", "steady", "quiet", "still", "gentle", "mellow",
		}},
	}
}
