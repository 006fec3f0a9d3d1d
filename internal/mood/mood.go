// Package mood infers a canonical mood from facial-expression signals or free
// text. Everything in this package is pure: the lexicon and label tables are
// read-only after construction and safe to share between goroutines.
package mood

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mood is a label from the closed canonical vocabulary.
type Mood string

// Canonical moods.
const (
	Happy     Mood = "happy"
	Sad       Mood = "sad"
	Angry     Mood = "angry"
	Surprised Mood = "surprised"
	Calm      Mood = "calm"
	Anxious   Mood = "anxious"
	Neutral   Mood = "neutral"
)

// vocabulary lists every canonical mood in display order.
var vocabulary = []Mood{Happy, Sad, Angry, Surprised, Calm, Anxious, Neutral}

// All returns the canonical vocabulary in display order.
func All() []Mood {
	out := make([]Mood, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Valid reports whether m belongs to the canonical vocabulary.
func (m Mood) Valid() bool {
	for _, v := range vocabulary {
		if m == v {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (m Mood) String() string {
	return string(m)
}

// Title returns the mood with its first letter capitalised ("Happy").
func (m Mood) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// Emoji returns the presentation hint used next to a detected mood.
func (m Mood) Emoji() string {
	switch m {
	case Happy:
		return "😊"
	case Sad:
		return "😢"
	case Angry:
		return "😠"
	case Surprised:
		return "😲"
	case Calm:
		return "😌"
	default:
		return "😐"
	}
}

// ParseMood converts s (case-insensitive, surrounding space ignored) into a
// canonical Mood. Returns ErrUnknownMood for anything outside the vocabulary.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMood, s)
	}
	return m, nil
}

// Source identifies which detector produced a result.
type Source string

const (
	// SourceFacial is the facial-expression path.
	SourceFacial Source = "facial"
	// SourceText is the free-text path.
	SourceText Source = "text"
)

// Label returns the human-readable name of the source.
func (s Source) Label() string {
	switch s {
	case SourceFacial:
		return "facial expression"
	case SourceText:
		return "text analysis"
	default:
		return "unknown"
	}
}

// DetectionResult is the outcome of a single detection. It is handed around
// by value and never modified after NewDetectionResult returns it.
type DetectionResult struct {
	ID         uuid.UUID `json:"id"`
	Mood       Mood      `json:"mood"`
	Source     Source    `json:"source"`
	Confidence *float64  `json:"confidence,omitempty"` // nil when the source has no notion of confidence
	DetectedAt time.Time `json:"detected_at"`
}

// NewDetectionResult stamps a new result with a random ID.
// confidence may be nil.
func NewDetectionResult(m Mood, src Source, confidence *float64, at time.Time) DetectionResult {
	var c *float64
	if confidence != nil {
		v := *confidence
		c = &v
	}
	return DetectionResult{
		ID:         uuid.New(),
		Mood:       m,
		Source:     src,
		Confidence: c,
		DetectedAt: at,
	}
}
