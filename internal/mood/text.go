package mood

import (
	"strings"
)

// Score is the keyword score of one lexicon mood.
type Score struct {
	Mood  Mood `json:"mood"`
	Count int  `json:"count"`
}

// Analysis explains how a text classification was reached.
type Analysis struct {
	Mood     Mood    `json:"mood"`
	Scores   []Score `json:"scores"`             // lexicon order
	Fallback bool    `json:"fallback"`           // true when no keyword matched
	Positive int     `json:"positive,omitempty"` // fallback pattern counts
	Negative int     `json:"negative,omitempty"`
}

// TextClassifier assigns a mood to free text using keyword scoring with a
// punctuation and negation fallback.
type TextClassifier struct {
	lexicon *Lexicon
}

// NewTextClassifier creates a classifier over lex. A nil lex uses DefaultLexicon.
func NewTextClassifier(lex *Lexicon) *TextClassifier {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &TextClassifier{lexicon: lex}
}

// Classify returns the mood for text. Empty or whitespace-only text is
// rejected with ErrEmptyText.
func (c *TextClassifier) Classify(text string) (Mood, error) {
	a, err := c.Analyze(text)
	if err != nil {
		return "", err
	}
	return a.Mood, nil
}

// Analyze is Classify with the score breakdown.
func (c *TextClassifier) Analyze(text string) (Analysis, error) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return Analysis{}, ErrEmptyText
	}

	scores := c.score(tokens)
	a := Analysis{Scores: scores}

	best, bestScore := c.pick(scores)
	if bestScore > 0 {
		a.Mood = best
		return a, nil
	}

	a.Fallback = true
	a.Positive = len(positivePattern.FindAllStringIndex(text, -1))
	a.Negative = len(negativePattern.FindAllStringIndex(text, -1))
	switch {
	case a.Positive > a.Negative:
		a.Mood = Happy
	case a.Negative > a.Positive:
		a.Mood = Sad
	default:
		a.Mood = Neutral
	}
	return a, nil
}

// score counts, per mood, how many tokens contain each keyword. A token
// counts once per keyword it contains, so it can add to several moods.
func (c *TextClassifier) score(tokens []string) []Score {
	scores := make([]Score, len(c.lexicon.entries))
	for i, e := range c.lexicon.entries {
		n := 0
		for _, kw := range e.Keywords {
			for _, tok := range tokens {
				if strings.Contains(tok, kw) {
					n++
				}
			}
		}
		scores[i] = Score{Mood: e.Mood, Count: n}
	}
	return scores
}

// pick returns the highest-scoring mood, breaking ties by lexicon priority.
func (c *TextClassifier) pick(scores []Score) (Mood, int) {
	byMood := make(map[Mood]int, len(scores))
	for _, s := range scores {
		byMood[s.Mood] = s.Count
	}

	var best Mood
	bestScore := -1
	for _, m := range c.lexicon.priority {
		if byMood[m] > bestScore {
			best, bestScore = m, byMood[m]
		}
	}
	return best, bestScore
}
