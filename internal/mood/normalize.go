package mood

import (
	"fmt"
	"maps"
	"slices"
)

// LabelTable maps a classifier's own labels onto canonical moods. A table may
// carry a catch-all mood for labels it does not list explicitly.
type LabelTable struct {
	entries  map[string]Mood
	fallback Mood
}

// TableOption configures a LabelTable.
type TableOption func(*LabelTable)

// WithFallback sets the catch-all mood for labels missing from the table.
func WithFallback(m Mood) TableOption {
	return func(t *LabelTable) {
		t.fallback = m
	}
}

// NewLabelTable builds a table from entries. Keys are matched exactly.
func NewLabelTable(entries map[string]Mood, opts ...TableOption) LabelTable {
	t := LabelTable{entries: make(map[string]Mood, len(entries))}
	for label, m := range entries {
		t.entries[label] = m
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Lookup maps label to a mood. The second result is false only when the label
// is unlisted and the table has no catch-all.
func (t LabelTable) Lookup(label string) (Mood, bool) {
	if m, ok := t.entries[label]; ok {
		return m, true
	}
	if t.fallback != "" {
		return t.fallback, true
	}
	return "", false
}

// Fallback returns the catch-all mood, or "" when the table has none.
func (t LabelTable) Fallback() Mood {
	return t.fallback
}

// Labels returns the explicitly mapped labels in sorted order.
func (t LabelTable) Labels() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

// Targets returns every mood the table can produce for the given vocabulary,
// in canonical display order.
func (t LabelTable) Targets(vocabulary []string) []Mood {
	seen := make(map[Mood]bool)
	for _, label := range vocabulary {
		if m, ok := t.Lookup(label); ok {
			seen[m] = true
		}
	}
	var out []Mood
	for _, m := range All() {
		if seen[m] {
			out = append(out, m)
		}
	}
	return out
}

// check verifies that every vocabulary label maps to a canonical mood.
func (t LabelTable) check(src Source, vocabulary []string) error {
	gap := &ConfigurationGapError{Source: src}
	for _, label := range vocabulary {
		if _, ok := t.Lookup(label); !ok {
			gap.Uncovered = append(gap.Uncovered, label)
		}
	}
	for _, label := range t.Labels() {
		if m := t.entries[label]; !m.Valid() {
			gap.Invalid = append(gap.Invalid, fmt.Sprintf("%s→%s", label, m))
		}
	}
	if t.fallback != "" && !t.fallback.Valid() {
		gap.Invalid = append(gap.Invalid, fmt.Sprintf("*→%s", t.fallback))
	}
	if len(gap.Uncovered) > 0 || len(gap.Invalid) > 0 {
		return gap
	}
	return nil
}

// Normalizer routes a classifier's raw label through the table registered for
// its source. Register every source before sharing the Normalizer; after that
// it is read-only.
type Normalizer struct {
	tables map[Source]registration
}

type registration struct {
	vocabulary []string
	table      LabelTable
}

// NewNormalizer returns a Normalizer with no sources registered.
func NewNormalizer() *Normalizer {
	return &Normalizer{tables: make(map[Source]registration)}
}

// Register installs table for src. vocabulary lists every label the source's
// classifier can emit; a table that leaves any of them unmapped, or maps into
// a non-canonical mood, is rejected with a *ConfigurationGapError.
func (n *Normalizer) Register(src Source, vocabulary []string, table LabelTable) error {
	if err := table.check(src, vocabulary); err != nil {
		return err
	}
	n.tables[src] = registration{
		vocabulary: slices.Clone(vocabulary),
		table:      table,
	}
	return nil
}

// Normalize maps a raw label emitted by src's classifier to a canonical mood.
func (n *Normalizer) Normalize(src Source, label string) (Mood, error) {
	reg, ok := n.tables[src]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, src)
	}
	m, ok := reg.table.Lookup(label)
	if !ok {
		return "", fmt.Errorf("%w: %s label %q", ErrUnmappedLabel, src, label)
	}
	return m, nil
}

// Canonical is the identity over canonical moods. It rejects anything else.
func (n *Normalizer) Canonical(m Mood) (Mood, error) {
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMood, m)
	}
	return m, nil
}

// Table returns the label table registered for src.
func (n *Normalizer) Table(src Source) (LabelTable, bool) {
	reg, ok := n.tables[src]
	return reg.table, ok
}

// Reachable returns the moods src can produce, in canonical display order.
func (n *Normalizer) Reachable(src Source) []Mood {
	reg, ok := n.tables[src]
	if !ok {
		return nil
	}
	return reg.table.Targets(reg.vocabulary)
}

// FaceAPIVocabulary lists the expression labels emitted by face-api.js style
// expression nets.
var FaceAPIVocabulary = []string{"neutral", "happy", "sad", "angry", "fearful", "disgusted", "surprised"}

// ExpressionLabels returns the default facial label table. Unlisted labels
// fall back to calm.
func ExpressionLabels() LabelTable {
	return NewLabelTable(map[string]Mood{
		"happy":     Happy,
		"sad":       Sad,
		"angry":     Angry,
		"surprised": Surprised,
		"neutral":   Calm,
		"fearful":   Sad,
		"disgusted": Angry,
	}, WithFallback(Calm))
}

// TextVocabulary lists every label the text classifier can emit.
var TextVocabulary = []string{"happy", "sad", "angry", "anxious", "calm", "neutral"}

// TextLabels returns the identity table for the text classifier. It has no
// catch-all: the classifier only ever emits canonical names.
func TextLabels() LabelTable {
	entries := make(map[string]Mood, len(TextVocabulary))
	for _, label := range TextVocabulary {
		entries[label] = Mood(label)
	}
	return NewLabelTable(entries)
}

// DefaultNormalizer registers the default facial and text tables.
func DefaultNormalizer() *Normalizer {
	n := NewNormalizer()
	// Both defaults are total by construction.
	if err := n.Register(SourceFacial, FaceAPIVocabulary, ExpressionLabels()); err != nil {
		panic(err)
	}
	if err := n.Register(SourceText, TextVocabulary, TextLabels()); err != nil {
		panic(err)
	}
	return n
}
