package mood

import (
	"errors"
	"fmt"
	"strings"
)

// Precondition violations. Callers must not invoke the classifiers in these
// states; the guards exist so a bad call fails instead of guessing.
var (
	// ErrEmptyText is returned when the text to classify is empty or only whitespace.
	ErrEmptyText = errors.New("text is empty")

	// ErrEmptySignal is returned when an expression signal has no entries.
	ErrEmptySignal = errors.New("expression signal is empty")

	// ErrInvalidProbability is returned when a signal carries a probability outside [0, 1].
	ErrInvalidProbability = errors.New("probability must be within [0, 1]")
)

// Configuration and lookup errors.
var (
	// ErrUnknownMood is returned when a string is not part of the canonical vocabulary.
	ErrUnknownMood = errors.New("unknown mood")

	// ErrUnknownSource is returned when no label table is registered for a source.
	ErrUnknownSource = errors.New("no label table registered for source")

	// ErrUnmappedLabel is returned when a label has no mapping and the table has no catch-all.
	ErrUnmappedLabel = errors.New("label has no mapping")

	// ErrConfigurationGap is the sentinel wrapped by ConfigurationGapError.
	ErrConfigurationGap = errors.New("label table does not cover vocabulary")

	// ErrInvalidThreshold is returned for confidence thresholds outside [0, 1].
	ErrInvalidThreshold = errors.New("threshold must be within [0, 1]")
)

// ConfigurationGapError reports a label table that cannot map every label a
// classifier may emit, or that maps into something outside the canonical
// vocabulary. It is raised while building tables, never during detection.
type ConfigurationGapError struct {
	Source    Source
	Uncovered []string // vocabulary labels with neither a mapping nor a catch-all
	Invalid   []string // mapped targets that are not canonical moods
}

func (e *ConfigurationGapError) Error() string {
	var parts []string
	if len(e.Uncovered) > 0 {
		parts = append(parts, "uncovered labels: "+strings.Join(e.Uncovered, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "non-canonical targets: "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("%s label table for %q: %s", ErrConfigurationGap, e.Source, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrConfigurationGap.
func (e *ConfigurationGapError) Unwrap() error {
	return ErrConfigurationGap
}
