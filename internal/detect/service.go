// Package detect runs a single mood detection end to end: classify the
// signal, normalise the label, and resolve content for the mood.
package detect

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/playlist"
)

// Response is what a detection hands to the presentation layer.
type Response struct {
	Result    mood.DetectionResult `json:"result"`
	Content   []playlist.Entry     `json:"content"`
	Available bool                 `json:"available"`          // false means "no content for this mood"
	Analysis  *mood.Analysis       `json:"analysis,omitempty"` // text detections only
}

// MoodInfo describes one canonical mood for listings.
type MoodInfo struct {
	Mood      mood.Mood `json:"mood"`
	Emoji     string    `json:"emoji"`
	Available bool      `json:"available"`
	Facial    bool      `json:"facial"` // reachable from the facial path
	Text      bool      `json:"text"`   // reachable from the text path
}

// Service wires the classifiers, normaliser and resolver together. It holds
// no per-request state; every call is independent.
type Service struct {
	text       *mood.TextClassifier
	faces      *mood.ExpressionMapper
	normalizer *mood.Normalizer
	resolver   *playlist.Resolver
	logger     zerolog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for detection events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock overrides the clock used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service. All collaborators are required.
func New(text *mood.TextClassifier, faces *mood.ExpressionMapper, normalizer *mood.Normalizer, resolver *playlist.Resolver, opts ...Option) (*Service, error) {
	if text == nil || faces == nil || normalizer == nil || resolver == nil {
		return nil, errors.New("detect: classifier, mapper, normalizer and resolver are required")
	}
	s := &Service{
		text:       text,
		faces:      faces,
		normalizer: normalizer,
		resolver:   resolver,
		logger:     zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FromText classifies free text. Empty text fails with mood.ErrEmptyText.
func (s *Service) FromText(text string) (Response, error) {
	a, err := s.text.Analyze(text)
	if err != nil {
		return Response{}, fmt.Errorf("classifying text: %w", err)
	}

	m, err := s.normalizer.Normalize(mood.SourceText, string(a.Mood))
	if err != nil {
		return Response{}, fmt.Errorf("normalizing text mood: %w", err)
	}
	a.Mood = m

	result := mood.NewDetectionResult(m, mood.SourceText, nil, s.now())
	resp := s.respond(result)
	resp.Analysis = &a
	return resp, nil
}

// FromExpressions maps a facial-expression signal. Callers must not call it
// when no face was found; an empty signal fails with mood.ErrEmptySignal.
func (s *Service) FromExpressions(signal mood.ExpressionSignal) (Response, error) {
	m, top, err := s.faces.Evaluate(signal)
	if err != nil {
		return Response{}, fmt.Errorf("mapping expressions: %w", err)
	}
	if m, err = s.normalizer.Canonical(m); err != nil {
		return Response{}, fmt.Errorf("normalizing facial mood: %w", err)
	}

	confidence := top.Probability
	result := mood.NewDetectionResult(m, mood.SourceFacial, &confidence, s.now())
	return s.respond(result), nil
}

// Playlist returns the content for m.
func (s *Service) Playlist(m mood.Mood) ([]playlist.Entry, error) {
	m, err := s.normalizer.Canonical(m)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(m), nil
}

// Moods lists the canonical vocabulary with availability and reachability.
func (s *Service) Moods() []MoodInfo {
	facial := make(map[mood.Mood]bool)
	for _, m := range s.normalizer.Reachable(mood.SourceFacial) {
		facial[m] = true
	}
	text := make(map[mood.Mood]bool)
	for _, m := range s.normalizer.Reachable(mood.SourceText) {
		text[m] = true
	}

	all := mood.All()
	out := make([]MoodInfo, len(all))
	for i, m := range all {
		out[i] = MoodInfo{
			Mood:      m,
			Emoji:     m.Emoji(),
			Available: s.resolver.Available(m),
			Facial:    facial[m],
			Text:      text[m],
		}
	}
	return out
}

// Threshold returns the facial confidence threshold in use.
func (s *Service) Threshold() float64 {
	return s.faces.Threshold()
}

func (s *Service) respond(result mood.DetectionResult) Response {
	content := s.resolver.Resolve(result.Mood)

	evt := s.logger.Debug().
		Str("detection_id", result.ID.String()).
		Str("source", string(result.Source)).
		Str("mood", string(result.Mood)).
		Int("content", len(content))
	if result.Confidence != nil {
		evt = evt.Float64("confidence", *result.Confidence)
	}
	evt.Msg("Mood detected")

	return Response{
		Result:    result,
		Content:   content,
		Available: len(content) > 0,
	}
}
