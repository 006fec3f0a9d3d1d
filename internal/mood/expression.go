package mood

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// DefaultThreshold is the minimum top-expression probability needed before
// the expression label is trusted. Below it the mapper answers calm.
const DefaultThreshold = 0.6

// Expression is one label/probability pair from an expression classifier.
type Expression struct {
	Label       string  `json:"expression"`
	Probability float64 `json:"probability"`
}

// ExpressionSignal is a classifier's output in the classifier's own order.
// Probabilities need not sum to 1.
type ExpressionSignal []Expression

// Top returns the entry with the highest probability. Ties go to the entry
// that appears first. ok is false for an empty signal.
func (s ExpressionSignal) Top() (top Expression, ok bool) {
	for i, e := range s {
		if i == 0 || e.Probability > top.Probability {
			top = e
		}
	}
	return top, len(s) > 0
}

// Validate checks that the signal is non-empty and every probability is in [0, 1].
func (s ExpressionSignal) Validate() error {
	if len(s) == 0 {
		return ErrEmptySignal
	}
	for _, e := range s {
		if math.IsNaN(e.Probability) || e.Probability < 0 || e.Probability > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidProbability, e.Label, e.Probability)
		}
	}
	return nil
}

// UnmarshalJSON accepts either a list of {"expression","probability"} objects
// or a single {"label": probability, ...} object. Object keys keep the order
// they have in the document.
func (s *ExpressionSignal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}

	if data[0] == '[' {
		var list []Expression
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decoding expression list: %w", err)
		}
		*s = list
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding expression object: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decoding expression object: unexpected token %v", tok)
	}

	var out ExpressionSignal
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding expression label: %w", err)
		}
		label, _ := keyTok.(string)

		var p float64
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("decoding probability for %q: %w", label, err)
		}
		out = append(out, Expression{Label: label, Probability: p})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding expression object: %w", err)
	}

	*s = out
	return nil
}

// ExpressionMapper turns an expression signal into a canonical mood.
type ExpressionMapper struct {
	threshold  float64
	normalizer *Normalizer
}

// MapperOption configures an ExpressionMapper.
type MapperOption func(*ExpressionMapper)

// WithThreshold sets the confidence threshold.
func WithThreshold(t float64) MapperOption {
	return func(m *ExpressionMapper) {
		m.threshold = t
	}
}

// WithNormalizer sets the normalizer whose facial table maps expression labels.
func WithNormalizer(n *Normalizer) MapperOption {
	return func(m *ExpressionMapper) {
		if n != nil {
			m.normalizer = n
		}
	}
}

// NewExpressionMapper creates a mapper using DefaultThreshold and
// DefaultNormalizer unless overridden.
func NewExpressionMapper(opts ...MapperOption) (*ExpressionMapper, error) {
	m := &ExpressionMapper{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(m)
	}
	if err := checkThreshold(m.threshold); err != nil {
		return nil, err
	}
	if m.normalizer == nil {
		m.normalizer = DefaultNormalizer()
	}
	if _, ok := m.normalizer.Table(SourceFacial); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, SourceFacial)
	}
	return m, nil
}

// Threshold returns the configured confidence threshold.
func (m *ExpressionMapper) Threshold() float64 {
	return m.threshold
}

// Map returns the mood for signal using the configured threshold.
// signal must be non-empty with every probability in [0, 1]; the face
// detector should skip the call entirely when no face was found.
func (m *ExpressionMapper) Map(signal ExpressionSignal) (Mood, error) {
	mood, _, err := m.evaluate(signal, m.threshold)
	return mood, err
}

// MapWithThreshold is Map with an explicit threshold.
func (m *ExpressionMapper) MapWithThreshold(signal ExpressionSignal, threshold float64) (Mood, error) {
	if err := checkThreshold(threshold); err != nil {
		return "", err
	}
	mood, _, err := m.evaluate(signal, threshold)
	return mood, err
}

// Evaluate is Map that also returns the winning expression, whose probability
// serves as the detection confidence.
func (m *ExpressionMapper) Evaluate(signal ExpressionSignal) (Mood, Expression, error) {
	return m.evaluate(signal, m.threshold)
}

func (m *ExpressionMapper) evaluate(signal ExpressionSignal, threshold float64) (Mood, Expression, error) {
	if err := signal.Validate(); err != nil {
		return "", Expression{}, err
	}
	top, _ := signal.Top()
	if top.Probability < threshold {
		return Calm, top, nil
	}
	mood, err := m.normalizer.Normalize(SourceFacial, top.Label)
	if err != nil {
		return "", top, fmt.Errorf("mapping expression %q: %w", top.Label, err)
	}
	return mood, top, nil
}

func checkThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, t)
	}
	return nil
}
