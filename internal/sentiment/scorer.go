// Package sentiment scores text polarity with a lexicon and a table of modifier rules.
package sentiment

import (
	"fmt"
	"math"

	"review_insights/internal/domain"
	"review_insights/internal/tokenize"
)

// saturation is the alpha in s/sqrt(s²+alpha); it bounds a sentence sum to (-1, 1).
const saturation = 15.0

type Thresholds struct {
	Positive float64 `yaml:"positive"`
	Negative float64 `yaml:"negative"`
}

var DefaultThresholds = Thresholds{Positive: 0.05, Negative: -0.05}

func (t Thresholds) Validate() error {
	if t.Positive < 0 || t.Positive > 1 || t.Negative > 0 || t.Negative < -1 {
		return fmt.Errorf("%w: sentiment thresholds must satisfy -1 <= negative <= 0 <= positive <= 1, got %v/%v",
			domain.ErrConfiguration, t.Negative, t.Positive)
	}
	if t.Negative == t.Positive {
		return fmt.Errorf("%w: sentiment thresholds must differ", domain.ErrConfiguration)
	}
	return nil
}

// Label maps a score to its category: >= Positive, <= Negative, else neutral.
func (t Thresholds) Label(score float64) domain.Label {
	switch {
	case score >= t.Positive:
		return domain.Positive
	case score <= t.Negative:
		return domain.Negative
	}
	return domain.Neutral
}

type Result struct {
	Score float64
	Label domain.Label
	// Hits counts lexicon terms that contributed to the score.
	Hits int
}

// Model is immutable after construction and safe for concurrent use.
type Model struct {
	lexicon    Lexicon
	rules      []Rule
	thresholds Thresholds
}

func NewModel(lex Lexicon, rules []Rule, th Thresholds) (*Model, error) {
	if err := lex.validate(); err != nil {
		return nil, err
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	for _, r := range rules {
		if len(r.Terms) == 0 && len(r.Suffixes) == 0 {
			return nil, fmt.Errorf("%w: rule %q has no terms", domain.ErrConfiguration, r.Name)
		}
		if r.Reach < 0 || (r.Reach == 0 && r.Effect != Pivot) {
			return nil, fmt.Errorf("%w: rule %q has invalid reach %d", domain.ErrConfiguration, r.Name, r.Reach)
		}
	}
	return &Model{
		lexicon:    lex.With(nil),
		rules:      append([]Rule(nil), rules...),
		thresholds: th,
	}, nil
}

// NewDefaultModel uses the built-in lexicon, rules and thresholds.
func NewDefaultModel() *Model {
	m, err := NewModel(DefaultLexicon(), DefaultRules(), DefaultThresholds)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Model) Thresholds() Thresholds { return m.thresholds }

func (m *Model) Label(score float64) domain.Label { return m.thresholds.Label(score) }

// Has reports whether word carries valence.
func (m *Model) Has(word string) bool {
	_, ok := m.lexicon[word]
	return ok
}

// Score returns the polarity of text in [-1, 1]. Each sentence's modified valences are
// summed and saturated, then sentences are averaged weighted by their token count.
func (m *Model) Score(text string) Result {
	var (
		weighted float64
		tokens   int
		hits     int
	)
	for _, s := range tokenize.Split(text) {
		words := s.Words()
		sum, n := m.sentence(words)
		weighted += normalize(sum) * float64(len(words))
		tokens += len(words)
		hits += n
	}
	if tokens == 0 {
		return Result{Score: 0, Label: m.thresholds.Label(0)}
	}
	score := weighted / float64(tokens)
	return Result{Score: score, Label: m.thresholds.Label(score), Hits: hits}
}

func (m *Model) sentence(words []string) (float64, int) {
	var (
		sum  float64
		hits int
	)
	for i, w := range words {
		v, ok := m.lexicon[w]
		if !ok {
			continue
		}
		for _, r := range m.rules {
			v = r.apply(words, i, v)
		}
		sum += v
		hits++
	}
	return sum, hits
}

func normalize(sum float64) float64 {
	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+saturation)
}
