package sentiment

import (
	"fmt"
	"strings"

	"review_insights/internal/domain"
)

// MaxValence bounds a single lexicon weight.
const MaxValence = 4.0

// Lexicon maps a lowercase word to its valence in [-MaxValence, MaxValence].
type Lexicon map[string]float64

// DefaultLexicon returns a fresh copy of the built-in review lexicon.
func DefaultLexicon() Lexicon {
	out := make(Lexicon, len(builtin))
	for k, v := range builtin {
		out[k] = v
	}
	return out
}

// With returns a copy of l with overrides applied. A zero weight removes the term.
func (l Lexicon) With(overrides map[string]float64) Lexicon {
	out := make(Lexicon, len(l)+len(overrides))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range overrides {
		k = strings.ToLower(strings.TrimSpace(k))
		if v == 0 {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func (l Lexicon) validate() error {
	if len(l) == 0 {
		return fmt.Errorf("%w: lexicon is empty", domain.ErrConfiguration)
	}
	for term, v := range l {
		if term == "" || strings.ContainsAny(term, " \t\n") || term != strings.ToLower(term) {
			return fmt.Errorf("%w: lexicon term %q must be a single lowercase word", domain.ErrConfiguration, term)
		}
		if v < -MaxValence || v > MaxValence {
			return fmt.Errorf("%w: lexicon weight for %q out of range: %v", domain.ErrConfiguration, term, v)
		}
	}
	return nil
}

var builtin = Lexicon{
	// positive
	"amazing":     2.8,
	"awesome":     3.1,
	"beautiful":   2.9,
	"best":        3.2,
	"better":      1.9,
	"bright":      1.9,
	"brilliant":   2.8,
	"clear":       1.6,
	"comfortable": 1.5,
	"crisp":       1.3,
	"decent":      1.2,
	"durable":     1.6,
	"easy":        1.9,
	"effective":   2.1,
	"excellent":   2.7,
	"fantastic":   2.6,
	"fast":        1.2,
	"fine":        0.8,
	"flawless":    2.3,
	"fun":         2.3,
	"good":        1.9,
	"great":       3.1,
	"happy":       2.7,
	"helpful":     1.9,
	"impressed":   2.1,
	"impressive":  2.3,
	"incredible":  2.6,
	"love":        3.2,
	"loved":       2.9,
	"loves":       2.7,
	"lovely":      2.8,
	"nice":        1.8,
	"ok":          0.9,
	"okay":        0.9,
	"outstanding": 3.0,
	"perfect":     2.7,
	"perfectly":   2.6,
	"pleased":     1.9,
	"quality":     1.1,
	"recommend":   1.5,
	"reliable":    1.9,
	"responsive":  1.5,
	"satisfied":   1.8,
	"smooth":      1.4,
	"solid":       1.4,
	"sturdy":      1.3,
	"superb":      3.1,
	"wonderful":   2.7,
	"worth":       0.9,
	"wow":         2.8,
	// negative
	"annoying":      -1.9,
	"awful":         -2.0,
	"bad":           -2.5,
	"broke":         -1.7,
	"broken":        -2.0,
	"buggy":         -1.6,
	"cheaply":       -1.2,
	"complaint":     -1.5,
	"crap":          -2.0,
	"dead":          -3.3,
	"defective":     -1.9,
	"died":          -2.6,
	"dim":           -1.1,
	"disappointed":  -1.9,
	"disappointing": -2.2,
	"dull":          -1.7,
	"fail":          -2.5,
	"failed":        -2.3,
	"fails":         -2.2,
	"flimsy":        -1.4,
	"garbage":       -2.2,
	"hate":          -2.7,
	"hated":         -3.2,
	"horrible":      -2.5,
	"issue":         -0.9,
	"issues":        -0.9,
	"junk":          -1.7,
	"laggy":         -1.3,
	"mediocre":      -1.0,
	"noisy":         -1.0,
	"overpriced":    -1.5,
	"poor":          -2.1,
	"poorly":        -1.9,
	"problem":       -1.7,
	"problems":      -1.7,
	"refund":        -0.9,
	"sad":           -2.1,
	"slow":          -1.0,
	"terrible":      -2.1,
	"ugly":          -2.3,
	"unhappy":       -1.8,
	"unreliable":    -1.9,
	"useless":       -1.8,
	"waste":         -1.8,
	"weak":          -1.9,
	"worse":         -2.1,
	"worst":         -3.1,
	"wrong":         -2.1,
}
