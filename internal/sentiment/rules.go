package sentiment

import "strings"

type Effect int

const (
	// Flip multiplies the valence by Factor.
	Flip Effect = iota
	// Shift moves the valence Factor away from zero (toward zero when Factor < 0).
	Shift
	// Pivot scales valences before the term by Factor and after it by After.
	Pivot
)

// Rule is a modifier word class and the effect it has on nearby lexicon terms.
type Rule struct {
	Name     string
	Effect   Effect
	Terms    []string
	Suffixes []string
	// Reach is how many tokens before a lexicon term are inspected.
	// Zero means the whole sentence (Pivot rules).
	Reach  int
	Factor float64
	After  float64
	// Decay weakens the effect by this fraction per token of distance beyond the first.
	Decay float64
}

func (r Rule) matches(word string) bool {
	for _, t := range r.Terms {
		if word == t {
			return true
		}
	}
	for _, s := range r.Suffixes {
		if strings.HasSuffix(word, s) {
			return true
		}
	}
	return false
}

// apply returns valence v of words[i] after the rule's modifiers in words take effect.
func (r Rule) apply(words []string, i int, v float64) float64 {
	if r.Reach == 0 {
		for k, w := range words {
			if !r.matches(w) {
				continue
			}
			switch {
			case i < k:
				return v * r.Factor
			case i > k:
				return v * r.After
			}
			return v
		}
		return v
	}
	for d := 1; d <= r.Reach && i-d >= 0; d++ {
		if !r.matches(words[i-d]) {
			continue
		}
		scale := 1 - r.Decay*float64(d-1)
		switch r.Effect {
		case Flip:
			v *= r.Factor
		case Shift:
			v = shift(v, r.Factor*scale)
		}
	}
	return v
}

// shift never crosses zero.
func shift(v, by float64) float64 {
	switch {
	case v > 0:
		if v+by < 0 {
			return 0
		}
		return v + by
	case v < 0:
		if v-by > 0 {
			return 0
		}
		return v - by
	}
	return v
}

const (
	negationScalar = -0.74
	boostIncrement = 0.293
)

// DefaultRules is the modifier table used by NewDefaultModel.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "negation",
			Effect:   Flip,
			Terms:    []string{"not", "no", "never", "nothing", "none", "nobody", "neither", "nor", "without", "hardly", "cannot", "cant", "dont", "doesnt", "isnt", "wasnt", "wont"},
			Suffixes: []string{"n't"},
			Reach:    3,
			Factor:   negationScalar,
		},
		{
			Name:   "intensify",
			Effect: Shift,
			Terms:  []string{"very", "really", "extremely", "so", "super", "totally", "absolutely", "incredibly", "highly", "truly", "completely", "especially", "exceptionally", "most", "too", "quite"},
			Reach:  3,
			Factor: boostIncrement,
			Decay:  0.05,
		},
		{
			Name:   "dampen",
			Effect: Shift,
			Terms:  []string{"slightly", "somewhat", "barely", "kinda", "kind", "sort", "sorta", "marginally", "partly", "little", "occasionally", "less"},
			Reach:  3,
			Factor: -boostIncrement,
			Decay:  0.05,
		},
		{
			Name:   "contrast",
			Effect: Pivot,
			Terms:  []string{"but", "however"},
			Factor: 0.5,
			After:  1.5,
		},
	}
}
