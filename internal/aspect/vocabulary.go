package aspect

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"review_insights/internal/domain"
)

type term struct {
	canonical string
	words     []string
}

// Vocabulary is an immutable set of aspect terms for one product category.
type Vocabulary struct {
	terms []term // longest first
}

// NewVocabulary normalizes terms to lowercase single-spaced form; hyphens and
// slashes separate words ("wi-fi" matches "wi fi"). Duplicates collapse.
func NewVocabulary(terms []string) (*Vocabulary, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: aspect vocabulary is empty", domain.ErrConfiguration)
	}
	seen := make(map[string]struct{}, len(terms))
	out := make([]term, 0, len(terms))
	for _, raw := range terms {
		words := split(raw)
		if len(words) == 0 {
			return nil, fmt.Errorf("%w: blank aspect term", domain.ErrConfiguration)
		}
		for _, w := range words {
			if !isWord(w) {
				return nil, fmt.Errorf("%w: aspect term %q contains non-word characters", domain.ErrConfiguration, raw)
			}
		}
		canonical := strings.Join(words, " ")
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, term{canonical: canonical, words: words})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].words) != len(out[j].words) {
			return len(out[i].words) > len(out[j].words)
		}
		return out[i].canonical < out[j].canonical
	})
	return &Vocabulary{terms: out}, nil
}

// Terms returns the canonical terms, longest first.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	for i, t := range v.terms {
		out[i] = t.canonical
	}
	return out
}

// match returns the term starting at words[i] and how many words it spans.
func (v *Vocabulary) match(words []string, i int) (string, int) {
	for _, t := range v.terms {
		n := len(t.words)
		if i+n > len(words) {
			continue
		}
		ok := true
		for k, w := range t.words {
			if !sameWord(words[i+k], w, k == n-1) {
				ok = false
				break
			}
		}
		if ok {
			return t.canonical, n
		}
	}
	return "", 0
}

// sameWord allows simple plural forms on the final word of a term.
func sameWord(tok, w string, last bool) bool {
	if tok == w {
		return true
	}
	if !last {
		return false
	}
	if tok == w+"s" || tok == w+"es" {
		return true
	}
	if strings.HasSuffix(w, "y") && len(w) > 1 && tok == w[:len(w)-1]+"ies" {
		return true
	}
	return false
}

func isWord(w string) bool {
	for _, r := range w {
		if r == '\'' {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Canonical returns the form NewVocabulary stores term under.
func Canonical(term string) string { return strings.Join(split(term), " ") }

func split(term string) []string {
	return strings.FieldsFunc(strings.ToLower(term), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '/'
	})
}
