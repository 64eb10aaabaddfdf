// Package aspect finds configured aspect terms in reviews and scores the text around them.
package aspect

import (
	"review_insights/internal/domain"
	"review_insights/internal/sentiment"
	"review_insights/internal/tokenize"
)

// conjunctions open a new clause.
var conjunctions = map[string]struct{}{
	"but": {}, "however": {}, "although": {}, "though": {},
	"whereas": {}, "while": {}, "yet": {},
}

type Extractor struct {
	model *sentiment.Model
	vocab *Vocabulary
}

func NewExtractor(model *sentiment.Model, vocab *Vocabulary) *Extractor {
	return &Extractor{model: model, vocab: vocab}
}

// Extract yields at most one mention per aspect per sentence, scored over the clause
// that contains it. A clause without any lexicon term falls back to the whole sentence.
func (e *Extractor) Extract(r domain.Review) []domain.AspectMention {
	var out []domain.AspectMention
	for si, s := range tokenize.Split(r.Text) {
		words := s.Words()
		seen := map[string]struct{}{}
		for i := 0; i < len(words); {
			aspect, n := e.vocab.match(words, i)
			if n == 0 {
				i++
				continue
			}
			if _, dup := seen[aspect]; !dup {
				seen[aspect] = struct{}{}
				window, res := e.score(s, i, i+n)
				out = append(out, domain.AspectMention{
					ReviewID: r.ID,
					Aspect:   aspect,
					Window:   window,
					Sentence: si,
					Score:    res.Score,
					Label:    res.Label,
				})
			}
			i += n
		}
	}
	return out
}

func (e *Extractor) score(s tokenize.Sentence, from, to int) (string, sentiment.Result) {
	start, end := clause(s, from, to)
	window := s.Span(start, end)
	if res := e.model.Score(window); res.Hits > 0 {
		return window, res
	}
	return s.Text, e.model.Score(s.Text)
}

// clause widens [from, to) to the surrounding clause boundaries.
func clause(s tokenize.Sentence, from, to int) (int, int) {
	start := from
	for start > 0 && !opensClause(s.Tokens[start]) {
		start--
	}
	end := to
	for end < len(s.Tokens) && !opensClause(s.Tokens[end]) {
		end++
	}
	return start, end
}

func opensClause(t tokenize.Token) bool {
	if t.Pause {
		return true
	}
	_, ok := conjunctions[t.Word]
	return ok
}
