package app

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"

	"review_insights/internal/domain"
)

// Formats seen from the feed, tried in order. Layouts without a zone parse as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

type Normalizer struct {
	now func() time.Time
}

// NewNormalizer uses now as the ingestion clock; nil means time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Normalize validates raw and returns its canonical form, or a *domain.RecordError.
func (n *Normalizer) Normalize(raw domain.RawReviewRecord) (domain.Review, error) {
	text := CleanText(raw.Text)
	if text == "" {
		return domain.Review{}, &domain.RecordError{Reason: domain.ReasonEmptyText}
	}
	if raw.Rating < 1 || raw.Rating > 5 {
		return domain.Review{}, &domain.RecordError{Reason: domain.ReasonRating, Detail: fmt.Sprintf("%d not in [1,5]", raw.Rating)}
	}
	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return domain.Review{}, &domain.RecordError{Reason: domain.ReasonTimestamp, Detail: fmt.Sprintf("%q", raw.Timestamp)}
	}
	if ts.After(n.now()) {
		return domain.Review{}, &domain.RecordError{Reason: domain.ReasonFutureTimestamp, Detail: ts.Format(time.RFC3339)}
	}

	productID := strings.TrimSpace(raw.ProductID)
	reviewerID := strings.TrimSpace(raw.ReviewerID)
	return domain.Review{
		ID:         reviewID(productID, reviewerID, ts, text),
		ProductID:  productID,
		ReviewerID: reviewerID,
		Text:       text,
		Rating:     raw.Rating,
		Timestamp:  ts,
		Lang:       detectLang(text, raw.Locale),
	}, nil
}

// reviewID is a stable hash so re-ingesting the same review keeps its identity.
func reviewID(product, reviewer string, ts time.Time, text string) string {
	sig := strings.Join([]string{product, reviewer, ts.Format(time.RFC3339Nano), text}, "|")
	sum := sha1.Sum([]byte(sig))
	return hex.EncodeToString(sum[:])
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// Scraped dates look like "Reviewed in the United States on March 5, 2024".
	if strings.HasPrefix(strings.ToLower(s), "reviewed ") {
		if i := strings.LastIndex(s, " on "); i >= 0 {
			s = strings.TrimSpace(s[i+len(" on "):])
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

/********** text cleaning **********/

// CleanText strips markup and control characters. Block-level tags become line
// breaks, runs of spaces collapse to one space and runs of line breaks to one.
func CleanText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapse(s)
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return collapse(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
			case atom.Br, atom.P, atom.Div, atom.Li, atom.Tr:
				b.WriteByte('\n')
			}
		}
	}
}

var quotes = strings.NewReplacer("’", "'", "‘", "'", "“", `"`, "”", `"`)

func collapse(s string) string {
	var (
		b       strings.Builder
		space   bool
		lineBrk bool
	)
	for _, r := range quotes.Replace(s) {
		switch {
		case r == '\n' || r == '\u2028' || r == '\u2029':
			lineBrk = true
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r) || unicode.Is(unicode.Cf, r):
			continue
		default:
			if b.Len() > 0 {
				if lineBrk {
					b.WriteByte('\n')
				} else if space {
					b.WriteByte(' ')
				}
			}
			space, lineBrk = false, false
			b.WriteRune(r)
		}
	}
	return b.String()
}

/********** language **********/

var stopwords = map[string][]string{
	"en": {"the", "and", "is", "it", "this", "was", "with", "for", "not", "very"},
	"fr": {"le", "la", "les", "et", "est", "très", "avec", "pour", "une", "pas"},
	"es": {"el", "los", "las", "y", "es", "muy", "con", "para", "una", "pero"},
	"de": {"der", "die", "das", "und", "ist", "sehr", "mit", "nicht", "ein", "aber"},
}

var stopwordLang = func() map[string][]string {
	out := map[string][]string{}
	for lang, words := range stopwords {
		for _, w := range words {
			out[w] = append(out[w], lang)
		}
	}
	return out
}()

// detectLang picks the language with the most stopword hits when it has at least two
// and strictly more than any other; otherwise the locale's base language, or "und".
func detectLang(text, locale string) string {
	hits := map[string]int{}
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		for _, lang := range stopwordLang[w] {
			hits[lang]++
		}
	}
	best, bestN, secondN := "", 0, 0
	for _, lang := range []string{"de", "en", "es", "fr"} {
		switch n := hits[lang]; {
		case n > bestN:
			best, bestN, secondN = lang, n, bestN
		case n > secondN:
			secondN = n
		}
	}
	if bestN >= 2 && bestN > secondN {
		return best
	}
	return localeLang(locale)
}

func localeLang(locale string) string {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return "und"
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "und"
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "und"
	}
	return base.String()
}
