// Package tokenize splits review text into sentences of lowercase word tokens.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a lowercase word with its byte span in the sentence text.
type Token struct {
	Word  string
	Start int
	End   int
	// Pause is set when a clause punctuation mark (, ; :) precedes the token.
	Pause bool
}

type Sentence struct {
	Text   string
	Tokens []Token
}

// Span returns the original text covered by tokens [from, to).
func (s Sentence) Span(from, to int) string {
	if from >= to || from < 0 || to > len(s.Tokens) {
		return ""
	}
	return s.Text[s.Tokens[from].Start:s.Tokens[to-1].End]
}

// Words returns the lowercase words of the sentence.
func (s Sentence) Words() []string {
	out := make([]string, len(s.Tokens))
	for i, t := range s.Tokens {
		out[i] = t.Word
	}
	return out
}

// Split breaks text on . ! ? and line breaks. A period between two digits
// ("3.5 inch") does not end a sentence. Sentences without words are dropped.
func Split(text string) []Sentence {
	var out []Sentence
	start := 0
	for i, r := range text {
		if !isTerminal(text, i, r) {
			continue
		}
		if s, ok := newSentence(text[start:i]); ok {
			out = append(out, s)
		}
		start = i + utf8.RuneLen(r)
	}
	if s, ok := newSentence(text[start:]); ok {
		out = append(out, s)
	}
	return out
}

func isTerminal(text string, i int, r rune) bool {
	switch r {
	case '!', '?', '\n':
		return true
	case '.':
		if i > 0 && i+1 < len(text) && isDigit(text[i-1]) && isDigit(text[i+1]) {
			return false
		}
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func newSentence(raw string) (Sentence, bool) {
	text := strings.TrimSpace(raw)
	toks := tokens(text)
	if len(toks) == 0 {
		return Sentence{}, false
	}
	return Sentence{Text: text, Tokens: toks}, true
}

func tokens(text string) []Token {
	var (
		out   []Token
		start = -1
		pause bool
	)
	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := text[start:end]
		trimmed := strings.Trim(raw, "'’")
		if trimmed != "" {
			lead := strings.Index(raw, trimmed)
			word := strings.ToLower(strings.ReplaceAll(trimmed, "’", "'"))
			out = append(out, Token{Word: word, Start: start + lead, End: start + lead + len(trimmed), Pause: pause})
			pause = false
		}
		start = -1
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
		switch r {
		case ',', ';', ':':
			pause = len(out) > 0
		}
	}
	flush(len(text))
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}
