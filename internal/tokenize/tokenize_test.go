package tokenize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_insights/internal/tokenize"
)

func TestSplit_Sentences(t *testing.T) {
	got := tokenize.Split("Great phone! The 6.1 inch screen is dim.\nWould buy again?")
	require.Len(t, got, 3)
	assert.Equal(t, "Great phone", got[0].Text)
	assert.Equal(t, []string{"the", "6", "1", "inch", "screen", "is", "dim"}, got[1].Words())
	assert.Equal(t, "Would buy again", got[2].Text)
}

func TestSplit_DropsEmptySentences(t *testing.T) {
	assert.Empty(t, tokenize.Split("...!!  ?"))
	assert.Len(t, tokenize.Split("ok... fine"), 2)
}

func TestSplit_ContractionsAndQuotes(t *testing.T) {
	got := tokenize.Split("It isn’t 'bad'")
	require.Len(t, got, 1)
	assert.Equal(t, []string{"it", "isn't", "bad"}, got[0].Words())
	assert.Equal(t, "bad", got[0].Span(2, 3))
}

func TestSplit_PauseMarksClauseBreaks(t *testing.T) {
	got := tokenize.Split("Battery, sadly, is weak; screen is fine")
	require.Len(t, got, 1)
	var pauses []string
	for _, tok := range got[0].Tokens {
		if tok.Pause {
			pauses = append(pauses, tok.Word)
		}
	}
	assert.Equal(t, []string{"sadly", "is", "screen"}, pauses)
	assert.Equal(t, "screen is fine", got[0].Span(4, 7))
}

func TestSentence_SpanOutOfRange(t *testing.T) {
	s := tokenize.Split("one two")[0]
	assert.Equal(t, "", s.Span(1, 1))
	assert.Equal(t, "", s.Span(0, 5))
	assert.Equal(t, "one two", s.Span(0, 2))
}
