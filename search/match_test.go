package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"git", "status", "v2"}, tokenize("Git-Status (v2)"))
	assert.Empty(t, tokenize("  ..  "))
	assert.Equal(t, []string{"a", "b", "c"}, uniqueTerms(3, "A b a", "c d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, uniqueTerms(0, "A b a", "c d"))
}

func TestMaxEdits(t *testing.T) {
	assert.Equal(t, 0, maxEdits("ab"))
	assert.Equal(t, 1, maxEdits("abc"))
	assert.Equal(t, 1, maxEdits("abcde"))
	assert.Equal(t, 2, maxEdits("abcdef"))
}

func TestTermMatch(t *testing.T) {
	tcases := []struct {
		term     string
		tokens   []string
		exp      float64
		boundary bool
	}{
		{"git", []string{"status", "git"}, 1.0, true},
		{"form", []string{"formatter"}, 0.9, true},
		{"mat", []string{"formatter"}, 0.7, false},
		{"serch", []string{"search"}, 1 - 1.0/6, false},
		{"formater", []string{"formatter"}, 1 - 1.0/9, false},
		{"ab", []string{"ac"}, 0, false},
		{"x", []string{"xy"}, 0, false},
		{"abc", nil, 0, false},
	}
	for _, tc := range tcases {
		t.Run(tc.term, func(t *testing.T) {
			q, b := termMatch(tc.term, tc.tokens)
			assert.InDelta(t, tc.exp, q, 1e-9)
			assert.Equal(t, tc.boundary, b)
		})
	}
}

func TestFieldScore(t *testing.T) {
	assert.Equal(t, 0.0, fieldScore(nil, []string{"git"}))
	assert.Equal(t, 0.0, fieldScore([]string{"git"}, nil))
	assert.Equal(t, 1.0, fieldScore([]string{"git"}, []string{"git"}))
	assert.InDelta(t, 0.6, fieldScore([]string{"git", "xyz"}, []string{"git"}), 1e-9)
	// substring matches get no boundary bonus
	assert.InDelta(t, 0.7, fieldScore([]string{"mat"}, []string{"formatter"}), 1e-9)
}
