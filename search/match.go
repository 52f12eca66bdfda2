package search

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Field weights of the text score.
const (
	weightName        = 0.4
	weightDescription = 0.3
	weightTags        = 0.2
	weightCategory    = 0.1

	boundaryBonus = 0.1
)

// tokenize splits s into lower-cased words of letters and digits.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// uniqueTerms returns distinct tokens of the values, in order, up to limit.
func uniqueTerms(limit int, values ...string) []string {
	seen := map[string]bool{}
	var terms []string
	for _, v := range values {
		for _, t := range tokenize(v) {
			if seen[t] {
				continue
			}
			seen[t] = true
			terms = append(terms, t)
			if limit > 0 && len(terms) == limit {
				return terms
			}
		}
	}
	return terms
}

// maxEdits returns the edit distance tolerated for a term.
func maxEdits(term string) int {
	n := len([]rune(term))
	switch {
	case n <= 2:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// termMatch returns the best match quality of term against the tokens,
// and whether the best match starts at a word boundary.
//
// exact 1.0; word prefix 0.9; substring 0.7; within maxEdits 1-d/maxLen.
func termMatch(term string, tokens []string) (float64, bool) {
	best := 0.0
	boundary := false
	edits := maxEdits(term)
	termLen := len([]rune(term))

	for _, tok := range tokens {
		var q float64
		var b bool
		switch {
		case tok == term:
			q, b = 1.0, true
		case termLen >= 2 && strings.HasPrefix(tok, term):
			q, b = 0.9, true
		case termLen >= 3 && strings.Contains(tok, term):
			q = 0.7
		case edits > 0:
			d := levenshtein.ComputeDistance(term, tok)
			if d <= edits {
				q = 1 - float64(d)/float64(max(termLen, len([]rune(tok))))
			}
		}
		if q > best {
			best, boundary = q, b
		}
	}
	return best, boundary
}

// fieldScore returns the mean term quality over the field tokens, with a
// bonus when a term matched at a word boundary, capped at 1.
func fieldScore(terms, tokens []string) float64 {
	if len(terms) == 0 || len(tokens) == 0 {
		return 0
	}
	total := 0.0
	bonus := false
	for _, term := range terms {
		q, b := termMatch(term, tokens)
		total += q
		bonus = bonus || b
	}
	score := total / float64(len(terms))
	if score > 0 && bonus {
		score += boundaryBonus
	}
	return min(1, score)
}

// fields holds the tokenized searchable fields of a tool.
type fields struct {
	name        []string
	description []string
	tags        []string
	category    []string
}

type fieldScores struct {
	name        float64
	description float64
	tags        float64
	category    float64
}

func (f fieldScores) text() float64 {
	return weightName*f.name +
		weightDescription*f.description +
		weightTags*f.tags +
		weightCategory*f.category
}

func (f *fields) score(terms []string) fieldScores {
	return fieldScores{
		name:        fieldScore(terms, f.name),
		description: fieldScore(terms, f.description),
		tags:        fieldScore(terms, f.tags),
		category:    fieldScore(terms, f.category),
	}
}
