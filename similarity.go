package parity

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/unicode/norm"
)

// Tokenize lowercases s and splits it on word boundaries.
// Text is NFKC-normalized first so compatibility forms (ligatures,
// full-width letters) tokenize the same as their plain equivalents.
func Tokenize(s string) []string {
	s = strings.ToLower(norm.NFKC.String(s))
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet returns the distinct tokens of s.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokenize(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Jaccard returns the intersection-over-union of the token sets of a and b.
// The score is symmetric and lies in [0, 1]. Two strings without tokens are
// considered identical and score 1.
func Jaccard(a, b string) float64 {
	return JaccardSets(TokenSet(a), TokenSet(b))
}

// JaccardSets is Jaccard over precomputed token sets.
func JaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// ContentHash returns a fingerprint of page text using xxhash.
func ContentHash(text string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(text))
}

// CollapseWhitespace trims s and replaces every whitespace run with one space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
