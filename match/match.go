// Package match pairs source pages with their counterparts on the target site.
package match

import (
	"github.com/fwojciec/parity"
)

// HeadingWeight scales the H1 score relative to the title score.
const HeadingWeight = 0.9

// Matcher pairs pages in two passes: exact route equality first, then title
// and H1 similarity for whatever is left. Each target page is claimed at most
// once.
type Matcher struct {
	// Threshold is the score a similarity match must exceed.
	Threshold float64
}

// NewMatcher returns a Matcher with the given similarity threshold.
func NewMatcher(threshold float64) *Matcher {
	return &Matcher{Threshold: threshold}
}

// candidate holds the precomputed token sets of a page.
type candidate struct {
	page  *parity.Page
	title map[string]struct{}
	h1    map[string]struct{}
}

func newCandidate(p *parity.Page) *candidate {
	return &candidate{
		page:  p,
		title: parity.TokenSet(p.Title),
		h1:    parity.TokenSet(p.H1),
	}
}

// Match returns one pair per successfully fetched source page, in source
// inventory order. Pages whose fetch failed on either side take no part.
func (m *Matcher) Match(src, tgt *parity.Inventory) []parity.MatchPair {
	sources := okPages(src)
	targets := okPages(tgt)

	pairs := make([]parity.MatchPair, len(sources))
	claimed := make([]bool, len(targets))
	byRoute := make(map[string]int, len(targets))
	for i, t := range targets {
		byRoute[parity.NormalizeRoute(t.Route)] = i
	}

	var pending []int
	for i, s := range sources {
		pairs[i] = parity.MatchPair{SourceRoute: s.Route, MatchType: parity.MatchUnmatched}
		if j, ok := byRoute[parity.NormalizeRoute(s.Route)]; ok && !claimed[j] {
			claimed[j] = true
			pairs[i].TargetRoute = targets[j].Route
			pairs[i].MatchType = parity.MatchExactPath
			pairs[i].Confidence = 1.0
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return pairs
	}

	cands := make([]*candidate, len(targets))
	for j, t := range targets {
		cands[j] = newCandidate(t)
	}

	for _, i := range pending {
		s := newCandidate(sources[i])
		best, bestScore := -1, 0.0
		for j, t := range cands {
			if claimed[j] {
				continue
			}
			// Strictly greater keeps the earliest target on ties.
			if score := score(s, t); score > bestScore {
				best, bestScore = j, score
			}
		}
		pairs[i].Confidence = bestScore
		if best >= 0 && bestScore > m.Threshold {
			claimed[best] = true
			pairs[i].TargetRoute = targets[best].Route
			pairs[i].MatchType = parity.MatchSimilarity
		}
	}
	return pairs
}

// Score returns the similarity match score of two pages: the larger of the
// title Jaccard score and the weighted H1 Jaccard score. A field with no
// tokens on either side contributes 0.
func Score(a, b *parity.Page) float64 {
	return score(newCandidate(a), newCandidate(b))
}

func score(a, b *candidate) float64 {
	return max(fieldScore(a.title, b.title), HeadingWeight*fieldScore(a.h1, b.h1))
}

func fieldScore(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return parity.JaccardSets(a, b)
}

func okPages(inv *parity.Inventory) []*parity.Page {
	var pages []*parity.Page
	for _, p := range inv.Pages() {
		if p.OK() {
			pages = append(pages, p)
		}
	}
	return pages
}
