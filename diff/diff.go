// Package diff scores the content similarity of matched page pairs and
// classifies each pair.
package diff

import (
	"github.com/fwojciec/parity"
)

// Differ compares the main content of paired pages.
type Differ struct {
	Thresholds parity.Thresholds
}

// NewDiffer returns a Differ using thresholds t.
func NewDiffer(t parity.Thresholds) *Differ {
	return &Differ{Thresholds: t}
}

// Diff returns one verdict per pair, in pair order. Unmatched pairs are
// classified missing with similarity 0.
func (d *Differ) Diff(pairs []parity.MatchPair, src, tgt *parity.Inventory) []parity.Verdict {
	verdicts := make([]parity.Verdict, 0, len(pairs))
	for _, pair := range pairs {
		v := parity.Verdict{MatchPair: pair}
		target := tgt.Get(pair.TargetRoute)
		if !pair.Matched() || target == nil {
			v.TargetRoute = ""
			v.Classification = parity.Missing
			verdicts = append(verdicts, v)
			continue
		}
		v.Similarity = Similarity(src.Get(pair.SourceRoute), target)
		v.Classification = d.Classify(v.Similarity)
		verdicts = append(verdicts, v)
	}
	return verdicts
}

// Classify maps a similarity score to a classification.
func (d *Differ) Classify(similarity float64) parity.Classification {
	return d.Thresholds.Classify(similarity)
}

// Similarity returns the Jaccard similarity of the main content of two
// pages. Pages with equal content hashes score 1; a page without content
// scores 0 against anything.
func Similarity(a, b *parity.Page) float64 {
	if a == nil || b == nil || a.MainContentText == "" || b.MainContentText == "" {
		return 0
	}
	if a.ContentHash != "" && a.ContentHash == b.ContentHash {
		return 1
	}
	return parity.Jaccard(a.MainContentText, b.MainContentText)
}
