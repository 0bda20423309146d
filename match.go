package parity

import "math"

// MatchType records how a source page was paired with a target page.
type MatchType string

// Match types.
const (
	MatchExactPath  MatchType = "exact-path"
	MatchSimilarity MatchType = "similarity"
	MatchUnmatched  MatchType = "unmatched"
)

// MatchPair relates one source page to at most one target page.
// A target route is claimed by at most one pair.
type MatchPair struct {
	SourceRoute string `json:"sourceRoute"`

	// TargetRoute is empty when the source page has no counterpart.
	TargetRoute string    `json:"targetRoute,omitempty"`
	MatchType   MatchType `json:"matchType"`
	Confidence  float64   `json:"matchConfidence"`
}

// Matched returns true if the pair has a target page.
func (p MatchPair) Matched() bool {
	return p.TargetRoute != ""
}

// Classification is the parity verdict for a pair.
type Classification string

// Classifications.
const (
	Identical Classification = "identical"
	Partial   Classification = "partial"
	Divergent Classification = "divergent"
	Missing   Classification = "missing"
)

// Verdict is a MatchPair with its content similarity classification.
type Verdict struct {
	MatchPair
	Similarity     float64        `json:"similarity"`
	Classification Classification `json:"classification"`
}

// NeedsRegeneration returns true for every classification except identical.
func (v Verdict) NeedsRegeneration() bool {
	return v.Classification != Identical
}

// Thresholds partition similarity scores into classifications.
type Thresholds struct {
	// Identical is the minimum similarity classified as identical.
	Identical float64 `json:"identical" yaml:"identical"`

	// Partial is the minimum similarity classified as partial.
	// Anything below is divergent.
	Partial float64 `json:"partial" yaml:"partial"`
}

// DefaultThresholds returns the default classification thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{Identical: 0.85, Partial: 0.30}
}

// Validate returns ECONFIG if the thresholds are out of range or out of order.
func (t Thresholds) Validate() error {
	if !unitInterval(t.Identical) {
		return Errorf(ECONFIG, "identical threshold %v outside [0,1]", t.Identical)
	}
	if !unitInterval(t.Partial) {
		return Errorf(ECONFIG, "partial threshold %v outside [0,1]", t.Partial)
	}
	if t.Identical <= t.Partial {
		return Errorf(ECONFIG, "identical threshold %v must be greater than partial threshold %v", t.Identical, t.Partial)
	}
	return nil
}

// Classify maps a similarity score of a matched pair to a classification.
// The result depends only on the score and the thresholds.
func (t Thresholds) Classify(similarity float64) Classification {
	switch {
	case similarity >= t.Identical:
		return Identical
	case similarity >= t.Partial:
		return Partial
	default:
		return Divergent
	}
}

// unitInterval reports whether v is a number in [0,1]. NaN is not.
func unitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
