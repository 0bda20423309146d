// Package report assembles and renders the outcome of a parity check.
package report

import (
	"time"

	"github.com/fwojciec/parity"
)

// Input is everything a report is built from.
type Input struct {
	ID         string
	SourceRoot string
	TargetRoot string
	StartedAt  time.Time
	FinishedAt time.Time

	Source   *parity.Inventory
	Target   *parity.Inventory
	Verdicts []parity.Verdict

	Artifacts []*parity.Artifact
	// Published holds the IDs of artifacts the publisher accepted.
	Published       map[string]bool
	PublishFailures int

	// ArtifactsWithheld, when set, is the reason regeneration was skipped.
	ArtifactsWithheld string

	Canceled bool
}

// Build assembles a report. It performs no I/O.
func Build(in Input) *parity.Report {
	r := &parity.Report{
		ID:         in.ID,
		SourceRoot: in.SourceRoot,
		TargetRoot: in.TargetRoot,
		StartedAt:  in.StartedAt,
		FinishedAt: in.FinishedAt,
		Source:     summarize(in.Source),
		Target:     summarize(in.Target),
		Pairs:      make([]parity.Verdict, len(in.Verdicts)),
		Artifacts:  make([]parity.ArtifactSummary, 0, len(in.Artifacts)),
		Canceled:   in.Canceled,
	}
	copy(r.Pairs, in.Verdicts)

	for _, a := range in.Artifacts {
		r.Artifacts = append(r.Artifacts, parity.ArtifactSummary{
			Route:          a.Route,
			SourceRoute:    a.SourceRoute,
			Classification: a.Classification,
			Published:      in.Published[a.ID],
		})
	}

	r.Counts = parity.Counts{
		SourceCount:     in.Source.Len(),
		TargetCount:     in.Target.Len(),
		SourceFailures:  failures(in.Source),
		TargetFailures:  failures(in.Target),
		Artifacts:       len(in.Artifacts),
		PublishFailures: in.PublishFailures,
	}
	for _, v := range in.Verdicts {
		if v.Matched() {
			r.Counts.Matched++
		}
		switch v.Classification {
		case parity.Identical:
			r.Counts.Identical++
		case parity.Partial:
			r.Counts.Partial++
		case parity.Divergent:
			r.Counts.Divergent++
		case parity.Missing:
			r.Counts.Missing++
		}
	}

	if in.ArtifactsWithheld != "" {
		r.ArtifactsWithheld = in.ArtifactsWithheld
		for _, v := range in.Verdicts {
			if v.NeedsRegeneration() {
				r.Counts.Withheld++
			}
		}
	}

	srcEmpty := okCount(in.Source) == 0
	tgtEmpty := okCount(in.Target) == 0
	switch {
	case srcEmpty && tgtEmpty:
		r.Degenerate, r.DegenerateReason = true, "no pages fetched from either site"
	case srcEmpty:
		r.Degenerate, r.DegenerateReason = true, "no pages fetched from source site"
	case tgtEmpty:
		r.Degenerate, r.DegenerateReason = true, "no pages fetched from target site"
	}

	return r
}

func summarize(inv *parity.Inventory) []parity.PageSummary {
	pages := inv.Pages()
	out := make([]parity.PageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, parity.PageSummary{
			Route:        p.Route,
			URL:          p.URL,
			Title:        p.Title,
			H1:           p.H1,
			Status:       p.Status,
			StatusReason: p.StatusReason,
		})
	}
	return out
}

func okCount(inv *parity.Inventory) int {
	if inv == nil {
		return 0
	}
	return inv.OKCount()
}

func failures(inv *parity.Inventory) int {
	if inv == nil {
		return 0
	}
	return inv.FailureCount()
}
