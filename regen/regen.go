// Package regen builds replacement content for pages that are missing or
// materially different on the target site.
package regen

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/parity"
	"github.com/google/uuid"
)

// Regenerator produces artifacts from the authoritative source pages.
type Regenerator struct {
	SourceRoot string
	TargetRoot string
	Rewrites   []parity.RewriteRule

	// Converter renders Markdown alongside the HTML. Optional.
	Converter parity.Converter

	Now    func() time.Time
	Logger *slog.Logger
}

// NewRegenerator returns a Regenerator for moving content from sourceRoot to
// targetRoot.
func NewRegenerator(sourceRoot, targetRoot string, rewrites []parity.RewriteRule, conv parity.Converter) *Regenerator {
	return &Regenerator{
		SourceRoot: sourceRoot,
		TargetRoot: targetRoot,
		Rewrites:   rewrites,
		Converter:  conv,
		Now:        time.Now,
	}
}

// Regenerate returns one artifact per non-identical verdict, in verdict order.
func (r *Regenerator) Regenerate(verdicts []parity.Verdict, src, tgt *parity.Inventory) ([]*parity.Artifact, error) {
	subst := newSubstituter(r.SourceRoot, r.TargetRoot)
	logger := r.logger()
	now := r.now()

	artifacts := []*parity.Artifact{}
	for _, v := range verdicts {
		if !v.NeedsRegeneration() {
			continue
		}
		page := src.Get(v.SourceRoute)
		if page == nil {
			return nil, parity.Errorf(parity.EINVALID, "verdict for unknown source route %q", v.SourceRoute)
		}

		sanitized, err := Sanitize(page.MainContentHTML, r.Rewrites)
		if err != nil {
			return nil, err
		}

		route := v.TargetRoute
		if v.Classification == parity.Missing || route == "" {
			route = parity.NormalizeRoute(RewriteLink(page.Route, r.Rewrites))
		}

		canonical := r.canonical(page, route, subst)

		a := &parity.Artifact{
			ID:             uuid.NewString(),
			Route:          route,
			Title:          subst.replace(page.Title),
			Description:    subst.replace(page.MetaDescription),
			CanonicalURL:   canonical,
			SanitizedHTML:  subst.replace(sanitized),
			SourceRoute:    page.Route,
			Classification: v.Classification,
			GeneratedAt:    now,
		}

		if r.Converter != nil && a.SanitizedHTML != "" {
			md, err := r.Converter.Convert(a.SanitizedHTML)
			if err != nil {
				logger.Warn("markdown conversion failed", "route", a.Route, "err", err)
			} else {
				a.Markdown = md
			}
		}

		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// canonical returns the artifact's canonical URL. A page that is its own
// canonical, or declares none, points at its new route on the target. Any
// other canonical is rewritten like a link.
func (r *Regenerator) canonical(page *parity.Page, route string, subst *substituter) string {
	self := strings.TrimSuffix(r.TargetRoot, "/") + route
	if page.CanonicalURL == "" {
		return self
	}
	u, err := url.Parse(page.CanonicalURL)
	if err != nil || parity.NormalizeRoute(u.Path) == page.Route {
		return self
	}
	return subst.replace(RewriteLink(page.CanonicalURL, r.Rewrites))
}

func (r *Regenerator) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Regenerator) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// substituter replaces the source site's origin and host with the target's.
type substituter struct {
	r *strings.Replacer
}

func newSubstituter(sourceRoot, targetRoot string) *substituter {
	src, err1 := url.Parse(sourceRoot)
	tgt, err2 := url.Parse(targetRoot)
	if err1 != nil || err2 != nil || src.Host == "" || tgt.Host == "" {
		return &substituter{}
	}
	tgtOrigin := tgt.Scheme + "://" + tgt.Host
	// Longest forms first; strings.Replacer picks the first matching old string.
	return &substituter{r: strings.NewReplacer(
		"https://"+src.Host, tgtOrigin,
		"http://"+src.Host, tgtOrigin,
		src.Host, tgt.Host,
	)}
}

func (s *substituter) replace(v string) string {
	if s.r == nil || v == "" {
		return v
	}
	return s.r.Replace(v)
}
