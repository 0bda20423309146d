package parity

import (
	"regexp"
	"time"
)

// Default run options.
const (
	DefaultMaxDepth       = 3
	DefaultMaxPages       = 300
	DefaultPerSiteDelay   = time.Second
	DefaultConcurrency    = 2
	DefaultFetchTimeout   = 30 * time.Second
	DefaultSettleDelay    = 500 * time.Millisecond
	DefaultMatchThreshold = 0.6
)

// Options configures a parity check run.
type Options struct {
	MaxDepth     int           `yaml:"maxDepth"`
	MaxPages     int           `yaml:"maxPages"`
	PerSiteDelay time.Duration `yaml:"perSiteDelay"`
	Concurrency  int           `yaml:"concurrency"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
	SettleDelay  time.Duration `yaml:"settleDelay"`

	IdenticalThreshold float64 `yaml:"identicalThreshold"`
	PartialThreshold   float64 `yaml:"partialThreshold"`
	MatchThreshold     float64 `yaml:"matchThreshold"`

	// ExcludePatterns are regular expressions matched against routes.
	ExcludePatterns []string `yaml:"excludePatterns"`

	// LinkRewriteTable rewrites internal links in regenerated content.
	LinkRewriteTable []RewriteRule `yaml:"linkRewriteTable"`
}

// DefaultOptions returns options with every field set to its default.
func DefaultOptions() Options {
	t := DefaultThresholds()
	return Options{
		MaxDepth:           DefaultMaxDepth,
		MaxPages:           DefaultMaxPages,
		PerSiteDelay:       DefaultPerSiteDelay,
		Concurrency:        DefaultConcurrency,
		FetchTimeout:       DefaultFetchTimeout,
		SettleDelay:        DefaultSettleDelay,
		IdenticalThreshold: t.Identical,
		PartialThreshold:   t.Partial,
		MatchThreshold:     DefaultMatchThreshold,
	}
}

// Thresholds returns the classification thresholds of the options.
func (o Options) Thresholds() Thresholds {
	return Thresholds{Identical: o.IdenticalThreshold, Partial: o.PartialThreshold}
}

// Validate returns ECONFIG if the options cannot produce a meaningful run.
// It performs no I/O, so callers can reject bad configuration before any
// network activity.
func (o Options) Validate() error {
	if err := o.Thresholds().Validate(); err != nil {
		return err
	}
	if !unitInterval(o.MatchThreshold) {
		return Errorf(ECONFIG, "match threshold %v outside [0,1]", o.MatchThreshold)
	}
	if o.MaxDepth < 0 {
		return Errorf(ECONFIG, "max depth must not be negative")
	}
	if o.MaxPages <= 0 {
		return Errorf(ECONFIG, "max pages must be positive")
	}
	if o.Concurrency <= 0 {
		return Errorf(ECONFIG, "concurrency must be positive")
	}
	if o.PerSiteDelay < 0 {
		return Errorf(ECONFIG, "per-site delay must not be negative")
	}
	if o.FetchTimeout <= 0 {
		return Errorf(ECONFIG, "fetch timeout must be positive")
	}
	if _, err := o.CompileExcludes(); err != nil {
		return err
	}
	for i, rule := range o.LinkRewriteTable {
		if rule.From == "" {
			return Errorf(ECONFIG, "link rewrite rule %d has empty from", i)
		}
	}
	return nil
}

// CompileExcludes compiles ExcludePatterns.
func (o Options) CompileExcludes() ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(o.ExcludePatterns))
	for _, pattern := range o.ExcludePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, Errorf(ECONFIG, "invalid exclude pattern %q: %v", pattern, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// CrawlOptions returns the subset of options that drive a single site crawl.
func (o Options) CrawlOptions() CrawlOptions {
	excludes, _ := o.CompileExcludes()
	return CrawlOptions{
		MaxDepth:     o.MaxDepth,
		MaxPages:     o.MaxPages,
		Concurrency:  o.Concurrency,
		PerSiteDelay: o.PerSiteDelay,
		FetchTimeout: o.FetchTimeout,
		Exclude:      excludes,
	}
}

// CrawlOptions configures a single site crawl.
type CrawlOptions struct {
	MaxDepth     int
	MaxPages     int
	Concurrency  int
	FetchTimeout time.Duration

	// PerSiteDelay is the minimum interval between requests to the site,
	// shared by all workers.
	PerSiteDelay time.Duration

	// Exclude patterns are matched against routes before enqueueing.
	Exclude []*regexp.Regexp

	// RetryDelays overrides the fetch retry backoff. Nil uses the default.
	RetryDelays []time.Duration
}
