package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/parity"
	"gopkg.in/yaml.v3"
)

// LoadOptions returns the default options overlaid with the YAML file at
// path. An empty path returns the defaults. Unknown keys are rejected.
func LoadOptions(path string) (parity.Options, error) {
	opts := parity.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return opts, parity.Errorf(parity.ECONFIG, "open config: %v", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, parity.Errorf(parity.ECONFIG, "parse config %s: %v", path, err)
	}
	return opts, nil
}

// ParseRewriteRule parses a "from=to" flag value.
func ParseRewriteRule(s string) (parity.RewriteRule, error) {
	from, to, ok := strings.Cut(s, "=")
	if !ok || from == "" {
		return parity.RewriteRule{}, parity.Errorf(parity.ECONFIG, "invalid rewrite %q, want from=to", s)
	}
	return parity.RewriteRule{From: from, To: to}, nil
}

// Options resolves the run options: defaults, then the config file, then
// any flags given on the command line.
func (c *CheckCmd) Options() (parity.Options, error) {
	opts, err := LoadOptions(c.Config)
	if err != nil {
		return opts, err
	}

	if c.MaxDepth != nil {
		opts.MaxDepth = *c.MaxDepth
	}
	if c.MaxPages != nil {
		opts.MaxPages = *c.MaxPages
	}
	if c.Concurrency != nil {
		opts.Concurrency = *c.Concurrency
	}
	if c.Delay != nil {
		opts.PerSiteDelay = *c.Delay
	}
	if c.Timeout != nil {
		opts.FetchTimeout = *c.Timeout
	}
	if c.Settle != nil {
		opts.SettleDelay = *c.Settle
	}
	if c.Identical != nil {
		opts.IdenticalThreshold = *c.Identical
	}
	if c.Partial != nil {
		opts.PartialThreshold = *c.Partial
	}
	if c.Match != nil {
		opts.MatchThreshold = *c.Match
	}
	opts.ExcludePatterns = append(opts.ExcludePatterns, c.Exclude...)
	for _, s := range c.Rewrite {
		rule, err := ParseRewriteRule(s)
		if err != nil {
			return opts, err
		}
		opts.LinkRewriteTable = append(opts.LinkRewriteTable, rule)
	}

	return opts, opts.Validate()
}
