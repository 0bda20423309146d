package crawl

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/fwojciec/parity"
)

// excludedPrefixes are administrative and API paths that never hold
// public content.
var excludedPrefixes = []string{
	"/admin",
	"/wp-admin",
	"/wp-login.php",
	"/wp-json",
	"/api",
	"/cgi-bin",
}

// binaryExtensions are file types that are downloads, not pages.
var binaryExtensions = map[string]struct{}{
	".pdf": {}, ".zip": {}, ".gz": {}, ".tar": {}, ".rar": {}, ".7z": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".svg": {}, ".ico": {}, ".bmp": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".webm": {}, ".wav": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
	".css": {}, ".js": {}, ".json": {}, ".xml": {},
	".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".exe": {}, ".dmg": {}, ".iso": {}, ".bin": {},
}

// Scope decides which discovered URLs belong to a crawl.
type Scope struct {
	host    string
	exclude []*regexp.Regexp
}

// NewScope returns a Scope for the site at root.
func NewScope(root *url.URL, exclude []*regexp.Regexp) *Scope {
	return &Scope{
		host:    siteHost(root.Hostname()),
		exclude: exclude,
	}
}

// Allow resolves rawURL and reports whether it should be crawled.
// On success it returns the absolute URL without fragment and its route.
func (s *Scope) Allow(rawURL string) (abs string, route string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", false
	}
	if !s.SameSite(u) {
		return "", "", false
	}
	u.Fragment = ""
	route = parity.NormalizeRoute(u.Path)
	if s.Excluded(route) {
		return "", "", false
	}
	return u.String(), route, true
}

// SameSite reports whether u is on the crawled host. A leading "www." is
// ignored on both sides.
func (s *Scope) SameSite(u *url.URL) bool {
	return siteHost(u.Hostname()) == s.host
}

// Excluded reports whether a route is filtered out by the built-in rules
// or the caller's patterns.
func (s *Scope) Excluded(route string) bool {
	for _, prefix := range excludedPrefixes {
		if route == prefix || strings.HasPrefix(route, prefix+"/") {
			return true
		}
	}
	if _, ok := binaryExtensions[strings.ToLower(path.Ext(route))]; ok {
		return true
	}
	for _, re := range s.exclude {
		if re.MatchString(route) {
			return true
		}
	}
	return false
}

func siteHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
