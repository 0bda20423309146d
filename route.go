package parity

import "strings"

// NormalizeRoute converts a URL or path into the route used as a page's
// identity within a site.
//
// The policy: scheme and host are stripped (absolute and scheme-relative
// forms), query and fragment are stripped, the path is lowercased, repeated
// slashes collapse into one, and the trailing slash is removed except for the
// root "/". A relative path gains a leading slash. Applying NormalizeRoute to
// its own output is a no-op.
//
//	NormalizeRoute("https://x.com/About/")  == "/about"
//	NormalizeRoute("/Blog//post?page=2#top") == "/blog/post"
func NormalizeRoute(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	switch {
	case strings.HasPrefix(s, "//"):
		s = stripHost(s[2:])
	case strings.HasPrefix(s, "/"):
	case strings.Contains(s, "://"):
		s = stripHost(s[strings.Index(s, "://")+3:])
	default:
		s = "/" + s
	}

	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	prevSlash := false
	for _, r := range s {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	s = b.String()

	if len(s) > 1 {
		s = strings.TrimSuffix(s, "/")
	}
	if s == "" {
		return "/"
	}
	return s
}

// stripHost removes the authority from "host/path", returning "/path".
func stripHost(s string) string {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[i:]
	}
	return "/"
}
