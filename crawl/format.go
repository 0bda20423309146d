package crawl

import (
	"fmt"
	"time"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatDuration formats a crawl duration rounded for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return d.Round(time.Second).String()
	case d >= time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Millisecond).String()
	}
}

// FormatStats summarizes crawl stats on one line.
func FormatStats(s *Stats) string {
	if s == nil {
		return "no pages crawled"
	}
	return fmt.Sprintf("%d fetched, %d not found, %d failed in %s",
		s.Fetched, s.NotFound, s.Failed, FormatDuration(s.Duration))
}
