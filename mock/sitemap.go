package mock

import (
	"context"

	"github.com/fwojciec/parity"
)

var _ parity.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of parity.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *parity.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *parity.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
