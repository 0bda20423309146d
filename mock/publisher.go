package mock

import (
	"context"

	"github.com/fwojciec/parity"
)

var _ parity.Publisher = (*Publisher)(nil)

// Publisher is a mock implementation of parity.Publisher.
type Publisher struct {
	PublishFn func(ctx context.Context, a *parity.Artifact) error
}

func (p *Publisher) Publish(ctx context.Context, a *parity.Artifact) error {
	return p.PublishFn(ctx, a)
}

var _ parity.ArtifactService = (*ArtifactService)(nil)

// ArtifactService is a mock implementation of parity.ArtifactService.
type ArtifactService struct {
	PublishFn          func(ctx context.Context, a *parity.Artifact) error
	FindArtifactByIDFn func(ctx context.Context, id string) (*parity.Artifact, error)
	FindArtifactsFn    func(ctx context.Context, filter parity.ArtifactFilter) ([]*parity.Artifact, error)
}

func (s *ArtifactService) Publish(ctx context.Context, a *parity.Artifact) error {
	return s.PublishFn(ctx, a)
}

func (s *ArtifactService) FindArtifactByID(ctx context.Context, id string) (*parity.Artifact, error) {
	return s.FindArtifactByIDFn(ctx, id)
}

func (s *ArtifactService) FindArtifacts(ctx context.Context, filter parity.ArtifactFilter) ([]*parity.Artifact, error) {
	return s.FindArtifactsFn(ctx, filter)
}
