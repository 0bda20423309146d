package prometheus

import (
	"context"

	"github.com/fwojciec/parity"
)

// Ensure Publisher implements parity.Publisher at compile time.
var _ parity.Publisher = (*Publisher)(nil)

// Publisher counts publish attempts by classification and outcome.
type Publisher struct {
	next    parity.Publisher
	metrics *Metrics
}

// NewPublisher returns a Publisher recording into m.
func NewPublisher(next parity.Publisher, m *Metrics) *Publisher {
	return &Publisher{next: next, metrics: m}
}

// Publish delegates to the wrapped publisher.
func (p *Publisher) Publish(ctx context.Context, a *parity.Artifact) error {
	err := p.next.Publish(ctx, a)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.metrics.PublishesTotal.WithLabelValues(string(a.Classification), outcome).Inc()
	return err
}
