package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/parity"
)

// Ensure LoggingPublisher implements parity.Publisher.
var _ parity.Publisher = (*LoggingPublisher)(nil)

// LoggingPublisher wraps a Publisher with logging.
type LoggingPublisher struct {
	next   parity.Publisher
	logger *slog.Logger
}

// NewLoggingPublisher creates a new LoggingPublisher.
func NewLoggingPublisher(next parity.Publisher, logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{next: next, logger: logger}
}

// Publish delegates to the wrapped publisher and logs the artifact route.
func (p *LoggingPublisher) Publish(ctx context.Context, a *parity.Artifact) (err error) {
	defer func(begin time.Time) {
		p.logger.Log(ctx, levelFor(err), "publish artifact",
			"route", a.Route,
			"source", a.SourceRoute,
			"classification", a.Classification,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Publish(ctx, a)
}
