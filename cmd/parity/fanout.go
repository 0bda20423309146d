package main

import (
	"context"
	"errors"

	"github.com/fwojciec/parity"
)

// fanOutPublishers publishes every artifact to each publisher in turn.
// All publishers are tried; their errors are joined.
func fanOutPublishers(pubs []parity.Publisher) parity.Publisher {
	if len(pubs) == 1 {
		return pubs[0]
	}
	return parity.PublishFunc(func(ctx context.Context, a *parity.Artifact) error {
		var errs []error
		for _, p := range pubs {
			if err := p.Publish(ctx, a); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// fanOutSinks persists every report to each sink in turn.
func fanOutSinks(sinks []parity.ReportSink) parity.ReportSink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return parity.ReportSinkFunc(func(ctx context.Context, r *parity.Report) error {
		var errs []error
		for _, s := range sinks {
			if err := s.PersistReport(ctx, r); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
