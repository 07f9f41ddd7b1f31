// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/sheetlens/internal/dataset"
	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/metrics"
)

// BreakerConfig tunes the circuit breaker in front of a Source.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig returns the production breaker settings:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 30 second wait before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "sheet-source",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerSource wraps a Source with a circuit breaker, a per-call timeout and
// metrics. Client errors (missing source, bad range, cancellation) pass
// through without counting as failures.
type BreakerSource struct {
	next    Source
	cb      *gobreaker.CircuitBreaker[any]
	name    string
	timeout time.Duration
}

// NewBreakerSource wraps next. A zero fetchTimeout disables the per-call
// timeout.
func NewBreakerSource(next Source, cfg BreakerConfig, fetchTimeout time.Duration) *BreakerSource {
	if cfg.Name == "" {
		cfg.Name = "sheet-source"
	}
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				logging.Warn().Str("breaker", cfg.Name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).Msg("Opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || clientError(err)
		},
	})

	return &BreakerSource{next: next, cb: cb, name: cfg.Name, timeout: fetchTimeout}
}

// State returns the breaker state name.
func (b *BreakerSource) State() string {
	return b.cb.State().String()
}

func (b *BreakerSource) execute(ctx context.Context, op, sourceID string, fn func(context.Context) (any, error)) (any, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := b.cb.Execute(func() (any, error) {
		return fn(ctx)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		logging.Warn().Err(err).Str("source_id", sourceID).Msg("Source request rejected by circuit breaker")
		err = newError(op, sourceID, ErrFetch, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	metrics.RecordSheetFetch(op, time.Since(start), Kind(err))
	return result, err
}

// ListTabs implements Source.
func (b *BreakerSource) ListTabs(ctx context.Context, sourceID string) (*SheetInfo, error) {
	return castResult[SheetInfo](b.execute(ctx, "list", sourceID, func(ctx context.Context) (any, error) {
		return b.next.ListTabs(ctx, sourceID)
	}))
}

// Fetch implements Source.
func (b *BreakerSource) Fetch(ctx context.Context, sourceID, sheetName, rangeRef string) (*dataset.Table, error) {
	t, err := castResult[dataset.Table](b.execute(ctx, "fetch", sourceID, func(ctx context.Context) (any, error) {
		return b.next.Fetch(ctx, sourceID, sheetName, rangeRef)
	}))
	if err == nil {
		metrics.SheetRowsFetched.Observe(float64(t.Len()))
	}
	return t, err
}

// castResult safely type-casts the circuit breaker result
func castResult[T any](result any, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
