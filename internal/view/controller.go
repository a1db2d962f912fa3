// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/rejected-theories/internal/metrics"
	"github.com/pdiddy/rejected-theories/internal/theories"
	"github.com/pdiddy/rejected-theories/pkg/types"
)

// Fetcher produces the records for a validated year. *theories.Aggregator
// implements it.
type Fetcher interface {
	FetchTheories(ctx context.Context, year int) ([]types.DisplayRecord, error)
}

// Controller owns one ViewState and is its only writer.
type Controller struct {
	fetcher  Fetcher
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	onChange func(ViewState)

	mu    sync.Mutex
	state ViewState
	wg    sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger (default no-op).
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithClock overrides the clock used to bound the year.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithOnChange registers a hook called with a snapshot after every state
// transition. The hook runs outside the controller lock.
func WithOnChange(fn func(ViewState)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// NewController returns a Controller in the Idle phase.
func NewController(f Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher: f,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Prefill sets the year text without submitting it.
func (c *Controller) Prefill(raw string) {
	c.mu.Lock()
	c.state.Year = raw
	snap := c.state.clone()
	c.mu.Unlock()
	c.notify(snap)
}

// Wait blocks until every fetch started by OnSubmit has resolved.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// OnSubmit validates raw and, if it is a valid year, starts a fetch in the
// background. ctx bounds that fetch, so callers serving a request should
// pass a context that outlives it.
//
// Invalid input moves straight to the Error phase with MsgInvalidYear,
// makes no network call, and returns ErrInvalidYear. Every submit bumps the
// generation, so a fetch still in flight from an earlier submit is
// discarded when it resolves, and a submit overtaken by a newer one while
// validating leaves the state alone.
func (c *Controller) OnSubmit(ctx context.Context, raw string) error {
	c.mu.Lock()
	c.state.Year = raw
	c.state.Phase = Validating
	c.state.Generation++
	gen := c.state.Generation
	validating := c.state.clone()
	c.mu.Unlock()
	c.notify(validating)

	year, err := ParseYear(raw, c.now())

	c.mu.Lock()
	if gen != c.state.Generation {
		// A newer submit ran while this one was validating and owns the
		// state now.
		c.mu.Unlock()
		c.logger.Debug("submit superseded",
			zap.String("input", raw),
			zap.Uint64("generation", gen))
		return err
	}
	if err != nil {
		c.state.Phase = Error
		c.state.Loading = false
		c.state.ErrorMessage = MsgInvalidYear
		snap := c.state.clone()
		c.mu.Unlock()

		c.logger.Debug("year rejected", zap.String("input", raw))
		c.metrics.ObserveFetch(metrics.OutcomeInvalid, 0)
		c.notify(snap)
		return err
	}
	c.state.Phase = Loading
	c.state.Loading = true
	c.state.ErrorMessage = ""
	c.state.Results = nil
	loading := c.state.clone()
	c.mu.Unlock()
	c.notify(loading)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.fetch(ctx, gen, year)
	}()
	return nil
}

func (c *Controller) fetch(ctx context.Context, gen uint64, year int) {
	start := time.Now()
	records, err := c.fetcher.FetchTheories(ctx, year)
	elapsed := time.Since(start)

	c.mu.Lock()
	if gen != c.state.Generation {
		c.mu.Unlock()
		c.logger.Debug("discarding stale fetch",
			zap.Int("year", year),
			zap.Uint64("generation", gen))
		c.metrics.StaleDiscarded()
		return
	}

	var outcome string
	c.state.Loading = false
	switch {
	case err != nil:
		c.state.Phase = Error
		c.state.ErrorMessage = MsgRetrieval
		outcome = metrics.OutcomeFailure
		if !errors.Is(err, theories.ErrRetrieval) {
			c.logger.Warn("fetch failed", zap.Int("year", year), zap.Error(err))
		}
	case len(records) == 0:
		c.state.Phase = Empty
		c.state.Results = []types.DisplayRecord{}
		c.state.ErrorMessage = MsgNoResults
		outcome = metrics.OutcomeEmpty
	default:
		c.state.Phase = Success
		c.state.Results = records
		outcome = metrics.OutcomeSuccess
	}
	snap := c.state.clone()
	c.mu.Unlock()

	c.logger.Info("fetch resolved",
		zap.Int("year", year),
		zap.String("phase", snap.Phase.String()),
		zap.Int("results", len(snap.Results)),
		zap.Duration("elapsed", elapsed))
	c.metrics.ObserveFetch(outcome, elapsed)
	c.notify(snap)
}

func (c *Controller) notify(s ViewState) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
