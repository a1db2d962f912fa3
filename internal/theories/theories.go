// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package theories runs the two-phase lookup: one search for the year,
// then one extract fetch per hit, folded into ordered display records.
package theories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/rejected-theories/internal/httputil"
	"github.com/pdiddy/rejected-theories/internal/metrics"
	"github.com/pdiddy/rejected-theories/internal/wiki"
	"github.com/pdiddy/rejected-theories/pkg/types"
)

// Placeholder replaces the content of a record whose extract could not be
// fetched.
const Placeholder = "Content not available"

// ErrRetrieval marks a failed search call. Callers distinguish it from an
// empty result with errors.Is.
var ErrRetrieval = errors.New("retrieval failed")

// RetrievalError wraps the cause of a failed search call.
type RetrievalError struct {
	Year int
	Err  error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("searching theories before %d: %v", e.Year, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

func (e *RetrievalError) Is(target error) bool { return target == ErrRetrieval }

// Source is the remote API the aggregator reads from. *wiki.Client
// implements it.
type Source interface {
	Search(ctx context.Context, year int) ([]types.SearchHit, error)
	Extract(ctx context.Context, pageID int) (string, error)
	Link(pageID int) string
}

// Aggregator drives the search and the extract fan-out.
type Aggregator struct {
	Source  Source
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// New returns an Aggregator. A nil logger is replaced by a no-op logger.
func New(src Source, logger *zap.Logger, m *metrics.Metrics) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{Source: src, Logger: logger, Metrics: m}
}

// FetchTheories returns one record per search hit, in search order.
//
// A failed search returns a *RetrievalError and issues no extract calls.
// A search with no hits returns an empty, non-nil slice. Extract calls run
// concurrently, at most wiki.MaxHits at a time; a failed or empty extract
// is replaced by Placeholder and never fails the batch. The call returns
// only after every extract call has finished.
func (a *Aggregator) FetchTheories(ctx context.Context, year int) ([]types.DisplayRecord, error) {
	log := a.logger().With(zap.Int("year", year))
	start := time.Now()

	hits, err := a.Source.Search(ctx, year)
	if err != nil {
		log.Warn("search failed",
			zap.String("kind", string(httputil.Classify(err))),
			zap.Error(err))
		return nil, &RetrievalError{Year: year, Err: err}
	}
	if len(hits) > wiki.MaxHits {
		hits = hits[:wiki.MaxHits]
	}

	records := make([]types.DisplayRecord, len(hits))
	var g errgroup.Group
	g.SetLimit(wiki.MaxHits)

	for i, hit := range hits {
		g.Go(func() error {
			records[i] = a.record(ctx, log, hit)
			return nil
		})
	}
	g.Wait()

	log.Debug("theories fetched",
		zap.Int("hits", len(hits)),
		zap.Duration("elapsed", time.Since(start)))
	return records, nil
}

// record merges one hit with its extract.
func (a *Aggregator) record(ctx context.Context, log *zap.Logger, hit types.SearchHit) types.DisplayRecord {
	content, err := a.Source.Extract(ctx, hit.PageID)
	switch {
	case err != nil:
		log.Warn("extract failed, using placeholder",
			zap.Int("pageid", hit.PageID),
			zap.String("kind", string(httputil.Classify(err))),
			zap.Error(err))
		a.Metrics.DetailFallback()
		content = Placeholder
	case content == "":
		a.Metrics.DetailFallback()
		content = Placeholder
	}

	return types.DisplayRecord{
		Title:   hit.Title,
		Content: content,
		Link:    a.Source.Link(hit.PageID),
	}
}

func (a *Aggregator) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}
