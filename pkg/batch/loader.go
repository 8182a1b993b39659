// Package batch provides parallel detail loading for one page of object
// identifiers.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/met"
)

// Config holds batch loader configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel detail fetches.
	// Kept small to avoid overwhelming the collection API.
	MaxConcurrency int
}

// DefaultConfig returns safe default configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 5,
	}
}

// DetailFetcher is the interface the object detail service implements
// for single-object fetching.
type DetailFetcher interface {
	Details(ctx context.Context, objectID int) (*met.Artwork, error)
}

// ItemResult is the outcome of fetching one object's details. Exactly
// one of Artwork and Err is set.
type ItemResult struct {
	ObjectID int
	Artwork  *met.Artwork
	Err      error
}

// Loader fetches details for every identifier of a page in parallel.
type Loader struct {
	fetcher DetailFetcher
	config  Config
	logger  zerolog.Logger
}

// NewLoader creates a new batch loader.
func NewLoader(fetcher DetailFetcher, config Config) *Loader {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 5
	}

	return &Loader{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "batch-loader").Logger(),
	}
}

// LoadPage fetches details for every identifier in objectIDs using a
// bounded worker pool. One result is returned per input identifier, in
// input order; a failure for one identifier never prevents the others
// from loading.
func (l *Loader) LoadPage(ctx context.Context, objectIDs []int) []ItemResult {
	results := make([]ItemResult, len(objectIDs))
	if len(objectIDs) == 0 {
		return results
	}

	start := time.Now()

	workers := l.config.MaxConcurrency
	if workers > len(objectIDs) {
		workers = len(objectIDs)
	}

	// Each worker owns the result slots it drains from the queue, so no
	// mutex is needed around the results slice.
	jobs := make(chan int, len(objectIDs))
	for i := range objectIDs {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go l.worker(ctx, objectIDs, jobs, results, &wg, w)
	}
	wg.Wait()

	failed := 0
	for i := range results {
		if results[i].Err != nil {
			failed++
		}
	}

	l.logger.Info().
		Int("items", len(objectIDs)).
		Int("failed", failed).
		Int("workers", workers).
		Dur("duration", time.Since(start)).
		Msg("Page load complete")

	return results
}

// worker drains job indices from the queue and fills the matching
// result slots.
func (l *Loader) worker(ctx context.Context, objectIDs []int, jobs <-chan int, results []ItemResult, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	for i := range jobs {
		objectID := objectIDs[i]

		select {
		case <-ctx.Done():
			results[i] = ItemResult{ObjectID: objectID, Err: ctx.Err()}
			continue
		default:
		}

		artwork, err := l.fetcher.Details(ctx, objectID)
		if err != nil {
			l.logger.Warn().
				Err(err).
				Int("worker_id", workerID).
				Int("object_id", objectID).
				Msg("Item fetch failed")
			results[i] = ItemResult{ObjectID: objectID, Err: err}
			continue
		}

		results[i] = ItemResult{ObjectID: objectID, Artwork: artwork}
	}
}
