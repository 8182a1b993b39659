// Package explorer composes search, pagination, and batch loading into a
// browse session for a presentation layer to consume.
package explorer

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/batch"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/met"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/pagination"
)

// ErrNoActiveSearch is returned by CurrentPage before any search ran.
var ErrNoActiveSearch = errors.New("no active search")

// Searcher executes keyword queries.
type Searcher interface {
	Search(ctx context.Context, query string, onlyWithImages bool) (*met.SearchResult, error)
}

// PageLoader fetches details for one page of identifiers.
type PageLoader interface {
	LoadPage(ctx context.Context, objectIDs []int) []batch.ItemResult
}

// Config holds browse session configuration.
type Config struct {
	// PageSize is the number of artworks per page.
	PageSize int

	// OnlyWithImages restricts searches to objects with images.
	OnlyWithImages bool
}

// DefaultConfig returns the default browse configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:       20,
		OnlyWithImages: true,
	}
}

// Page is one loaded page of a result set: the page window plus one
// item per identifier in the window, each independently loaded or failed.
type Page struct {
	State pagination.PageState
	Items []batch.ItemResult
}

// Explorer is a stateful browse session over one search result at a
// time. Safe for concurrent use.
type Explorer struct {
	searcher Searcher
	loader   PageLoader
	config   Config
	logger   zerolog.Logger

	mu     sync.Mutex
	result *met.SearchResult
	state  pagination.PageState
}

// New creates a browse session.
func New(searcher Searcher, loader PageLoader, config Config) *Explorer {
	if config.PageSize < 1 {
		config.PageSize = DefaultConfig().PageSize
	}

	return &Explorer{
		searcher: searcher,
		loader:   loader,
		config:   config,
		logger:   log.With().Str("component", "explorer").Logger(),
	}
}

// Search runs a keyword query and resets the session onto its first
// page. A failed search leaves the previous result set untouched.
func (e *Explorer) Search(ctx context.Context, query string) (*met.SearchResult, error) {
	result, err := e.searcher.Search(ctx, query, e.config.OnlyWithImages)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.result = result
	e.state = pagination.New(e.config.PageSize, len(result.ObjectIDs))
	state := e.state
	e.mu.Unlock()

	e.logger.Info().
		Str("query", query).
		Int("total", result.Total).
		Int("pages", state.TotalPages()).
		Msg("Session reset to new result set")

	return result, nil
}

// State returns the current page window.
func (e *Explorer) State() pagination.PageState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// NextPage advances the session one page; a no-op on the last page.
func (e *Explorer) NextPage() pagination.PageState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.state.Next()
	return e.state
}

// PreviousPage steps the session back one page; a no-op on the first page.
func (e *Explorer) PreviousPage() pagination.PageState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.state.Previous()
	return e.state
}

// SetPageSize changes the page size mid-session, reclamping the page
// index so the window stays valid.
func (e *Explorer) SetPageSize(pageSize int) pagination.PageState {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.state.WithPageSize(pageSize)
	return e.state
}

// CurrentPage loads artwork details for the current page. Individual
// item failures are reported inline in the page items, never as a page
// error.
func (e *Explorer) CurrentPage(ctx context.Context) (*Page, error) {
	e.mu.Lock()
	result := e.result
	state := e.state
	e.mu.Unlock()

	if result == nil {
		return nil, ErrNoActiveSearch
	}

	slice := state.Slice(result.ObjectIDs)
	items := e.loader.LoadPage(ctx, slice)

	return &Page{
		State: state,
		Items: items,
	}, nil
}
