// Command met-explorer serves the collection browse core over HTTP for
// presentation layers to consume.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/thdms4101-lab/Open-API-MET-Museum/internal/config"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/batch"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/cache"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/client"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/logging"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/met"
	"github.com/thdms4101-lab/Open-API-MET-Museum/pkg/pagination"
)

// pageStateFor builds the page window for a request, clamping the
// requested page into the valid range.
func pageStateFor(pageSize, totalItems, page int) pagination.PageState {
	return pagination.New(pageSize, totalItems).WithPage(page)
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLogger := logging.Setup(logging.DefaultConfig())
		bootLogger.Fatal().Err(err).Msg("Failed to load config")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.LogLevel)
	logger := logging.Setup(logCfg)

	apiClient, err := client.New(client.Config{
		BaseURL:   cfg.API.BaseURL,
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.API.Timeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create collection API client")
	}

	store := newStore(cfg, logger)
	responseCache := cache.New(store, cfg.Cache.TTL)

	searchService := met.NewSearchService(apiClient, responseCache)
	objectService := met.NewObjectService(apiClient, responseCache)
	loader := batch.NewLoader(objectService, batch.Config{
		MaxConcurrency: cfg.Batch.MaxConcurrency,
	})

	srv := &server{
		search:  searchService,
		objects: objectService,
		loader:  loader,
		cfg:     cfg,
		logger:  logging.NewLogger("http"),
	}

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Str("base_url", cfg.API.BaseURL).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("Starting met-explorer server")

	if err := http.ListenAndServe(cfg.Server.Addr, newRouter(srv)); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// newStore picks the cache backend: Redis when configured, otherwise the
// in-process store.
func newStore(cfg *config.Config, logger zerolog.Logger) cache.Store {
	if cfg.Cache.RedisAddr == "" {
		return cache.NewMemoryStore()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("addr", cfg.Cache.RedisAddr).Msg("Using Redis cache backend")

	return cache.NewRedisStore(redisClient)
}

type server struct {
	search  *met.SearchService
	objects *met.ObjectService
	loader  *batch.Loader
	cfg     *config.Config
	logger  zerolog.Logger
}

func newRouter(s *server) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/api/objects/{id:[0-9]+}", s.handleObject).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

type itemResponse struct {
	ObjectID int          `json:"objectID"`
	Artwork  *met.Artwork `json:"artwork,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type searchResponse struct {
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
	Items      []itemResponse `json:"items"`
}

// handleSearch runs a search and loads the requested page of details.
// Item failures are reported inline; only a failed search is an error
// response.
func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	onlyWithImages := s.cfg.Explorer.ImagesOnly()
	if raw := r.URL.Query().Get("hasImages"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "hasImages must be a boolean")
			return
		}
		onlyWithImages = parsed
	}

	pageSize := s.cfg.Explorer.PageSize
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < config.MinPageSize || parsed > config.MaxPageSize {
			writeError(w, http.StatusBadRequest, "pageSize must be an integer between 5 and 50")
			return
		}
		pageSize = parsed
	}

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "page must be a non-negative integer")
			return
		}
		page = parsed
	}

	result, err := s.search.Search(r.Context(), query, onlyWithImages)
	if err != nil {
		if errors.Is(err, met.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("query", query).Msg("Search unavailable")
		writeError(w, http.StatusBadGateway, "search unavailable")
		return
	}

	state := pageStateFor(pageSize, len(result.ObjectIDs), page)
	slice := state.Slice(result.ObjectIDs)
	items := s.loader.LoadPage(r.Context(), slice)

	resp := searchResponse{
		Total:      result.Total,
		Page:       state.Index,
		PageSize:   state.PageSize,
		TotalPages: state.TotalPages(),
		Items:      make([]itemResponse, 0, len(items)),
	}
	for _, item := range items {
		ir := itemResponse{ObjectID: item.ObjectID, Artwork: item.Artwork}
		if item.Err != nil {
			ir.Error = "unavailable"
		}
		resp.Items = append(resp.Items, ir)
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleObject returns the detail record for one object.
func (s *server) handleObject(w http.ResponseWriter, r *http.Request) {
	objectID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid object id")
		return
	}

	artwork, err := s.objects.Details(r.Context(), objectID)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "object not found")
			return
		}
		s.logger.Error().Err(err).Int("object_id", objectID).Msg("Object unavailable")
		writeError(w, http.StatusBadGateway, "object unavailable")
		return
	}

	writeJSON(w, http.StatusOK, artwork)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
