package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"talent-search/internal/app"
	"talent-search/internal/cache"
	"talent-search/internal/httputil"
	"talent-search/internal/search"
)

type searchRequest struct {
	Query string `json:"query" validate:"omitempty,max=500"`
	TopK  int    `json:"top_k" validate:"omitempty,min=1,max=20"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/search", searchHandler(deps))
	r.Post("/api/reindex", reindexHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("search service listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server error", "err", err)
	}
}

func searchHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if req.TopK == 0 {
			req.TopK = deps.Config.TopK
		}

		ctx := r.Context()

		// Cache lookup; failures fall through to a live search.
		cacheKey := cache.Key(strings.TrimSpace(req.Query), req.TopK)
		if strings.TrimSpace(req.Query) != "" {
			if cached, err := deps.Cache.GetResults(ctx, cacheKey); err == nil && cached != nil {
				deps.Log.Info("cache hit", "key", cacheKey)
				httputil.WriteJSON(w, http.StatusOK, map[string]any{"results": cached})
				return
			}
		}

		results, err := deps.Search.Search(ctx, req.Query, req.TopK)
		if err != nil {
			writeSearchError(deps.Log, w, err)
			return
		}

		cacheTTL := time.Duration(deps.Config.CacheTTL) * time.Second
		if err := deps.Cache.SetResults(ctx, cacheKey, results, cacheTTL); err != nil {
			deps.Log.Warn("failed to cache results", "err", err)
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
	}
}

// writeSearchError maps pipeline outcomes to the response contract.
// Validation and no-match are expected outcomes, not operational faults.
func writeSearchError(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, search.ErrNoQuery):
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error": "No query provided.",
		})
	case errors.Is(err, search.ErrRestricted):
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"detail": "The query is either inappropriate or contains restricted content.",
		})
	case errors.Is(err, search.ErrNoMatch):
		httputil.WriteJSON(w, http.StatusNotFound, map[string]any{
			"detail": "No matching employees found.",
		})
	default:
		httputil.Fail(log, w, "search failed", err, http.StatusInternalServerError)
	}
}

func reindexHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Search.Invalidate()
		if err := deps.Cache.Flush(r.Context()); err != nil {
			deps.Log.Warn("failed to flush result cache", "err", err)
		}
		deps.Log.Info("index invalidated, next search rebuilds")
		httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
			"status": "reindex scheduled",
		})
	}
}
