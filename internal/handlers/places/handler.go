// internal/handlers/places/handler.go
package places

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"freeflow-backend/internal/common/errors"
	"freeflow-backend/internal/common/logger"
	"freeflow-backend/internal/common/metrics"
)

const HandlerName = "places-search"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(cfg *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config:       cfg,
		client:       client,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"handler": HandlerName}),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.RequestsTotal.WithLabelValues(HandlerName).Inc()
	defer func() {
		metrics.RequestDuration.WithLabelValues(HandlerName).Observe(time.Since(start).Seconds())
	}()

	query, parseErr := parseQuery(r)
	if parseErr != nil {
		h.fail(w, parseErr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	result, searchErr := executeSearch(ctx, h.client, h.config.Index, *query)
	if searchErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			h.fail(w, errors.NewSearchTimeoutError())
			return
		}
		h.fail(w, errors.NewSearchQueryFailedError(searchErr))
		return
	}

	h.logger.Info("search completed", map[string]interface{}{
		"term":      query.Term,
		"totalHits": result.TotalHits,
		"tookMs":    result.Took,
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{OK: true, Data: result})
}

func parseQuery(r *http.Request) (*SearchQuery, *errors.StandardError) {
	params := r.URL.Query()

	query := SearchQuery{
		Term:     params.Get("q"),
		Category: params.Get("category"),
		City:     params.Get("city"),
		Size:     defaultPageSize,
	}

	if query.Term == "" && query.Category == "" && query.City == "" {
		return nil, errors.NewValidationFailedError("at least one of q, category or city is required")
	}

	if raw := params.Get("from"); raw != "" {
		from, err := strconv.Atoi(raw)
		if err != nil || from < 0 {
			return nil, errors.NewValidationFailedError("from must be a non-negative integer")
		}
		query.From = from
	}

	if raw := params.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return nil, errors.NewValidationFailedError("size must be a positive integer")
		}
		if size > maxPageSize {
			size = maxPageSize
		}
		query.Size = size
	}

	return &query, nil
}

func (h *Handler) fail(w http.ResponseWriter, stdErr *errors.StandardError) {
	metrics.RequestsFailed.WithLabelValues(HandlerName, string(stdErr.Code)).Inc()
	h.errorHandler.WriteError(w, stdErr)
}
