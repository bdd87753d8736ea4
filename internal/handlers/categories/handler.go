// internal/handlers/categories/handler.go
package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"freeflow-backend/internal/common/errors"
	"freeflow-backend/internal/common/logger"
	"freeflow-backend/internal/common/metrics"
	"freeflow-backend/internal/routing"
)

const HandlerName = "business-categories"

type Handler struct {
	config       *Config
	gateway      routing.Gateway
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(cfg *Config, gateway routing.Gateway, log logger.Logger) *Handler {
	return &Handler{
		config:       cfg,
		gateway:      gateway,
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

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	categories, err := h.gateway.ListCategories(ctx)
	if err != nil {
		metrics.RequestsFailed.WithLabelValues(HandlerName, string(errors.ErrCodeCategoryFetchError)).Inc()
		h.errorHandler.WriteError(w, errors.NewCategoryFetchError(err))
		return
	}

	response := Response{OK: true, Message: "Business categories fetched"}
	response.Data.Categories = categories
	response.Data.TotalCount = len(categories)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}
