// internal/handlers/routeorder/handler.go
package routeorder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"freeflow-backend/internal/common/errors"
	"freeflow-backend/internal/common/logger"
	"freeflow-backend/internal/common/metrics"
	"freeflow-backend/internal/common/validation"
	"freeflow-backend/internal/models"
	"freeflow-backend/internal/notify"
	"freeflow-backend/internal/routing"
)

const HandlerName = "route-order"

// Notifier is the order-routed notification hook. Implementations must be
// best effort; a nil receipt means delivery was skipped.
type Notifier interface {
	OrderRouted(ctx context.Context, business *models.Business, order *models.Order, result *models.RoutingResult) *notify.Receipt
}

type Handler struct {
	config       *Config
	engine       *routing.Engine
	gateway      routing.Gateway
	notifier     Notifier
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler wires the routing engine behind the order endpoint. notifier may
// be nil when notifications are disabled.
func NewHandler(cfg *Config, engine *routing.Engine, gateway routing.Gateway, notifier Notifier, log logger.Logger) *Handler {
	return &Handler{
		config:       cfg,
		engine:       engine,
		gateway:      gateway,
		notifier:     notifier,
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

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.fail(w, errors.NewInvalidOrderError("unreadable request body"))
		return
	}

	result, validationErr := validation.ValidateJSON(orderSchema, body)
	if validationErr != nil {
		h.fail(w, errors.NewInvalidOrderError("request body is not valid JSON"))
		return
	}
	if !result.Valid {
		h.fail(w, errors.NewInvalidOrderError(result.ErrorString()))
		return
	}

	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		h.fail(w, errors.NewInvalidOrderError(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	orderID := uuid.New().String()
	h.logger.Info("routing order", map[string]interface{}{
		"orderId":   orderID,
		"itemCount": len(order.Items),
	})

	decision := h.engine.Route(ctx, order)

	response := Response{
		OK:      true,
		OrderID: orderID,
		Result:  decision,
	}

	if decision.Reason != models.ReasonNoMatch && h.notifier != nil && h.config.NotificationEnabled {
		response.Notification = h.notifyBusiness(ctx, &order, &decision)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// notifyBusiness resolves the routed business and fires the notification.
// Failures here never affect the routing response.
func (h *Handler) notifyBusiness(ctx context.Context, order *models.Order, decision *models.RoutingResult) *notify.Receipt {
	business, err := h.gateway.GetBusiness(ctx, decision.BusinessID)
	if err != nil || business == nil {
		h.logger.Warn("routed business lookup failed, skipping notification", map[string]interface{}{
			"businessId": decision.BusinessID,
		})
		return nil
	}
	return h.notifier.OrderRouted(ctx, business, order, decision)
}

func (h *Handler) fail(w http.ResponseWriter, stdErr *errors.StandardError) {
	metrics.RequestsFailed.WithLabelValues(HandlerName, string(stdErr.Code)).Inc()
	h.errorHandler.WriteError(w, stdErr)
}
