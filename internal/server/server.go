// internal/server/server.go
package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"freeflow-backend/internal/common/config"
	"freeflow-backend/internal/common/logger"
	"freeflow-backend/internal/common/observability"
	"freeflow-backend/internal/handlers/categories"
	"freeflow-backend/internal/handlers/chat"
	"freeflow-backend/internal/handlers/health"
	"freeflow-backend/internal/handlers/places"
	"freeflow-backend/internal/handlers/routeorder"
	"freeflow-backend/internal/handlers/tts"
	"freeflow-backend/internal/notify"
	"freeflow-backend/internal/routing"
)

// Dependencies carries the shared clients the handlers are built on. Redis,
// Elasticsearch and the notifier may be nil; the affected features degrade
// rather than fail.
type Dependencies struct {
	DB       *sql.DB
	Redis    *redis.Client
	ES       *elasticsearch.Client
	Notifier *notify.Notifier
	Obs      *observability.Observability
}

// New builds the HTTP server with all routes and middleware wired.
func New(cfg *config.Config, deps Dependencies, log logger.Logger) *http.Server {
	gateway := buildGateway(cfg, deps, log)
	engine := routing.NewEngine(gateway, log)

	routeOrderHandler := routeorder.NewHandler(routeorder.LoadConfig(cfg), engine, gateway, notifierOrNil(deps.Notifier), log)
	categoriesHandler := categories.NewHandler(categories.LoadConfig(cfg), gateway, log)
	healthHandler := health.NewHandler(health.LoadConfig(cfg), deps.DB, deps.Redis, deps.ES, log)
	ttsHandler := tts.NewHandler(tts.LoadConfig(cfg), log)
	chatHandler := chat.NewHandler(chat.LoadConfig(cfg), log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(CORS(cfg.Server.AllowedOrigins))
	router.Use(RequestLogger(log))
	if deps.Obs != nil {
		router.Use(Telemetry(deps.Obs))
	}

	router.Get("/healthz", healthHandler.Liveness)
	router.Get("/api/version", healthHandler.Version)
	router.Get("/api/time", healthHandler.Time)
	router.Get("/api/dbping", healthHandler.DBPing)
	router.Handle("/metrics", promhttp.Handler())

	if config.IsHandlerEnabled(cfg, routeorder.HandlerName) {
		router.Post("/api/orders/route", routeOrderHandler.ServeHTTP)
	}
	if config.IsHandlerEnabled(cfg, categories.HandlerName) {
		router.Get("/api/business-categories", categoriesHandler.ServeHTTP)
	}
	if config.IsHandlerEnabled(cfg, tts.HandlerName) {
		router.Post("/api/tts", ttsHandler.ServeHTTP)
	}
	if config.IsHandlerEnabled(cfg, chat.HandlerName) {
		router.Post("/api/chat", chatHandler.ServeHTTP)
	}

	if deps.ES != nil && config.IsHandlerEnabled(cfg, places.HandlerName) {
		placesHandler := places.NewHandler(places.LoadConfig(cfg), deps.ES, log)
		router.Get("/api/places/search", placesHandler.ServeHTTP)
	}

	return &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
}

// buildGateway stacks the Redis category cache on top of the Postgres store
// when Redis is available.
func buildGateway(cfg *config.Config, deps Dependencies, log logger.Logger) routing.Gateway {
	var gateway routing.Gateway = routing.NewPostgresGateway(deps.DB)
	if deps.Redis != nil {
		ttl := config.GetDuration(cfg.Routing.CategoryCacheTTL * 1000)
		gateway = routing.NewCachedGateway(gateway, deps.Redis, ttl, log)
	}
	return gateway
}

// notifierOrNil avoids handing the handler a typed nil interface.
func notifierOrNil(n *notify.Notifier) routeorder.Notifier {
	if n == nil {
		return nil
	}
	return n
}

// Shutdown drains in-flight requests.
func Shutdown(ctx context.Context, srv *http.Server) error {
	return srv.Shutdown(ctx)
}
