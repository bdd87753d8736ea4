// internal/handlers/health/handler.go
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"

	"freeflow-backend/internal/common/logger"
)

const HandlerName = "health"

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	es     *elasticsearch.Client
	logger logger.Logger
}

// NewHandler accepts nil clients; a nil client reports as "disabled" in dbping.
func NewHandler(cfg *Config, db *sql.DB, rdb *redis.Client, es *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: cfg,
		db:     db,
		redis:  rdb,
		es:     es,
		logger: log.WithFields(map[string]interface{}{"handler": HandlerName}),
	}
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":  true,
		"env": h.config.Environment,
		"ts":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": h.config.Version,
		"commit":  h.config.Commit,
	})
}

func (h *Handler) Time(w http.ResponseWriter, _ *http.Request) {
	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"iso":     now.Format(time.RFC3339Nano),
		"epochMs": now.UnixMilli(),
	})
}

// DBPing checks every configured store and reports per-store status. The
// response is 200 only when all configured stores answer.
func (h *Handler) DBPing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.PingTimeout)
	defer cancel()

	stores := map[string]string{
		"postgres":      h.pingPostgres(ctx),
		"redis":         h.pingRedis(ctx),
		"elasticsearch": h.pingElasticsearch(ctx),
	}

	ok := true
	for _, status := range stores {
		if status != "ok" && status != "disabled" {
			ok = false
		}
	}

	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]interface{}{
		"ok":     ok,
		"stores": stores,
	})
}

func (h *Handler) pingPostgres(ctx context.Context) string {
	if h.db == nil {
		return "disabled"
	}
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("postgres ping failed", map[string]interface{}{"error": err.Error()})
		return err.Error()
	}
	return "ok"
}

func (h *Handler) pingRedis(ctx context.Context) string {
	if h.redis == nil {
		return "disabled"
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.Warn("redis ping failed", map[string]interface{}{"error": err.Error()})
		return err.Error()
	}
	return "ok"
}

func (h *Handler) pingElasticsearch(ctx context.Context) string {
	if h.es == nil {
		return "disabled"
	}
	res, err := h.es.Info(h.es.Info.WithContext(ctx))
	if err != nil {
		h.logger.Warn("elasticsearch ping failed", map[string]interface{}{"error": err.Error()})
		return err.Error()
	}
	defer res.Body.Close()
	if res.IsError() {
		return res.Status()
	}
	return "ok"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
