package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

const (
	depHealthy       = "healthy"
	depNotConfigured = "not configured"
)

type healthCheck struct {
	name  string
	ping func(ctx context.Context) error // nil quando a dependência não foi configurada
}

type HealthHandler struct {
	checks    []healthCheck
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

// NewHealthHandler verifica Postgres, Redis e RabbitMQ. O motor de workflow
// só aparece como configurado ou não, já que não expõe um ping.
func NewHealthHandler(db *sql.DB, rdb *redis.Client, rabbitMQ *amqp091.Connection, workflowURL string) *HealthHandler {
	h := &HealthHandler{StartTime: time.Now()}

	h.add("database", db != nil, func(ctx context.Context) error { return db.PingContext(ctx) })
	h.add("redis", rdb != nil, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	h.add("rabbitmq", rabbitMQ != nil, func(context.Context) error {
		if rabbitMQ.IsClosed() {
			return errors.New("connection closed")
		}
		return nil
	})
	h.add("workflow", workflowURL != "", func(context.Context) error { return nil })

	return h
}

func (h *HealthHandler) add(name string, configured bool, ping func(ctx context.Context) error) {
	if !configured {
		ping = nil
	}
	h.checks = append(h.checks, healthCheck{name: name, ping: ping})
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := depHealthy, http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if c.ping == nil {
			deps[c.name] = depNotConfigured
			continue
		}
		if err := c.ping(ctx); err != nil {
			deps[c.name] = "unhealthy: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[c.name] = depHealthy
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
