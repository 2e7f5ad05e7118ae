package controllers

import (
	"context"
	"net/http"
	"time"

	httpx "github.com/dropDatabas3/notibox/internal/http"
	"github.com/dropDatabas3/notibox/internal/store/core"
)

// Pinger es cualquier dependencia con chequeo de conexión (cache, lock store).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController maneja liveness y readiness.
type HealthController struct {
	repo  core.UserRepository
	extra map[string]Pinger
}

func NewHealthController(repo core.UserRepository, extra map[string]Pinger) *HealthController {
	return &HealthController{repo: repo, extra: extra}
}

// Healthz maneja GET /healthz: el proceso está vivo.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz maneja GET /readyz: el proceso puede atender tráfico.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := map[string]string{}
	ready := true

	if err := c.repo.Ping(ctx); err != nil {
		components["store"] = err.Error()
		ready = false
	} else {
		components["store"] = "ok"
	}

	for name, p := range c.extra {
		if err := p.Ping(ctx); err != nil {
			components[name] = err.Error()
			ready = false
		} else {
			components[name] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "unavailable"
	}

	httpx.WriteJSON(w, status, map[string]any{
		"status":     state,
		"components": components,
	})
}
