// Package router arma el chi.Router del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httpx "github.com/dropDatabas3/notibox/internal/http"
	"github.com/dropDatabas3/notibox/internal/http/controllers"
	"github.com/dropDatabas3/notibox/internal/rate"
)

// Deps contiene los controllers y opciones que el router necesita.
type Deps struct {
	Users    *controllers.UsersController
	Email    *controllers.EmailController
	Telegram *controllers.TelegramController
	Health   *controllers.HealthController

	// Metrics es el handler de /metrics (nil lo deshabilita).
	Metrics http.Handler

	// Limiter limita por IP los endpoints de negocio (nil lo deshabilita).
	// Health y metrics quedan afuera.
	Limiter rate.Limiter

	CORSAllowedOrigins []string
}

// New construye el router con la cadena de middlewares estándar.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.WithRequestID)
	r.Use(httpx.WithLogging)
	r.Use(httpx.WithMetrics)
	r.Use(httpx.WithRecovery)
	r.Use(httpx.WithSecurityHeaders)
	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(httpx.WithCORS(deps.CORSAllowedOrigins))
	}

	// Health / observabilidad
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	register := func(r chi.Router) {
		if deps.Limiter != nil {
			r.Use(httpx.WithRateLimit(deps.Limiter))
		}

		// Cuentas
		r.Post("/users", deps.Users.Create)
		r.Get("/users", deps.Users.List)
		r.Delete("/users/{id}", deps.Users.Delete)

		// Email
		r.Post("/email/send", deps.Email.Send)

		// Telegram
		r.Route("/telegram", func(r chi.Router) {
			r.Post("/webhook", deps.Telegram.Webhook)
			r.Get("/setup-webhook", deps.Telegram.SetupWebhook)
			r.Get("/remove-webhook", deps.Telegram.RemoveWebhook)
			r.Get("/send", deps.Telegram.Send)
		})
	}

	// Rutas canónicas en la raíz; alias bajo /api para clientes que migran
	// del despliegue anterior.
	r.Group(register)
	r.Route("/api", register)

	return r
}
