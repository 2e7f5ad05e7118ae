package telegram

import (
	"context"
	"strings"

	"github.com/dropDatabas3/notibox/internal/observability/logger"
)

// InitOptions controla el registro automático del webhook al arrancar.
type InitOptions struct {
	AutoSetWebhook bool
	WebhookBaseURL string
}

// Initialize registra el webhook al boot si la configuración lo pide.
// Un fallo acá no tumba el proceso: el webhook puede registrarse después
// vía GET /api/telegram/setup-webhook.
func Initialize(ctx context.Context, c *Client, opts InitOptions) {
	log := logger.Named("telegram.init")

	if !opts.AutoSetWebhook {
		log.Info("automatic webhook setup is disabled")
		return
	}
	if opts.WebhookBaseURL == "" {
		log.Warn("webhook base URL not configured, cannot set webhook automatically")
		return
	}

	webhookURL := strings.TrimRight(opts.WebhookBaseURL, "/") + "/telegram/webhook"
	if c.SetWebhook(ctx, webhookURL) {
		log.Info("telegram webhook registered at boot", logger.String("url", webhookURL))
	} else {
		log.Warn("failed to register telegram webhook at boot")
	}
}
