package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	httpx "github.com/dropDatabas3/notibox/internal/http"
	"github.com/dropDatabas3/notibox/internal/http/dto"
	"github.com/dropDatabas3/notibox/internal/observability/logger"
	"github.com/dropDatabas3/notibox/internal/telegram"
)

// TelegramController expone el webhook y los endpoints de administración
// del bot.
type TelegramController struct {
	bot *telegram.Client
}

func NewTelegramController(bot *telegram.Client) *TelegramController {
	return &TelegramController{bot: bot}
}

// Webhook maneja POST /telegram/webhook.
// Telegram reintenta ante cualquier cosa que no sea 200, así que acá se
// responde 200 siempre, incluso con un update que no pudimos procesar.
func (c *TelegramController) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("TelegramController.Webhook"))

	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		log.Warn("undecodable telegram update", logger.Err(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	c.bot.HandleUpdate(ctx, upd)
	w.WriteHeader(http.StatusOK)
}

// SetupWebhook maneja GET /api/telegram/setup-webhook?baseUrl=
func (c *TelegramController) SetupWebhook(w http.ResponseWriter, r *http.Request) {
	baseURL := r.URL.Query().Get("baseUrl")
	if baseURL == "" {
		// Sin baseUrl explícito, derivar del request.
		scheme := "http"
		if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
			scheme = "https"
		}
		baseURL = scheme + "://" + r.Host
	}

	webhookURL := strings.TrimRight(baseURL, "/") + "/telegram/webhook"
	if !c.bot.SetWebhook(r.Context(), webhookURL) {
		httpx.WriteJSON(w, http.StatusBadRequest, dto.FailData("Failed to setup webhook", false))
		return
	}

	httpx.WriteJSON(w, http.StatusOK,
		dto.OK("Webhook successfully setup at "+webhookURL, true))
}

// RemoveWebhook maneja GET /api/telegram/remove-webhook
func (c *TelegramController) RemoveWebhook(w http.ResponseWriter, r *http.Request) {
	if !c.bot.DeleteWebhook(r.Context()) {
		httpx.WriteJSON(w, http.StatusBadRequest, dto.FailData("Failed to remove webhook", false))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OK("Webhook successfully removed", true))
}

// Send maneja GET /api/telegram/send?message=
func (c *TelegramController) Send(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		message = "Test message from API"
	}

	if !c.bot.SendMessage(r.Context(), message, nil) {
		httpx.WriteJSON(w, http.StatusBadRequest, dto.FailData("Failed to send message", false))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, dto.OK("Message sent successfully", true))
}
