// Package telegram envuelve las tres operaciones que usamos del
// Telegram Bot HTTP API: alta y baja de webhook, y envío de mensajes.
//
// Cada operación retorna un booleano derivado del campo `ok` de la
// respuesta remota. Un status no-2xx o JSON malformado cuentan como fallo:
// se loguean y nunca se propagan como panic.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dropDatabas3/notibox/internal/metrics"
	"github.com/dropDatabas3/notibox/internal/observability/logger"
)

const defaultAPIBase = "https://api.telegram.org"

// Client es el cliente del Bot API.
type Client struct {
	token         string
	defaultChatID string
	base          string // override para tests
	http          *http.Client
}

// Option configura el Client.
type Option func(*Client)

// WithBaseURL cambia el endpoint del API (tests).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = base }
}

// WithHTTPClient cambia el http.Client subyacente.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New crea un cliente del Bot API para el token dado.
// defaultChatID puede ser vacío si todos los envíos traen chat explícito.
func New(token, defaultChatID string, opts ...Option) *Client {
	c := &Client{
		token:         token,
		defaultChatID: defaultChatID,
		base:          defaultAPIBase,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.base, c.token, method)
}

// call ejecuta un método del Bot API y decodifica el sobre de respuesta.
func (c *Client) call(ctx context.Context, method string, query url.Values, body any) (*apiResponse, error) {
	u := c.endpoint(method)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var (
		req *http.Request
		err error
	)
	if body != nil {
		payload, merr := json.Marshal(body)
		if merr != nil {
			return nil, merr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: "unexpected status from Bot API"}
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "malformed Bot API response"}
	}
	return &out, nil
}

// SetWebhook registra la URL de webhook del bot.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) bool {
	log := logger.From(ctx).With(logger.Component("telegram"))

	q := url.Values{}
	q.Set("url", webhookURL)
	res, err := c.call(ctx, "setWebhook", q, nil)
	if err != nil {
		log.Error("setting webhook failed", logger.Err(err))
		metrics.TelegramCalls.WithLabelValues("setWebhook", "error").Inc()
		return false
	}
	if !res.Ok {
		log.Warn("Bot API refused webhook", logger.String("description", res.Description))
		metrics.TelegramCalls.WithLabelValues("setWebhook", "refused").Inc()
		return false
	}

	log.Info("telegram webhook set", logger.String("url", webhookURL))
	metrics.TelegramCalls.WithLabelValues("setWebhook", "ok").Inc()
	return true
}

// DeleteWebhook da de baja el webhook del bot.
func (c *Client) DeleteWebhook(ctx context.Context) bool {
	log := logger.From(ctx).With(logger.Component("telegram"))

	res, err := c.call(ctx, "deleteWebhook", nil, nil)
	if err != nil {
		log.Error("deleting webhook failed", logger.Err(err))
		metrics.TelegramCalls.WithLabelValues("deleteWebhook", "error").Inc()
		return false
	}
	if !res.Ok {
		log.Warn("Bot API refused webhook removal", logger.String("description", res.Description))
		metrics.TelegramCalls.WithLabelValues("deleteWebhook", "refused").Inc()
		return false
	}

	log.Info("telegram webhook deleted")
	metrics.TelegramCalls.WithLabelValues("deleteWebhook", "ok").Inc()
	return true
}

// SendMessage envía texto a un chat. Con chatID nil usa el chat por defecto
// de la configuración.
func (c *Client) SendMessage(ctx context.Context, text string, chatID *int64) bool {
	log := logger.From(ctx).With(logger.Component("telegram"))

	target := c.defaultChatID
	if chatID != nil {
		target = strconv.FormatInt(*chatID, 10)
	}
	if target == "" {
		log.Warn("no chat id for message: neither explicit nor default")
		return false
	}

	payload := map[string]any{
		"chat_id":    target,
		"text":       text,
		"parse_mode": "HTML",
	}
	res, err := c.call(ctx, "sendMessage", nil, payload)
	if err != nil {
		log.Error("sending message failed", logger.Err(err))
		metrics.TelegramCalls.WithLabelValues("sendMessage", "error").Inc()
		return false
	}
	if !res.Ok {
		log.Warn("Bot API refused message", logger.String("description", res.Description))
		metrics.TelegramCalls.WithLabelValues("sendMessage", "refused").Inc()
		return false
	}

	metrics.TelegramCalls.WithLabelValues("sendMessage", "ok").Inc()
	return true
}

// HandleUpdate procesa un update entrante del webhook.
// Comportamiento actual: eco del texto recibido al chat de origen.
func (c *Client) HandleUpdate(ctx context.Context, upd Update) {
	if upd.Message == nil || upd.Message.Chat == nil || upd.Message.Text == "" {
		return
	}
	chatID := upd.Message.Chat.ID
	c.SendMessage(ctx, "You said: "+upd.Message.Text, &chatID)
}
