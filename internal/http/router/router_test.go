package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/notibox/internal/cache"
	"github.com/dropDatabas3/notibox/internal/email"
	"github.com/dropDatabas3/notibox/internal/http/controllers"
	"github.com/dropDatabas3/notibox/internal/http/router"
	"github.com/dropDatabas3/notibox/internal/service"
	"github.com/dropDatabas3/notibox/internal/store/memory"
	"github.com/dropDatabas3/notibox/internal/telegram"
)

type captureSender struct {
	sent []email.Message
	err  error
}

func (s *captureSender) Send(msg email.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

// env es el stack completo del servicio contra backends en memoria y un
// Bot API simulado.
type env struct {
	handler http.Handler
	repo    *memory.Store
	sender  *captureSender
	botHits *[]string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	var botHits []string
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		botHits = append(botHits, r.URL.Path+"?"+r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(bot.Close)

	repo := memory.New()
	users := service.NewUserService(repo, cache.NewMemory("test"))
	sender := &captureSender{}
	emails := service.NewEmailService(users, sender)
	tg := telegram.New("test-token", "99", telegram.WithBaseURL(bot.URL))

	h := router.New(router.Deps{
		Users:    controllers.NewUsersController(users),
		Email:    controllers.NewEmailController(emails),
		Telegram: controllers.NewTelegramController(tg),
		Health:   controllers.NewHealthController(repo, nil),
	})

	return &env{handler: h, repo: repo, sender: sender, botHits: &botHits}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *env) do(t *testing.T, method, path, body string, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var out envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (e *env) createUser(t *testing.T, username, mail string) (id, apiKey string) {
	t.Helper()
	rec, env := e.do(t, http.MethodPost, "/users",
		`{"username":"`+username+`","email":"`+mail+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	var data struct {
		ID     string `json:"Id"`
		APIKey string `json:"ApiKey"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.ID, data.APIKey
}

func TestCreateUser(t *testing.T) {
	e := newEnv(t)

	rec, env := e.do(t, http.MethodPost, "/users",
		`{"username":"alice","email":"alice@example.com"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	require.Equal(t, "User created successfully", env.Message)

	var data struct {
		ID              string `json:"Id"`
		Username        string `json:"Username"`
		Email           string `json:"Email"`
		APIKey          string `json:"ApiKey"`
		IsActive        bool   `json:"IsActive"`
		DailyEmailLimit int    `json:"DailyEmailLimit"`
		EmailsSentToday int    `json:"EmailsSentToday"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.ID)
	require.Equal(t, "alice", data.Username)
	require.Equal(t, "alice@example.com", data.Email)
	require.Len(t, data.APIKey, 32)
	require.NotContains(t, data.APIKey, "+")
	require.NotContains(t, data.APIKey, "/")
	require.True(t, data.IsActive)
	require.Equal(t, 100, data.DailyEmailLimit)
	require.Zero(t, data.EmailsSentToday)
}

func TestCreateUser_Duplicates(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "alice", "alice@example.com")

	rec, env := e.do(t, http.MethodPost, "/users",
		`{"username":"alice","email":"other@example.com"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
	require.Contains(t, env.Message, "already taken")

	rec, env = e.do(t, http.MethodPost, "/users",
		`{"username":"bob","email":"alice@example.com"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
	require.Contains(t, env.Message, "already registered")
}

func TestCreateUser_MissingFields(t *testing.T) {
	e := newEnv(t)

	rec, env := e.do(t, http.MethodPost, "/users", `{"username":"alice"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Username and email are required", env.Message)
}

func TestListAndDeleteUsers(t *testing.T) {
	e := newEnv(t)
	id, _ := e.createUser(t, "alice", "alice@example.com")

	rec, env := e.do(t, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)

	rec, env = e.do(t, http.MethodDelete, "/users/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	rec, env = e.do(t, http.MethodDelete, "/users/"+id, "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User not found", env.Message)
}

func TestSendEmail(t *testing.T) {
	e := newEnv(t)
	_, key := e.createUser(t, "alice", "alice@example.com")

	rec, env := e.do(t, http.MethodPost, "/email/send",
		`{"to":"dest@example.com","subject":"hola","body":"<b>hola</b>","isHtml":true}`,
		map[string]string{"apiKey": key})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	require.Equal(t, "Email sent successfully", env.Message)
	require.Equal(t, "true", strings.TrimSpace(string(env.Data)))

	require.Len(t, e.sender.sent, 1)
	require.Equal(t, "dest@example.com", e.sender.sent[0].To)
	require.True(t, e.sender.sent[0].IsHTML)
}

func TestSendEmail_MissingAPIKey(t *testing.T) {
	e := newEnv(t)

	rec, env := e.do(t, http.MethodPost, "/email/send",
		`{"to":"dest@example.com","subject":"hola"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "API key is required", env.Message)
}

func TestSendEmail_MissingFields(t *testing.T) {
	e := newEnv(t)

	rec, env := e.do(t, http.MethodPost, "/email/send",
		`{"subject":"hola"}`, map[string]string{"apiKey": "whatever"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Recipient and subject are required", env.Message)
}

func TestSendEmail_UnknownKeyIsSoftFailure(t *testing.T) {
	e := newEnv(t)

	rec, env := e.do(t, http.MethodPost, "/email/send",
		`{"to":"dest@example.com","subject":"hola"}`,
		map[string]string{"apiKey": "bogus-key"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "Failed to send email. Check API key or daily limit", env.Message)
	require.Equal(t, "false", strings.TrimSpace(string(env.Data)))
}

func TestSendEmail_QuotaExhausted(t *testing.T) {
	e := newEnv(t)
	_, key := e.createUser(t, "alice", "alice@example.com")

	ctx := context.Background()
	u, err := e.repo.GetByAPIKey(ctx, key)
	require.NoError(t, err)
	u.EmailsSentToday = u.DailyEmailLimit
	require.True(t, e.repo.Update(ctx, u))

	rec, env := e.do(t, http.MethodPost, "/email/send",
		`{"to":"dest@example.com","subject":"hola"}`,
		map[string]string{"apiKey": key})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Failed to send email. Check API key or daily limit", env.Message)
	require.Empty(t, e.sender.sent)
}

func TestSendEmail_InvalidRecipient(t *testing.T) {
	e := newEnv(t)
	_, key := e.createUser(t, "alice", "alice@example.com")

	rec, env := e.do(t, http.MethodPost, "/email/send",
		`{"to":"not-an-address","subject":"hola"}`,
		map[string]string{"apiKey": key})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, env.Message, "Invalid recipient address")
}

func TestAPIAliasRoutes(t *testing.T) {
	e := newEnv(t)

	// Las mismas rutas viven bajo /api.
	rec, env := e.do(t, http.MethodPost, "/api/users",
		`{"username":"alice","email":"alice@example.com"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)

	rec, _ = e.do(t, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTelegramWebhook_AlwaysOK(t *testing.T) {
	e := newEnv(t)

	// Update válido: se ecoa al chat de origen.
	rec, _ := e.do(t, http.MethodPost, "/telegram/webhook",
		`{"message":{"text":"ping","chat":{"id":42}}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, *e.botHits)

	// Body inválido: igual 200 para que Telegram no reintente.
	rec, _ = e.do(t, http.MethodPost, "/telegram/webhook", `not json at all`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTelegramSetupWebhook(t *testing.T) {
	e := newEnv(t)

	rec, env := e.do(t, http.MethodGet,
		"/telegram/setup-webhook?baseUrl=https://notibox.example.com", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	require.Equal(t,
		"Webhook successfully setup at https://notibox.example.com/telegram/webhook",
		env.Message)
}

func TestTelegramSend_DefaultMessage(t *testing.T) {
	e := newEnv(t)

	rec, env := e.do(t, http.MethodGet, "/telegram/send", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	require.NotEmpty(t, *e.botHits)
}

func TestHealthEndpoints(t *testing.T) {
	e := newEnv(t)

	rec, _ := e.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	rec, _ = e.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
