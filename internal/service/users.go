package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/notibox/internal/cache"
	"github.com/dropDatabas3/notibox/internal/observability/logger"
	"github.com/dropDatabas3/notibox/internal/store/core"
)

// apiKeyLen es el largo fijo de las API keys emitidas.
const apiKeyLen = 32

// keyCacheTTL acota cuánto vive el mapeo api_key → user_id en cache.
const keyCacheTTL = 5 * time.Minute

// UserService administra cuentas y su cuota diaria de emails.
type UserService struct {
	repo  core.UserRepository
	cache cache.Client
}

func NewUserService(repo core.UserRepository, c cache.Client) *UserService {
	return &UserService{repo: repo, cache: c}
}

// CreateUser registra una cuenta nueva con una API key fresca.
// Chequea username primero y email después; el duplicado se señala con
// *ConflictError y no muta el store.
func (s *UserService) CreateUser(ctx context.Context, username, email string) (*core.User, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("CreateUser"))

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, usernameTaken(username)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, emailRegistered(email)
	} else if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u := &core.User{
		ID:              uuid.NewString(),
		Username:        username,
		Email:           email,
		APIKey:          generateAPIKey(),
		CreatedAt:       now,
		LastResetDate:   now,
		IsActive:        true,
		DailyEmailLimit: core.DefaultDailyEmailLimit,
		EmailsSentToday: 0,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		var conflict *core.ConflictError
		if errors.As(err, &conflict) {
			// Carrera entre el chequeo y el insert: mismo contrato que el
			// chequeo secuencial.
			switch conflict.Field {
			case "username":
				return nil, usernameTaken(username)
			case "email":
				return nil, emailRegistered(email)
			}
		}
		return nil, err
	}

	log.Info("email API user created", logger.Username(username), logger.UserID(u.ID))
	return u, nil
}

// generateAPIKey produce una credencial opaca URL-safe de largo fijo:
// 24 bytes de crypto/rand en base64 sin padding dan exactamente 32 chars,
// sin '+' ni '/'.
func generateAPIKey() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand no falla en la práctica; si lo hace no hay
		// credencial segura que emitir.
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:apiKeyLen]
}

// GetByAPIKey resuelve la cuenta para una API key, pasando por el cache
// de mapeo api_key → user_id.
func (s *UserService) GetByAPIKey(ctx context.Context, apiKey string) (*core.User, error) {
	if s.cache != nil {
		if id, err := s.cache.Get(ctx, "ak:"+apiKey); err == nil {
			u, err := s.repo.GetByID(ctx, id)
			if err == nil && u.APIKey == apiKey {
				return u, nil
			}
			// Entrada vencida (cuenta borrada o key rotada): limpiar y seguir.
			_ = s.cache.Delete(ctx, "ak:"+apiKey)
		}
	}

	u, err := s.repo.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, "ak:"+apiKey, u.ID, keyCacheTTL)
	}
	return u, nil
}

// Validate responde si la key puede enviar un email más hoy.
// Aplica el lazy reset: si la fecha UTC del último reset quedó atrás,
// el contador vuelve a cero antes de evaluar el límite.
func (s *UserService) Validate(ctx context.Context, apiKey string) bool {
	u, err := s.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return false
	}

	if utcDate(u.LastResetDate).Before(utcDate(time.Now())) {
		u.EmailsSentToday = 0
		u.LastResetDate = time.Now().UTC()
		if !s.repo.Update(ctx, u) {
			logger.From(ctx).Warn("lazy counter reset not persisted",
				logger.Layer("service"), logger.UserID(u.ID))
		}
	}

	return u.IsActive && u.EmailsSentToday < u.DailyEmailLimit
}

// RecordSend suma uno al contador del usuario y persiste.
// No aplica tope acá: el límite se chequea solo en Validate, y la ventana
// entre ambos puede dejar pasar un email de más bajo concurrencia.
func (s *UserService) RecordSend(ctx context.Context, userID string) bool {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return false
	}

	u.EmailsSentToday++
	logger.From(ctx).Info("email counted against daily quota",
		logger.Layer("service"), logger.Username(u.Username),
		logger.Int("sent_today", u.EmailsSentToday))

	return s.repo.Update(ctx, u)
}

// ResetAll pone en cero el contador de todos los usuarios y estampa la fecha
// de reset. Intenta todos aunque alguno falle; retorna el AND de todos los
// updates.
func (s *UserService) ResetAll(ctx context.Context) bool {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("ResetAll"))

	users, err := s.repo.List(ctx)
	if err != nil {
		log.Error("listing users for reset failed", logger.Err(err))
		return false
	}

	now := time.Now().UTC()
	ok := true
	for _, u := range users {
		u.EmailsSentToday = 0
		u.LastResetDate = now
		ok = s.repo.Update(ctx, u) && ok
	}

	log.Info("daily email counters reset", logger.Count(len(users)))
	return ok
}

// List retorna todas las cuentas (uso administrativo).
func (s *UserService) List(ctx context.Context) ([]*core.User, error) {
	return s.repo.List(ctx)
}

// Delete elimina una cuenta. Retorna false si no existe.
func (s *UserService) Delete(ctx context.Context, id string) bool {
	u, err := s.repo.GetByID(ctx, id)
	if err == nil && s.cache != nil {
		_ = s.cache.Delete(ctx, "ak:"+u.APIKey)
	}
	return s.repo.Delete(ctx, id)
}

// utcDate trunca un instante a su fecha calendario UTC.
func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
