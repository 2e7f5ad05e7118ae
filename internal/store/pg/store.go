package pg

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/notibox/internal/observability/logger"
	"github.com/dropDatabas3/notibox/internal/store/core"
)

// Store implementa core.UserRepository sobre PostgreSQL (pgxpool).
type Store struct{ pool *pgxpool.Pool }

// Config afina el pool de conexiones.
type Config struct {
	MaxOpenConns    int
	MinIdleConns    int
	ConnMaxLifetime string
}

func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	// Mapear MinIdleConns → MinConns (pgxpool)
	if cfg.MinIdleConns > 0 {
		pcfg.MinConns = int32(cfg.MinIdleConns)
	}
	if cfg.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 5
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	// Arranque no bloqueante: si la DB está caída igual levantamos el proceso.
	log := logger.Named("store.pg")
	if err := pool.Ping(ctx); err != nil {
		log.Warn("startup ping failed", logger.Err(err))
	} else {
		log.Info("pool ready", logger.Int("max_conns", int(pcfg.MaxConns)))
	}

	return &Store{pool: pool}, nil
}

// Pool expone el pool interno (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

const userCols = `id, username, email, api_key, created_at, last_reset_date, is_active, daily_email_limit, emails_sent_today`

func scanUser(row pgx.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.APIKey,
		&u.CreatedAt, &u.LastResetDate, &u.IsActive,
		&u.DailyEmailLimit, &u.EmailsSentToday,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) Create(ctx context.Context, u *core.User) error {
	const q = `INSERT INTO email_user (` + userCols + `)
	           VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := s.pool.Exec(ctx, q,
		u.ID, u.Username, u.Email, u.APIKey,
		u.CreatedAt, u.LastResetDate, u.IsActive,
		u.DailyEmailLimit, u.EmailsSentToday,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return core.Conflict(conflictField(pgErr.ConstraintName))
		}
		return err
	}
	return nil
}

// conflictField mapea el nombre del índice único al campo en conflicto.
func conflictField(constraint string) string {
	switch {
	case strings.Contains(constraint, "username"):
		return "username"
	case strings.Contains(constraint, "api_key"):
		return "api_key"
	case strings.Contains(constraint, "email"):
		return "email"
	default:
		return constraint
	}
}

func (s *Store) GetByID(ctx context.Context, id string) (*core.User, error) {
	const q = `SELECT ` + userCols + ` FROM email_user WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*core.User, error) {
	const q = `SELECT ` + userCols + ` FROM email_user WHERE LOWER(username) = LOWER($1)`
	return scanUser(s.pool.QueryRow(ctx, q, username))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*core.User, error) {
	const q = `SELECT ` + userCols + ` FROM email_user WHERE LOWER(email) = LOWER($1)`
	return scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *Store) GetByAPIKey(ctx context.Context, apiKey string) (*core.User, error) {
	const q = `SELECT ` + userCols + ` FROM email_user WHERE api_key = $1`
	return scanUser(s.pool.QueryRow(ctx, q, apiKey))
}

// Update persiste todos los campos mutables. Retorna false (y loguea) si la
// escritura falla o no tocó ninguna fila: el caller lo trata como fallo blando.
func (s *Store) Update(ctx context.Context, u *core.User) bool {
	const q = `UPDATE email_user
	           SET username=$2, email=$3, api_key=$4, last_reset_date=$5,
	               is_active=$6, daily_email_limit=$7, emails_sent_today=$8
	           WHERE id=$1`
	tag, err := s.pool.Exec(ctx, q,
		u.ID, u.Username, u.Email, u.APIKey, u.LastResetDate,
		u.IsActive, u.DailyEmailLimit, u.EmailsSentToday,
	)
	if err != nil {
		logger.From(ctx).Error("user update failed",
			logger.Component("store.pg"), logger.UserID(u.ID), logger.Err(err))
		return false
	}
	return tag.RowsAffected() > 0
}

func (s *Store) Delete(ctx context.Context, id string) bool {
	const q = `DELETE FROM email_user WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		logger.From(ctx).Error("user delete failed",
			logger.Component("store.pg"), logger.UserID(id), logger.Err(err))
		return false
	}
	return tag.RowsAffected() > 0
}

func (s *Store) List(ctx context.Context) ([]*core.User, error) {
	const q = `SELECT ` + userCols + ` FROM email_user ORDER BY created_at`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
