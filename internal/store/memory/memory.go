// Package memory implementa core.UserRepository en memoria.
// Útil para desarrollo y testing: respeta las mismas convenciones de error
// que el driver de Postgres (unicidad de username/email/api_key incluida).
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/dropDatabas3/notibox/internal/store/core"
)

type Store struct {
	mu    sync.RWMutex
	users map[string]*core.User // por ID

	// Update puede forzarse a fallar desde tests.
	FailUpdateFor map[string]bool
}

func New() *Store {
	return &Store{users: make(map[string]*core.User)}
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close()                         {}

func clone(u *core.User) *core.User {
	cp := *u
	return &cp
}

func (s *Store) Create(ctx context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ex := range s.users {
		switch {
		case strings.EqualFold(ex.Username, u.Username):
			return core.Conflict("username")
		case strings.EqualFold(ex.Email, u.Email):
			return core.Conflict("email")
		case ex.APIKey == u.APIKey:
			return core.Conflict("api_key")
		}
	}
	if _, ok := s.users[u.ID]; ok {
		return core.Conflict("id")
	}
	s.users[u.ID] = clone(u)
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return clone(u), nil
	}
	return nil, core.ErrNotFound
}

func (s *Store) getBy(match func(*core.User) bool) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*core.User, error) {
	return s.getBy(func(u *core.User) bool { return strings.EqualFold(u.Username, username) })
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*core.User, error) {
	return s.getBy(func(u *core.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *Store) GetByAPIKey(ctx context.Context, apiKey string) (*core.User, error) {
	return s.getBy(func(u *core.User) bool { return u.APIKey == apiKey })
}

func (s *Store) Update(ctx context.Context, u *core.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdateFor[u.ID] {
		return false
	}
	if _, ok := s.users[u.ID]; !ok {
		return false
	}
	s.users[u.ID] = clone(u)
	return true
}

func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}

func (s *Store) List(ctx context.Context) ([]*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, clone(u))
	}
	return out, nil
}
