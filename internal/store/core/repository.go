package core

import "context"

// UserRepository define la persistencia de cuentas de email.
//
// Convenciones de error:
//   - Lookups retornan ErrNotFound cuando no hay fila (no es un error "duro").
//   - Create retorna *ConflictError cuando username/email/api_key ya existen.
//   - Update/Delete retornan bool de éxito: el caller trata false como
//     fallo blando (se loguea la causa en el driver, no se propaga).
type UserRepository interface {
	Ping(ctx context.Context) error
	Close()

	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*User, error)
	Update(ctx context.Context, u *User) bool
	Delete(ctx context.Context, id string) bool
	List(ctx context.Context) ([]*User, error)
}
