// Package lock provee un lock distribuido con lease para coordinar el
// reset diario de contadores entre instancias del servicio.
//
// El contrato es deliberadamente estrecho: un solo lock nombrado, adquirido
// con set-if-not-exists y liberado con compare-and-delete atómico. No es una
// librería general de locking.
package lock

import (
	"context"
	"time"
)

// Locker adquiere y libera un lock con expiración.
type Locker interface {
	// Acquire intenta tomar el lock `key` con el valor `owner` y TTL `lease`.
	// Retorna true solo si esta llamada lo adquirió. La operación es un único
	// set-if-not-exists atómico contra el store compartido.
	Acquire(ctx context.Context, key, owner string, lease time.Duration) (bool, error)

	// Release libera el lock solo si su valor actual sigue siendo `owner`.
	// Compare-and-delete atómico del lado del servidor: si el lock expiró y
	// otra instancia lo re-adquirió, no se toca. Retorna true si se borró.
	Release(ctx context.Context, key, owner string) (bool, error)
}
