// Package store selecciona el driver de persistencia según configuración.
package store

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/notibox/internal/store/core"
	"github.com/dropDatabas3/notibox/internal/store/memory"
	"github.com/dropDatabas3/notibox/internal/store/pg"
)

// Options describe el backend de usuarios.
type Options struct {
	Driver string // "postgres" | "memory"
	DSN    string
	PG     pg.Config
}

// New crea el repositorio de usuarios según el driver configurado.
// "memory" existe para desarrollo local y tests; producción usa "postgres".
func New(ctx context.Context, opts Options) (core.UserRepository, error) {
	switch opts.Driver {
	case "postgres", "pg":
		if opts.DSN == "" {
			return nil, fmt.Errorf("store: postgres driver requires a DSN")
		}
		return pg.New(ctx, opts.DSN, opts.PG)
	case "memory", "":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", opts.Driver)
	}
}
