package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext inyecta un logger en el contexto.
// El middleware de request-ID lo usa para propagar un logger scoped con el
// request_id por toda la cadena controller → service → store.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From extrae el logger del contexto; sin logger inyectado cae al singleton.
// Así From(ctx) es seguro en cualquier capa, pase o no por el middleware
// (el coordinador de reset, por ejemplo, corre fuera de un request).
func From(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return L()
}
