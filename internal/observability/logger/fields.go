package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/notibox/internal/util"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// ClientIP crea un campo para la IP del cliente.
func ClientIP(v string) zap.Field {
	return zap.String("client_ip", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// UserID crea un campo para el ID del usuario.
func UserID(v string) zap.Field {
	return zap.String("user_id", v)
}

// Username crea un campo para el username.
func Username(v string) zap.Field {
	return zap.String("username", v)
}

// Email crea un campo para un email enmascarado (a…@e….com).
func Email(v string) zap.Field {
	return zap.String("email", util.MaskEmail(v))
}

// APIKey crea un campo para una API key enmascarada.
// Nunca loguear la key completa: solo los primeros 6 caracteres.
func APIKey(v string) zap.Field {
	if len(v) > 6 {
		v = v[:6] + "..."
	}
	return zap.String("api_key", v)
}

// Recipient crea un campo para el destinatario de un email, enmascarado.
func Recipient(v string) zap.Field {
	return zap.String("recipient", util.MaskEmail(v))
}

// ChatID crea un campo para el chat de Telegram.
func ChatID(v int64) zap.Field {
	return zap.Int64("chat_id", v)
}

// LockKey crea un campo para la clave del lock distribuido.
func LockKey(v string) zap.Field {
	return zap.String("lock_key", v)
}

// Instance crea un campo para el identificador de instancia del coordinador.
func Instance(v string) zap.Field {
	return zap.String("instance", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Layer crea un campo para la capa (controller, service, repository).
func Layer(v string) zap.Field {
	return zap.String("layer", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}

// Bool crea un campo bool genérico.
func Bool(key string, v bool) zap.Field {
	return zap.Bool(key, v)
}

// Any crea un campo genérico para cualquier tipo.
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
