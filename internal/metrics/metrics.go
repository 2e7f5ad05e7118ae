// Package metrics registra los contadores de dominio en Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EmailsSent cuenta emails despachados con éxito por SMTP.
	EmailsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notibox_emails_sent_total",
		Help: "Número total de emails despachados con éxito",
	})

	// EmailsRejected cuenta envíos rechazados, etiquetados por motivo
	// (quota, validation, transport).
	EmailsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notibox_emails_rejected_total",
		Help: "Número total de envíos de email rechazados",
	}, []string{"reason"})

	// QuotaResets cuenta ejecuciones del reset masivo de contadores.
	QuotaResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notibox_quota_resets_total",
		Help: "Número total de resets masivos de contadores diarios",
	})

	// LockAttempts cuenta intentos de adquisición del lock diario,
	// etiquetados por resultado (acquired, skipped, error).
	LockAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notibox_reset_lock_attempts_total",
		Help: "Intentos de adquisición del lock del reset diario",
	}, []string{"outcome"})

	// TelegramCalls cuenta llamadas al Bot API de Telegram,
	// etiquetadas por método y resultado.
	TelegramCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notibox_telegram_calls_total",
		Help: "Llamadas salientes al Telegram Bot API",
	}, []string{"method", "outcome"})
)
