// Package reset implementa el coordinador del reset diario de cuotas.
//
// Cada instancia del servicio corre exactamente un Coordinator. Todas
// duermen hasta la medianoche UTC; la primera que gana el lock distribuido
// ejecuta el reset masivo una sola vez y las demás saltean el ciclo. El
// lease del lock acota el daño si una instancia muere sin liberar.
package reset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropDatabas3/notibox/internal/lock"
	"github.com/dropDatabas3/notibox/internal/metrics"
	"github.com/dropDatabas3/notibox/internal/observability/logger"
)

const (
	// DefaultLockKey es la clave fija del lock en el store compartido.
	DefaultLockKey = "locks:daily-counter-reset"

	// DefaultLease acota cuánto puede quedar tomado el lock.
	DefaultLease = 5 * time.Minute

	// cyclePause evita un loop caliente si el reloj o el store se portan mal.
	cyclePause = time.Second
)

// QuotaResetter es la operación de reset masivo que coordina este paquete.
type QuotaResetter interface {
	ResetAll(ctx context.Context) bool
}

// Coordinator duerme hasta la próxima medianoche UTC e intenta correr el
// reset bajo el lock distribuido.
type Coordinator struct {
	locker   lock.Locker
	quota    QuotaResetter
	key      string
	lease    time.Duration
	instance string
	pause    time.Duration
	now      func() time.Time
}

// Option configura el Coordinator.
type Option func(*Coordinator)

// WithLockKey cambia la clave del lock.
func WithLockKey(key string) Option {
	return func(c *Coordinator) { c.key = key }
}

// WithLease cambia la duración del lease.
func WithLease(lease time.Duration) Option {
	return func(c *Coordinator) { c.lease = lease }
}

// WithClock inyecta un reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// NewCoordinator crea un coordinador con un identificador de instancia
// fresco. El identificador se genera una vez acá y se enhebra por todas las
// llamadas de acquire/release: no hay estado global escondido.
func NewCoordinator(locker lock.Locker, quota QuotaResetter, opts ...Option) *Coordinator {
	c := &Coordinator{
		locker:   locker,
		quota:    quota,
		key:      DefaultLockKey,
		lease:    DefaultLease,
		instance: uuid.NewString(),
		pause:    cyclePause,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Instance retorna el identificador de esta instancia.
func (c *Coordinator) Instance() string { return c.instance }

// Run ejecuta el loop hasta que el contexto se cancele. La cancelación
// interrumpe la espera de medianoche sin arrancar un reset parcial.
func (c *Coordinator) Run(ctx context.Context) error {
	log := logger.Named("reset").With(logger.Instance(c.instance), logger.LockKey(c.key))

	for {
		now := c.now().UTC()
		wake := nextMidnightUTC(now)
		log.Info("daily counter reset scheduled",
			logger.Duration(wake.Sub(now)),
			logger.String("at", wake.Format(time.RFC3339)),
		)

		timer := time.NewTimer(wake.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		c.RunOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pause):
		}
	}
}

// RunOnce ejecuta un ciclo completo: adquirir, resetear, liberar.
// Todos los errores son no-fatales; a lo sumo se saltea el ciclo.
func (c *Coordinator) RunOnce(ctx context.Context) {
	log := logger.From(ctx).With(
		logger.Component("reset"), logger.Instance(c.instance), logger.LockKey(c.key))

	acquired, err := c.locker.Acquire(ctx, c.key, c.instance, c.lease)
	if err != nil {
		// Store caído cuenta como "no adquirido": se saltea el ciclo,
		// no se tumba el proceso.
		log.Error("lock acquire failed, skipping this cycle", logger.Err(err))
		metrics.LockAttempts.WithLabelValues("error").Inc()
		return
	}
	if !acquired {
		log.Info("another instance holds the reset lock, skipping")
		metrics.LockAttempts.WithLabelValues("skipped").Inc()
		return
	}
	metrics.LockAttempts.WithLabelValues("acquired").Inc()
	log.Info("reset lock acquired")

	c.runReset(ctx, log)

	// Liberar aunque el reset haya fallado, y aunque el contexto padre se
	// esté cancelando: compare-and-delete con contexto propio acotado.
	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	released, err := c.locker.Release(relCtx, c.key, c.instance)
	switch {
	case err != nil:
		// El lease limpia solo: staleness acotada a DefaultLease.
		log.Error("lock release failed, lease will expire it", logger.Err(err))
	case !released:
		log.Warn("lock no longer owned at release time")
	default:
		log.Info("reset lock released")
	}
}

// runReset corre el reset atrapando cualquier panic: un fallo acá no debe
// impedir la liberación del lock.
func (c *Coordinator) runReset(ctx context.Context, log *zap.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("bulk reset panicked", logger.Any("panic", r))
		}
	}()

	if c.quota.ResetAll(ctx) {
		metrics.QuotaResets.Inc()
		log.Info("bulk quota reset completed")
	} else {
		log.Warn("bulk quota reset reported failures, retrying next cycle")
	}
}

// nextMidnightUTC calcula el próximo instante de medianoche UTC estricto
// posterior a now.
func nextMidnightUTC(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
