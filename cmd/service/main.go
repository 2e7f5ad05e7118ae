package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/notibox/internal/cache"
	"github.com/dropDatabas3/notibox/internal/config"
	"github.com/dropDatabas3/notibox/internal/email"
	httpserver "github.com/dropDatabas3/notibox/internal/http"
	"github.com/dropDatabas3/notibox/internal/http/controllers"
	"github.com/dropDatabas3/notibox/internal/http/router"
	"github.com/dropDatabas3/notibox/internal/lock"
	"github.com/dropDatabas3/notibox/internal/observability/logger"
	"github.com/dropDatabas3/notibox/internal/rate"
	"github.com/dropDatabas3/notibox/internal/reset"
	"github.com/dropDatabas3/notibox/internal/service"
	"github.com/dropDatabas3/notibox/internal/store"
	"github.com/dropDatabas3/notibox/internal/store/pg"
	"github.com/dropDatabas3/notibox/internal/telegram"
)

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// redisPinger adapta rdb.Client al Pinger del health check.
type redisPinger struct{ c *rdb.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.c.Ping(ctx).Err() }

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", getenv("CONFIG_PATH", "config.yaml"), "ruta del config YAML")
	flag.Parse()

	path := *cfgPath
	if !fileExists(path) {
		// Sin archivo: defaults + env alcanzan para dev.
		path = ""
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.L().Fatal("config load failed", logger.Err(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.L().Fatal("invalid config", logger.Err(err))
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "notibox",
	})
	defer func() { _ = logger.Sync() }()

	log := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ─── Store de usuarios ───
	repo, err := store.New(ctx, store.Options{
		Driver: cfg.Storage.Driver,
		DSN:    cfg.Storage.DSN,
		PG: pg.Config{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MinIdleConns:    cfg.Storage.Postgres.MinIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		},
	})
	if err != nil {
		log.Fatal("store init failed", logger.Err(err))
	}
	defer repo.Close()

	if pgStore, ok := repo.(*pg.Store); ok {
		if err := pgStore.Migrate(ctx); err != nil {
			log.Warn("schema migration failed", logger.Err(err))
		}
	}

	// ─── Cache api_key → user_id ───
	cacheClient, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Driver,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Cache.Prefix,
	})
	if err != nil {
		log.Warn("cache init failed, falling back to memory", logger.Err(err))
		cacheClient = cache.NewMemory(cfg.Cache.Prefix)
	}
	defer func() { _ = cacheClient.Close() }()

	// ─── Redis para el lock del reset diario ───
	redisClient := rdb.NewClient(&rdb.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()
	locker := lock.NewRedisLocker(redisClient, cfg.Cache.Prefix)

	// ─── Servicios ───
	usersSvc := service.NewUserService(repo, cacheClient)

	sender := &email.SMTPSender{
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		From:               cfg.SMTP.FromEmail,
		FromName:           cfg.SMTP.FromName,
		User:               cfg.SMTP.Username,
		Pass:               cfg.SMTP.Password,
		TLSMode:            cfg.SMTP.TLSMode,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
	}
	emailSvc := service.NewEmailService(usersSvc, sender)

	bot := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if cfg.Telegram.BotToken != "" {
		telegram.Initialize(ctx, bot, telegram.InitOptions{
			AutoSetWebhook: cfg.Telegram.AutoSetWebhook,
			WebhookBaseURL: cfg.Telegram.WebhookBaseURL,
		})
	}

	// ─── Rate limit por IP ───
	var limiter rate.Limiter
	if cfg.RateLimit.Enabled {
		limiter = rate.NewRedisLimiter(redisClient,
			cfg.Cache.Prefix+":rl:", cfg.RateLimit.Max, cfg.RateLimit.Window)
		log.Info("per-IP rate limit enabled",
			logger.Int("max", cfg.RateLimit.Max),
			logger.Duration(cfg.RateLimit.Window))
	}

	// ─── HTTP ───
	metricsHandler := httpserver.RegisterMetrics(nil)
	handler := router.New(router.Deps{
		Users:    controllers.NewUsersController(usersSvc),
		Email:    controllers.NewEmailController(emailSvc),
		Telegram: controllers.NewTelegramController(bot),
		Health: controllers.NewHealthController(repo, map[string]controllers.Pinger{
			"redis": redisPinger{redisClient},
		}),
		Metrics:            metricsHandler,
		Limiter:            limiter,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})
	srv := httpserver.NewServer(cfg.Server.Addr, handler)

	// ─── Run ───
	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	if !cfg.Reset.Disabled {
		opts := []reset.Option{reset.WithLease(cfg.Reset.Lease)}
		if cfg.Reset.LockKey != "" {
			opts = append(opts, reset.WithLockKey(cfg.Reset.LockKey))
		}
		coord := reset.NewCoordinator(locker, usersSvc, opts...)
		log.Info("daily reset coordinator enabled", logger.Instance(coord.Instance()))

		g.Go(func() error {
			if err := coord.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("service stopped with error", logger.Err(err))
	}
	log.Info("service stopped")
}
