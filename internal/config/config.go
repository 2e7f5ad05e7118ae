// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Storage struct {
		Driver   string `yaml:"driver"` // "postgres" | "memory"
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MinIdleConns    int    `yaml:"min_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	// Redis respalda el lock del reset diario y, opcionalmente, el cache.
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Cache struct {
		Driver string `yaml:"driver"` // "memory" | "redis"
		Prefix string `yaml:"prefix"`
	} `yaml:"cache"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		FromEmail          string `yaml:"from_email"`
		FromName           string `yaml:"from_name"`
		TLSMode            string `yaml:"tls_mode"` // "auto" | "starttls" | "ssl" | "none"
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	} `yaml:"smtp"`

	Telegram struct {
		BotToken       string `yaml:"bot_token"`
		ChatID         string `yaml:"chat_id"`
		AutoSetWebhook bool   `yaml:"auto_set_webhook"`
		WebhookBaseURL string `yaml:"webhook_base_url"`
	} `yaml:"telegram"`

	RateLimit struct {
		Enabled bool          `yaml:"enabled"`
		Max     int           `yaml:"max"`
		Window  time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`

	Reset struct {
		// Disabled apaga el coordinador (por defecto corre).
		Disabled bool          `yaml:"disabled"`
		LockKey  string        `yaml:"lock_key"`
		Lease    time.Duration `yaml:"lease"`
	} `yaml:"reset"`
}

// Load lee el YAML (opcional: path vacío usa solo defaults+env) y aplica
// overrides de entorno.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "notibox"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.TLSMode == "" {
		c.SMTP.TLSMode = "auto"
	}
	if c.Reset.Lease == 0 {
		c.Reset.Lease = 5 * time.Minute
	}
	if c.RateLimit.Max == 0 {
		c.RateLimit.Max = 60
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}

	c.applyEnvOverrides()
	return &c, nil
}

// Validate chequea lo mínimo para arrancar.
func (c *Config) Validate() error {
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("config: storage.dsn is required with the postgres driver")
	}
	return nil
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}

	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}

	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}

	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Redis.DB = v
	}

	if v, ok := getEnvStr("CACHE_DRIVER"); ok {
		c.Cache.Driver = v
	}

	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}
	if v, ok := getEnvStr("SMTP_FROM_EMAIL"); ok {
		c.SMTP.FromEmail = v
	}
	if v, ok := getEnvStr("SMTP_FROM_NAME"); ok {
		c.SMTP.FromName = v
	}
	if v, ok := getEnvStr("SMTP_TLS_MODE"); ok {
		c.SMTP.TLSMode = v
	}

	if v, ok := getEnvStr("TELEGRAM_BOT_TOKEN"); ok {
		c.Telegram.BotToken = v
	}
	if v, ok := getEnvStr("TELEGRAM_CHAT_ID"); ok {
		c.Telegram.ChatID = v
	}
	if v, ok := getEnvBool("TELEGRAM_AUTO_SET_WEBHOOK"); ok {
		c.Telegram.AutoSetWebhook = v
	}
	if v, ok := getEnvStr("TELEGRAM_WEBHOOK_BASE_URL"); ok {
		c.Telegram.WebhookBaseURL = v
	}

	if v, ok := getEnvBool("RATE_LIMIT_ENABLED"); ok {
		c.RateLimit.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LIMIT_MAX"); ok {
		c.RateLimit.Max = v
	}
	if v, ok := getEnvDur("RATE_LIMIT_WINDOW"); ok {
		c.RateLimit.Window = v
	}

	if v, ok := getEnvBool("RESET_DISABLED"); ok {
		c.Reset.Disabled = v
	}
	if v, ok := getEnvStr("RESET_LOCK_KEY"); ok {
		c.Reset.LockKey = v
	}
	if v, ok := getEnvDur("RESET_LEASE"); ok {
		c.Reset.Lease = v
	}
}
