package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.App.Env != "dev" {
		t.Fatalf("app.env = %q, want dev", c.App.Env)
	}
	if c.Server.Addr != ":8080" {
		t.Fatalf("server.addr = %q, want :8080", c.Server.Addr)
	}
	if c.Storage.Driver != "memory" {
		t.Fatalf("storage.driver = %q, want memory", c.Storage.Driver)
	}
	if c.SMTP.Port != 587 || c.SMTP.TLSMode != "auto" {
		t.Fatalf("smtp defaults = (%d, %q)", c.SMTP.Port, c.SMTP.TLSMode)
	}
	if c.Reset.Disabled {
		t.Fatal("reset coordinator disabled by default")
	}
	if c.Reset.Lease != 5*time.Minute {
		t.Fatalf("reset.lease = %s, want 5m", c.Reset.Lease)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  env: prod
server:
  addr: ":9090"
storage:
  driver: postgres
  dsn: postgres://app:secret@db:5432/notibox
smtp:
  host: smtp.example.com
  port: 465
  tls_mode: ssl
telegram:
  bot_token: "123:abc"
  auto_set_webhook: true
  webhook_base_url: https://notibox.example.com
reset:
  lock_key: "locks:custom"
  lease: 2m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.App.Env != "prod" || c.Server.Addr != ":9090" {
		t.Fatalf("app/server = (%q, %q)", c.App.Env, c.Server.Addr)
	}
	if c.Storage.Driver != "postgres" || c.Storage.DSN == "" {
		t.Fatalf("storage = (%q, %q)", c.Storage.Driver, c.Storage.DSN)
	}
	if c.SMTP.Host != "smtp.example.com" || c.SMTP.Port != 465 || c.SMTP.TLSMode != "ssl" {
		t.Fatalf("smtp = (%q, %d, %q)", c.SMTP.Host, c.SMTP.Port, c.SMTP.TLSMode)
	}
	if !c.Telegram.AutoSetWebhook || c.Telegram.WebhookBaseURL != "https://notibox.example.com" {
		t.Fatalf("telegram = %+v", c.Telegram)
	}
	if c.Reset.LockKey != "locks:custom" || c.Reset.Lease != 2*time.Minute {
		t.Fatalf("reset = %+v", c.Reset)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("STORAGE_DSN", "postgres://env@db/notibox")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("TELEGRAM_AUTO_SET_WEBHOOK", "true")
	t.Setenv("RESET_DISABLED", "true")
	t.Setenv("RESET_LEASE", "90s")
	t.Setenv("SERVER_CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.App.Env != "prod" {
		t.Fatalf("app.env = %q, want lowercased prod", c.App.Env)
	}
	if c.Server.Addr != ":7070" {
		t.Fatalf("server.addr = %q", c.Server.Addr)
	}
	if c.Storage.Driver != "postgres" || c.Storage.DSN != "postgres://env@db/notibox" {
		t.Fatalf("storage = %+v", c.Storage)
	}
	if c.Redis.Addr != "redis:6379" || c.Redis.DB != 3 {
		t.Fatalf("redis = %+v", c.Redis)
	}
	if c.SMTP.Port != 2525 {
		t.Fatalf("smtp.port = %d", c.SMTP.Port)
	}
	if !c.Telegram.AutoSetWebhook {
		t.Fatal("telegram.auto_set_webhook not overridden")
	}
	if !c.Reset.Disabled || c.Reset.Lease != 90*time.Second {
		t.Fatalf("reset = %+v", c.Reset)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(c.Server.CORSAllowedOrigins) != 2 ||
		c.Server.CORSAllowedOrigins[0] != want[0] ||
		c.Server.CORSAllowedOrigins[1] != want[1] {
		t.Fatalf("cors = %v, want %v", c.Server.CORSAllowedOrigins, want)
	}
}

func TestValidate(t *testing.T) {
	c, _ := Load("")
	if err := c.Validate(); err != nil {
		t.Fatalf("memory driver should validate: %v", err)
	}

	c.Storage.Driver = "postgres"
	c.Storage.DSN = ""
	if err := c.Validate(); err == nil {
		t.Fatal("postgres without dsn should not validate")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("load succeeded for a missing file")
	}
}
