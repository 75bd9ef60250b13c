package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithSQLite(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "desk.db"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("driver = %q, want %q", cfg.Storage.Driver, DriverSQLite)
	}
	if cfg.App.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.App.Port)
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Errorf("request timeout = %v, want 30s", cfg.App.RequestTimeout())
	}
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  port: "9090"
storage:
  driver: sqlite
sqlite:
  path: from-file.db
redis:
  enabled: false
  user_cache_ttl_seconds: 42
auth:
  bcrypt_cost: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("APP_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.App.Port != "7070" {
		t.Errorf("port = %q, want env override 7070", cfg.App.Port)
	}
	if cfg.SQLite.Path != "from-file.db" {
		t.Errorf("sqlite path = %q, want from-file.db", cfg.SQLite.Path)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled by file")
	}
	if cfg.Redis.UserCacheTTLDuration() != 42*time.Second {
		t.Errorf("cache ttl = %v, want 42s", cfg.Redis.UserCacheTTLDuration())
	}
	if cfg.Auth.BcryptCost != 4 {
		t.Errorf("bcrypt cost = %d, want 4", cfg.Auth.BcryptCost)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, wantErr: true},
		{name: "postgres with dsn", mutate: func(c *Config) {
			c.Storage.Driver = DriverPostgres
			c.Postgres.DSN = "postgres://localhost/desk"
		}},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "mysql" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) {
			c.Storage.Driver = DriverSQLite
			c.Auth.JWTSecret = " "
		}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
