package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "tm")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "test_manager")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("BCRYPT_COST", "10")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PASS", "pw")

	cfg := Load()
	if cfg.Env != "test" || cfg.Port != "8080" {
		t.Errorf("app fields wrong: %+v", cfg)
	}
	if cfg.DBUser != "tm" || cfg.DBPass != "pw" || cfg.DBName != "test_manager" {
		t.Errorf("db fields wrong: %+v", cfg)
	}
	if cfg.AccessTTLMin != 15 || cfg.RefreshTTLDays != 7 || cfg.BcryptCost != 10 {
		t.Errorf("int fields wrong: %+v", cfg)
	}
}

func TestLoadAllowsEmptyDBPass(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()
	if cfg.DBPass != "" {
		t.Errorf("DB_PASS should default to empty, got %q", cfg.DBPass)
	}
}

func TestLoadPoolDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()
	if cfg.DBMaxOpenConns != 25 || cfg.DBMaxIdleConns != 25 || cfg.DBConnLifetimeMin != 30 {
		t.Errorf("pool defaults wrong: %+v", cfg)
	}
}

func TestLoadPoolOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "50")
	t.Setenv("DB_MAX_IDLE_CONNS", "10")
	t.Setenv("DB_CONN_LIFETIME_MIN", "not-a-number")

	cfg := Load()
	if cfg.DBMaxOpenConns != 50 || cfg.DBMaxIdleConns != 10 {
		t.Errorf("pool overrides not honored: %+v", cfg)
	}
	if cfg.DBConnLifetimeMin != 30 {
		t.Errorf("bad int should fall back to default, got %d", cfg.DBConnLifetimeMin)
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	if !cfg.Enabled {
		t.Error("cache should be enabled by default")
	}
	if cfg.TTL <= 0 {
		t.Errorf("default TTL should be positive, got %v", cfg.TTL)
	}
}

func TestLoadCacheConfigOverrides(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "45s")

	cfg := LoadCacheConfig()
	if cfg.Enabled {
		t.Error("CACHE_ENABLED=false not honored")
	}
	if cfg.TTL != 45*time.Second {
		t.Errorf("CACHE_TTL not honored: %v", cfg.TTL)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "-5")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity <= 0 {
		t.Errorf("capacity should be clamped to a positive value, got %d", cfg.Capacity)
	}
}
