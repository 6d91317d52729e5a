package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("COOKIE_PREFIX", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.CookiePrefix != "utm_" {
		t.Fatalf("cookie prefix = %q, want %q", cfg.CookiePrefix, "utm_")
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("database url = %q, want empty without DATABASE_URL", cfg.DatabaseURL)
	}
	if cfg.ClickHouseNativePort != 9000 {
		t.Fatalf("clickhouse port = %d, want 9000", cfg.ClickHouseNativePort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("COOKIE_PREFIX", "attr_")
	t.Setenv("TRUST_FORWARDED_PROTO", "true")
	t.Setenv("CLICKHOUSE_HOST", "ch.local")
	t.Setenv("CLICKHOUSE_DB_NAME", "leads")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.CookiePrefix != "attr_" || !cfg.TrustForwardedProto {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.ClickHouseEnabled() {
		t.Fatal("expected clickhouse to be enabled")
	}
}

func TestLoadError(t *testing.T) {
	t.Setenv("CLICKHOUSE_NATIVE_PORT", "not-a-port")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
