package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}

	if got := cfg.Upstream.RequestTimeout; got != 15*time.Second {
		t.Fatalf("expected default upstream timeout 15s, got %v", got)
	}

	if cfg.Media.BaseURL != "https://bannugul.example.com/app/media/images" {
		t.Fatalf("expected media base derived from upstream, got %q", cfg.Media.BaseURL)
	}

	if cfg.Session.DBPath != "sessions.db" {
		t.Fatalf("unexpected session db path %q", cfg.Session.DBPath)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RelativeUpstreamURLRejected(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvUpstreamBaseURL, "/app")

	if _, err := Load(); err == nil {
		t.Fatal("expected relative upstream base url to be rejected")
	}
}

func TestLoad_ExplicitMediaBaseWins(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvMediaBaseURL, "https://cdn.example.com/images")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Media.BaseURL != "https://cdn.example.com/images" {
		t.Fatalf("explicit media base url was overridden: %q", cfg.Media.BaseURL)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvUpstreamBaseURL, "https://bannugul.example.com/app")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvJWTSecret, "secret")
	t.Setenv(EnvJWTIssuer, "bannugul")
	t.Setenv(EnvJWTExpMins, "60")
}
