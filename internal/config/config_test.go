package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/dkeye/CodeRoom/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 5000 || cfg.Mode != "release" {
		t.Fatalf("port/mode = %d/%s", cfg.Port, cfg.Mode)
	}
	if !slices.Equal(cfg.AllowedOrigins, []string{"*"}) {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.Executor.URL != "https://emkc.org/api/v2/piston" || cfg.Executor.Timeout != 20*time.Second {
		t.Fatalf("executor = %+v", cfg.Executor)
	}
	if cfg.PingPeriod != 54*time.Second || cfg.RoomClaimTTL != 10*time.Minute {
		t.Fatalf("durations = %v %v", cfg.PingPeriod, cfg.RoomClaimTTL)
	}
	if cfg.ReadLimit != 1<<20 || cfg.SendBuffer != 64 {
		t.Fatalf("limits = %d %d", cfg.ReadLimit, cfg.SendBuffer)
	}
	if cfg.PresenceMode() != domain.PresenceByName || cfg.Backpressure != "kick" {
		t.Fatalf("presence/backpressure = %s/%s", cfg.Presence, cfg.Backpressure)
	}
}

func TestLoadEnvAliases(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "6001")
	t.Setenv("CORS_ORIGIN", "http://a.test,http://b.test")
	t.Setenv("EXECUTOR_URL", "http://piston.local/api/v2")
	t.Setenv("CODEROOM_EXECUTOR_TIMEOUT", "3s")
	t.Setenv("CODEROOM_PRESENCE", "connection")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 6001 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if !slices.Equal(cfg.AllowedOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.Executor.URL != "http://piston.local/api/v2" || cfg.Executor.Timeout != 3*time.Second {
		t.Fatalf("executor = %+v", cfg.Executor)
	}
	if cfg.PresenceMode() != domain.PresenceByConnection {
		t.Fatalf("presence = %s", cfg.Presence)
	}
}

func TestLoadConfigFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "mode: debug\nport: 7000\nexecutor:\n  timeout: 5s\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CODEROOM_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_ENV", "test")
	// godotenv sets the variable directly; register it so it is restored.
	t.Setenv("CODEROOM_LOG_LEVEL", "")
	os.Unsetenv("CODEROOM_LOG_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 7000 || cfg.Executor.Timeout != 5*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level from .env = %q", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"CODEROOM_PRESENCE":    "socket",
		"PORT":                 "70000",
		"CODEROOM_SEND_BUFFER": "0",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s should fail validation", key, val)
			}
		})
	}
}
