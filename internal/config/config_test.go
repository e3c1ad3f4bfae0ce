package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		prev, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, prev)
			}
		})
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearEnv(t, "DATABASE_URL", "WINDOW_SIZE")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoadRejectsWindowSizeOfOne(t *testing.T) {
	clearEnv(t, "DATABASE_URL", "WINDOW_SIZE")
	os.Setenv("DATABASE_URL", "postgres://localhost/coddog")
	os.Setenv("WINDOW_SIZE", "1")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when WINDOW_SIZE <= 1")
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	clearEnv(t, "DATABASE_URL", "WINDOW_SIZE", "CORS_ORIGIN", "BIN_PATH")
	os.Setenv("DATABASE_URL", "postgres://localhost/coddog")
	os.Setenv("CORS_ORIGIN", "https://a.test, https://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WindowSize != 8 {
		t.Errorf("WindowSize = %d, want default 8", cfg.WindowSize)
	}
	if cfg.BinPath != "./data/objects" {
		t.Errorf("BinPath = %q, want default", cfg.BinPath)
	}
	want := []string{"https://a.test", "https://b.test"}
	if len(cfg.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	for i := range want {
		if cfg.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.CORSOrigins[i], want[i])
		}
	}
}
