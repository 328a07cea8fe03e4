package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DB_PATH", "HTTP_ADDRESS", "GRPC_ADDRESS", "SHUTDOWN_TIMEOUT_SECONDS"} {
		// Setenv registers restoration, then Unsetenv leaves the var absent for the test.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Database.Path != "users.db" || cfg.HTTP.Address != ":5000" || cfg.GRPC.Address != ":50051" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("shutdown timeout = %v", cfg.ShutdownTimeout)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "test.db")
	t.Setenv("HTTP_ADDRESS", "127.0.0.1:8080")
	t.Setenv("GRPC_ADDRESS", ":1234")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "2")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Database.Path != "test.db" || cfg.HTTP.Address != "127.0.0.1:8080" || cfg.GRPC.Address != ":1234" || cfg.ShutdownTimeout != 2*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"non-numeric timeout": {"SHUTDOWN_TIMEOUT_SECONDS", "soon"},
		"zero timeout":        {"SHUTDOWN_TIMEOUT_SECONDS", "0"},
		"empty db path":       {"DB_PATH", ""},
		"bad http address":    {"HTTP_ADDRESS", "localhost"},
		"same addresses":      {"HTTP_ADDRESS", ":50051"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%q", kv[0], kv[1])
			}
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_PATH=from-dotenv.db\nHTTP_ADDRESS=:7000\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "from-dotenv.db" || cfg.HTTP.Address != ":7000" {
		t.Fatalf(".env not applied: %+v", cfg)
	}
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if _, err := Load(); err != nil {
		t.Fatalf("Load without .env: %v", err)
	}
}
