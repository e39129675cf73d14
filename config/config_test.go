package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

type testServer struct {
	Addr       string        `mapstructure:"addr"`
	MaxRecords int           `mapstructure:"max_records"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type testConfig struct {
	ServiceConfig `mapstructure:",squash"`
	Server        testServer `mapstructure:"server"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid production", ServiceConfig{Name: "svc", Environment: "production"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "svc.yml", `
name: svc
environment: staging
server:
  addr: ":8080"
  max_records: 500
  timeout: 5s
`)
	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "svc" || cfg.Environment != "staging" {
		t.Errorf("service fields = %+v", cfg.ServiceConfig)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.MaxRecords != 500 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Server.Timeout)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "svc.yml", "name: svc\nserver:\n  addr: \":8080\"\n")
	t.Setenv("SVC_SERVER_ADDR", ":9999")
	t.Setenv("SVC_SERVER_MAX_RECORDS", "42")
	t.Setenv("SVC_LOGGING_LEVEL", "warn")

	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q, want env override", cfg.Server.Addr)
	}
	if cfg.Server.MaxRecords != 42 {
		t.Errorf("max_records = %d", cfg.Server.MaxRecords)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %q", cfg.Logging.Level)
	}
}

func TestLoadConfigCustomPrefix(t *testing.T) {
	t.Setenv("APP_NAME", "from-env")
	var cfg testConfig
	fs := mockFS{}
	if err := LoadConfig("svc", &cfg, WithFileSystem(fs), WithEnvPrefix("APP")); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q", cfg.Name)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "ENVSVC_SERVER_ADDR=:7070\n")
	t.Cleanup(func() { os.Unsetenv("ENVSVC_SERVER_ADDR") })

	var cfg testConfig
	if err := LoadConfig("envsvc", &cfg, WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("addr = %q, want value from .env", cfg.Server.Addr)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("svc", &cfg, WithConfigFile("/nonexistent/svc.yml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadConfigSearchesFileSystem(t *testing.T) {
	fs := mockFS{exists: map[string]bool{"./config/svc.yml": true}}
	if got := firstExisting(fs, configSearchPaths("svc")); got != "./config/svc.yml" {
		t.Errorf("firstExisting = %q", got)
	}
	if got := firstExisting(mockFS{}, configSearchPaths("svc")); got != "" {
		t.Errorf("expected no match, got %q", got)
	}
}

func TestStructKeys(t *testing.T) {
	keys := structKeys(reflect.TypeOf(&testConfig{}), "")
	want := []string{
		"name", "environment", "version", "debug",
		"logging.level", "logging.format", "logging.output", "logging.no_color", "logging.timestamp", "logging.caller",
		"server.addr", "server.max_records", "server.timeout",
	}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("keys = %v\nwant %v", keys, want)
	}
}

type mockFS struct {
	exists map[string]bool
}

func (m mockFS) Exists(path string) bool   { return m.exists[path] }
func (m mockFS) LoadEnv(path string) error { return nil }
