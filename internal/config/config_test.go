package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("copilot", pflag.ContinueOnError)
	Flags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Transports.HTTP.Port != 5000 || !cfg.Transports.HTTP.Enabled {
		t.Fatalf("unexpected http defaults: %+v", cfg.Transports.HTTP)
	}
	if cfg.Translation.Backend != "google" || cfg.Translation.Canonical != "en" {
		t.Fatalf("unexpected translation defaults: %+v", cfg.Translation)
	}
	if cfg.Translation.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Translation.Timeout)
	}
	if cfg.Session.Redis.Key != "copilot:context:last" {
		t.Fatalf("unexpected redis key: %q", cfg.Session.Redis.Key)
	}
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "copilot.yaml")
	yaml := `
translation:
  backend: libre
  timeout: 2s
  libre:
    api_key: "${TEST_LIBRE_KEY}"
targets:
  body:
    endpoint: http://body.local/actuate
    protocol: http
    token: "${TEST_TARGET_TOKEN}"
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TEST_LIBRE_KEY", "libre-secret")
	t.Setenv("TEST_TARGET_TOKEN", "target-secret")
	t.Setenv("COPILOT_TRANSPORTS_HTTP_PORT", "8088")

	cfg, err := Load(newFlags(t, "--config", path, "--log-level", "debug"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Translation.Backend != "libre" || cfg.Translation.Timeout != 2*time.Second {
		t.Fatalf("file values not applied: %+v", cfg.Translation)
	}
	if cfg.Translation.Libre.APIKey != "libre-secret" {
		t.Fatalf("env ref not resolved: %q", cfg.Translation.Libre.APIKey)
	}
	if cfg.Targets["body"].Token != "target-secret" {
		t.Fatalf("target token not resolved: %+v", cfg.Targets["body"])
	}
	if cfg.Transports.HTTP.Port != 8088 {
		t.Fatalf("env override not applied: %d", cfg.Transports.HTTP.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("flag override not applied: %q", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{Translation: TranslationConfig{Backend: "none", Canonical: "en", Timeout: time.Second}}
	}

	cfg := base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg = base()
	cfg.Translation.Backend = "babelfish"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected backend error")
	}

	cfg = base()
	cfg.Translation.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected timeout error")
	}

	cfg = base()
	cfg.Targets = map[string]Target{"x": {Endpoint: "somewhere", Protocol: "carrier-pigeon"}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected protocol error")
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, LoggingConfig{Level: "warn", Format: "json"}))
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("unexpected json output: %s", out)
	}

	buf.Reset()
	logger = slog.New(NewHandler(&buf, LoggingConfig{Level: "debug", Format: "text"}))
	logger.Debug("text line")
	if !strings.Contains(buf.String(), "text line") {
		t.Fatalf("unexpected text output: %s", buf.String())
	}
}
