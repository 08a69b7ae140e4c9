package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validJSON = `{
  "server": {"name": "shots", "transport": "sse", "addr": ":8088"},
  "capture": {"backend": "library", "output_dir": "/tmp/shots", "avoid_collisions": true},
  "journal": {"path": "/tmp/shots/journal.db"},
  "schedules": [{"name": "hourly", "cron": "@every 1h"}],
  "api": {"host": "0.0.0.0", "port": 8090}
}`

const validYAML = `
server:
  transport: http
  addr: ":9000"
capture:
  backend: native
schedules:
  - name: nightly
    cron: "0 2 * * *"
api:
  port: 8091
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Transport != "stdio" || cfg.Capture.Backend != "native" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.API.Port != 0 || cfg.Journal.Path != "" || cfg.Capture.AvoidCollisions {
		t.Error("optional features should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_JSON(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.json", validJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Name != "shots" || cfg.Server.Transport != "sse" || cfg.Server.Addr != ":8088" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Capture.Backend != "library" || cfg.Capture.OutputDir != "/tmp/shots" || !cfg.Capture.AvoidCollisions {
		t.Errorf("capture = %+v", cfg.Capture)
	}
	if cfg.Journal.Path != "/tmp/shots/journal.db" {
		t.Errorf("journal = %+v", cfg.Journal)
	}
	if len(cfg.Schedules) != 1 || cfg.Schedules[0].Cron != "@every 1h" {
		t.Errorf("schedules = %+v", cfg.Schedules)
	}
	if cfg.API.Port != 8090 {
		t.Errorf("api.port = %d", cfg.API.Port)
	}
}

func TestLoad_YAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Transport != "http" || cfg.Server.Addr != ":9000" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.Name != DefaultServerName {
		t.Errorf("name = %q, want default", cfg.Server.Name)
	}
	if cfg.API.Host != DefaultAPIHost || cfg.API.Port != 8091 {
		t.Errorf("api = %+v", cfg.API)
	}
	if len(cfg.Schedules) != 1 || cfg.Schedules[0].Name != "nightly" {
		t.Errorf("schedules = %+v", cfg.Schedules)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_BadJSON(t *testing.T) {
	if _, err := Load(writeFile(t, "config.json", "{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Transport = "sse"
	cfg.Capture.Backend = "pillow"
	cfg.Schedules = []ScheduleConfig{{Name: "a", Cron: "@hourly"}, {Name: "a"}}
	cfg.API.Port = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "config validation failed:") {
		t.Errorf("message = %q", msg)
	}
	for _, want := range []string{
		"server.addr is required",
		`capture.backend "pillow"`,
		`schedules[1].name "a" is duplicated`,
		"schedules[1].cron is required",
		"api.port -1",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in:\n%s", want, msg)
		}
	}
}

func TestValidate_UnknownTransport(t *testing.T) {
	cfg := Default()
	cfg.Server.Transport = "websocket"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "server.transport") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SCREENSHOTTER_BACKEND", "library")
	t.Setenv("SCREENSHOTTER_TRANSPORT", "http")
	t.Setenv("SCREENSHOTTER_ADDR", ":7777")
	t.Setenv("SCREENSHOTTER_OUTPUT_DIR", "/var/shots")
	t.Setenv("SCREENSHOTTER_AVOID_COLLISIONS", "true")
	t.Setenv("SCREENSHOTTER_JOURNAL_PATH", "/var/shots/j.db")
	t.Setenv("SCREENSHOTTER_API_PORT", "8090")
	t.Setenv("SCREENSHOTTER_SCHEDULE", "hourly=@every 1h; nightly=0 2 * * *")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Capture.Backend != "library" || cfg.Server.Transport != "http" || cfg.Server.Addr != ":7777" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Capture.OutputDir != "/var/shots" || !cfg.Capture.AvoidCollisions || cfg.Journal.Path != "/var/shots/j.db" {
		t.Errorf("capture = %+v journal = %+v", cfg.Capture, cfg.Journal)
	}
	if cfg.API.Port != 8090 {
		t.Errorf("api.port = %d", cfg.API.Port)
	}
	if len(cfg.Schedules) != 2 || cfg.Schedules[1].Cron != "0 2 * * *" {
		t.Errorf("schedules = %+v", cfg.Schedules)
	}
}

func TestLoadFromEnv_BadSchedule(t *testing.T) {
	t.Setenv("SCREENSHOTTER_SCHEDULE", "no-equals-sign")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error")
	}
}
