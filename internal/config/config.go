package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerName = "screenshotter"
	DefaultAPIHost    = "127.0.0.1"
)

// Config is the top-level screenshotter configuration.
type Config struct {
	Server    ServerConfig     `json:"server" yaml:"server"`
	Capture   CaptureConfig    `json:"capture" yaml:"capture"`
	Journal   JournalConfig    `json:"journal" yaml:"journal"`
	Schedules []ScheduleConfig `json:"schedules,omitempty" yaml:"schedules,omitempty"`
	API       APIConfig        `json:"api" yaml:"api"`
}

// ServerConfig holds MCP server settings.
type ServerConfig struct {
	Name      string `json:"name" yaml:"name"`
	Transport string `json:"transport" yaml:"transport"` // "stdio" (default), "sse" or "http"
	Addr      string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// CaptureConfig holds capture settings.
type CaptureConfig struct {
	// Backend is "native" (default) or "library".
	Backend string `json:"backend" yaml:"backend"`
	// OutputDir defaults to the system temp dir.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	// AvoidCollisions suffixes names that would overwrite a capture from the same second.
	AvoidCollisions bool `json:"avoid_collisions,omitempty" yaml:"avoid_collisions,omitempty"`
}

// JournalConfig holds capture history settings. An empty path disables it.
type JournalConfig struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ScheduleConfig is a named recurring capture.
type ScheduleConfig struct {
	Name string `json:"name" yaml:"name"`
	Cron string `json:"cron" yaml:"cron"`
}

// APIConfig holds admin API settings. Port 0 disables the API.
type APIConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Name: DefaultServerName, Transport: "stdio"},
		Capture: CaptureConfig{Backend: "native"},
		API:     APIConfig{Host: DefaultAPIHost},
	}
}

// Load reads configuration from a JSON or YAML file on top of Default.
// Files ending in .yaml or .yml are parsed as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv builds a config from environment variables with SCREENSHOTTER_ prefix.
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	cfg.Server.Name = getenv("SCREENSHOTTER_SERVER_NAME", cfg.Server.Name)
	cfg.Server.Transport = getenv("SCREENSHOTTER_TRANSPORT", cfg.Server.Transport)
	cfg.Server.Addr = os.Getenv("SCREENSHOTTER_ADDR")
	cfg.Capture.Backend = getenv("SCREENSHOTTER_BACKEND", cfg.Capture.Backend)
	cfg.Capture.OutputDir = os.Getenv("SCREENSHOTTER_OUTPUT_DIR")
	cfg.Capture.AvoidCollisions = getenvBool("SCREENSHOTTER_AVOID_COLLISIONS", false)
	cfg.Journal.Path = os.Getenv("SCREENSHOTTER_JOURNAL_PATH")
	cfg.API.Host = getenv("SCREENSHOTTER_API_HOST", cfg.API.Host)
	cfg.API.Port = getenvInt("SCREENSHOTTER_API_PORT", 0)

	// SCREENSHOTTER_SCHEDULE="hourly=@every 1h;nightly=0 2 * * *"
	if raw := os.Getenv("SCREENSHOTTER_SCHEDULE"); raw != "" {
		schedules, err := parseSchedules(raw)
		if err != nil {
			return nil, fmt.Errorf("config: SCREENSHOTTER_SCHEDULE: %w", err)
		}
		cfg.Schedules = schedules
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Name == "" {
		errs = append(errs, "server.name is required")
	}
	switch c.Server.Transport {
	case "", "stdio":
	case "sse", "http":
		if c.Server.Addr == "" {
			errs = append(errs, fmt.Sprintf("server.addr is required for transport %q", c.Server.Transport))
		}
	default:
		errs = append(errs, fmt.Sprintf("server.transport %q is not one of stdio, sse, http", c.Server.Transport))
	}

	switch c.Capture.Backend {
	case "", "native", "library":
	default:
		errs = append(errs, fmt.Sprintf("capture.backend %q is not one of native, library", c.Capture.Backend))
	}

	seen := make(map[string]bool)
	for i, s := range c.Schedules {
		if s.Name == "" {
			errs = append(errs, fmt.Sprintf("schedules[%d].name is required", i))
		} else if seen[s.Name] {
			errs = append(errs, fmt.Sprintf("schedules[%d].name %q is duplicated", i, s.Name))
		}
		seen[s.Name] = true
		if s.Cron == "" {
			errs = append(errs, fmt.Sprintf("schedules[%d].cron is required", i))
		}
	}

	if c.API.Port < 0 || c.API.Port > 65535 {
		errs = append(errs, fmt.Sprintf("api.port %d is out of range", c.API.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func parseSchedules(s string) ([]ScheduleConfig, error) {
	parts := strings.Split(s, ";")
	result := make([]ScheduleConfig, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name, expr, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid schedule %q, want name=cron", p)
		}
		result = append(result, ScheduleConfig{Name: strings.TrimSpace(name), Cron: strings.TrimSpace(expr)})
	}
	return result, nil
}
