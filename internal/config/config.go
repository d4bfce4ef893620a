package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds console configuration loaded from YAML and env.
type Config struct {
	ServerPort string

	// ServiceBaseURL is the single fixed origin of the remote weather
	// service; every auth, weather and history call goes there.
	ServiceBaseURL string
	ServiceTimeout time.Duration

	RequestTimeout time.Duration

	SessionBackend string // "sqlite" or "in_memory"
	SessionDBPath  string

	HistoryPageSize int

	AuthRateRPS   int
	AuthRateBurst int

	ShutdownTimeout time.Duration
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Service struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"service"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Session struct {
		Backend string `yaml:"backend"`
		DBPath  string `yaml:"db_path"`
	} `yaml:"session"`

	History struct {
		PageSize int `yaml:"page_size"`
	} `yaml:"history"`

	Reliability struct {
		AuthRateRPS   int `yaml:"auth_rate_rps"`
		AuthRateBurst int `yaml:"auth_rate_burst"`
	} `yaml:"reliability"`

	Shutdown struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"shutdown"`
}

// Load reads configuration from config/{ENV_NAME}.yaml (default dev),
// then applies env overrides: PORT, WEATHER_SERVICE_URL,
// SESSION_BACKEND, SESSION_DB_PATH, HISTORY_PAGE_SIZE. Call from the
// project root.
func Load() (*Config, error) {
	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.ServerPort = os.Getenv("PORT")
	if cfg.ServerPort == "" {
		cfg.ServerPort = fc.Server.Port
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.ServiceBaseURL = strings.TrimSpace(os.Getenv("WEATHER_SERVICE_URL"))
	if cfg.ServiceBaseURL == "" {
		cfg.ServiceBaseURL = strings.TrimSpace(fc.Service.BaseURL)
	}
	if cfg.ServiceBaseURL == "" {
		cfg.ServiceBaseURL = "https://weather-api-server-vq8x.onrender.com"
	}
	cfg.ServiceTimeout = parseDuration(fc.Service.Timeout, 10*time.Second)

	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 15*time.Second)

	cfg.SessionBackend = strings.TrimSpace(strings.ToLower(os.Getenv("SESSION_BACKEND")))
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = strings.TrimSpace(strings.ToLower(fc.Session.Backend))
	}
	if cfg.SessionBackend == "" {
		cfg.SessionBackend = "sqlite"
	}
	cfg.SessionDBPath = strings.TrimSpace(os.Getenv("SESSION_DB_PATH"))
	if cfg.SessionDBPath == "" {
		cfg.SessionDBPath = strings.TrimSpace(fc.Session.DBPath)
	}
	if cfg.SessionDBPath == "" {
		cfg.SessionDBPath = filepath.Join(cwd, "sessions.db")
	}

	cfg.HistoryPageSize = fc.History.PageSize
	if v := os.Getenv("HISTORY_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("HISTORY_PAGE_SIZE must be an integer, got %q", v)
		}
		cfg.HistoryPageSize = n
	}
	if cfg.HistoryPageSize <= 0 {
		cfg.HistoryPageSize = 10
	}

	cfg.AuthRateRPS = fc.Reliability.AuthRateRPS
	if cfg.AuthRateRPS <= 0 {
		cfg.AuthRateRPS = 5
	}
	cfg.AuthRateBurst = fc.Reliability.AuthRateBurst
	if cfg.AuthRateBurst <= 0 {
		cfg.AuthRateBurst = 10
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal when
// the string is empty, unparseable, or not positive.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// validate performs post-load validation. RequestTimeout must exceed
// ServiceTimeout so the console's own deadline never fires before the
// upstream call's; it is auto-adjusted if needed.
func validate(cfg *Config) error {
	if cfg.ServiceTimeout <= 0 {
		return fmt.Errorf("service.timeout must be positive")
	}
	if cfg.RequestTimeout <= cfg.ServiceTimeout {
		cfg.RequestTimeout = cfg.ServiceTimeout + time.Second
	}
	switch cfg.SessionBackend {
	case "sqlite", "in_memory":
		// valid
	default:
		return fmt.Errorf("session.backend must be sqlite or in_memory, got %q", cfg.SessionBackend)
	}
	return nil
}
