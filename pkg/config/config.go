package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the resolved application configuration.
type Config struct {
	BackendURL   string        // base URL of the challenge backend
	PollInterval time.Duration // dashboard refresh interval
	Tickers      []string      // instruments shown on the dashboard
	TradeAmount  int           // fixed notional per order
	LogLevel     string
	LogFile      string
}

// File is the on-disk configuration shape (YAML).
type File struct {
	BackendURL       string   `yaml:"backend_url"`
	PollIntervalSecs int      `yaml:"poll_interval_secs"`
	Tickers          []string `yaml:"tickers"`
	TradeAmount      int      `yaml:"trade_amount"`
	LogLevel         string   `yaml:"log_level"`
	LogFile          string   `yaml:"log_file"`
}

const (
	DefaultBackendURL   = "http://127.0.0.1:5000"
	DefaultPollInterval = 3 * time.Second
	DefaultTradeAmount  = 500
)

// DefaultTickers are the two instruments the dashboard watches.
var DefaultTickers = []string{"BTC-USD", "IAM"}

// Load reads the config file at path (optional; empty path skips the file)
// and applies env fallbacks. Priority: file > env > default.
func Load(path string) (*Config, error) {
	var file *File
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		file = &File{}
		if err := yaml.Unmarshal(data, file); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg := &Config{
		BackendURL:   pick(fileStr(file, func(f *File) string { return f.BackendURL }), getEnv("TRADESENSE_BACKEND_URL", DefaultBackendURL)),
		PollInterval: pickDuration(fileInt(file, func(f *File) int { return f.PollIntervalSecs }), parseIntEnv("TRADESENSE_POLL_INTERVAL_SECS", 0), DefaultPollInterval),
		Tickers:      pickList(fileList(file, func(f *File) []string { return f.Tickers }), parseListEnv("TRADESENSE_TICKERS"), DefaultTickers),
		TradeAmount:  pickInt(fileInt(file, func(f *File) int { return f.TradeAmount }), parseIntEnv("TRADESENSE_TRADE_AMOUNT", 0), DefaultTradeAmount),
		LogLevel:     pick(fileStr(file, func(f *File) string { return f.LogLevel }), getEnv("LOG_LEVEL", "info")),
		LogFile:      pick(fileStr(file, func(f *File) string { return f.LogFile }), getEnv("LOG_FILE", "logs/tradesense.log")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url must not be empty")
	}
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("backend_url must be an http(s) URL, got %q", c.BackendURL)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if len(c.Tickers) == 0 {
		return fmt.Errorf("at least one ticker is required")
	}
	if c.TradeAmount <= 0 {
		return fmt.Errorf("trade_amount must be positive")
	}
	return nil
}

func fileStr(f *File, get func(*File) string) string {
	if f == nil {
		return ""
	}
	return get(f)
}

func fileInt(f *File, get func(*File) int) int {
	if f == nil {
		return 0
	}
	return get(f)
}

func fileList(f *File, get func(*File) []string) []string {
	if f == nil {
		return nil
	}
	return get(f)
}

func pick(fileVal, fallback string) string {
	if fileVal != "" {
		return fileVal
	}
	return fallback
}

func pickInt(fileVal, envVal, def int) int {
	if fileVal > 0 {
		return fileVal
	}
	if envVal > 0 {
		return envVal
	}
	return def
}

func pickDuration(fileSecs, envSecs int, def time.Duration) time.Duration {
	if fileSecs > 0 {
		return time.Duration(fileSecs) * time.Second
	}
	if envSecs > 0 {
		return time.Duration(envSecs) * time.Second
	}
	return def
}

func pickList(fileVal, envVal, def []string) []string {
	if len(fileVal) > 0 {
		return fileVal
	}
	if len(envVal) > 0 {
		return envVal
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}

// parseListEnv parses a comma separated list.
func parseListEnv(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
