package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.BackendURL != DefaultBackendURL {
		t.Errorf("BackendURL got=%s want=%s", cfg.BackendURL, DefaultBackendURL)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("PollInterval got=%v want=%v", cfg.PollInterval, DefaultPollInterval)
	}
	if len(cfg.Tickers) != 2 || cfg.Tickers[0] != "BTC-USD" || cfg.Tickers[1] != "IAM" {
		t.Errorf("Tickers got=%v want=%v", cfg.Tickers, DefaultTickers)
	}
	if cfg.TradeAmount != DefaultTradeAmount {
		t.Errorf("TradeAmount got=%d want=%d", cfg.TradeAmount, DefaultTradeAmount)
	}
}

func TestLoadFileOverridesEnv(t *testing.T) {
	t.Setenv("TRADESENSE_BACKEND_URL", "http://env:1234")
	t.Setenv("TRADESENSE_POLL_INTERVAL_SECS", "7")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("backend_url: http://file:9999\npoll_interval_secs: 5\ntickers: [IAM]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.BackendURL != "http://file:9999" {
		t.Errorf("file should win over env, got %s", cfg.BackendURL)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval got=%v want=5s", cfg.PollInterval)
	}
	if len(cfg.Tickers) != 1 || cfg.Tickers[0] != "IAM" {
		t.Errorf("Tickers got=%v want=[IAM]", cfg.Tickers)
	}
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("TRADESENSE_TICKERS", "BTC-USD, ATW ,")
	t.Setenv("TRADESENSE_TRADE_AMOUNT", "250")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(cfg.Tickers) != 2 || cfg.Tickers[1] != "ATW" {
		t.Errorf("Tickers got=%v want=[BTC-USD ATW]", cfg.Tickers)
	}
	if cfg.TradeAmount != 250 {
		t.Errorf("TradeAmount got=%d want=250", cfg.TradeAmount)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "empty backend url", mutate: func(c *Config) { c.BackendURL = "" }, wantErr: true},
		{name: "non-http backend url", mutate: func(c *Config) { c.BackendURL = "ftp://x" }, wantErr: true},
		{name: "zero interval", mutate: func(c *Config) { c.PollInterval = 0 }, wantErr: true},
		{name: "no tickers", mutate: func(c *Config) { c.Tickers = nil }, wantErr: true},
		{name: "zero amount", mutate: func(c *Config) { c.TradeAmount = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				BackendURL:   DefaultBackendURL,
				PollInterval: DefaultPollInterval,
				Tickers:      DefaultTickers,
				TradeAmount:  DefaultTradeAmount,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
