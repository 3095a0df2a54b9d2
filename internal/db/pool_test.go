package db

import (
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	got := Config{URL: "postgres://localhost/terra_atlas"}.withDefaults()

	if got.MaxConns != DefaultMaxConns {
		t.Errorf("MaxConns = %d, want %d", got.MaxConns, DefaultMaxConns)
	}
	if got.MinConns != DefaultMinConns {
		t.Errorf("MinConns = %d, want %d", got.MinConns, DefaultMinConns)
	}
	if got.ConnectRetries != DefaultConnectRetries {
		t.Errorf("ConnectRetries = %d, want %d", got.ConnectRetries, DefaultConnectRetries)
	}
	if got.RetryInterval != DefaultRetryInterval {
		t.Errorf("RetryInterval = %s, want %s", got.RetryInterval, DefaultRetryInterval)
	}
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	got := Config{
		URL:            "postgres://localhost/terra_atlas",
		MaxConns:       50,
		MinConns:       5,
		ConnectRetries: 1,
		RetryInterval:  time.Second,
	}.withDefaults()

	if got.MaxConns != 50 || got.MinConns != 5 {
		t.Errorf("pool sizing = %d-%d, want 5-50", got.MinConns, got.MaxConns)
	}
	if got.ConnectRetries != 1 || got.RetryInterval != time.Second {
		t.Errorf("retry settings = %d/%s, want 1/1s", got.ConnectRetries, got.RetryInterval)
	}
}

func TestConfigDefaultsCapMinAtMax(t *testing.T) {
	got := Config{URL: "postgres://localhost/terra_atlas", MaxConns: 4, MinConns: 8}.withDefaults()

	if got.MinConns != 4 {
		t.Errorf("MinConns = %d, want capped at MaxConns 4", got.MinConns)
	}
}

func TestPoolConfigAppliesTuning(t *testing.T) {
	cfg := Config{URL: "postgres://terra:pw@localhost:5432/terra_atlas", MaxConns: 20, MinConns: 3}.withDefaults()

	pc, err := poolConfig(cfg)
	if err != nil {
		t.Fatalf("poolConfig: %v", err)
	}

	if pc.MaxConns != 20 {
		t.Errorf("MaxConns = %d, want 20", pc.MaxConns)
	}
	if pc.MinConns != 3 {
		t.Errorf("MinConns = %d, want 3", pc.MinConns)
	}
	if pc.MaxConnLifetime != time.Hour {
		t.Errorf("MaxConnLifetime = %s, want 1h", pc.MaxConnLifetime)
	}
	if pc.ConnConfig.Database != "terra_atlas" {
		t.Errorf("database = %q, want terra_atlas", pc.ConnConfig.Database)
	}
}

func TestPoolConfigRejectsBadURL(t *testing.T) {
	if _, err := poolConfig(Config{URL: "://not-a-url"}.withDefaults()); err == nil {
		t.Error("malformed database URL accepted")
	}
}
