package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithNoFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	want := Default()
	if cfg.Client.ClientID != want.Client.ClientID {
		t.Errorf("ClientID = %q, want %q", cfg.Client.ClientID, want.Client.ClientID)
	}
	if len(cfg.Brokers.Seeds) != 1 || cfg.Brokers.Seeds[0] != "127.0.0.1:9092" {
		t.Errorf("Brokers.Seeds = %v, want default seed", cfg.Brokers.Seeds)
	}
}

func TestLoadFromYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
brokers:
  seeds:
    - "broker1:9092"
    - "broker2:9092"
client:
  client_id: "my-app"
  response_timeout: 5s
retry:
  linear: true
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Brokers.Seeds) != 2 || cfg.Brokers.Seeds[0] != "broker1:9092" {
		t.Fatalf("Brokers.Seeds = %v", cfg.Brokers.Seeds)
	}
	if cfg.Client.ClientID != "my-app" {
		t.Errorf("ClientID = %q, want my-app", cfg.Client.ClientID)
	}
	if cfg.Client.ResponseTimeout != 5*time.Second {
		t.Errorf("ResponseTimeout = %v, want 5s", cfg.Client.ResponseTimeout)
	}
	if !cfg.Retry.Linear {
		t.Error("Retry.Linear = false, want true from YAML override")
	}
	// Fields absent from the YAML keep their defaults.
	if cfg.Audit.DBPath != "./data/audit.db" {
		t.Errorf("Audit.DBPath = %q, want default to survive a partial override", cfg.Audit.DBPath)
	}
}

func TestLoadRejectsEmptyBrokerSeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("brokers:\n  seeds: []\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load with empty broker seeds should fail")
	}
}

func TestLoadFromEnvOverridesFileAndDefaults(t *testing.T) {
	t.Setenv("KAFKACLIENT_CLIENT_ID", "env-client")
	t.Setenv("KAFKACLIENT_BROKER_SEEDS", "envbroker1:9092,envbroker2:9092")
	t.Setenv("KAFKACLIENT_CACHE_ENABLED", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Client.ClientID != "env-client" {
		t.Errorf("ClientID = %q, want env-client", cfg.Client.ClientID)
	}
	if len(cfg.Brokers.Seeds) != 2 || cfg.Brokers.Seeds[1] != "envbroker2:9092" {
		t.Fatalf("Brokers.Seeds = %v", cfg.Brokers.Seeds)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled = true, want false from env override")
	}
}
