package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Brokers   BrokersConfig   `yaml:"brokers"`
	Client    ClientConfig    `yaml:"client"`
	Retry     RetryConfig     `yaml:"retry"`
	Cache     CacheConfig     `yaml:"cache"`
	Audit     AuditConfig     `yaml:"audit"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BrokersConfig names the seed brokers this client dials first; broker
// and topic metadata discovered from Metadata responses supersedes this
// list once a connection is established.
type BrokersConfig struct {
	Seeds []string `yaml:"seeds"`
}

type ClientConfig struct {
	ClientID          string        `yaml:"client_id"`
	ResponseTimeout   time.Duration `yaml:"response_timeout"`
	DialTimeout       time.Duration `yaml:"dial_timeout"`
	ReaderJoinTimeout time.Duration `yaml:"reader_join_timeout"`
}

type RetryConfig struct {
	BaseDelay time.Duration `yaml:"base_delay"`
	MaxDelay  time.Duration `yaml:"max_delay"`
	Linear    bool          `yaml:"linear"`
	Timeout   time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DataDir    string        `yaml:"data_dir"`
	HotTTL     time.Duration `yaml:"hot_ttl"`
	GCInterval time.Duration `yaml:"gc_interval"`
}

type AuditConfig struct {
	Enabled   bool   `yaml:"enabled"`
	DBPath    string `yaml:"db_path"`
	QueueSize int    `yaml:"queue_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Default returns a Config with sensible defaults for dialing a local
// broker on the standard Kafka port.
func Default() *Config {
	return &Config{
		Brokers: BrokersConfig{
			Seeds: []string{"127.0.0.1:9092"},
		},
		Client: ClientConfig{
			ClientID:          "kafkaclient",
			ResponseTimeout:   60 * time.Second,
			DialTimeout:       10 * time.Second,
			ReaderJoinTimeout: 1 * time.Second,
		},
		Retry: RetryConfig{
			BaseDelay: 100 * time.Millisecond,
			MaxDelay:  30 * time.Second,
			Linear:    false,
			Timeout:   5 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DataDir:    "./data/brokercache",
			HotTTL:     5 * time.Minute,
			GCInterval: 5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:   true,
			DBPath:    "./data/audit.db",
			QueueSize: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "kafkaclient",
		},
	}
}

// Load loads config from file, environment, with defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.loadFromEnv()

	if len(cfg.Brokers.Seeds) == 0 {
		return nil, fmt.Errorf("config: at least one broker seed is required")
	}

	return cfg, nil
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("KAFKACLIENT_BROKER_SEEDS"); v != "" {
		c.Brokers.Seeds = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKACLIENT_CLIENT_ID"); v != "" {
		c.Client.ClientID = v
	}
	if v := os.Getenv("KAFKACLIENT_RESPONSE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Client.ResponseTimeout = d
		}
	}
	if v := os.Getenv("KAFKACLIENT_DIAL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Client.DialTimeout = d
		}
	}
	if v := os.Getenv("KAFKACLIENT_DATA_DIR"); v != "" {
		c.Cache.DataDir = v
	}
	if v := os.Getenv("KAFKACLIENT_AUDIT_DB"); v != "" {
		c.Audit.DBPath = v
	}
	if v := os.Getenv("KAFKACLIENT_AUDIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Audit.Enabled = b
		}
	}
	if v := os.Getenv("KAFKACLIENT_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v := os.Getenv("KAFKACLIENT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("KAFKACLIENT_TELEMETRY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Telemetry.Enabled = b
		}
	}
}
