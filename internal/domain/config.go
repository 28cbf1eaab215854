package domain

import (
	"fmt"
	"strings"
	"time"
)

// StoreDriver selects the persistence backend.
type StoreDriver string

const (
	StorePostgres StoreDriver = "postgres"
	StoreMemory   StoreDriver = "memory"
)

// BrokerKind selects where outbox events are published.
type BrokerKind string

const (
	BrokerNone     BrokerKind = "none"
	BrokerLog      BrokerKind = "log"
	BrokerKafka    BrokerKind = "kafka"
	BrokerRabbitMQ BrokerKind = "rabbitmq"
)

// ValidBrokers enumerates all recognized event brokers.
var ValidBrokers = []BrokerKind{BrokerNone, BrokerLog, BrokerKafka, BrokerRabbitMQ}

// DefaultJWTSecret is only acceptable with the in-memory store.
const DefaultJWTSecret = "change-me"

// AppConfig holds service configuration loaded from sweetshop.yaml.
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"   json:"server"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Auth     AuthConfig     `yaml:"auth"     json:"auth"`
	Events   EventsConfig   `yaml:"events"   json:"events"`
	Metrics  MetricsConfig  `yaml:"metrics"  json:"metrics"`
	Log      LogConfig      `yaml:"log"      json:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"             json:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    json:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"  json:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   json:"max_body_bytes"`
	CORSOrigins     []string      `yaml:"cors_origins"     json:"cors_origins,omitempty"`
}

type DatabaseConfig struct {
	Driver   StoreDriver `yaml:"driver"    json:"driver"`
	URL      string      `yaml:"url"       json:"-"`
	MaxConns int32       `yaml:"max_conns" json:"max_conns"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"    json:"-"`
	TokenTTL     time.Duration `yaml:"token_ttl"     json:"token_ttl"`
	CookieName   string        `yaml:"cookie_name"   json:"cookie_name"`
	SecureCookie bool          `yaml:"secure_cookie" json:"secure_cookie"`
}

type EventsConfig struct {
	Broker        BrokerKind    `yaml:"broker"         json:"broker"`
	KafkaBrokers  []string      `yaml:"kafka_brokers"  json:"kafka_brokers,omitempty"`
	KafkaTopic    string        `yaml:"kafka_topic"    json:"kafka_topic"`
	RabbitMQURL   string        `yaml:"rabbitmq_url"   json:"-"`
	RabbitMQQueue string        `yaml:"rabbitmq_queue" json:"rabbitmq_queue"`
	RelayInterval time.Duration `yaml:"relay_interval" json:"relay_interval"`
	BatchSize     int           `yaml:"batch_size"     json:"batch_size"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path"    json:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
}

// DefaultConfig returns a config that runs locally without external services.
func DefaultConfig() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Addr:            ":4000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
			CORSOrigins:     []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver:   StoreMemory,
			MaxConns: 10,
		},
		Auth: AuthConfig{
			JWTSecret:  DefaultJWTSecret,
			TokenTTL:   24 * time.Hour,
			CookieName: "access_token",
		},
		Events: EventsConfig{
			Broker:        BrokerLog,
			KafkaTopic:    "sweetshop.orders",
			RabbitMQQueue: "sweetshop.orders",
			RelayInterval: time.Second,
			BatchSize:     50,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c AppConfig) Validate() error {
	// 1. database driver must be known or empty
	switch c.Database.Driver {
	case "", StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown database.driver %q (valid: postgres, memory)", c.Database.Driver)
	}
	if c.Database.Driver == StorePostgres && c.Database.URL == "" {
		return fmt.Errorf("database.url is required for the postgres driver")
	}
	if c.Database.MaxConns < 0 {
		return fmt.Errorf("database.max_conns must not be negative, got %d", c.Database.MaxConns)
	}

	// 2. broker must be known or empty
	if c.Events.Broker != "" {
		valid := false
		for _, b := range ValidBrokers {
			if c.Events.Broker == b {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown events.broker %q (valid: none, log, kafka, rabbitmq)", c.Events.Broker)
		}
	}
	if c.Events.Broker == BrokerKafka && len(c.Events.KafkaBrokers) == 0 {
		return fmt.Errorf("events.kafka_brokers is required for the kafka broker")
	}
	if c.Events.Broker == BrokerRabbitMQ && c.Events.RabbitMQURL == "" {
		return fmt.Errorf("events.rabbitmq_url is required for the rabbitmq broker")
	}
	if c.Events.BatchSize < 0 {
		return fmt.Errorf("events.batch_size must not be negative, got %d", c.Events.BatchSize)
	}

	// 3. durations must not be negative
	durations := map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.request_timeout":  c.Server.RequestTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"auth.token_ttl":          c.Auth.TokenTTL,
		"events.relay_interval":   c.Events.RelayInterval,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}

	// 4. log settings
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q (valid: debug, info, warn, error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown log.format %q (valid: json, text)", c.Log.Format)
	}

	// 5. metrics path must be absolute
	if c.Metrics.Path != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	return nil
}

// CheckProduction rejects settings that are only safe for local development.
func (c AppConfig) CheckProduction() error {
	if c.Database.Driver == StorePostgres && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret) {
		return fmt.Errorf("auth.jwt_secret must be set when using the postgres driver")
	}
	return nil
}
