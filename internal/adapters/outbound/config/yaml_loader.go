package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// DefaultFileName is looked up when no --config flag is given.
const DefaultFileName = "sweetshop.yaml"

// YAMLLoader implements domain.ConfigLoader by reading a YAML file and then
// applying environment overrides.
type YAMLLoader struct {
	lookupEnv func(string) (string, bool)
}

// New creates a YAMLLoader reading the process environment.
func New() *YAMLLoader { return &YAMLLoader{lookupEnv: os.LookupEnv} }

// NewWithEnv creates a YAMLLoader with a custom environment lookup.
func NewWithEnv(lookup func(string) (string, bool)) *YAMLLoader {
	return &YAMLLoader{lookupEnv: lookup}
}

// Load reads the config file at path. A missing file yields DefaultConfig.
func (l *YAMLLoader) Load(path string) (domain.AppConfig, error) {
	name := filepath.Base(path)
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.AppConfig{}, err
	default:
		var raw domain.AppConfig
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.AppConfig{}, fmt.Errorf("parsing %s: %w", name, err)
		}

		// Validate before merging: catches typos in the user's raw input.
		if err := raw.Validate(); err != nil {
			return domain.AppConfig{}, fmt.Errorf("invalid %s: %w", name, err)
		}

		// Decoding onto the defaults keeps every key the file leaves out.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.AppConfig{}, fmt.Errorf("parsing %s: %w", name, err)
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return domain.AppConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overlays environment variables on cfg. DATABASE_URL also selects
// the postgres driver.
func (l *YAMLLoader) applyEnv(cfg *domain.AppConfig) error {
	if v, ok := l.env("PORT"); ok {
		cfg.Server.Addr = ":" + v
	}
	if v, ok := l.env("SWEETSHOP_ADDR"); ok {
		cfg.Server.Addr = v
	}
	if v, ok := l.env("DATABASE_URL"); ok {
		cfg.Database.URL = v
		cfg.Database.Driver = domain.StorePostgres
	}
	if v, ok := l.env("SWEETSHOP_DB_DRIVER"); ok {
		cfg.Database.Driver = domain.StoreDriver(v)
	}
	if v, ok := l.env("JWT_SECRET"); ok {
		cfg.Auth.JWTSecret = v
	}
	if v, ok := l.env("SWEETSHOP_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing SWEETSHOP_TOKEN_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = d
	}
	if v, ok := l.env("SWEETSHOP_SECURE_COOKIE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing SWEETSHOP_SECURE_COOKIE: %w", err)
		}
		cfg.Auth.SecureCookie = b
	}
	if v, ok := l.env("SWEETSHOP_EVENTS_BROKER"); ok {
		cfg.Events.Broker = domain.BrokerKind(v)
	}
	if v, ok := l.env("KAFKA_BROKERS"); ok {
		cfg.Events.KafkaBrokers = strings.Split(v, ",")
	}
	if v, ok := l.env("RABBITMQ_URL"); ok {
		cfg.Events.RabbitMQURL = v
	}
	if v, ok := l.env("SWEETSHOP_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := l.env("SWEETSHOP_CORS_ORIGINS"); ok {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	return nil
}

func (l *YAMLLoader) env(key string) (string, bool) {
	if l.lookupEnv == nil {
		return "", false
	}
	v, ok := l.lookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
