// Package config loads the front-end configuration from the environment
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	// SessionStoreRedis keeps sessions in Redis
	SessionStoreRedis = "redis"
	// SessionStoreMemory keeps sessions in process memory
	SessionStoreMemory = "memory"
)

type Config struct {
	Port   string `env:"PORT, default=3000"`
	AppEnv string `env:"APP_ENV, default=development" validate:"oneof=development production test"`

	Backend BackendConfig
	Session SessionConfig
	Redis   RedisConfig
	Server  ServerConfig
	Log     LogConfig
	Consul  ConsulConfig
	Kafka   KafkaConfig

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:5173"`
}

type BackendConfig struct {
	// APIURL is the backend base URL, e.g. http://localhost:8080/api. It may
	// stay empty when Service names the backend in Consul.
	APIURL  string        `env:"BACKEND_API_URL" validate:"required_without=Service,omitempty,url"`
	Service string        `env:"BACKEND_SERVICE"`
	APIPath string        `env:"BACKEND_API_PATH, default=/api"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=15s"`
}

type SessionConfig struct {
	Store  string        `env:"SESSION_STORE, default=redis" validate:"oneof=redis memory"`
	MaxAge time.Duration `env:"SESSION_MAX_AGE, default=24h" validate:"gt=0"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0" validate:"gte=0"`
}

type ServerConfig struct {
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT, default=15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT, default=30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT, default=60s"`
}

// ConsulConfig enables registration and backend discovery when Addr is set
type ConsulConfig struct {
	Addr        string `env:"CONSUL_HTTP_ADDR"`
	Token       string `env:"CONSUL_HTTP_TOKEN"`
	ServiceName string `env:"SERVICE_NAME, default=carrental-web"`
	ServiceHost string `env:"SERVICE_HOST, default=localhost"`
}

// Enabled reports whether a Consul agent is configured
func (c ConsulConfig) Enabled() bool {
	return c.Addr != ""
}

// KafkaConfig enables the session event stream when Brokers is set
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_TOPIC_SESSION_EVENTS, default=session-events"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL, default=info" validate:"oneof=debug info warn warning error"`
	Format string `env:"LOG_FORMAT, default=json" validate:"oneof=json text"`
}

// Load reads configuration from environment variables using go-envconfig
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	cfg.Backend.APIURL = strings.TrimRight(cfg.Backend.APIURL, "/")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	if cfg.Backend.Service != "" && !cfg.Consul.Enabled() {
		return nil, fmt.Errorf("config: BACKEND_SERVICE %q needs CONSUL_HTTP_ADDR", cfg.Backend.Service)
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
