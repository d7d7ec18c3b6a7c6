package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Event backends
const (
	EventsNone   = "none"
	EventsKafka  = "kafka"
	EventsSarama = "sarama"
	EventsRedis  = "redis"
)

// Errors
var (
	ErrUnknownEventBackend = errors.New("unknown event backend")
	ErrUnknownLogFormat    = errors.New("unknown log format")
	ErrMissingSetting      = errors.New("missing setting")
)

// Config represents the application configuration
type Config struct {
	Log struct {
		Level  string
		Format string
	}

	Telemetry struct {
		Enabled        bool
		Endpoint       string
		ServiceName    string
		ExportInterval time.Duration
	}

	Events struct {
		Backend    string
		Workers    int
		BufferSize int
	}

	Kafka struct {
		BrokerAddr string
		Topic      string
		GroupID    string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
		Channel  string
	}

	Seed struct {
		File string
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "pretty")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.service_name", "order-cache")
	v.SetDefault("telemetry.export_interval", "5s")
	v.SetDefault("events.backend", EventsNone)
	v.SetDefault("events.workers", 4)
	v.SetDefault("events.buffer_size", 1024)
	v.SetDefault("kafka.broker_addr", "localhost:9092")
	v.SetDefault("kafka.topic", "order-cache-events")
	v.SetDefault("kafka.group_id", "order-cache")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "order-cache-events")
	v.SetDefault("seed.file", "")
}

// LoadConfig loads defaults, then the YAML file at path when path is not
// empty, then ORDERCACHE_* environment variables (e.g.
// ORDERCACHE_EVENTS_BACKEND), later sources winning.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ORDERCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Telemetry.Enabled = v.GetBool("telemetry.enabled")
	cfg.Telemetry.Endpoint = v.GetString("telemetry.endpoint")
	cfg.Telemetry.ServiceName = v.GetString("telemetry.service_name")
	cfg.Telemetry.ExportInterval = v.GetDuration("telemetry.export_interval")
	cfg.Events.Backend = strings.ToLower(v.GetString("events.backend"))
	cfg.Events.Workers = v.GetInt("events.workers")
	cfg.Events.BufferSize = v.GetInt("events.buffer_size")
	cfg.Kafka.BrokerAddr = v.GetString("kafka.broker_addr")
	cfg.Kafka.Topic = v.GetString("kafka.topic")
	cfg.Kafka.GroupID = v.GetString("kafka.group_id")
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Redis.Channel = v.GetString("redis.channel")
	cfg.Seed.File = v.GetString("seed.file")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the settings needed by the selected backends exist
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "json", "pretty":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogFormat, c.Log.Format)
	}

	switch c.Events.Backend {
	case EventsNone:
	case EventsKafka, EventsSarama:
		if c.Kafka.BrokerAddr == "" {
			return fmt.Errorf("%w: kafka.broker_addr", ErrMissingSetting)
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("%w: kafka.topic", ErrMissingSetting)
		}
	case EventsRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr", ErrMissingSetting)
		}
		if c.Redis.Channel == "" {
			return fmt.Errorf("%w: redis.channel", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventBackend, c.Events.Backend)
	}

	if c.Events.Workers <= 0 {
		return fmt.Errorf("%w: events.workers must be positive", ErrMissingSetting)
	}

	return nil
}
