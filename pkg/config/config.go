package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // a missing .env file is not an error

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return nil
}

// Config holds the configuration for the matching engine service.
type Config struct {
	Instrument string `env:"INSTRUMENT" envDefault:"STOCK"` // Instrument traded by the single book, e.g. ACME
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	Orders        KafkaConfig         `envPrefix:"ORDERS_KAFKA_"`
	TradeFeed     TradeFeedConfig     `envPrefix:"TRADES_KAFKA_"`
	Redis         RedisConfig         `envPrefix:"REDIS_"`
	SnapshotCache SnapshotCacheConfig `envPrefix:"SNAPSHOT_"`
}

// KafkaConfig holds the configuration for the inbound order command topic.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"matching-core"`
	Brokers []string `env:"BROKER,required"`
}

// TradeFeedConfig holds the configuration for the outbound trade event topic.
type TradeFeedConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}

// RedisConfig holds the configuration for the Redis snapshot cache.
type RedisConfig struct {
	Addrs    string `env:"ADDRESS" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}

// SnapshotCacheConfig controls how often the read-only book snapshot is refreshed.
type SnapshotCacheConfig struct {
	Interval time.Duration `env:"INTERVAL" envDefault:"5s"`
}
