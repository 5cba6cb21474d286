package server

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/Zereker/vecdb/internal/api/http"
	"github.com/Zereker/vecdb/pkg/embed"
	"github.com/Zereker/vecdb/pkg/log"
	"github.com/Zereker/vecdb/pkg/mq"
	"github.com/Zereker/vecdb/pkg/redis"
	"github.com/Zereker/vecdb/pkg/vector"
)

// Environment variables overriding the config file.
const (
	EnvAPIKey       = "PINECONE_API_KEY"
	EnvIndex        = "PINECONE_INDEX"
	EnvIndexHost    = "PINECONE_INDEX_HOST"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Config holds all configuration values
type Config struct {
	Server    http.ServerConfig `toml:"server"`
	Log       log.Config        `toml:"log"`
	Index     vector.Config     `toml:"index"`
	Embedding embed.Config      `toml:"embedding"`
	Kafka     mq.KafkaConfig    `toml:"kafka"`
	Redis     redis.Config      `toml:"redis"`
}

// Validate checks all configuration fields
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if err := c.Index.Validate(); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	if err := c.Embedding.Validate(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	if err := c.Kafka.Validate(); err != nil {
		return fmt.Errorf("kafka: %w", err)
	}

	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	return nil
}

// LoadConfig reads and parses the configuration file, then overlays secrets
// from .env and the environment. An empty filename skips the file.
func LoadConfig(filename string) (Config, error) {
	var cfg Config

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}

		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Index.APIKey, EnvAPIKey)
	setFromEnv(&cfg.Index.Index, EnvIndex)
	setFromEnv(&cfg.Index.IndexHost, EnvIndexHost)
	setFromEnv(&cfg.Embedding.APIKey, EnvOpenAIAPIKey)
}

func setFromEnv(field *string, key string) {
	if v := os.Getenv(key); v != "" {
		*field = v
	}
}
