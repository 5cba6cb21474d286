// Package embed turns text into vectors so an index can be queried by text.
package embed

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Embedder converts text into dense float32 vectors.
type Embedder interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embedding vectors for multiple texts, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the dimensionality of the output vectors.
	Dimension() int
}

// ErrEmptyInput is returned when the input text is empty.
var ErrEmptyInput = errors.New("embed: empty input")

// Default model settings.
const (
	DefaultModel     = "text-embedding-3-small"
	DefaultDimension = 1536
)

// Config holds embedder configuration
type Config struct {
	Enabled   bool   `toml:"enabled"`
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"` // OpenAI-compatible endpoint, optional
	Model     string `toml:"model"`
	Dimension int    `toml:"dimension"`
}

// Validate checks embedder configuration
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("api_key is required when embedding is enabled")
	}
	if c.Dimension < 0 {
		return fmt.Errorf("dimension must not be negative")
	}
	return nil
}
