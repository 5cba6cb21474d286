package vector

import (
	"fmt"
	"strings"
)

// DefaultControlPlaneURL is the control plane used to resolve index hosts.
const DefaultControlPlaneURL = "https://api.pinecone.io"

// Config holds index client configuration
type Config struct {
	APIKey          string `toml:"api_key"`
	Index           string `toml:"index"`
	IndexHost       string `toml:"index_host"`        // skips host resolution when set
	ControlPlaneURL string `toml:"control_plane_url"` // defaults to DefaultControlPlaneURL
}

// Validate checks index client configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("api_key is required")
	}
	if strings.TrimSpace(c.Index) == "" {
		return fmt.Errorf("index is required")
	}
	return nil
}

func (c *Config) controlPlane() string {
	if c.ControlPlaneURL == "" {
		return DefaultControlPlaneURL
	}
	return c.ControlPlaneURL
}
