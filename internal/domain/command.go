package domain

import (
	"encoding/json"
	"fmt"

	"github.com/Zereker/vecdb/pkg/vector"
)

// Op names the index mutation a command performs.
type Op string

// Op constants
const (
	OpUpsert    Op = "upsert"
	OpDelete    Op = "delete"
	OpDeleteAll Op = "delete_all"
)

// Command is an index mutation carried over the message queue.
type Command struct {
	ID        string          `json:"id"`
	Op        Op              `json:"op"`
	Namespace string          `json:"namespace,omitempty"`
	Vectors   []vector.Record `json:"vectors,omitempty"`
	IDs       []string        `json:"ids,omitempty"`
}

// Validate checks that the command carries what its op needs.
func (c *Command) Validate() error {
	switch c.Op {
	case OpUpsert:
		if len(c.Vectors) == 0 {
			return fmt.Errorf("upsert command has no vectors")
		}
		if len(c.IDs) > 0 {
			return fmt.Errorf("upsert command must not carry ids")
		}
	case OpDelete:
		if len(c.IDs) == 0 {
			return fmt.Errorf("delete command has no ids")
		}
		if len(c.Vectors) > 0 {
			return fmt.Errorf("delete command must not carry vectors")
		}
	case OpDeleteAll:
		if len(c.IDs) > 0 || len(c.Vectors) > 0 {
			return fmt.Errorf("delete_all command must not carry ids or vectors")
		}
	default:
		return fmt.Errorf("unknown op: %q", c.Op)
	}
	return nil
}

// Key is the partitioning key: commands for one namespace stay ordered.
func (c *Command) Key() string {
	return c.Namespace
}

// DecodeCommand parses and validates a queued command.
func DecodeCommand(data []byte) (*Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Encode serializes the command.
func (c *Command) Encode() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(c)
}
