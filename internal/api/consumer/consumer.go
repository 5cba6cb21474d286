package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Zereker/vecdb/internal/domain"
	"github.com/Zereker/vecdb/pkg/log"
	"github.com/Zereker/vecdb/pkg/mq"
	"github.com/Zereker/vecdb/pkg/vector"
)

// Consumer applies queued index commands
type Consumer struct {
	logger    *slog.Logger
	index     vector.Index
	ledger    Ledger
	consumers []*mq.KafkaConsumer
}

// Ledger records applied command ids so redelivered commands are skipped.
type Ledger interface {
	Applied(ctx context.Context, id string) (bool, error)
	MarkApplied(ctx context.Context, id string) error
}

// Config 消费者配置
type Config struct {
	Kafka  mq.KafkaConfig
	Ledger Ledger // optional
}

// NewConsumer creates a consumer. With Kafka disabled it only serves Handle
// for other queues.
func NewConsumer(index vector.Index, cfg Config) (*Consumer, error) {
	c := &Consumer{
		logger: log.Logger("consumer"),
		index:  index,
		ledger: cfg.Ledger,
	}

	if !cfg.Kafka.Enabled {
		c.logger.Info("kafka disabled, consumer not started")
		return c, nil
	}

	for _, consumerCfg := range cfg.Kafka.Consumers {
		kc, err := mq.NewKafkaConsumer(cfg.Kafka, consumerCfg, c.Handle)
		if err != nil {
			_ = c.Stop()
			return nil, fmt.Errorf("consumer %s: %w", consumerCfg.Group, err)
		}
		c.consumers = append(c.consumers, kc)
	}

	return c, nil
}

// Handle decodes one message and applies it. A non-2xx response from the
// index is reported as an error.
func (c *Consumer) Handle(ctx context.Context, topic string, message []byte) error {
	cmd, err := domain.DecodeCommand(message)
	if err != nil {
		return fmt.Errorf("topic %s: %w", topic, err)
	}

	tracked := c.ledger != nil && cmd.ID != ""
	if tracked {
		applied, err := c.ledger.Applied(ctx, cmd.ID)
		if err != nil {
			// ledger 不可用时照常执行
			c.logger.Warn("ledger lookup failed", "id", cmd.ID, "error", err)
		} else if applied {
			c.logger.Info("command already applied, skipping", "id", cmd.ID, "op", cmd.Op)
			return nil
		}
	}

	resp, err := c.Apply(ctx, cmd)
	if err != nil {
		return fmt.Errorf("command %s: %w", cmd.ID, err)
	}

	if !resp.IsSuccessful() {
		return fmt.Errorf("command %s: %s rejected with status %d: %s", cmd.ID, cmd.Op, resp.StatusCode, resp.Raw())
	}

	if tracked {
		if err := c.ledger.MarkApplied(ctx, cmd.ID); err != nil {
			c.logger.Warn("ledger mark failed", "id", cmd.ID, "error", err)
		}
	}

	c.logger.Info("command applied",
		"id", cmd.ID,
		"op", cmd.Op,
		"namespace", cmd.Namespace,
		"status", resp.StatusCode,
	)
	return nil
}

// Apply performs the index operation of cmd.
func (c *Consumer) Apply(ctx context.Context, cmd *domain.Command) (*vector.Response, error) {
	switch cmd.Op {
	case domain.OpUpsert:
		return c.index.Upsert(ctx, cmd.Vectors, cmd.Namespace)
	case domain.OpDelete:
		if len(cmd.IDs) == 1 {
			return c.index.Delete(ctx, cmd.IDs[0], cmd.Namespace)
		}
		return c.index.DeleteBulk(ctx, cmd.IDs, cmd.Namespace)
	case domain.OpDeleteAll:
		return c.index.DeleteAll(ctx, cmd.Namespace)
	default:
		return nil, fmt.Errorf("unknown op: %q", cmd.Op)
	}
}

// Start 启动所有消费者
func (c *Consumer) Start(ctx context.Context) error {
	if len(c.consumers) == 0 {
		c.logger.Info("no consumers configured, skipping start")
		return nil
	}

	c.logger.Info("starting consumers", "count", len(c.consumers))

	// plain group: a WithContext ctx would be cancelled once Wait returns
	var g errgroup.Group
	for _, consumer := range c.consumers {
		g.Go(func() error {
			return consumer.Start(ctx)
		})
	}

	return g.Wait()
}

// Stop 停止所有消费者
func (c *Consumer) Stop() error {
	c.logger.Info("stopping consumers")

	for _, consumer := range c.consumers {
		if err := consumer.Stop(); err != nil {
			c.logger.Error("failed to stop consumer", "error", err)
		}
	}

	return nil
}
