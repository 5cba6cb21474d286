package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	Enabled   bool             `toml:"enabled"`
	Brokers   []string         `toml:"brokers"`
	ClientID  string           `toml:"client_id"`
	Consumers []ConsumerConfig `toml:"consumers"`
}

// ConsumerConfig 单个消费者配置
type ConsumerConfig struct {
	Name   string   `toml:"name"`   // 消费者名称（用于日志）
	Group  string   `toml:"group"`  // 消费组
	Topics []string `toml:"topics"` // 订阅的 topics
}

// Validate 验证配置
func (c *KafkaConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Brokers) == 0 {
		return fmt.Errorf("brokers is required when kafka is enabled")
	}
	for i, consumer := range c.Consumers {
		if consumer.Group == "" {
			return fmt.Errorf("consumers[%d].group is required", i)
		}
		if len(consumer.Topics) == 0 {
			return fmt.Errorf("consumers[%d].topics is required", i)
		}
	}
	return nil
}

func (c *KafkaConfig) saramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	if c.ClientID != "" {
		cfg.ClientID = c.ClientID
	}
	return cfg
}

// KafkaConsumer Kafka 消费者
type KafkaConsumer struct {
	logger  *slog.Logger
	name    string
	topics  []string
	client  sarama.ConsumerGroup
	handler MessageHandler
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewKafkaConsumer 创建 Kafka 消费者
func NewKafkaConsumer(cfg KafkaConfig, consumer ConsumerConfig, handler MessageHandler) (*KafkaConsumer, error) {
	saramaConfig := cfg.saramaConfig()
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true

	client, err := sarama.NewConsumerGroup(cfg.Brokers, consumer.Group, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	name := consumer.Name
	if name == "" {
		name = consumer.Group
	}

	return &KafkaConsumer{
		logger:  slog.Default().With("module", "kafka-consumer", "name", name),
		name:    name,
		topics:  consumer.Topics,
		client:  client,
		handler: handler,
	}, nil
}

// Start 启动消费者，在第一次 rebalance 完成后返回
func (c *KafkaConsumer) Start(ctx context.Context) error {
	if c == nil {
		return nil
	}

	ctx, c.cancel = context.WithCancel(ctx)

	// 每次 rebalance 使用新的 ready，只等待第一次
	first := make(chan struct{})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ready := first
		for {
			handler := &consumerGroupHandler{
				ready:   ready,
				handler: c.handler,
				logger:  c.logger,
			}

			if err := c.client.Consume(ctx, c.topics, handler); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				c.logger.Error("consumer error", "error", err)
				time.Sleep(time.Second)
			}

			if ctx.Err() != nil {
				return
			}

			ready = make(chan struct{})
		}
	}()

	select {
	case <-first:
		c.logger.Info("consumer started", "topics", c.topics)
	case <-ctx.Done():
	}

	return nil
}

// Stop 停止消费者
func (c *KafkaConsumer) Stop() error {
	if c == nil {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	c.wg.Wait()

	if c.client != nil {
		return c.client.Close()
	}

	return nil
}

// consumerGroupHandler 实现 sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	ready   chan struct{}
	handler MessageHandler
	logger  *slog.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			h.logger.Debug("received message",
				"topic", message.Topic,
				"partition", message.Partition,
				"offset", message.Offset,
			)

			if err := h.handler(session.Context(), message.Topic, message.Value); err != nil {
				h.logger.Error("failed to handle message",
					"topic", message.Topic,
					"offset", message.Offset,
					"error", err,
				)
				// 继续处理下一条消息，不阻塞
			}

			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// KafkaProducer Kafka 生产者
type KafkaProducer struct {
	logger *slog.Logger
	client sarama.SyncProducer
}

var _ Publisher = (*KafkaProducer)(nil)

// NewKafkaProducer 创建 Kafka 生产者
func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("kafka is not enabled")
	}

	saramaConfig := cfg.saramaConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3

	client, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}

	return NewKafkaProducerFromClient(client), nil
}

// NewKafkaProducerFromClient wraps an existing sarama producer.
func NewKafkaProducerFromClient(client sarama.SyncProducer) *KafkaProducer {
	return &KafkaProducer{
		logger: slog.Default().With("module", "kafka-producer"),
		client: client,
	}
}

// Publish 发布消息，相同 key 落在同一分区
func (p *KafkaProducer) Publish(ctx context.Context, topic, key string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(message),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}

	partition, offset, err := p.client.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.Debug("message sent",
		"topic", topic,
		"partition", partition,
		"offset", offset,
	)

	return nil
}

// Close 关闭生产者
func (p *KafkaProducer) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
