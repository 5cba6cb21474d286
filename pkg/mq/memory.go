package mq

import "context"

// InMemoryQueue 内存消息队列（用于测试和单进程场景）
// Publish 同步调用订阅者，第一个失败的 handler 的错误直接返回
type InMemoryQueue struct {
	handlers map[string][]MessageHandler
	messages map[string][]Message
}

// Message is a published message kept by InMemoryQueue.
type Message struct {
	Key   string
	Value []byte
}

var _ MessageQueue = (*InMemoryQueue)(nil)

// NewInMemoryQueue 创建内存消息队列
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]MessageHandler),
		messages: make(map[string][]Message),
	}
}

// Publish 发布消息（同步处理）
func (q *InMemoryQueue) Publish(ctx context.Context, topic, key string, message []byte) error {
	q.messages[topic] = append(q.messages[topic], Message{Key: key, Value: message})

	for _, handler := range q.handlers[topic] {
		if err := handler(ctx, topic, message); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe 订阅 topic
func (q *InMemoryQueue) Subscribe(topic string, handler MessageHandler) error {
	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Close 关闭
func (q *InMemoryQueue) Close() error {
	return nil
}

// Messages 获取指定 topic 的所有消息
func (q *InMemoryQueue) Messages(topic string) []Message {
	return q.messages[topic]
}
