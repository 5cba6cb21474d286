package mq

import "context"

// MessageHandler 消息处理函数
type MessageHandler func(ctx context.Context, topic string, message []byte) error

// Publisher publishes keyed messages. Messages with the same key keep their
// relative order.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, message []byte) error
	Close() error
}

// MessageQueue 消息队列接口
type MessageQueue interface {
	Publisher
	Subscribe(topic string, handler MessageHandler) error
}
