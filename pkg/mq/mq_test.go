package mq

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("publish delivers to subscribers in order", func(t *testing.T) {
		q := NewInMemoryQueue()
		var got []string
		require.NoError(t, q.Subscribe("vectors", func(_ context.Context, topic string, msg []byte) error {
			got = append(got, topic+":"+string(msg))
			return nil
		}))

		require.NoError(t, q.Publish(ctx, "vectors", "ns", []byte("a")))
		require.NoError(t, q.Publish(ctx, "vectors", "ns", []byte("b")))
		require.NoError(t, q.Publish(ctx, "other", "", []byte("c")))

		assert.Equal(t, []string{"vectors:a", "vectors:b"}, got)
		assert.Equal(t, []Message{{Key: "ns", Value: []byte("a")}, {Key: "ns", Value: []byte("b")}}, q.Messages("vectors"))
		assert.Len(t, q.Messages("other"), 1)
		assert.NoError(t, q.Close())
	})

	t.Run("handler error is returned", func(t *testing.T) {
		q := NewInMemoryQueue()
		boom := errors.New("boom")
		require.NoError(t, q.Subscribe("t", func(context.Context, string, []byte) error { return boom }))

		assert.ErrorIs(t, q.Publish(ctx, "t", "", []byte("x")), boom)
	})
}

func TestKafkaConfigValidate(t *testing.T) {
	cfg := KafkaConfig{}
	assert.NoError(t, cfg.Validate())

	cfg.Enabled = true
	assert.Error(t, cfg.Validate())

	cfg.Brokers = []string{"localhost:9092"}
	assert.NoError(t, cfg.Validate())

	cfg.Consumers = []ConsumerConfig{{Name: "ingest", Topics: []string{"vectors"}}}
	assert.Error(t, cfg.Validate())

	cfg.Consumers[0].Group = "vecdb"
	assert.NoError(t, cfg.Validate())

	cfg.Consumers[0].Topics = nil
	assert.Error(t, cfg.Validate())
}

func TestKafkaProducerPublish(t *testing.T) {
	ctx := context.Background()
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "vectors" {
			return errors.New("wrong topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "ns" {
			return errors.New("wrong key " + string(key))
		}
		value, _ := msg.Value.Encode()
		if string(value) != `{"op":"upsert"}` {
			return errors.New("wrong value " + string(value))
		}
		return nil
	})
	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaProducerFromClient(sp)
	require.NoError(t, p.Publish(ctx, "vectors", "ns", []byte(`{"op":"upsert"}`)))

	err := p.Publish(ctx, "vectors", "", []byte(`{}`))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, p.Close())
}

func TestKafkaProducerCancelled(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	p := NewKafkaProducerFromClient(sp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, "vectors", "", []byte("x")), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNewKafkaProducerDisabled(t *testing.T) {
	p, err := NewKafkaProducer(KafkaConfig{})
	assert.Nil(t, p)
	assert.Error(t, err)
}

// fakeSession 只实现测试用到的方法
type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func TestConsumeClaim(t *testing.T) {
	var handled []string
	h := &consumerGroupHandler{
		ready:  make(chan struct{}),
		logger: slog.Default(),
		handler: func(_ context.Context, topic string, msg []byte) error {
			handled = append(handled, string(msg))
			if string(msg) == "bad" {
				return errors.New("cannot apply")
			}
			return nil
		},
	}

	require.NoError(t, h.Setup(nil))
	select {
	case <-h.ready:
	default:
		t.Fatal("setup should close ready")
	}

	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, 3)}
	claim.messages <- &sarama.ConsumerMessage{Topic: "vectors", Offset: 1, Value: []byte("a")}
	claim.messages <- &sarama.ConsumerMessage{Topic: "vectors", Offset: 2, Value: []byte("bad")}
	claim.messages <- &sarama.ConsumerMessage{Topic: "vectors", Offset: 3, Value: []byte("c")}
	close(claim.messages)

	session := &fakeSession{ctx: context.Background()}
	require.NoError(t, h.ConsumeClaim(session, claim))

	assert.Equal(t, []string{"a", "bad", "c"}, handled)
	// failed messages are still marked
	assert.Equal(t, []int64{1, 2, 3}, session.marked)
	assert.NoError(t, h.Cleanup(session))
}
