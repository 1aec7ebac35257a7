package kafka

import (
	"context"

	"github.com/IBM/sarama"

	"chaletbook/internal/infra/obs"
)

// Producer wraps a sarama sync producer tuned for the receipt stream:
// low volume, every event matters, ordering per booking id. Sends are
// synchronous so a checkout response never races its own event.
type Producer struct {
	sync sarama.SyncProducer
}

// NewProducer dials the brokers with an exactly-once-leaning config.
// A caller-supplied config is still forced onto the settings the
// receipt stream depends on.
func NewProducer(brokers []string, cfg *sarama.Config) (*Producer, error) {
	sync, err := sarama.NewSyncProducer(brokers, receiptConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync}, nil
}

// receiptConfig forces the settings the receipt stream depends on onto
// the given config, or builds a fresh one.
func receiptConfig(cfg *sarama.Config) *sarama.Config {
	if cfg == nil {
		cfg = sarama.NewConfig()
		cfg.ClientID = "chaletbook"
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	// Idempotence requires a single in-flight request per connection;
	// sarama rejects the config otherwise.
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	return cfg
}

// Publish sends one JSON event. The request id of the originating HTTP
// request, when present, travels as a header so a consumer can tie the
// event back to the checkout call that produced it.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	headers := []sarama.RecordHeader{
		{Key: []byte("content-type"), Value: []byte("application/json")},
	}
	if rid := obs.RequestIDFromContext(ctx); rid != "" {
		headers = append(headers, sarama.RecordHeader{Key: []byte("request-id"), Value: []byte(rid)})
	}
	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(payload),
		Headers: headers,
	}
	_, _, err := p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}
