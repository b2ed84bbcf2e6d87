package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message is a broker-agnostic record.
type Message struct {
	Headers map[string]string
	Key     []byte
	Value   []byte
}

// Producer publishes messages, keeping one writer per topic.
type Producer struct {
	transport *kafkago.Transport
	writers   map[string]*kafkago.Writer
	brokers   []string
	mu        sync.Mutex
}

// NewProducer creates a Producer. Connections are opened lazily on first publish.
func NewProducer(cfg Config) (*Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mechanism, err := cfg.mechanism()
	if err != nil {
		return nil, err
	}
	return &Producer{
		transport: &kafkago.Transport{
			ClientID: cfg.ClientID,
			TLS:      cfg.tlsConfig(),
			SASL:     mechanism,
		},
		writers: make(map[string]*kafkago.Writer),
		brokers: cfg.Brokers,
	}, nil
}

// Publish writes messages to topic. Messages sharing a key land on the same partition.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	w := p.writer(topic)

	records := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		rec := kafkago.Message{Key: msg.Key, Value: msg.Value}
		for k, v := range msg.Headers {
			rec.Headers = append(rec.Headers, kafkago.Header{Key: k, Value: []byte(v)})
		}
		records = append(records, rec)
	}

	if err := w.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes and closes every writer.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]*kafkago.Writer)
	return firstErr
}

func (p *Producer) writer(topic string) *kafkago.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
		Transport:    p.transport,

		AllowAutoTopicCreation: true,
	}
	p.writers[topic] = w
	return w
}
