package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kafkaGo "github.com/segmentio/kafka-go"
)

// KafkaNotifier publishes email events to Kafka topics. A downstream mailer
// service consumes the topics and does the actual sending, so the API never
// blocks on an SMTP round trip. The writers are long-lived and reuse their
// broker connections across messages.
type KafkaNotifier struct {
	receipts      *kafkaGo.Writer
	verifications *kafkaGo.Writer
}

// NewKafkaNotifier creates a notifier publishing to the given topics.
// Callers own the notifier's lifecycle and must Close it on shutdown.
func NewKafkaNotifier(brokers []string, receiptTopic, verificationTopic string) *KafkaNotifier {
	return &KafkaNotifier{
		receipts:      newWriter(brokers, receiptTopic),
		verifications: newWriter(brokers, verificationTopic),
	}
}

func newWriter(brokers []string, topic string) *kafkaGo.Writer {
	return &kafkaGo.Writer{
		Addr:     kafkaGo.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafkaGo.LeastBytes{},
	}
}

func (n *KafkaNotifier) SendReceipt(ctx context.Context, msg ReceiptEmail) error {
	return publish(ctx, n.receipts, msg.To, msg)
}

func (n *KafkaNotifier) SendVerification(ctx context.Context, msg VerificationEmail) error {
	return publish(ctx, n.verifications, msg.To, msg)
}

// Close flushes and releases both writers.
func (n *KafkaNotifier) Close() error {
	return errors.Join(n.receipts.Close(), n.verifications.Close())
}

func publish(ctx context.Context, w *kafkaGo.Writer, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return w.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(key),
		Value: payload,
	})
}
