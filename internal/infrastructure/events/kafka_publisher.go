// Package events publishes domain events to Kafka
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/damon-houk/card-transaction-service/internal/domain/entity"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// DefaultTopic is where TransactionCreated events go when no topic is configured
const DefaultTopic = "transaction_created"

// TransactionCreated is the payload announced after a transaction is stored
type TransactionCreated struct {
	TransactionID   int64           `json:"transaction_id"`
	CardNumber      string          `json:"card_number"`
	CNPJ            string          `json:"cnpj"`
	Amount          decimal.Decimal `json:"amount"`
	Installments    int             `json:"installments"`
	Interest        decimal.Decimal `json:"interest"`
	TransactionDate string          `json:"transaction_date"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// messageWriter is the part of kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes TransactionCreated events to a Kafka topic
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaPublisher creates a publisher writing to topic on the given brokers
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		now: time.Now,
	}
}

// PublishTransactionCreated announces a stored transaction. Messages are keyed
// by card number so events of one card stay on one partition.
func (p *KafkaPublisher) PublishTransactionCreated(ctx context.Context, tx *entity.Transaction) error {
	msg, err := buildMessage(tx, p.now())
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish transaction %d: %w", tx.ID, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// buildMessage encodes the event; dates are UTC calendar days
func buildMessage(tx *entity.Transaction, occurredAt time.Time) (kafka.Message, error) {
	data, err := json.Marshal(TransactionCreated{
		TransactionID:   tx.ID,
		CardNumber:      tx.CardNumber,
		CNPJ:            tx.CNPJ,
		Amount:          tx.Amount,
		Installments:    tx.Installments,
		Interest:        tx.Interest,
		TransactionDate: tx.Date.UTC().Format("2006-01-02"),
		OccurredAt:      occurredAt.UTC(),
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(tx.CardNumber),
		Value: data,
	}, nil
}

// NoopPublisher discards every event. Used when no brokers are configured.
type NoopPublisher struct{}

// PublishTransactionCreated does nothing
func (NoopPublisher) PublishTransactionCreated(context.Context, *entity.Transaction) error {
	return nil
}

// Close does nothing
func (NoopPublisher) Close() error {
	return nil
}
