package service

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessageIterator defines the contract for consuming messages from a Kafka topic.
// *kafkaclient.KafkaConsumer implements it.
//
// Implementations are responsible for the lifecycle of the consumer connection.
type MessageIterator interface {
	// Messages returns a receive-only channel of Kafka messages. The channel
	// is closed by the implementation when the consumer is stopped.
	Messages() <-chan kafka.Message

	// CommitOffset acknowledges that a message has been successfully processed.
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// DecodeFunc turns a message payload into a T.
type DecodeFunc[T any] func(payload []byte) (T, error)

// FetchedObject pairs a decoded payload with the message it came from.
type FetchedObject[T any] struct {
	Data    T
	Message kafka.Message
}
