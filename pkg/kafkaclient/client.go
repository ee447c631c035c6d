package kafkaclient

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"amenitymap/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// KafkaReader defines the interface for a Kafka message reader.
// This allows for easy mocking in unit tests.
type KafkaReader interface {
	// FetchMessage does not commit; offsets advance only via CommitMessages.
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads messages in a background loop and hands them out on a
// channel. Offsets are committed explicitly through CommitOffset.
type KafkaConsumer struct {
	reader KafkaReader
	log    *logger.Logger
	// closed to ask the loop to exit
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	// unbuffered, so a message is only read once the previous one was taken
	messageChan chan kafka.Message
	backoff     time.Duration
}

// NewKafkaConsumer creates a consumer in groupID reading topic from broker.
func NewKafkaConsumer(topic, groupID, broker string, log *logger.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
		// Disable auto-commit to manually control offset committing.
		CommitInterval: 0,
		MinBytes:       1,
		MaxBytes:       10e6,
	})
	return newKafkaConsumer(reader, log)
}

func newKafkaConsumer(reader KafkaReader, log *logger.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:      reader,
		log:         log,
		doneChan:    make(chan struct{}),
		messageChan: make(chan kafka.Message),
		backoff:     time.Second,
	}
}

func (kc *KafkaConsumer) Messages() <-chan kafka.Message {
	return kc.messageChan
}

func (kc *KafkaConsumer) CommitOffset(ctx context.Context, msg kafka.Message) error {
	kc.log.Debug("committing offset", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
	return kc.reader.CommitMessages(ctx, msg)
}

// StartConsuming begins the read loop in a separate goroutine. The message
// channel is closed when the loop exits.
func (kc *KafkaConsumer) StartConsuming(ctx context.Context) {
	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		defer close(kc.messageChan)

		kc.log.Info("starting kafka consumer loop")

		for {
			select {
			case <-ctx.Done():
				return
			case <-kc.doneChan:
				return
			default:
			}

			msg, err := kc.reader.FetchMessage(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) || ctx.Err() != nil {
					return
				}
				kc.log.Warn("error reading message", "error", err)
				// Back off to prevent a tight error loop.
				select {
				case <-time.After(kc.backoff):
				case <-ctx.Done():
					return
				case <-kc.doneChan:
					return
				}
				continue
			}

			select {
			case kc.messageChan <- msg:
			case <-ctx.Done():
				return
			case <-kc.doneChan:
				return
			}
		}
	}()
}

// Stop shuts the loop down and closes the reader. It is safe to call more
// than once.
func (kc *KafkaConsumer) Stop() {
	kc.stopOnce.Do(func() {
		close(kc.doneChan)
		if err := kc.reader.Close(); err != nil {
			kc.log.Warn("failed to close kafka reader", "error", err)
		}
		kc.wg.Wait()
		kc.log.Info("kafka consumer stopped")
	})
}
