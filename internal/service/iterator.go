// Package service contains helpers used by application services.
// In particular, it provides an Iterator that consumes events from a
// message source (Kafka via pkg/kafkaclient) and decodes them into typed
// values.
package service

import (
	"context"
	"encoding/json"

	"amenitymap/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Iterator decodes every message of a MessageIterator into a T and yields it
// on a channel. Offsets are committed only through Ack, so a message whose
// processing failed is redelivered after a restart.
//
// The Iterator does not manage the lifecycle of the underlying message source;
// callers start and stop their consumer outside.
type Iterator[T any] struct {
	msgIterator MessageIterator
	decode      DecodeFunc[T]
	log         *logger.Logger
}

// NewIterator constructs an Iterator. A nil decode unmarshals JSON.
func NewIterator[T any](iterator MessageIterator, decode DecodeFunc[T], log *logger.Logger) *Iterator[T] {
	if decode == nil {
		decode = JSON[T]
	}
	return &Iterator[T]{
		msgIterator: iterator,
		decode:      decode,
		log:         log,
	}
}

// JSON is the default DecodeFunc.
func JSON[T any](payload []byte) (T, error) {
	var v T
	err := json.Unmarshal(payload, &v)
	return v, err
}

// Objects streams decoded messages until the source channel closes or ctx is
// canceled. Undecodable messages are logged, committed and skipped so they do
// not block the partition.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan *FetchedObject[T] {
	out := make(chan *FetchedObject[T])
	go func() {
		defer close(out)

		for {
			var (
				msg  kafka.Message
				open bool
			)
			select {
			case <-ctx.Done():
				return
			case msg, open = <-it.msgIterator.Messages():
				if !open {
					return
				}
			}

			data, err := it.decode(msg.Value)
			if err != nil {
				it.log.Warn("skipping undecodable message", "offset", msg.Offset, "error", err)
				if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
					it.log.Warn("failed to commit offset", "offset", msg.Offset, "error", err)
				}
				continue
			}

			select {
			case out <- &FetchedObject[T]{Data: data, Message: msg}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Ack commits the offset of a processed object.
func (it *Iterator[T]) Ack(ctx context.Context, obj *FetchedObject[T]) error {
	return it.msgIterator.CommitOffset(ctx, obj.Message)
}
