// Package enrich runs a sequence of stages over items flowing through a
// channel. Steps inside a stage run in parallel on the same item; stages run
// one after another.
package enrich

import (
	"context"
)

// Step mutates a single item in place. Steps of the same stage run
// concurrently on the same item, so they must write disjoint fields. A
// returned error is logged and the item continues through the pipeline.
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups steps that are safe to execute in parallel for one item.
type Stage[T any] struct {
	name  string
	steps []Step[T]
}

func NewStage[T any](name string, steps ...Step[T]) Stage[T] {
	return Stage[T]{name: name, steps: steps}
}

func (s Stage[T]) Name() string {
	return s.name
}
