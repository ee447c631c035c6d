package enrich

import (
	"context"
	"sync"

	"amenitymap/pkg/logger"
)

// Pipeline applies its stages to every item received on a channel. Items are
// handled one at a time and in arrival order.
type Pipeline[T any] struct {
	stages []Stage[T]
	log    *logger.Logger
}

func NewPipeline[T any](log *logger.Logger, stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages, log: log}
}

// Process consumes in until it is closed or ctx is done. Step errors are
// logged and do not stop the item.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T) {
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-in:
			if !ok {
				return
			}
			p.apply(ctx, item)
		}
	}
}

func (p *Pipeline[T]) apply(ctx context.Context, item *T) {
	for _, stage := range p.stages {
		var wg sync.WaitGroup
		for _, step := range stage.steps {
			wg.Add(1)
			go func(step Step[T]) {
				defer wg.Done()
				if err := step(ctx, item); err != nil {
					p.log.Warn("enrich step failed", "stage", stage.Name(), "error", err)
				}
			}(step)
		}
		wg.Wait() // stage barrier
	}
}
