// Package pipeline provides a small, generic staged pipeline: steps within a
// stage run in parallel for each item, stages run sequentially. It is used to
// normalize rows flowing out of a bulk import.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
)

// Step is a single operation that mutates the given item in place. Steps in
// the same stage may run concurrently on the same item and must not write the
// same fields. A failing step is logged and the item keeps flowing.
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups steps that are safe to execute in parallel for one item.
type Stage[T any] struct {
	steps []Step[T]
}

// NewStage constructs a Stage from the provided steps.
func NewStage[T any](steps ...Step[T]) Stage[T] {
	return Stage[T]{steps: steps}
}

// Pipeline applies a sequence of stages to every item of a channel.
type Pipeline[T any] struct {
	stages []Stage[T]
}

// New constructs a Pipeline; stages are applied to each item in order.
func New[T any](stages ...Stage[T]) *Pipeline[T] {
	return &Pipeline[T]{stages: stages}
}

// Process consumes items from in and emits each one on the returned channel
// after all stages ran. Within a stage every step starts concurrently and the
// stage acts as a barrier before the next one. Step errors are logged and do
// not stop the item. The output channel closes when in is drained.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T) <-chan *T {
	out := make(chan *T)
	go func() {
		defer close(out)
		for item := range in {
			for _, stage := range p.stages {
				var wg sync.WaitGroup
				for _, step := range stage.steps {
					wg.Add(1)
					go func(step Step[T]) {
						defer wg.Done()
						if err := step(ctx, item); err != nil {
							slog.Warn("pipeline step failed", "error", err)
						}
					}(step)
				}
				wg.Wait()
			}
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Apply is a convenience for finite inputs: it runs every item of a slice
// through the pipeline and collects the results in order.
func (p *Pipeline[T]) Apply(ctx context.Context, items []*T) []*T {
	in := make(chan *T)
	go func() {
		defer close(in)
		for _, item := range items {
			select {
			case in <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	var out []*T
	for item := range p.Process(ctx, in) {
		out = append(out, item)
	}
	return out
}
