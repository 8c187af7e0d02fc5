package controller

import (
	"context"

	"github.com/pkordes/traveler-registration/internal/export"
)

// Continuation holds the callbacks run when an asynchronous operation
// finishes. Either may be nil.
type Continuation struct {
	OnSuccess func()
	OnFailure func(error)
}

// Task is an operation running in its own goroutine. It cannot be cancelled
// once started except through the context it was given.
type Task struct {
	done chan struct{}
	err  error
}

func start(ctx context.Context, op func(context.Context) error, k Continuation) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = op(ctx)
		if t.err != nil {
			if k.OnFailure != nil {
				k.OnFailure(t.err)
			}
			return
		}
		if k.OnSuccess != nil {
			k.OnSuccess()
		}
	}()
	return t
}

// Done is closed after the operation and its continuation have run.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// RefreshAsync runs Refresh in the background. Concurrent refreshes are
// neither queued nor merged: the last response to arrive is what the table
// ends up showing.
func (c *Controller) RefreshAsync(ctx context.Context, k Continuation) *Task {
	return start(ctx, c.Refresh, k)
}

// ExportAsync runs Export in the background.
func (c *Controller) ExportAsync(ctx context.Context, k Continuation) *Task {
	return start(ctx, func(ctx context.Context) error {
		_, err := c.ExportAs(ctx, export.FormatXLSX)
		return err
	}, k)
}
