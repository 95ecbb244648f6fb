package async

import (
	"context"
	"sync"
)

// Group runs fire-and-forget tasks and tracks them until they finish.
// The zero value is ready to use. A Group must not be copied after first use.
type Group struct {
	wg sync.WaitGroup
}

// Go starts fn in a new goroutine and returns immediately.
// onError, when non-nil, receives the task error or a *PanicError if fn panicked.
// Tasks never affect each other: a failing or panicking task only reports to its own handler.
func (g *Group) Go(ctx context.Context, fn func(context.Context) error, onError func(error)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		err := run(ctx, fn)
		if err != nil && onError != nil {
			onError(err)
		}
	}()
}

// Wait blocks until every task started with Go has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}

// WaitContext waits for all tasks or until ctx is done, whichever happens first.
func (g *Group) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn(ctx)
}
