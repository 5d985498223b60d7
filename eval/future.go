package eval

import (
	"context"
	"fmt"
)

// Awaitable is a value whose result is available later. Operators may
// return one and the evaluator will wait for it.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Future is an Awaitable computed on its own goroutine.
type Future struct {
	done chan struct{}
	val  any
	err  error
}

// Go starts fn on a new goroutine and returns a future for its result.
// A panic in fn is reported as an error from Await.
func Go(ctx context.Context, fn func(context.Context) (any, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("panic in future: %v", r)
			}
		}()
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Resolved returns a completed future.
func Resolved(v any, err error) *Future {
	f := &Future{done: make(chan struct{}), val: v, err: err}
	close(f.done)
	return f
}

func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Await resolves v if it is an Awaitable, repeatedly, and returns it
// unchanged otherwise.
func Await(ctx context.Context, v any) (any, error) {
	for {
		a, ok := v.(Awaitable)
		if !ok {
			return v, nil
		}
		var err error
		v, err = a.Await(ctx)
		if err != nil {
			return nil, err
		}
	}
}
