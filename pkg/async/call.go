// Package async provides Call, a lazily-started request whose result is delivered either
// synchronously (Call.Do) or on a channel (Call.Go).
//
// Creating a Call performs no I/O. Calls are cold: every Do or Go runs the underlying function
// again, so a Call can be stored and re-issued (e.g., to poll a resource).
package async

import "context"

// Result carries the outcome of a Call started with Go.
type Result[T any] struct {
	Value T
	Err   error
}

// Call is a deferred computation producing a T.
type Call[T any] struct {
	run func(ctx context.Context) (T, error)
}

// New returns a Call that invokes run when started.
func New[T any](run func(ctx context.Context) (T, error)) Call[T] {
	return Call[T]{run: run}
}

// Fail returns a Call that always fails with err.
func Fail[T any](err error) Call[T] {
	return New(func(context.Context) (T, error) {
		var zero T
		return zero, err
	})
}

// Do runs c on the calling goroutine.
func (c Call[T]) Do(ctx context.Context) (T, error) {
	if c.run == nil {
		var zero T
		return zero, ErrNilCall
	}
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return c.run(ctx)
}

// Go runs c on a new goroutine. The returned channel receives exactly one Result and is then
// closed, so callers that stop listening don't leak the goroutine.
func (c Call[T]) Go(ctx context.Context) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		v, err := c.Do(ctx)
		out <- Result[T]{Value: v, Err: err}
	}()
	return out
}

// Map returns a Call that runs c and transforms its value with f. Failures of c are passed
// through without invoking f.
func Map[T, U any](c Call[T], f func(T) (U, error)) Call[U] {
	return New(func(ctx context.Context) (U, error) {
		v, err := c.Do(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(v)
	})
}
