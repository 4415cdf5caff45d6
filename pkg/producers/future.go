// SPDX-License-Identifier: MPL-2.0

package producers

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	// StatePending is a future whose work has not been submitted.
	StatePending State = "pending"
	// StateScheduled is a future whose work was submitted to an executor.
	StateScheduled State = "scheduled"
	// StateResolved is a future that completed with a value.
	StateResolved State = "resolved"
	// StateFailed is a future that completed with an error.
	StateFailed State = "failed"
)

var (
	// ErrCancelled is the failure of a cancelled future.
	ErrCancelled = errors.New("future cancelled")

	// ErrInvalidState is the sentinel error wrapped by InvalidStateError.
	ErrInvalidState = errors.New("invalid future state")
)

type (
	// State is the lifecycle state of a Future.
	State string

	// InvalidStateError is returned when a State value is not recognized.
	InvalidStateError struct {
		Value State
	}

	// Future is a value that becomes available later. It completes exactly
	// once, either resolved with a value or failed with an error.
	Future[T any] struct {
		mu        sync.Mutex
		state     State
		value     T
		err       error
		done      chan struct{}
		callbacks []func()
	}
)

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid future state %q", e.Value)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// IsValid returns whether the State is one of the defined states,
// and a list of validation errors if it is not.
func (s State) IsValid() (bool, []error) {
	switch s {
	case StatePending, StateScheduled, StateResolved, StateFailed:
		return true, nil
	default:
		return false, []error{&InvalidStateError{Value: s}}
	}
}

// Done reports whether the state is terminal.
func (s State) Done() bool {
	return s == StateResolved || s == StateFailed
}

// NewFuture returns a pending future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{state: StatePending, done: make(chan struct{})}
}

// Immediate returns a future already resolved with v.
func Immediate[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Failed returns a future already failed with err.
func Failed[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Fail(err)
	return f
}

// State returns the current state.
func (f *Future[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// MarkScheduled moves a pending future to scheduled. It reports false when
// the future is not pending.
func (f *Future[T]) MarkScheduled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StatePending {
		return false
	}
	f.state = StateScheduled
	return true
}

// Resolve completes the future with v. It reports false if the future was
// already complete.
func (f *Future[T]) Resolve(v T) bool {
	return f.complete(v, nil)
}

// Fail completes the future with err. It reports false if the future was
// already complete.
func (f *Future[T]) Fail(err error) bool {
	if err == nil {
		err = errors.New("future failed with a nil error")
	}
	var zero T
	return f.complete(zero, err)
}

// Cancel fails the future with ErrCancelled.
func (f *Future[T]) Cancel() bool {
	return f.Fail(ErrCancelled)
}

func (f *Future[T]) complete(v T, err error) bool {
	f.mu.Lock()
	if f.state.Done() {
		f.mu.Unlock()
		return false
	}
	f.value, f.err = v, err
	f.state = StateResolved
	if err != nil {
		f.state = StateFailed
	}
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
	return true
}

// OnComplete registers fn to run once the future completes. If it already
// has, fn runs immediately on the calling goroutine.
func (f *Future[T]) OnComplete(fn func()) {
	f.mu.Lock()
	if !f.state.Done() {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	fn()
}

// Done returns a channel closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Err returns the failure of a failed future and nil otherwise.
func (f *Future[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Result returns the value and failure without waiting. ok is false while
// the future is incomplete.
func (f *Future[T]) Result() (v T, ok bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.state.Done(), f.err
}

// Get waits for the future or for ctx to be done.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		v, _, err := f.Result()
		return v, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
