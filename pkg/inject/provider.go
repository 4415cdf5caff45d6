// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"sync"
	"sync/atomic"
)

type (
	// Provider yields values of T. Each call may return a new value unless
	// the provider is memoized.
	Provider[T any] interface {
		Get() T
	}

	// ProviderFunc adapts a function to Provider.
	ProviderFunc[T any] func() T

	// Lazy yields a single value of T computed on first use.
	Lazy[T any] interface {
		Get() T
	}

	// DoubleCheck memoizes a provider: the delegate runs at most once, even
	// when Get is called concurrently.
	DoubleCheck[T any] struct {
		mu       sync.Mutex
		done     atomic.Bool
		delegate Provider[T]
		value    T
	}

	instance[T any] struct {
		value T
	}
)

// Get calls f.
func (f ProviderFunc[T]) Get() T {
	return f()
}

// NewDoubleCheck memoizes delegate. A delegate that is already a DoubleCheck
// is returned unchanged.
func NewDoubleCheck[T any](delegate Provider[T]) *DoubleCheck[T] {
	if dc, ok := delegate.(*DoubleCheck[T]); ok {
		return dc
	}
	return &DoubleCheck[T]{delegate: delegate}
}

// Get returns the memoized value, computing it on the first call.
func (d *DoubleCheck[T]) Get() T {
	if d.done.Load() {
		return d.value
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.done.Load() {
		d.value = d.delegate.Get()
		// Release the delegate so whatever it captured can be collected.
		d.delegate = nil
		d.done.Store(true)
	}
	return d.value
}

// Instance returns a provider that always yields v.
func Instance[T any](v T) Provider[T] {
	return instance[T]{value: v}
}

func (i instance[T]) Get() T {
	return i.value
}

// LazyOf wraps p so its value is computed once, on the first Get.
func LazyOf[T any](p Provider[T]) Lazy[T] {
	return NewDoubleCheck(p)
}
