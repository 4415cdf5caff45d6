// SPDX-License-Identifier: MPL-2.0

package producers

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/invowk/wirekit/pkg/inject"
)

// ErrPanic wraps a panic recovered from a producer body.
var ErrPanic = errors.New("producer panicked")

type (
	// Producer yields the future of an asynchronous binding. Calls after the
	// first return the same future.
	Producer[T any] interface {
		Get() *Future[T]
	}

	// ProducerFunc adapts a function to Producer.
	ProducerFunc[T any] func() *Future[T]

	// Dependency is the type-erased view of a dependency future.
	Dependency interface {
		OnComplete(fn func())
		Err() error
	}

	// Produced is a dependency delivered with its outcome rather than failing
	// the dependent.
	Produced[T any] struct {
		Value T
		Err   error
	}

	lenient struct {
		Dependency
	}

	producer[T any] struct {
		once     sync.Once
		future   *Future[T]
		token    string
		executor inject.Provider[Executor]
		monitor  inject.Provider[Monitor]
		collect  func() []Dependency
		compute  func(deps []Dependency) (*Future[T], error)
	}

	providerProducer[T any] struct {
		once     sync.Once
		future   *Future[T]
		provider inject.Provider[T]
	}
)

// Get calls f.
func (f ProducerFunc[T]) Get() *Future[T] {
	return f()
}

// Lenient marks d so that its failure does not fail the dependent.
func Lenient(d Dependency) Dependency {
	return lenient{Dependency: d}
}

func isLenient(d Dependency) bool {
	_, ok := d.(lenient)
	return ok
}

func unwrap(d Dependency) Dependency {
	if l, ok := d.(lenient); ok {
		return l.Dependency
	}
	return d
}

// Value returns the value of a completed dependency future of type T.
func Value[T any](d Dependency) T {
	f, ok := unwrap(d).(*Future[T])
	if !ok {
		var zero T
		panic(fmt.Sprintf("producers: dependency is %T, not *Future[%T]", unwrap(d), zero))
	}
	v, _, _ := f.Result()
	return v
}

// ProducedOf returns the outcome of a completed dependency future of type T.
func ProducedOf[T any](d Dependency) Produced[T] {
	return Produced[T]{Value: Value[T](d), Err: unwrap(d).Err()}
}

// Return wraps a synchronous result as a completed future.
func Return[T any](v T) (*Future[T], error) {
	return Immediate(v), nil
}

// ReturnErr wraps a (value, error) result as a completed future.
func ReturnErr[T any](v T, err error) (*Future[T], error) {
	if err != nil {
		return nil, err
	}
	return Immediate(v), nil
}

// FromProvider adapts a synchronous provider. The provider is called once,
// on the first Get; a panic fails the future.
func FromProvider[T any](p inject.Provider[T]) Producer[T] {
	return &providerProducer[T]{provider: p}
}

func (p *providerProducer[T]) Get() *Future[T] {
	p.once.Do(func() {
		p.future = NewFuture[T]()
		v, err := callSafely(func() (T, error) { return p.provider.Get(), nil })
		if err != nil {
			p.future.Fail(err)
			return
		}
		p.future.Resolve(v)
	})
	return p.future
}

// NewProducer returns a producer for one asynchronous binding. On the first
// Get it calls collect to request its dependencies, waits for all of them,
// then runs compute on the executor. token names the binding for monitors.
func NewProducer[T any](
	token string,
	executor inject.Provider[Executor],
	monitor inject.Provider[Monitor],
	collect func() []Dependency,
	compute func(deps []Dependency) (*Future[T], error),
) Producer[T] {
	return &producer[T]{token: token, executor: executor, monitor: monitor, collect: collect, compute: compute}
}

func (p *producer[T]) Get() *Future[T] {
	p.once.Do(func() {
		p.future = NewFuture[T]()
		p.start()
	})
	return p.future
}

func (p *producer[T]) start() {
	m := p.monitor.Get()
	if m == nil {
		m = NoOpMonitor()
	}
	pm := m.ProducerMonitorFor(p.token)
	pm.Requested()

	var deps []Dependency
	if p.collect != nil {
		deps = p.collect()
	}
	var remaining atomic.Int32
	remaining.Store(int32(len(deps)))
	if len(deps) == 0 {
		p.schedule(pm, deps)
		return
	}
	for _, d := range deps {
		d.OnComplete(func() {
			if err := d.Err(); err != nil && !isLenient(d) {
				if p.future.Fail(err) {
					pm.Failed(err)
				}
			}
			if remaining.Add(-1) == 0 {
				p.schedule(pm, deps)
			}
		})
	}
}

// schedule submits the body once every dependency is complete. Nothing is
// submitted when a strict dependency already failed the future.
func (p *producer[T]) schedule(pm ProducerMonitor, deps []Dependency) {
	if !p.future.MarkScheduled() {
		return
	}
	p.executor.Get().Execute(func() {
		pm.MethodStarting()
		result, err := callSafely(func() (*Future[T], error) { return p.compute(deps) })
		pm.MethodFinished()
		if err == nil && result == nil {
			err = fmt.Errorf("producer %s returned a nil future", p.token)
		}
		if err != nil {
			if p.future.Fail(err) {
				pm.Failed(err)
			}
			return
		}
		result.OnComplete(func() {
			v, _, err := result.Result()
			if err != nil {
				if p.future.Fail(err) {
					pm.Failed(err)
				}
				return
			}
			if p.future.Resolve(v) {
				pm.Succeeded(v)
			}
		})
	})
}

func callSafely[R any](fn func() (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}
