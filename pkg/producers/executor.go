// SPDX-License-Identifier: MPL-2.0

package producers

import (
	"sync"

	"github.com/sourcegraph/conc/pool"
)

type (
	// Executor runs producer bodies. Implementations decide where and when a
	// task runs; they must eventually run every task they accept.
	Executor interface {
		Execute(task func())
	}

	// ExecutorFunc adapts a function to Executor.
	ExecutorFunc func(task func())

	// PoolExecutor runs tasks on a bounded goroutine pool.
	PoolExecutor struct {
		pool    *pool.Pool
		pending sync.WaitGroup
	}
)

// Execute calls f.
func (f ExecutorFunc) Execute(task func()) {
	f(task)
}

// DirectExecutor runs every task on the calling goroutine.
func DirectExecutor() Executor {
	return ExecutorFunc(func(task func()) { task() })
}

// GoExecutor runs every task on a new goroutine.
func GoExecutor() Executor {
	return ExecutorFunc(func(task func()) { go task() })
}

// NewPoolExecutor returns an executor running at most maxGoroutines tasks at
// once. A value below one means no limit.
func NewPoolExecutor(maxGoroutines int) *PoolExecutor {
	p := pool.New()
	if maxGoroutines > 0 {
		p = p.WithMaxGoroutines(maxGoroutines)
	}
	return &PoolExecutor{pool: p}
}

// Execute submits task without blocking the caller. Producer callbacks may
// submit from inside a running task, so submission happens off the calling
// goroutine to keep a full pool from waiting on itself.
func (e *PoolExecutor) Execute(task func()) {
	e.pending.Add(1)
	go e.pool.Go(func() {
		defer e.pending.Done()
		task()
	})
}

// Wait blocks until every submitted task, including tasks submitted while
// waiting, has finished. The executor must not be used after Wait returns.
func (e *PoolExecutor) Wait() {
	e.pending.Wait()
	e.pool.Wait()
}
