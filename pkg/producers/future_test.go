// SPDX-License-Identifier: MPL-2.0

package producers

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestState_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  bool
	}{
		{StatePending, true},
		{StateScheduled, true},
		{StateResolved, true},
		{StateFailed, true},
		{"", false},
		{"running", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.state.IsValid()
			if ok != tt.want {
				t.Errorf("IsValid() = %v, want %v", ok, tt.want)
			}
			if !tt.want && (len(errs) != 1 || !errors.Is(errs[0], ErrInvalidState)) {
				t.Errorf("expected ErrInvalidState, got %v", errs)
			}
		})
	}
}

func TestFuture_Lifecycle(t *testing.T) {
	t.Parallel()

	f := NewFuture[int]()
	if f.State() != StatePending {
		t.Fatalf("new future state = %s", f.State())
	}
	var fired int
	f.OnComplete(func() { fired++ })

	if !f.MarkScheduled() || f.State() != StateScheduled {
		t.Fatalf("MarkScheduled failed, state = %s", f.State())
	}
	if f.MarkScheduled() {
		t.Error("a scheduled future cannot be scheduled again")
	}
	if _, ok, _ := f.Result(); ok {
		t.Error("Result() ok before completion")
	}

	if !f.Resolve(42) {
		t.Fatal("Resolve() = false")
	}
	if f.Resolve(7) || f.Fail(errors.New("late")) {
		t.Error("a future completes only once")
	}
	v, err := f.Get(context.Background())
	if v != 42 || err != nil || f.State() != StateResolved {
		t.Errorf("Get() = %d, %v (state %s)", v, err, f.State())
	}

	f.OnComplete(func() { fired++ })
	if fired != 2 {
		t.Errorf("callbacks fired %d times, want 2", fired)
	}
}

func TestFuture_FailAndCancel(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	if _, err := Failed[string](boom).Get(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Failed().Get() error = %v", err)
	}

	f := NewFuture[string]()
	if !f.Cancel() || !errors.Is(f.Err(), ErrCancelled) || f.State() != StateFailed {
		t.Errorf("Cancel() left state %s, err %v", f.State(), f.Err())
	}
	if f.MarkScheduled() {
		t.Error("a cancelled future cannot be scheduled")
	}

	if nilErr := NewFuture[int](); !nilErr.Fail(nil) || nilErr.Err() == nil {
		t.Error("Fail(nil) should still fail with an error")
	}
}

func TestFuture_GetHonoursContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewFuture[int]().Get(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Get() error = %v, want deadline exceeded", err)
	}

	f := NewFuture[int]()
	go f.Resolve(1)
	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() was never closed")
	}
}
