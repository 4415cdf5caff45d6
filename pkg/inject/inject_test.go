// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func counter() (*atomic.Int32, Provider[int]) {
	var calls atomic.Int32
	return &calls, ProviderFunc[int](func() int { return int(calls.Add(1)) })
}

func TestDoubleCheck(t *testing.T) {
	t.Parallel()

	calls, p := counter()
	dc := NewDoubleCheck(p)

	var wg sync.WaitGroup
	results := make([]int, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = dc.Get()
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("delegate called %d times, want 1", got)
	}
	for i, r := range results {
		if r != 1 {
			t.Errorf("result[%d] = %d, want 1", i, r)
		}
	}
	if NewDoubleCheck[int](dc) != dc {
		t.Error("wrapping a DoubleCheck should return it unchanged")
	}
}

func TestProviderFunc_Unmemoized(t *testing.T) {
	t.Parallel()

	calls, p := counter()
	p.Get()
	p.Get()
	if calls.Load() != 2 {
		t.Errorf("ProviderFunc should call through each time, got %d calls", calls.Load())
	}
}

func TestLazyOf(t *testing.T) {
	t.Parallel()

	calls, p := counter()
	lazy := LazyOf(p)
	if calls.Load() != 0 {
		t.Fatal("LazyOf must not evaluate eagerly")
	}
	if lazy.Get() != 1 || lazy.Get() != 1 || calls.Load() != 1 {
		t.Errorf("lazy value should be computed once, calls = %d", calls.Load())
	}
	if Instance("x").Get() != "x" {
		t.Error("Instance should yield its value")
	}
}

func TestSetBuilder(t *testing.T) {
	t.Parallel()

	set := NewSetBuilder[string](2, 1).
		AddProvider(Instance("a")).
		AddCollectionProvider(Instance([]string{"b", "c"})).
		AddProvider(Instance("d")).
		Build()

	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, set.Get()); diff != "" {
		t.Errorf("set elements mismatch (-want +got):\n%s", diff)
	}
	if got := NewSetBuilder[int](0, 0).Build().Get(); len(got) != 0 {
		t.Errorf("empty set = %v", got)
	}
}

func TestMapBuilder(t *testing.T) {
	t.Parallel()

	b := NewMapBuilder[string, int](2).Put("http", Instance(80)).Put("https", Instance(443))
	want := map[string]int{"http": 80, "https": 443}
	if diff := cmp.Diff(want, b.Build().Get()); diff != "" {
		t.Errorf("map mismatch (-want +got):\n%s", diff)
	}
	if len(b.Providers()) != 2 {
		t.Errorf("Providers() = %v", b.Providers())
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate key should panic")
		}
	}()
	b.Put("http", Instance(8080))
}

func TestModuleErrors(t *testing.T) {
	t.Parallel()

	if err := NilModule("SetAppModule"); !errors.Is(err, ErrNilModule) {
		t.Errorf("NilModule() = %v, want ErrNilModule", err)
	}
	err := ModuleNotSet("ConfigModule")
	if !errors.Is(err, ErrModuleNotSet) || err.Error() != "ConfigModule: module must be set" {
		t.Errorf("ModuleNotSet() = %v", err)
	}
}
