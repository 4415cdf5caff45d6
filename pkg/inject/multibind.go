// SPDX-License-Identifier: MPL-2.0

package inject

import "fmt"

type (
	// SetBuilder assembles a set multibinding from individual and collection
	// contributions. Elements keep contribution order.
	SetBuilder[T any] struct {
		individual []Provider[T]
		collection []Provider[[]T]
		order      []bool // true for individual
	}

	// MapBuilder assembles a map multibinding from keyed contributions.
	MapBuilder[K comparable, V any] struct {
		keys      []K
		providers map[K]Provider[V]
	}

	setProvider[T any] struct {
		individual []Provider[T]
		collection []Provider[[]T]
		order      []bool
	}

	mapProvider[K comparable, V any] struct {
		keys      []K
		providers map[K]Provider[V]
	}
)

// NewSetBuilder creates a set builder sized for the expected contributions.
func NewSetBuilder[T any](individual, collection int) *SetBuilder[T] {
	return &SetBuilder[T]{
		individual: make([]Provider[T], 0, individual),
		collection: make([]Provider[[]T], 0, collection),
		order:      make([]bool, 0, individual+collection),
	}
}

// AddProvider adds a single-element contribution.
func (b *SetBuilder[T]) AddProvider(p Provider[T]) *SetBuilder[T] {
	b.individual = append(b.individual, p)
	b.order = append(b.order, true)
	return b
}

// AddCollectionProvider adds a contribution of many elements.
func (b *SetBuilder[T]) AddCollectionProvider(p Provider[[]T]) *SetBuilder[T] {
	b.collection = append(b.collection, p)
	b.order = append(b.order, false)
	return b
}

// Build returns a provider that evaluates every contribution on each Get.
func (b *SetBuilder[T]) Build() Provider[[]T] {
	return &setProvider[T]{individual: b.individual, collection: b.collection, order: b.order}
}

func (s *setProvider[T]) Get() []T {
	out := make([]T, 0, len(s.individual))
	var i, c int
	for _, single := range s.order {
		if single {
			out = append(out, s.individual[i].Get())
			i++
			continue
		}
		out = append(out, s.collection[c].Get()...)
		c++
	}
	return out
}

// NewMapBuilder creates a map builder sized for n contributions.
func NewMapBuilder[K comparable, V any](n int) *MapBuilder[K, V] {
	return &MapBuilder[K, V]{keys: make([]K, 0, n), providers: make(map[K]Provider[V], n)}
}

// Put adds the contribution for key. Keys are checked when the graph is
// compiled, so a repeated key here is a bug in generated code and panics.
func (b *MapBuilder[K, V]) Put(key K, p Provider[V]) *MapBuilder[K, V] {
	if _, dup := b.providers[key]; dup {
		panic(fmt.Sprintf("inject: map key %v contributed more than once", key))
	}
	b.keys = append(b.keys, key)
	b.providers[key] = p
	return b
}

// Build returns a provider that evaluates every contribution on each Get.
func (b *MapBuilder[K, V]) Build() Provider[map[K]V] {
	return &mapProvider[K, V]{keys: b.keys, providers: b.providers}
}

func (m *mapProvider[K, V]) Get() map[K]V {
	out := make(map[K]V, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.providers[k].Get()
	}
	return out
}

// Providers returns the contributions without evaluating them, for
// map-of-provider requests.
func (b *MapBuilder[K, V]) Providers() map[K]Provider[V] {
	out := make(map[K]Provider[V], len(b.providers))
	for k, p := range b.providers {
		out[k] = p
	}
	return out
}
