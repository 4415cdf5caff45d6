// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	// ComponentInterface is the only kind a component declaration may have.
	ComponentInterface ComponentKind = "interface"
	// ComponentStruct marks a component declared on a concrete struct type.
	ComponentStruct ComponentKind = "struct"
	// ComponentEnum marks a component declared on an enumeration type.
	ComponentEnum ComponentKind = "enum"
	// ComponentAnnotation marks a component declared on an annotation type.
	ComponentAnnotation ComponentKind = "annotation"

	// ModuleUnannotated is a module reference that carries no module annotation.
	ModuleUnannotated ModuleKind = ""
	// ModuleProvider is a module of synchronous provides bindings.
	ModuleProvider ModuleKind = "module"
	// ModuleProducer is a module that may declare asynchronous produces bindings.
	ModuleProducer ModuleKind = "producer_module"

	// BindingProvides is a synchronous binding.
	BindingProvides BindingKind = "provides"
	// BindingProduces is an asynchronous binding run on the production executor.
	BindingProduces BindingKind = "produces"

	// RequestInstance requests the value itself.
	RequestInstance RequestKind = "instance"
	// RequestProvider requests a provider that yields the value on demand.
	RequestProvider RequestKind = "provider"
	// RequestLazy requests a memoizing provider.
	RequestLazy RequestKind = "lazy"
	// RequestProducer requests the producer without waiting for it.
	RequestProducer RequestKind = "producer"
	// RequestProduced requests the outcome of a producer, success or failure.
	RequestProduced RequestKind = "produced"

	// MultibindingNone is an ordinary unique binding.
	MultibindingNone MultibindingKind = ""
	// MultibindingSet contributes one element to a set.
	MultibindingSet MultibindingKind = "set"
	// MultibindingSetValues contributes every element of a slice to a set.
	MultibindingSetValues MultibindingKind = "set_values"
	// MultibindingMap contributes one entry to a map.
	MultibindingMap MultibindingKind = "map"

	// AccessorInstance returns the value.
	AccessorInstance AccessorKind = "instance"
	// AccessorProvider returns a provider of the value.
	AccessorProvider AccessorKind = "provider"
	// AccessorLazy returns a memoizing provider of the value.
	AccessorLazy AccessorKind = "lazy"
	// AccessorFuture returns a future of the value.
	AccessorFuture AccessorKind = "future"

	// Unscoped is the zero scope: a fresh value per request.
	Unscoped Scope = ""
)

var (
	// ErrInvalidComponentKind is the sentinel error wrapped by InvalidComponentKindError.
	ErrInvalidComponentKind = errors.New("invalid component kind")
	// ErrInvalidModuleKind is the sentinel error wrapped by InvalidModuleKindError.
	ErrInvalidModuleKind = errors.New("invalid module kind")
	// ErrInvalidBindingKind is the sentinel error wrapped by InvalidBindingKindError.
	ErrInvalidBindingKind = errors.New("invalid binding kind")
	// ErrInvalidRequestKind is the sentinel error wrapped by InvalidRequestKindError.
	ErrInvalidRequestKind = errors.New("invalid request kind")
	// ErrInvalidMultibindingKind is the sentinel error wrapped by InvalidMultibindingKindError.
	ErrInvalidMultibindingKind = errors.New("invalid multibinding kind")
	// ErrInvalidAccessorKind is the sentinel error wrapped by InvalidAccessorKindError.
	ErrInvalidAccessorKind = errors.New("invalid accessor kind")
	// ErrInvalidScope is the sentinel error wrapped by InvalidScopeError.
	ErrInvalidScope = errors.New("invalid scope")
)

type (
	// ComponentKind is the kind of type a component is declared on.
	ComponentKind string
	// ModuleKind is the annotation carried by a module declaration.
	ModuleKind string
	// BindingKind distinguishes synchronous and asynchronous bindings.
	BindingKind string
	// RequestKind is how a dependency is requested.
	RequestKind string
	// MultibindingKind is how a binding contributes to an aggregate key.
	MultibindingKind string
	// AccessorKind is the shape of a component accessor method.
	AccessorKind string
	// Scope names a memoization scope. Any identifier declared on a component is a scope.
	Scope string

	// InvalidComponentKindError is returned when a ComponentKind is not recognized.
	InvalidComponentKindError struct{ Value ComponentKind }
	// InvalidModuleKindError is returned when a ModuleKind is not recognized.
	InvalidModuleKindError struct{ Value ModuleKind }
	// InvalidBindingKindError is returned when a BindingKind is not recognized.
	InvalidBindingKindError struct{ Value BindingKind }
	// InvalidRequestKindError is returned when a RequestKind is not recognized.
	InvalidRequestKindError struct{ Value RequestKind }
	// InvalidMultibindingKindError is returned when a MultibindingKind is not recognized.
	InvalidMultibindingKindError struct{ Value MultibindingKind }
	// InvalidAccessorKindError is returned when an AccessorKind is not recognized.
	InvalidAccessorKindError struct{ Value AccessorKind }
	// InvalidScopeError is returned when a Scope is not an identifier.
	InvalidScopeError struct{ Value Scope }
)

// String returns the string representation of the ComponentKind.
func (k ComponentKind) String() string { return string(k) }

// IsValid returns whether the ComponentKind is one of the defined kinds.
func (k ComponentKind) IsValid() (bool, []error) {
	switch k {
	case ComponentInterface, ComponentStruct, ComponentEnum, ComponentAnnotation:
		return true, nil
	default:
		return false, []error{&InvalidComponentKindError{Value: k}}
	}
}

// String returns the string representation of the ModuleKind.
func (k ModuleKind) String() string { return string(k) }

// IsValid returns whether the ModuleKind is one of the defined kinds.
// ModuleUnannotated is valid: reporting it is the validator's job.
func (k ModuleKind) IsValid() (bool, []error) {
	switch k {
	case ModuleUnannotated, ModuleProvider, ModuleProducer:
		return true, nil
	default:
		return false, []error{&InvalidModuleKindError{Value: k}}
	}
}

// Annotated reports whether the module carries one of the module annotations.
func (k ModuleKind) Annotated() bool {
	return k == ModuleProvider || k == ModuleProducer
}

// String returns the string representation of the BindingKind.
func (k BindingKind) String() string { return string(k) }

// IsValid returns whether the BindingKind is one of the defined kinds.
func (k BindingKind) IsValid() (bool, []error) {
	switch k {
	case BindingProvides, BindingProduces:
		return true, nil
	default:
		return false, []error{&InvalidBindingKindError{Value: k}}
	}
}

// String returns the string representation of the RequestKind.
func (k RequestKind) String() string { return string(k) }

// IsValid returns whether the RequestKind is one of the defined kinds.
func (k RequestKind) IsValid() (bool, []error) {
	switch k {
	case RequestInstance, RequestProvider, RequestLazy, RequestProducer, RequestProduced:
		return true, nil
	default:
		return false, []error{&InvalidRequestKindError{Value: k}}
	}
}

// Deferred reports whether the request does not need the value before the
// requester is constructed. Deferred requests break dependency cycles.
func (k RequestKind) Deferred() bool {
	return k == RequestProvider || k == RequestLazy || k == RequestProducer
}

// String returns the string representation of the MultibindingKind.
func (k MultibindingKind) String() string { return string(k) }

// IsValid returns whether the MultibindingKind is one of the defined kinds.
func (k MultibindingKind) IsValid() (bool, []error) {
	switch k {
	case MultibindingNone, MultibindingSet, MultibindingSetValues, MultibindingMap:
		return true, nil
	default:
		return false, []error{&InvalidMultibindingKindError{Value: k}}
	}
}

// String returns the string representation of the AccessorKind.
func (k AccessorKind) String() string { return string(k) }

// IsValid returns whether the AccessorKind is one of the defined kinds.
func (k AccessorKind) IsValid() (bool, []error) {
	switch k {
	case AccessorInstance, AccessorProvider, AccessorLazy, AccessorFuture:
		return true, nil
	default:
		return false, []error{&InvalidAccessorKindError{Value: k}}
	}
}

// Request maps the accessor shape to the dependency request it performs.
func (k AccessorKind) Request() RequestKind {
	switch k {
	case AccessorProvider:
		return RequestProvider
	case AccessorLazy:
		return RequestLazy
	case AccessorFuture:
		return RequestProducer
	default:
		return RequestInstance
	}
}

// String returns the string representation of the Scope.
func (s Scope) String() string { return string(s) }

// IsValid returns whether the Scope is empty or a plain identifier.
func (s Scope) IsValid() (bool, []error) {
	if s == Unscoped {
		return true, nil
	}
	for i, r := range string(s) {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false, []error{&InvalidScopeError{Value: s}}
	}
	return true, nil
}

// Error implements the error interface for InvalidComponentKindError.
func (e *InvalidComponentKindError) Error() string {
	return fmt.Sprintf("invalid component kind %q (valid: interface, struct, enum, annotation)", e.Value)
}

// Unwrap returns ErrInvalidComponentKind for errors.Is() compatibility.
func (e *InvalidComponentKindError) Unwrap() error { return ErrInvalidComponentKind }

// Error implements the error interface for InvalidModuleKindError.
func (e *InvalidModuleKindError) Error() string {
	return fmt.Sprintf("invalid module kind %q (valid: module, producer_module, or empty)", e.Value)
}

// Unwrap returns ErrInvalidModuleKind for errors.Is() compatibility.
func (e *InvalidModuleKindError) Unwrap() error { return ErrInvalidModuleKind }

// Error implements the error interface for InvalidBindingKindError.
func (e *InvalidBindingKindError) Error() string {
	return fmt.Sprintf("invalid binding kind %q (valid: provides, produces)", e.Value)
}

// Unwrap returns ErrInvalidBindingKind for errors.Is() compatibility.
func (e *InvalidBindingKindError) Unwrap() error { return ErrInvalidBindingKind }

// Error implements the error interface for InvalidRequestKindError.
func (e *InvalidRequestKindError) Error() string {
	return fmt.Sprintf("invalid request kind %q (valid: instance, provider, lazy, producer, produced)", e.Value)
}

// Unwrap returns ErrInvalidRequestKind for errors.Is() compatibility.
func (e *InvalidRequestKindError) Unwrap() error { return ErrInvalidRequestKind }

// Error implements the error interface for InvalidMultibindingKindError.
func (e *InvalidMultibindingKindError) Error() string {
	return fmt.Sprintf("invalid multibinding kind %q (valid: set, set_values, map, or empty)", e.Value)
}

// Unwrap returns ErrInvalidMultibindingKind for errors.Is() compatibility.
func (e *InvalidMultibindingKindError) Unwrap() error { return ErrInvalidMultibindingKind }

// Error implements the error interface for InvalidAccessorKindError.
func (e *InvalidAccessorKindError) Error() string {
	return fmt.Sprintf("invalid accessor kind %q (valid: instance, provider, lazy, future)", e.Value)
}

// Unwrap returns ErrInvalidAccessorKind for errors.Is() compatibility.
func (e *InvalidAccessorKindError) Unwrap() error { return ErrInvalidAccessorKind }

// Error implements the error interface for InvalidScopeError.
func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("invalid scope %q: must be an identifier", strings.TrimSpace(string(e.Value)))
}

// Unwrap returns ErrInvalidScope for errors.Is() compatibility.
func (e *InvalidScopeError) Unwrap() error { return ErrInvalidScope }
