// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"errors"
	"testing"
)

func TestComponentKind_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    ComponentKind
		want    bool
		wantErr bool
	}{
		{ComponentInterface, true, false},
		{ComponentStruct, true, false},
		{ComponentEnum, true, false},
		{ComponentAnnotation, true, false},
		{"", false, true},
		{"class", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.kind.IsValid()
			if ok != tt.want {
				t.Errorf("IsValid() = %v, want %v", ok, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatal("expected errors")
				}
				if !errors.Is(errs[0], ErrInvalidComponentKind) {
					t.Errorf("error should wrap ErrInvalidComponentKind, got %v", errs[0])
				}
				var typed *InvalidComponentKindError
				if !errors.As(errs[0], &typed) || typed.Value != tt.kind {
					t.Errorf("expected InvalidComponentKindError for %q, got %v", tt.kind, errs[0])
				}
			} else if len(errs) != 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestModuleKind(t *testing.T) {
	t.Parallel()

	if ok, _ := ModuleUnannotated.IsValid(); !ok {
		t.Error("unannotated module kind should be a valid declaration value")
	}
	if ModuleUnannotated.Annotated() {
		t.Error("unannotated module kind should not report Annotated")
	}
	if !ModuleProvider.Annotated() || !ModuleProducer.Annotated() {
		t.Error("module and producer_module should report Annotated")
	}
	ok, errs := ModuleKind("component").IsValid()
	if ok || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidModuleKind) {
		t.Errorf("unexpected result for unknown module kind: %v %v", ok, errs)
	}
}

func TestRequestKind_Deferred(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind RequestKind
		want bool
	}{
		{RequestInstance, false},
		{RequestProduced, false},
		{RequestProvider, true},
		{RequestLazy, true},
		{RequestProducer, true},
	}
	for _, tt := range tests {
		if got := tt.kind.Deferred(); got != tt.want {
			t.Errorf("%s.Deferred() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestAccessorKind_Request(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind AccessorKind
		want RequestKind
	}{
		{AccessorInstance, RequestInstance},
		{AccessorProvider, RequestProvider},
		{AccessorLazy, RequestLazy},
		{AccessorFuture, RequestProducer},
	}
	for _, tt := range tests {
		if got := tt.kind.Request(); got != tt.want {
			t.Errorf("%s.Request() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestScope_IsValid(t *testing.T) {
	t.Parallel()

	valid := []Scope{Unscoped, "singleton", "Request", "per_call2"}
	for _, s := range valid {
		if ok, errs := s.IsValid(); !ok {
			t.Errorf("scope %q should be valid: %v", s, errs)
		}
	}

	invalid := []Scope{"two words", "1st", "a-b"}
	for _, s := range invalid {
		ok, errs := s.IsValid()
		if ok {
			t.Errorf("scope %q should be invalid", s)
			continue
		}
		if !errors.Is(errs[0], ErrInvalidScope) {
			t.Errorf("error should wrap ErrInvalidScope, got %v", errs[0])
		}
	}
}
