package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
)

func TestKindOfAndPublicMessage(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		kind    ErrorKind
		message string
	}{
		{"validation", ErrOrderNumberRequired, KindValidation, "PO Number is required"},
		{"wrapped validation", fmt.Errorf("%w: minimum 6 characters", ErrWeakPassword), KindValidation, "password is too short"},
		{"conflict", ErrOrderNumberExists, KindConflict, "Order number already exists"},
		{"not found", ErrOrderItemNotFound, KindNotFound, "order item not found"},
		{"forbidden", authz.ErrForbidden, KindAuthorization, "unauthorized"},
		{"credentials", ErrInvalidCredentials, KindAuthorization, "unauthorized"},
		{"dependency", wrapCause(ErrQuotationRecordFailed, errors.New("db locked")), KindDependency, "internal server error"},
		{"unknown", errors.New("boom"), KindDependency, "internal server error"},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.kind {
			t.Fatalf("%s: kind want %v got %v", tc.name, tc.kind, got)
		}
		if got := PublicMessage(tc.err); got != tc.message {
			t.Fatalf("%s: message want %q got %q", tc.name, tc.message, got)
		}
	}
}

func TestWrapCauseKeepsClassifiedErrors(t *testing.T) {
	if err := wrapCause(ErrStorageFailed, ErrPreviewNotFound); !errors.Is(err, ErrPreviewNotFound) || errors.Is(err, ErrStorageFailed) {
		t.Fatalf("classified error should pass through, got %v", err)
	}
	if wrapCause(ErrStorageFailed, nil) != nil {
		t.Fatalf("nil cause should stay nil")
	}
}
