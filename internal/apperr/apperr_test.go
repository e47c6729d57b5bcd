package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    *Error
		status int
	}{
		{BadRequest("bad"), http.StatusBadRequest},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("not yours"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("duplicate"), http.StatusConflict},
		{RateLimited("limit reached"), http.StatusTooManyRequests},
		{Completion("provider down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if tt.err.Status != tt.status {
			t.Errorf("%q: status = %d, want %d", tt.err.Message, tt.err.Status, tt.status)
		}
	}
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", NotFound("conversation not found"))
	appErr, ok := From(wrapped)
	if !ok {
		t.Fatalf("From(wrapped) did not find *Error")
	}
	if appErr.Status != http.StatusNotFound || appErr.Message != "conversation not found" {
		t.Errorf("got %d %q", appErr.Status, appErr.Message)
	}

	if _, ok := From(errors.New("plain")); ok {
		t.Error("From(plain error) = true, want false")
	}
}
