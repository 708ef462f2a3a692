package router

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/interchange"
)

func TestFromError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", fmt.Errorf("get: %w", apperr.NotFound("Bill not found")), http.StatusNotFound, "Bill not found"},
		{"validation", apperr.Invalid("Patient name is required"), http.StatusBadRequest, "Patient name is required"},
		{"unauthorized", apperr.Unauthorized("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{"field error", &interchange.FieldError{Key: "duration", Reason: "must be an integer"}, http.StatusBadRequest, "duration must be an integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var re *Error
			if !errors.As(FromError(tt.err), &re) {
				t.Fatalf("expected *Error, got %T", FromError(tt.err))
			}
			if re.Status != tt.wantStatus || re.Message != tt.wantMsg {
				t.Errorf("got %d %q, want %d %q", re.Status, re.Message, tt.wantStatus, tt.wantMsg)
			}
		})
	}

	if FromError(plain) != plain {
		t.Error("unclassified errors must pass through")
	}
	if FromError(nil) != nil {
		t.Error("nil must stay nil")
	}
}

func TestMessage(t *testing.T) {
	resp := Message("Patient deleted successfully")
	if resp.Status != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.Status)
	}
	if resp.Body != `{"message":"Patient deleted successfully"}` {
		t.Errorf("unexpected body %s", resp.Body)
	}
}
