package pkgerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestError_Msg_ServerNeverLeaks(t *testing.T) {
	t.Parallel()

	err := NewServer(errors.New("dial tcp: connection refused"))

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("NewServer() expected *Error, got %T", err)
	}

	if perr.Msg() != "internal server error" {
		t.Fatalf("Msg() = %q, want %q", perr.Msg(), "internal server error")
	}

	if perr.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("StatusCode() = %d, want %d", perr.StatusCode(), http.StatusInternalServerError)
	}
}

func TestError_Msg_ValidationSurfacesReason(t *testing.T) {
	t.Parallel()

	err := NewValidation(errors.New(`missing required column "Type"`))

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("NewValidation() expected *Error, got %T", err)
	}

	if perr.Msg() != `missing required column "Type"` {
		t.Fatalf("Msg() = %q", perr.Msg())
	}

	if perr.StatusCode() != http.StatusBadRequest {
		t.Fatalf("StatusCode() = %d, want %d", perr.StatusCode(), http.StatusBadRequest)
	}
}

func TestError_StatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewBusiness("dataset not found", CodeNotFound), http.StatusNotFound},
		{"gone", NewBusiness("dataset file was evicted", CodeGone), http.StatusGone},
		{"conflict", NewBusiness("dataset already exists", CodeConflict), http.StatusConflict},
		{"unauthorized", NewBusiness("authentication required", CodeUnauthorized), http.StatusUnauthorized},
		{"invalid format", NewInvalidFormat(errors.New("not a csv")), http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var perr *Error
			if !errors.As(tt.err, &perr) {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if perr.StatusCode() != tt.want {
				t.Fatalf("StatusCode() = %d, want %d", perr.StatusCode(), tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := NewValidation(cause)

	if !errors.Is(err, cause) {
		t.Fatal("errors.Is() did not reach the wrapped cause")
	}
}
