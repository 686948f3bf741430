package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessagePrecedence(t *testing.T) {
	withErr := New(http.StatusConflict, "conflict", errors.New("row changed"))
	if withErr.Error() != "row changed" {
		t.Errorf("Error() = %q", withErr.Error())
	}

	codeOnly := &Error{Status: http.StatusConflict, Code: "conflict"}
	if codeOnly.Error() != "conflict" {
		t.Errorf("Error() = %q", codeOnly.Error())
	}

	statusOnly := &Error{Status: http.StatusTeapot}
	if statusOnly.Error() != "api error (418)" {
		t.Errorf("Error() = %q", statusOnly.Error())
	}
}

func TestWrapKeepsStatusAndCode(t *testing.T) {
	sentinel := New(http.StatusServiceUnavailable, "gateway_unavailable", errors.New("payment gateway unavailable"))
	cause := errors.New("connection refused")

	wrapped := Wrap(sentinel, cause)
	if wrapped.Status != sentinel.Status || wrapped.Code != sentinel.Code {
		t.Errorf("wrap lost status/code: %d/%s", wrapped.Status, wrapped.Code)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error does not unwrap to its cause")
	}

	var ae *Error
	if !errors.As(fmt.Errorf("handler: %w", wrapped), &ae) {
		t.Fatal("errors.As failed through an extra wrap layer")
	}
	if ae.Code != "gateway_unavailable" {
		t.Errorf("Code = %q", ae.Code)
	}
}

func TestWrapNilSentinel(t *testing.T) {
	cause := errors.New("boom")
	wrapped := Wrap(nil, cause)
	if !errors.Is(wrapped, cause) {
		t.Error("nil-sentinel wrap lost the cause")
	}
}
