package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid argument", err: E(CodeInvalidArgument, "op", "bad", nil), want: http.StatusBadRequest},
		{name: "unprocessable", err: E(CodeUnprocessable, "op", "parse", nil), want: http.StatusUnprocessableEntity},
		{name: "unavailable", err: E(CodeUnavailable, "op", "down", nil), want: http.StatusServiceUnavailable},
		{name: "wrapped app error", err: fmt.Errorf("outer: %w", E(CodeNotFound, "op", "gone", nil)), want: http.StatusNotFound},
		{name: "sentinel not found", err: fmt.Errorf("x: %w", ErrNotFound), want: http.StatusNotFound},
		{name: "deadline", err: fmt.Errorf("llm: %w", context.DeadlineExceeded), want: http.StatusGatewayTimeout},
		{name: "foreign", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	parse := E(CodeUnprocessable, "Chain.ExtractJobs", "Context too big. Unable to parse jobs.", errors.New("invalid character"))
	if got := PublicMessage(parse); got != "Context too big. Unable to parse jobs." {
		t.Fatalf("unexpected message %q", got)
	}

	internal := E(CodeInternal, "op", "fetch failed", errors.New("dial tcp: refused"))
	if got := PublicMessage(internal); got != "fetch failed: dial tcp: refused" {
		t.Fatalf("unexpected message %q", got)
	}

	if got := PublicMessage(errors.New("plain")); got != "plain" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := PublicMessage(nil); got != "" {
		t.Fatalf("expected empty message for nil, got %q", got)
	}
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrap: %w", E(CodeInvalidArgument, "op", "missing", nil))
	if !IsCode(err, CodeInvalidArgument) {
		t.Fatal("expected wrapped code to match")
	}
	if IsCode(err, CodeInternal) {
		t.Fatal("unexpected code match")
	}
	if CodeOf(nil) != "" || CodeOf(errors.New("x")) != CodeInternal {
		t.Fatal("unexpected CodeOf for nil or foreign errors")
	}
}
