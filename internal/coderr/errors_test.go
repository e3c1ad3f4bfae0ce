package coderr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesIs(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "get symbol")
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("Wrap lost sentinel: %v", wrapped)
	}
	if Wrap(nil, "no-op") != nil {
		t.Fatalf("Wrap(nil) should return nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", ErrInvalidRange), http.StatusBadRequest},
		{ErrInvalidArgument, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{ErrIntegrity, http.StatusUnprocessableEntity},
		{ErrBackingStoreMissing, http.StatusServiceUnavailable},
		{ErrBackingStoreUnavailable, http.StatusServiceUnavailable},
		{ErrResourceExhausted, http.StatusTooManyRequests},
		{ErrCancelled, 499},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{ErrIntegrity, 2},
		{ErrConflict, 2},
		{ErrBackingStoreMissing, 3},
		{ErrBackingStoreUnavailable, 3},
		{ErrInvalidArgument, 1},
		{ErrInvalidRange, 1},
		{ErrNotFound, 1},
		{errors.New("boom"), 1},
	}
	for _, tc := range cases {
		if got := ExitCode(tc.err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
