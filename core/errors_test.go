package core

import (
	"testing"

	"github.com/pkg/errors"
)

func TestIsDataAccessError(t *testing.T) {
	err := NewDataAccessError("querying grades", errors.New("connection refused"))
	if !IsDataAccessError(err) {
		t.Error("IsDataAccessError() = false for a DataAccessError")
	}
	if !IsDataAccessError(errors.Wrap(err, "fetching grade points")) {
		t.Error("IsDataAccessError() = false for a wrapped DataAccessError")
	}
	if IsDataAccessError(errors.New("boom")) {
		t.Error("IsDataAccessError() = true for a plain error")
	}

	want := "querying grades: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, expected %q", got, want)
	}
}

func TestIsShutdown(t *testing.T) {
	err := NewShutdownError("out of file descriptors")
	if !IsShutdown(err) {
		t.Error("IsShutdown() = false for a shutdown error")
	}
	if IsShutdown(errors.New("boom")) {
		t.Error("IsShutdown() = true for a plain error")
	}
}
