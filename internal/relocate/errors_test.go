package relocate

import (
	"errors"
	"testing"
)

func TestErrors(t *testing.T) {
	// Verify errors are distinct
	if errors.Is(ErrAssetNotFound, ErrCopyFailed) {
		t.Error("errors should be distinct")
	}
	if errors.Is(ErrCopyFailed, ErrUnknownMode) {
		t.Error("errors should be distinct")
	}

	// Verify all errors have messages
	errs := []error{
		ErrAssetNotFound,
		ErrCopyFailed,
		ErrUnknownMode,
	}
	for _, err := range errs {
		if err.Error() == "" {
			t.Errorf("error %v should have a message", err)
		}
	}
}
