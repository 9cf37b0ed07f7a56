package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StorageError{
		Path: "/test/path",
		Op:   "open",
		Err:  originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/test/path") {
		t.Errorf("StorageError.Error() should contain path, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestSessionError(t *testing.T) {
	err := &SessionError{ID: "abc", Op: "complete", Err: ErrAlreadyCompleted}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "abc") || !strings.Contains(errorMsg, "complete") {
		t.Errorf("SessionError.Error() = %q, want id and op", errorMsg)
	}
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Error("SessionError should unwrap to ErrAlreadyCompleted")
	}
	if errors.Is(err, ErrUnknownSession) {
		t.Error("SessionError should not match ErrUnknownSession")
	}
}

func TestUnavailable(t *testing.T) {
	cause := errors.New("no such directory")
	err := unavailable("/group/shared.db", "open", cause)

	if !errors.Is(err, ErrStoreUnavailable) {
		t.Error("unavailable() should match ErrStoreUnavailable")
	}
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatal("unavailable() should be a *StorageError")
	}
	if se.Path != "/group/shared.db" || se.Op != "open" {
		t.Errorf("unavailable() = %+v", se)
	}
	if !strings.Contains(err.Error(), "no such directory") {
		t.Errorf("unavailable() should keep cause text, got %q", err.Error())
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/file.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}

	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
