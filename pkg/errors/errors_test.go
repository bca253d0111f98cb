package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSelection, "please select some elements first")

	if err.Code != ErrCodeInvalidSelection {
		t.Errorf("code = %q, want %q", err.Code, ErrCodeInvalidSelection)
	}
	if err.Message != "please select some elements first" {
		t.Errorf("unexpected message: %q", err.Message)
	}
	if !strings.Contains(err.Error(), "INVALID_SELECTION") {
		t.Errorf("Error() should include the code: %s", err.Error())
	}
}

func TestNewFormatting(t *testing.T) {
	err := New(ErrCodeFileNotFound, "model file not found: %s", "office.json")
	if err.Message != "model file not found: office.json" {
		t.Errorf("unexpected message: %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeModelNotFound, cause, "loading %q", "office")

	if err.Cause != cause {
		t.Error("cause not preserved")
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() should include the cause: %s", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidSelection, "input selection is null")

	if !Is(err, ErrCodeInvalidSelection) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("Is should not match a plain error")
	}
	if Is(nil, ErrCodeInternal) {
		t.Error("Is should not match nil")
	}

	// Code survives standard wrapping.
	wrapped := fmt.Errorf("extract: %w", err)
	if !Is(wrapped, ErrCodeInvalidSelection) {
		t.Error("Is should unwrap the chain")
	}
}

func TestGetCode(t *testing.T) {
	err := New(ErrCodeDocumentUnavailable, "could not access model document")
	if GetCode(err) != ErrCodeDocumentUnavailable {
		t.Errorf("GetCode = %q", GetCode(err))
	}
	if GetCode(fmt.Errorf("plain")) != "" {
		t.Error("GetCode should be empty for a plain error")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidSelection, "please select some elements first")
	if got := UserMessage(err); got != "please select some elements first" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := fmt.Errorf("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage for plain error = %q", got)
	}

	// The user message never carries the code prefix, even when wrapped.
	wrapped := fmt.Errorf("run: %w", err)
	if got := UserMessage(wrapped); strings.Contains(got, "INVALID_SELECTION") {
		t.Errorf("UserMessage should drop the code: %q", got)
	}
}
