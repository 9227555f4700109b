package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "unknown cell kit: %s", "palm")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if err.Message != "unknown cell kit: palm" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown cell kit: palm")
	}

	expected := "INVALID_CONFIG: unknown cell kit: palm"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidScene, cause, "read scene")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "INVALID_SCENE: read scene: unexpected EOF"; err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeRootNotFound, "test"), ErrCodeRootNotFound, true},
		{"non-matching code", New(ErrCodeRootNotFound, "test"), ErrCodeInvalidScene, false},
		{"outer code wins", Wrap(ErrCodeRenderFailed, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeRenderFailed, true},
		{"through fmt wrap", fmt.Errorf("load: %w", New(ErrCodeInvalidConfig, "bad")), ErrCodeInvalidConfig, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeSpeciesNotFound, "test"), ErrCodeSpeciesNotFound},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCodesAreDistinct(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidScene, ErrCodeInvalidFormat,
		ErrCodeRootNotFound, ErrCodeSpeciesNotFound, ErrCodeFileNotFound,
		ErrCodeInvalidCoordinateState,
		ErrCodeRenderFailed, ErrCodeCacheFailed,
		ErrCodeInternal,
	}
	seen := make(map[Code]bool)
	for _, c := range codes {
		if c == "" || seen[c] {
			t.Errorf("code %q empty or repeated", c)
		}
		seen[c] = true
	}
}
