package errcode

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

var errTest = New("SM-TEST-0001", "test failure")

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", errTest, "[SM-TEST-0001] test failure"},
		{"details", errTest.WithDetails("slot 3"), "[SM-TEST-0001] test failure: slot 3"},
		{"detailsf", errTest.WithDetailsf("slot %d", 7), "[SM-TEST-0001] test failure: slot 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	derived := errTest.WithDetails("extra").WithCause(io.EOF)

	if !errors.Is(derived, errTest) {
		t.Error("derived error should match sentinel")
	}
	if !errors.Is(derived, io.EOF) {
		t.Error("derived error should unwrap to its cause")
	}

	other := New("SM-TEST-0002", "other")
	if errors.Is(derived, other) {
		t.Error("errors with different codes should not match")
	}

	wrapped := fmt.Errorf("outer: %w", derived)
	if !errors.Is(wrapped, errTest) {
		t.Error("fmt-wrapped error should still match sentinel")
	}
}

func TestIsAndCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", errTest)

	if !Is(wrapped, "SM-TEST-0001") {
		t.Error("Is() should find the code through wrapping")
	}
	if !Is(wrapped, "") {
		t.Error("Is() with empty code should report any coded error")
	}
	if Is(io.EOF, "") {
		t.Error("Is() should be false for uncoded errors")
	}

	if got := CodeOf(wrapped); got != "SM-TEST-0001" {
		t.Errorf("CodeOf() = %q, want %q", got, "SM-TEST-0001")
	}
	if got := CodeOf(io.EOF); got != "" {
		t.Errorf("CodeOf(io.EOF) = %q, want empty", got)
	}
}
