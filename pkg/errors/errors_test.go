package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelWrapping(t *testing.T) {
	err := NotFound("period %s", "2025-W14")
	if !IsNotFound(err) {
		t.Error("NotFound() result should satisfy IsNotFound")
	}
	if IsValidation(err) {
		t.Error("NotFound() result should not satisfy IsValidation")
	}

	wrapped := fmt.Errorf("loading report: %w", Validation("bad rating %q", "eleven"))
	if !IsValidation(wrapped) {
		t.Error("wrapped validation error should satisfy IsValidation")
	}
}

func TestAnalysisErrorUnwraps(t *testing.T) {
	cause := errors.New("cannot parse date")
	ae := NewAnalysisError("yandex:abc123", StageDate, cause)

	if !errors.Is(ae, cause) {
		t.Error("AnalysisError should unwrap to its cause")
	}

	wrapped := fmt.Errorf("batch item: %w", ae)
	got, ok := AsAnalysisError(wrapped)
	if !ok {
		t.Fatal("AsAnalysisError should find the wrapped AnalysisError")
	}
	if got.ReviewID != "yandex:abc123" || got.Stage != StageDate {
		t.Errorf("got ReviewID=%q Stage=%q", got.ReviewID, got.Stage)
	}

	if _, ok := AsAnalysisError(errors.New("plain")); ok {
		t.Error("plain error should not convert to AnalysisError")
	}
}
