package errors

import (
	"errors"
	"fmt"
)

// Analysis stages, used to say where a single review fell over.
const (
	StageDate      = "date"
	StageIngest    = "ingest"
	StageClassify  = "classify"
	StageAggregate = "aggregate"
	StageStore     = "store"
)

// AnalysisError is a per-review soft failure. The review it names is dropped
// and the batch continues; callers collect these alongside the successes.
type AnalysisError struct {
	ReviewID string
	Stage    string
	Cause    error
}

func (e *AnalysisError) Error() string {
	if e.ReviewID == "" {
		return fmt.Sprintf("analysis failed at %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("review %s failed at %s: %v", e.ReviewID, e.Stage, e.Cause)
}

func (e *AnalysisError) Unwrap() error { return e.Cause }

// NewAnalysisError builds an AnalysisError for one review.
func NewAnalysisError(reviewID, stage string, cause error) *AnalysisError {
	return &AnalysisError{ReviewID: reviewID, Stage: stage, Cause: cause}
}

// AsAnalysisError unwraps err into an *AnalysisError if it carries one.
func AsAnalysisError(err error) (*AnalysisError, bool) {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
