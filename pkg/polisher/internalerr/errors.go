package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrAnalysisRunning is returned when a bulk analysis is requested while
	// another one has not finished yet.
	ErrAnalysisRunning = errors.New("analysis already running")

	// ErrAnalysisFailed wraps an unexpected failure inside a bulk analysis or
	// mining pass. Mutations applied before the failure are kept.
	ErrAnalysisFailed = errors.New("analysis failed")
)
