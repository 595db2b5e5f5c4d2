package summarizer

import (
	"errors"
	"fmt"
)

// Predefined error types for summary operations
var (
	ErrReadFailed    = errors.New("QA log read failed")
	ErrLocateFailed  = errors.New("QA log lookup failed")
	ErrPublishFailed = errors.New("report publish failed")
)

// SummaryError represents a summary-related error with context
type SummaryError struct {
	Op      string // Operation that failed
	Path    string // QA log path (if applicable)
	Err     error  // Underlying error
	Context string // Additional context
}

func (e *SummaryError) Error() string {
	if e.Path != "" && e.Context != "" {
		return fmt.Sprintf("summary %s failed at %s: %v (context: %s)", e.Op, e.Path, e.Err, e.Context)
	}
	if e.Path != "" {
		return fmt.Sprintf("summary %s failed at %s: %v", e.Op, e.Path, e.Err)
	}
	if e.Context != "" {
		return fmt.Sprintf("summary %s failed: %v (context: %s)", e.Op, e.Err, e.Context)
	}
	return fmt.Sprintf("summary %s failed: %v", e.Op, e.Err)
}

func (e *SummaryError) Unwrap() error {
	return e.Err
}

// NewSummaryError creates a new SummaryError
func NewSummaryError(op, path string, err error, context string) *SummaryError {
	return &SummaryError{
		Op:      op,
		Path:    path,
		Err:     err,
		Context: context,
	}
}

// ReadError creates a QA log read error
func ReadError(path string, err error) error {
	return NewSummaryError("read", path, fmt.Errorf("%w: %w", ErrReadFailed, err), "")
}

// LocateError creates a QA log lookup error
func LocateError(dir string, err error) error {
	return NewSummaryError("locate", dir, fmt.Errorf("%w: %w", ErrLocateFailed, err), "")
}

// PublishError creates a publish error for the given target
func PublishError(target string, err error) error {
	return NewSummaryError("publish", "", fmt.Errorf("%w: %w", ErrPublishFailed, err), target)
}
