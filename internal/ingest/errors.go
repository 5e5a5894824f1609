package ingest

import "fmt"

// ValidationError rejects an upload before any database access: wrong
// extension, oversized file, or no file at all. Its message is safe to
// show to the uploader.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ProcessingError is batch-fatal: an I/O failure reading a file or an
// unexpected failure during bulk apply. The wrapped cause is for logs;
// callers surface only a generic message.
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
