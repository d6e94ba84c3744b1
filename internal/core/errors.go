package core

// The three failure kinds the HTTP boundary distinguishes. Everything else
// that bubbles out of a detection run is an internal error.

// ValidationError rejects malformed input before any process is spawned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports a missing source image or detection result.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// ProcessingError reports a detection run that failed to produce a usable
// artifact: the process exited nonzero, or exited zero without writing its
// output. Details carries the raw diagnostic text from the external process.
type ProcessingError struct {
	Msg     string
	Details string
	Err     error
}

func (e *ProcessingError) Error() string { return e.Msg }
func (e *ProcessingError) Unwrap() error { return e.Err }
