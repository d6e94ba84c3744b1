package detect

import (
	"context"
	"fmt"
)

// Run is what one invocation of the external detector produced. Stdout and
// Stderr are buffered in full; the detector may print progress or partial
// diagnostics on either stream and callers surface them verbatim.
type Run struct {
	Stdout []byte
	Stderr []byte
}

// ExitError reports a detector process that started but exited nonzero.
type ExitError struct {
	Code   int
	Stderr []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("detect: detector exited with code %d", e.Code)
}

// Engine runs room detection for one image and reports the process streams.
// The detection result itself travels over the filesystem: on success the
// external tool writes the artifact into the data directory and the caller
// picks it up by naming convention.
type Engine interface {
	Detect(ctx context.Context, imageAbsPath string) (Run, error)
}
