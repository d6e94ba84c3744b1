package detect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// runCommand executes the detector command and fills the stdout/stderr
// buffers. Injectable in tests.
var runCommand = func(ctx context.Context, stdout, stderr *bytes.Buffer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// OpenCVEngine shells out to the OpenCV floor-plan script:
//
//	<interpreter> <script-path> <absolute-image-path>
//
// The process is expected to write its result to the shared data directory
// on success. One invocation spawns exactly one process; distinct images may
// run in parallel.
type OpenCVEngine struct {
	Interpreter string
	Script      string
	Timeout     time.Duration // zero means no bound
}

func NewOpenCVEngine(interpreter, script string, timeout time.Duration) *OpenCVEngine {
	return &OpenCVEngine{
		Interpreter: interpreter,
		Script:      script,
		Timeout:     timeout,
	}
}

func (e *OpenCVEngine) Detect(ctx context.Context, imageAbsPath string) (Run, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	err := runCommand(ctx, &stdout, &stderr, e.Interpreter, e.Script, imageAbsPath)
	run := Run{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		if ctx.Err() != nil {
			return run, fmt.Errorf("detect: %s %s: %w", e.Interpreter, e.Script, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return run, &ExitError{Code: exitErr.ExitCode(), Stderr: run.Stderr}
		}
		// A process that never started has no diagnostics to surface.
		return run, fmt.Errorf("detect: run %s %s: %w", e.Interpreter, e.Script, err)
	}
	return run, nil
}
