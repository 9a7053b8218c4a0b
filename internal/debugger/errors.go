package debugger

import "fmt"

// ExecutionError represents a gdb run that exited with an error.
type ExecutionError struct {
	// ExitCode is the gdb process exit code (-1 if it never started)
	ExitCode int
	// Stderr is the gdb error output
	Stderr string
	// Underlying error if any
	Err error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gdb failed (exit code %d): %v\nstderr: %s", e.ExitCode, e.Err, e.Stderr)
	}
	return fmt.Sprintf("gdb failed (exit code %d)\nstderr: %s", e.ExitCode, e.Stderr)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// PrerequisiteError represents a gdb binary that cannot be found.
type PrerequisiteError struct {
	// Prerequisite is the name of the missing binary
	Prerequisite string
	// Underlying error
	Err error
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("missing prerequisite: %s\n"+
		"Install the ESP-IDF toolchain or set tools.gdb in the config file.\n"+
		"Error: %v", e.Prerequisite, e.Err)
}

func (e *PrerequisiteError) Unwrap() error {
	return e.Err
}

// TimeoutError represents a batch run that did not finish in time.
type TimeoutError struct {
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gdb timed out after %s\n"+
		"Hint: increase the timeout in the config file", e.Timeout)
}
