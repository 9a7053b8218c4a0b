package source

import (
	"fmt"
	"strings"
)

// ToolError represents a failed esptool or parttool invocation.
type ToolError struct {
	// Tool is the command that was run
	Tool string
	// Args are the command arguments
	Args []string
	// ExitCode is the process exit code (-1 if it never started)
	ExitCode int
	// Stderr is the tool's error output
	Stderr string
	// Underlying error
	Err error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s %s failed (exit code %d)", e.Tool, strings.Join(e.Args, " "), e.ExitCode)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\nstderr: " + s
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when a tool does not finish in time.
type TimeoutError struct {
	Tool    string
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s\n"+
		"Hint: check the serial port and increase the timeout with --timeout",
		e.Tool, e.Timeout)
}

// Base64Error reports a line of console output that is not valid base64.
type Base64Error struct {
	Line int
	Err  error
}

func (e *Base64Error) Error() string {
	return fmt.Sprintf("invalid base64 on line %d: %v", e.Line, e.Err)
}

func (e *Base64Error) Unwrap() error {
	return e.Err
}
