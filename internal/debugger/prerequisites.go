package debugger

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// versionTimeout bounds each version probe.
const versionTimeout = 5 * time.Second

// Tool is an external command the CLI depends on.
type Tool struct {
	// Name is the role shown to the user, e.g. "gdb (esp32)"
	Name string
	// Command is the configured command line, e.g. "python -m esptool"
	Command string
	// VersionArgs are appended to Command to print a version. Nil skips the probe.
	VersionArgs []string
}

// ToolCheck is the result of probing one Tool.
type ToolCheck struct {
	Tool
	Available bool
	// Path is the resolved executable
	Path string
	// Version is the first non-empty line of the version output
	Version string
	Err     error
}

// CheckTools probes each tool in order. A tool that is missing or fails its
// version probe is reported unavailable; the other checks still run.
func CheckTools(ctx context.Context, tools []Tool) []ToolCheck {
	checks := make([]ToolCheck, 0, len(tools))
	for _, t := range tools {
		checks = append(checks, checkTool(ctx, t))
	}
	return checks
}

func checkTool(ctx context.Context, t Tool) ToolCheck {
	check := ToolCheck{Tool: t}

	fields := strings.Fields(t.Command)
	if len(fields) == 0 {
		check.Err = &PrerequisiteError{Prerequisite: t.Name, Err: errors.New("no command configured")}
		return check
	}

	path, err := exec.LookPath(fields[0])
	if err != nil {
		check.Err = &PrerequisiteError{Prerequisite: fields[0], Err: err}
		return check
	}
	check.Path = path

	if t.VersionArgs != nil {
		versionCtx, cancel := context.WithTimeout(ctx, versionTimeout)
		defer cancel()

		args := append(fields[1:len(fields):len(fields)], t.VersionArgs...)
		output, err := exec.CommandContext(versionCtx, path, args...).Output()
		if err != nil {
			check.Err = &ExecutionError{ExitCode: exitCode(err), Err: err}
			return check
		}
		check.Version = firstLine(string(output))
	}

	check.Available = true
	return check
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
