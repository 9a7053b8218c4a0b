package debugger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"text/template"
	"time"

	"go.uber.org/zap"
)

// InfoCommands lists the batch commands behind the info report.
var InfoCommands = []string{
	"info threads",
	"thread apply all bt",
	"info registers",
}

const scriptTemplate = `set pagination off
set confirm off
set width 0
{{range .Commands}}echo \n==== {{.}} ====\n
{{.}}
{{end}}`

var script = template.Must(template.New("batch").Parse(scriptTemplate))

// Config holds the configuration for gdb runs.
type Config struct {
	// GDBPath is the gdb binary for the dump's architecture.
	// Default: "xtensa-esp32-elf-gdb"
	GDBPath string

	// Timeout bounds batch runs. Interactive sessions are not bounded.
	// Default: 1 minute
	Timeout time.Duration

	// WorkDir is the directory for temporary script files.
	// Default: os.TempDir()
	WorkDir string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GDBPath: "xtensa-esp32-elf-gdb",
		Timeout: time.Minute,
		WorkDir: os.TempDir(),
	}
}

// Session runs gdb.
type Session struct {
	config Config
	logger *zap.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewSession creates a session with the given configuration.
func NewSession(config Config, logger *zap.Logger) *Session {
	return &Session{
		config: config,
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Validate checks that the gdb binary can be found.
func (s *Session) Validate() error {
	if _, err := exec.LookPath(s.config.GDBPath); err != nil {
		return &PrerequisiteError{Prerequisite: s.config.GDBPath, Err: err}
	}
	return nil
}

// Interactive runs gdb attached to the terminal until the user quits.
func (s *Session) Interactive(ctx context.Context, core, prog string) error {
	args := []string{"-nx", "--core=" + core, prog}
	s.logger.Info("starting gdb", zap.String("gdb", s.config.GDBPath), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, s.config.GDBPath, args...)
	cmd.Stdin = s.stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr
	if err := cmd.Run(); err != nil {
		return &ExecutionError{ExitCode: exitCode(err), Err: err}
	}
	return nil
}

// Batch runs commands against the core and returns gdb's standard output.
func (s *Session) Batch(ctx context.Context, core, prog string, commands []string) (string, error) {
	rendered, err := renderScript(commands)
	if err != nil {
		return "", err
	}

	scriptFile, err := s.writeScriptFile(rendered)
	if err != nil {
		return "", err
	}
	defer os.Remove(scriptFile)

	timeoutCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	args := []string{"-batch", "-nx", "--core=" + core, "-x", scriptFile, prog}
	s.logger.Debug("running gdb batch",
		zap.String("gdb", s.config.GDBPath),
		zap.Strings("args", args),
		zap.String("script", rendered),
	)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(timeoutCtx, s.config.GDBPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	start := time.Now()
	err = cmd.Run()

	if timeoutCtx.Err() == context.DeadlineExceeded {
		return "", &TimeoutError{Timeout: s.config.Timeout.String()}
	}
	if err != nil {
		return "", &ExecutionError{ExitCode: exitCode(err), Stderr: stderr.String(), Err: err}
	}

	s.logger.Debug("gdb batch complete",
		zap.Duration("duration", time.Since(start)),
		zap.Int("stdout_size", stdout.Len()),
	)
	return stdout.String(), nil
}

func renderScript(commands []string) (string, error) {
	var buf bytes.Buffer
	if err := script.Execute(&buf, struct{ Commands []string }{commands}); err != nil {
		return "", fmt.Errorf("failed to render gdb script: %w", err)
	}
	return buf.String(), nil
}

func (s *Session) writeScriptFile(content string) (string, error) {
	file, err := os.CreateTemp(s.config.WorkDir, "espcoredump-*.gdb")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(content); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write script content: %w", err)
	}
	return file.Name(), nil
}

func exitCode(err error) int {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
