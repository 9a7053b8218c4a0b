package source

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// FlashConfig holds the settings for reading a dump from a device.
type FlashConfig struct {
	// Esptool is the esptool command, split on spaces (e.g. "python -m esptool").
	// Default: "esptool.py"
	Esptool string

	// PartTool is the parttool command, split on spaces.
	// Default: "parttool.py"
	PartTool string

	// Chip is passed to esptool --chip. Empty means auto.
	Chip string

	// Port is the serial port. Empty lets the tools probe.
	Port string

	// Baud is the serial baud rate.
	// Default: 115200
	Baud int

	// Timeout bounds each tool invocation.
	// Default: 2 minutes
	Timeout time.Duration

	// TempDir is where tool output files are written.
	// Default: os.TempDir()
	TempDir string
}

// DefaultFlashConfig returns a FlashConfig with sensible defaults.
func DefaultFlashConfig() FlashConfig {
	return FlashConfig{
		Esptool:  "esptool.py",
		PartTool: "parttool.py",
		Baud:     115200,
		Timeout:  2 * time.Minute,
		TempDir:  os.TempDir(),
	}
}

// runFunc runs a command and returns its stderr and exit code.
type runFunc func(ctx context.Context, name string, args ...string) (stderr string, exitCode int, err error)

// FlashReader reads core dumps from device flash.
type FlashReader struct {
	config FlashConfig
	logger *zap.Logger
	run    runFunc
}

// NewFlashReader creates a reader with the given configuration.
func NewFlashReader(config FlashConfig, logger *zap.Logger) *FlashReader {
	return &FlashReader{config: config, logger: logger, run: runCommand}
}

// Read returns the core dump container. With an offset the dump is read directly
// from flash: its first word is the total length, which sizes a second read.
// Without one the coredump partition is located through the partition table.
func (r *FlashReader) Read(ctx context.Context, offset *uint32) ([]byte, error) {
	if offset == nil {
		return r.readPartition(ctx)
	}

	head, err := r.readFlash(ctx, *offset, 4)
	if err != nil {
		return nil, err
	}
	if len(head) < 4 {
		return nil, fmt.Errorf("short read at 0x%x: %d bytes", *offset, len(head))
	}
	total := binary.LittleEndian.Uint32(head)
	if total == 0 || total == 0xffffffff {
		return nil, fmt.Errorf("no core dump at flash offset 0x%x (length word 0x%08x)", *offset, total)
	}

	r.logger.Debug("core dump length read from flash",
		zap.Uint32("offset", *offset),
		zap.Uint32("length", total),
	)
	return r.readFlash(ctx, *offset, total)
}

func (r *FlashReader) readFlash(ctx context.Context, offset, size uint32) ([]byte, error) {
	args := r.esptoolArgs()
	return r.readTool(ctx, r.config.Esptool, func(out string) []string {
		return append(args, "read_flash", fmt.Sprintf("0x%x", offset), strconv.FormatUint(uint64(size), 10), out)
	})
}

func (r *FlashReader) readPartition(ctx context.Context) ([]byte, error) {
	var args []string
	if r.config.Port != "" {
		args = append(args, "--port", r.config.Port)
	}
	if r.config.Baud != 0 {
		args = append(args, "--baud", strconv.Itoa(r.config.Baud))
	}
	return r.readTool(ctx, r.config.PartTool, func(out string) []string {
		return append(args, "read_partition",
			"--partition-type", "data",
			"--partition-subtype", "coredump",
			"--output", out)
	})
}

func (r *FlashReader) esptoolArgs() []string {
	var args []string
	if r.config.Chip != "" {
		args = append(args, "--chip", r.config.Chip)
	}
	if r.config.Port != "" {
		args = append(args, "--port", r.config.Port)
	}
	if r.config.Baud != 0 {
		args = append(args, "--baud", strconv.Itoa(r.config.Baud))
	}
	return args
}

// readTool runs a tool that writes its result to a file and returns that file's
// contents. The output file is removed on every path.
func (r *FlashReader) readTool(ctx context.Context, tool string, argsFor func(out string) []string) ([]byte, error) {
	file, err := os.CreateTemp(r.config.TempDir, "espcoredump-flash-*.bin")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	out := file.Name()
	file.Close()
	defer os.Remove(out)

	command := strings.Fields(tool)
	if len(command) == 0 {
		return nil, fmt.Errorf("no command configured")
	}
	args := append(command[1:], argsFor(out)...)

	timeoutCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := time.Now()
	r.logger.Info("running flash tool",
		zap.String("tool", command[0]),
		zap.Strings("args", args),
		zap.Duration("timeout", r.config.Timeout),
	)

	stderr, exitCode, err := r.run(timeoutCtx, command[0], args...)
	if timeoutCtx.Err() == context.DeadlineExceeded {
		return nil, &TimeoutError{Tool: command[0], Timeout: r.config.Timeout.String()}
	}
	if err != nil || exitCode != 0 {
		return nil, &ToolError{Tool: command[0], Args: args, ExitCode: exitCode, Stderr: stderr, Err: err}
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool output: %w", err)
	}

	r.logger.Debug("flash tool complete",
		zap.String("tool", command[0]),
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

func runCommand(ctx context.Context, name string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}
	return stderr.String(), exitCode, err
}
