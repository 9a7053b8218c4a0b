package coredump

import (
	"fmt"
	"os"
	"strings"

	"github.com/muurk/espcoredump/internal/elffile"
	"github.com/muurk/espcoredump/internal/layout"
	"go.uber.org/zap"
)

// extractELF stages the embedded core through a temp file, parses it and checks
// it against the application ELF when one is configured.
func (d *Dump) extractELF() (*elffile.File, error) {
	path, err := d.stagePayload()
	if err != nil {
		return nil, &LoaderError{Op: "extract", Err: err}
	}
	defer os.Remove(path)

	f, err := elffile.Open(path)
	if err != nil {
		return nil, &LoaderError{Op: "extract", Msg: "embedded core is not a valid ELF file", Err: err}
	}

	if err := d.checkApp(f); err != nil {
		return nil, err
	}
	return f, nil
}

// stagePayload writes the payload to a temp file and closes it before returning.
func (d *Dump) stagePayload() (string, error) {
	file, err := os.CreateTemp(d.opts.tempDir, "espcoredump-*.elf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := file.Name()

	if _, err := file.Write(d.Payload); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	d.opts.logger.Debug("staged embedded core",
		zap.String("file", path),
		zap.Int("size", len(d.Payload)),
	)
	return path, nil
}

// checkApp compares the ESP_CORE_DUMP_INFO note with the application ELF. The
// note may carry a truncated hash, so it only has to be a prefix of the real one.
func (d *Dump) checkApp(core *elffile.File) error {
	note, ok := core.FindNote(NoteNameESPInfo, NoteTypeESPInfo)
	if !ok || d.opts.program == "" {
		return nil
	}

	var info layout.AppSHA256Info
	if err := layout.Parse("app sha256 info", note.Desc, &info); err != nil {
		return &LoaderError{Op: "app check", Err: err}
	}

	app, err := elffile.Open(d.opts.program)
	if err != nil {
		return &LoaderError{Op: "app check", Msg: d.opts.program, Err: err}
	}
	appHex := app.SHA256Hex()
	noteHex := strings.TrimRight(string(info.SHA256[:]), "\x00")

	if noteHex == "" || !strings.HasPrefix(appHex, noteHex) {
		return &LoaderError{
			Op:  "app check",
			Msg: fmt.Sprintf("application SHA256 %s, core dump expects %s", appHex, noteHex),
			Err: ErrAppMismatch,
		}
	}
	if info.Ver != uint32(d.Version) {
		return &LoaderError{
			Op:  "app check",
			Msg: fmt.Sprintf("container version 0x%08x, core note version 0x%08x", uint32(d.Version), info.Ver),
			Err: ErrAppMismatch,
		}
	}

	d.opts.logger.Debug("application matches core dump", zap.String("sha256", noteHex))
	return nil
}
