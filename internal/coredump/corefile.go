package coredump

import (
	"fmt"
	"os"

	"github.com/muurk/espcoredump/internal/elffile"
	"github.com/muurk/espcoredump/internal/layout"
	"go.uber.org/zap"
)

// CoreFile produces the core file model for the dump.
func (d *Dump) CoreFile() (*elffile.File, *Report, error) {
	switch d.Format.Extraction {
	case ExtractELF:
		core, err := d.extractELF()
		if err != nil {
			return nil, nil, err
		}
		return core, reportFromNotes(core, d.opts.logger), nil
	case ExtractLegacy:
		tasks, segs, err := d.Tasks()
		if err != nil {
			return nil, nil, err
		}
		return d.synthesize(tasks, segs)
	default:
		return nil, nil, &LoaderError{Op: "extract", Msg: d.Format.Extraction.String(), Err: ErrUnsupportedVersion}
	}
}

// reportFromNotes rebuilds the task summary of an embedded core from its
// TASK_INFO and EXTRA_INFO notes.
func reportFromNotes(core *elffile.File, logger *zap.Logger) *Report {
	report := &Report{}
	var crashedTCB uint32
	if n, ok := core.FindNote(NoteNameExtraInfo, NoteTypeExtraInfo); ok && len(n.Desc) >= 4 {
		crashedTCB = layout.Order.Uint32(n.Desc)
	}
	for _, n := range core.Notes() {
		if n.Name != NoteNameTaskInfo || n.Type != NoteTypeTaskInfo {
			continue
		}
		var st layout.TaskStatus
		if err := layout.Parse("task status", n.Desc, &st); err != nil {
			report.warn(logger, fmt.Sprintf("skip malformed task info note: %v", err))
			continue
		}
		report.Tasks = append(report.Tasks, TaskReport{
			Index:      st.Index,
			TCBAddr:    st.TCBAddr,
			StackStart: st.StackStart,
			StackLen:   st.StackLen,
			Flags:      st.Flags,
			Crashed:    crashedTCB != 0 && st.TCBAddr == crashedTCB,
		})
	}
	return report
}

// CoreImage returns the file bytes for a core produced by CoreFile. Embedded ELF
// cores are the payload itself; synthesized cores are serialized.
func (d *Dump) CoreImage(core *elffile.File) ([]byte, error) {
	if d.Format.Extraction == ExtractELF {
		return d.Payload, nil
	}
	image, err := core.Bytes()
	if err != nil {
		return nil, &LoaderError{Op: "write", Err: err}
	}
	return image, nil
}

// Result describes a written core file.
type Result struct {
	Path   string
	Info   Info
	Core   *elffile.File
	Report *Report
	Size   int
	SHA256 string
}

// CreateCoreFile loads a container and writes its core file to outPath. Embedded
// ELF cores are written exactly as stored; legacy dumps are synthesized.
func CreateCoreFile(data []byte, outPath string, opts ...Option) (*Result, error) {
	d, err := Load(data, opts...)
	if err != nil {
		return nil, err
	}

	core, report, err := d.CoreFile()
	if err != nil {
		return nil, err
	}

	image, err := d.CoreImage(core)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, image, 0644); err != nil {
		return nil, &LoaderError{Op: "write", Err: fmt.Errorf("failed to write core file: %w", err)}
	}

	d.opts.logger.Info("core file written",
		zap.String("path", outPath),
		zap.String("format", d.Format.Name),
		zap.String("chip", d.Chip.Name),
		zap.Int("tasks", len(report.Tasks)),
		zap.Int("load_segments", len(core.LoadSegments)),
		zap.Int("warnings", len(report.Warnings)),
	)

	return &Result{
		Path:   outPath,
		Info:   d.Info(),
		Core:   core,
		Report: report,
		Size:   len(image),
		SHA256: core.SHA256Hex(),
	}, nil
}
