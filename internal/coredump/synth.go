package coredump

import (
	"debug/elf"
	"fmt"
	"sort"

	"github.com/muurk/espcoredump/internal/elffile"
	"github.com/muurk/espcoredump/internal/layout"
	"go.uber.org/zap"
)

// Note names and types written into synthesized cores. CORE reuses the PT_LOAD
// value, which is also NT_PRSTATUS.
const (
	NoteNameCore      = "CORE"
	NoteNameESPInfo   = "ESP_CORE_DUMP_INFO"
	NoteNameExtraInfo = "EXTRA_INFO"
	NoteNameTaskInfo  = "TASK_INFO"

	NoteTypeCore      = uint32(elf.PT_LOAD)
	NoteTypeESPInfo   = 8266
	NoteTypeExtraInfo = 677
	NoteTypeTaskInfo  = 678
)

// TaskReport describes one task of the produced core.
type TaskReport struct {
	Index      uint32
	TCBAddr    uint32
	StackStart uint32
	StackLen   uint32
	Flags      uint32
	// Crashed is set for the task whose frame carried exception state
	Crashed bool
}

// Report summarizes a produced core file.
type Report struct {
	Tasks    []TaskReport
	Warnings []string
}

func (r *Report) warn(logger *zap.Logger, msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
	r.Warnings = append(r.Warnings, msg)
}

// synthesize builds a core file from legacy task records. Per-task address
// problems are flagged and reported; only a frame that cannot be decoded is fatal.
func (d *Dump) synthesize(tasks []Task, segs []MemSegment) (*elffile.File, *Report, error) {
	logger := d.opts.logger
	report := &Report{}
	core := elffile.New(elf.ET_CORE, d.Arch.Machine())
	rw := elf.PF_R | elf.PF_W

	var prstatus, espInfo, taskInfo []byte
	crashed := false

	for i, t := range tasks {
		status := layout.TaskStatus{
			Index:      uint32(i),
			TCBAddr:    t.TcbAddr,
			StackStart: t.StackStart(),
			StackLen:   uint32(len(t.Stack)),
		}

		if d.Target.TCBIsSane(t.TcbAddr, uint32(len(t.TCB))) {
			if err := core.AddSegment(t.TcbAddr, t.TCB, elf.PT_LOAD, rw); err != nil {
				return nil, nil, &LoaderError{Op: "synthesize", Msg: fmt.Sprintf("task %d tcb", i), Err: err}
			}
		} else {
			status.Flags |= layout.TaskStatusTCBCorrupted
			report.warn(logger, fmt.Sprintf("task %d: skip TCB 0x%08x (%d bytes) outside %s memory",
				i, t.TcbAddr, len(t.TCB), d.Target.Name()),
				zap.Int("task", i), zap.Uint32("tcb", t.TcbAddr))
		}

		start := t.StackStart()
		switch {
		case d.Target.StackIsSane(start):
			if err := core.AddSegment(start, t.Stack, elf.PT_LOAD, rw); err != nil {
				return nil, nil, &LoaderError{Op: "synthesize", Msg: fmt.Sprintf("task %d stack", i), Err: err}
			}
		case d.Target.AddrIsFake(start):
			status.Flags |= layout.TaskStatusStackCorrupted
			if err := core.AddSegment(start, t.Stack, elf.PT_LOAD, rw); err != nil {
				return nil, nil, &LoaderError{Op: "synthesize", Msg: fmt.Sprintf("task %d stack", i), Err: err}
			}
			report.warn(logger, fmt.Sprintf("task %d: stack 0x%08x (%d bytes) is at a fake address",
				i, start, len(t.Stack)),
				zap.Int("task", i), zap.Uint32("stack", start))
		default:
			logger.Debug("dropping stack outside task memory",
				zap.Int("task", i), zap.Uint32("stack", start), zap.Int("size", len(t.Stack)))
		}

		regs, err := d.Arch.RegistersFromStack(t.Stack, t.GrowsDown())
		if err != nil {
			return nil, nil, &LoaderError{
				Op:  "registers",
				Msg: fmt.Sprintf("task %d (tcb 0x%08x)", i, t.TcbAddr),
				Err: fmt.Errorf("%w: %w", ErrRegisters, err),
			}
		}

		prstatus = append(prstatus, layout.Note{
			Name: NoteNameCore,
			Type: NoteTypeCore,
			Desc: d.Arch.BuildPrStatus(t.TcbAddr, regs),
		}.Bytes()...)

		isCrashed := len(regs.Extra) > 0 && !crashed
		if isCrashed {
			crashed = true
			espInfo = append(espInfo, layout.Note{
				Name: NoteNameESPInfo,
				Type: NoteTypeESPInfo,
				Desc: layout.Words([]uint32{uint32(d.Version)}),
			}.Bytes()...)
			espInfo = append(espInfo, layout.Note{
				Name: NoteNameExtraInfo,
				Type: NoteTypeExtraInfo,
				Desc: extraInfo(t.TcbAddr, regs.Extra),
			}.Bytes()...)
			logger.Debug("crashed task", zap.Int("task", i), zap.Uint32("tcb", t.TcbAddr))
		}

		taskInfo = append(taskInfo, layout.Note{
			Name: NoteNameTaskInfo,
			Type: NoteTypeTaskInfo,
			Desc: layout.Build(&status),
		}.Bytes()...)

		report.Tasks = append(report.Tasks, TaskReport{
			Index:      status.Index,
			TCBAddr:    status.TCBAddr,
			StackStart: status.StackStart,
			StackLen:   status.StackLen,
			Flags:      status.Flags,
			Crashed:    isCrashed,
		})
	}

	for _, seg := range segs {
		if err := core.AddSegment(seg.Start, seg.Data, elf.PT_LOAD, rw); err != nil {
			return nil, nil, &LoaderError{Op: "synthesize", Msg: fmt.Sprintf("memory segment 0x%08x", seg.Start), Err: err}
		}
	}

	addNoteSegments(core, report, logger, []noteBlob{
		{"prstatus", prstatus},
		{"info", espInfo},
		{"task info", taskInfo},
	})

	return core, report, nil
}

// noteBlob is the encoded content of one NOTE segment.
type noteBlob struct {
	name string
	data []byte
}

// addNoteSegments adds one NOTE segment per blob. A blob that does not parse is
// skipped with a warning and the rest of the core is kept.
func addNoteSegments(core *elffile.File, report *Report, logger *zap.Logger, blobs []noteBlob) {
	for _, blob := range blobs {
		if err := core.AddSegment(0, blob.data, elf.PT_NOTE, 0); err != nil {
			report.warn(logger, fmt.Sprintf("skip %s notes: %v", blob.name, err),
				zap.String("notes", blob.name))
		}
	}
}

// extraInfo encodes the EXTRA_INFO payload: the task id followed by register id
// and value pairs in id order.
func extraInfo(taskID uint32, extra map[uint32]uint32) []byte {
	ids := make([]uint32, 0, len(extra))
	for id := range extra {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	words := make([]uint32, 0, 1+2*len(ids))
	words = append(words, taskID)
	for _, id := range ids {
		words = append(words, id, extra[id])
	}
	return layout.Words(words)
}
