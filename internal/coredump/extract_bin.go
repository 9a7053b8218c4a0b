package coredump

import (
	"fmt"

	"github.com/muurk/espcoredump/internal/layout"
)

// Task is one task record of a legacy binary dump.
type Task struct {
	layout.TaskHeader
	TCB   []byte
	Stack []byte
}

// MemSegment is a raw memory region of a BIN_V2 dump.
type MemSegment struct {
	Start uint32
	Data  []byte
}

// Tasks decodes the task records and memory segments of a legacy binary dump.
// Each record is word aligned; missing padding after the last one is tolerated.
func (d *Dump) Tasks() ([]Task, []MemSegment, error) {
	if d.Format.Extraction != ExtractLegacy {
		return nil, nil, &LoaderError{Op: "tasks", Msg: fmt.Sprintf("%s dumps have no task records", d.Format.Name)}
	}

	r := layout.NewReader(d.Payload)
	var tasks []Task
	for i := uint32(0); i < d.Header.TaskNum; i++ {
		var t Task
		if err := r.Struct("task header", &t.TaskHeader); err != nil {
			return nil, nil, &LoaderError{Op: "tasks", Msg: fmt.Sprintf("task %d", i), Err: err}
		}
		tcb, err := r.Bytes("tcb", int(d.Header.TcbSz))
		if err != nil {
			return nil, nil, &LoaderError{Op: "tasks", Msg: fmt.Sprintf("task %d", i), Err: err}
		}
		r.Align(4)
		stack, err := r.Bytes("stack", t.StackLen())
		if err != nil {
			return nil, nil, &LoaderError{Op: "tasks", Msg: fmt.Sprintf("task %d", i), Err: err}
		}
		r.Align(4)
		t.TCB, t.Stack = tcb, stack
		tasks = append(tasks, t)
	}

	var segs []MemSegment
	for i := uint32(0); i < d.Header.SegsNum; i++ {
		var h layout.MemSegmentHeader
		if err := r.Struct("memory segment header", &h); err != nil {
			return nil, nil, &LoaderError{Op: "segments", Msg: fmt.Sprintf("segment %d", i), Err: err}
		}
		data, err := r.Bytes("memory segment", int(h.Size))
		if err != nil {
			return nil, nil, &LoaderError{Op: "segments", Msg: fmt.Sprintf("segment %d", i), Err: err}
		}
		r.Align(4)
		segs = append(segs, MemSegment{Start: h.Start, Data: data})
	}

	return tasks, segs, nil
}
