package target

import (
	"debug/elf"
	"errors"
	"fmt"

	"github.com/muurk/espcoredump/internal/layout"
)

// Target answers address plausibility questions for one chip.
type Target interface {
	Name() string
	// TCBIsSane reports whether a TCB of size bytes at addr lies in task RAM.
	TCBIsSane(addr, size uint32) bool
	// StackIsSane reports whether a stack starting at addr lies in task RAM.
	StackIsSane(addr uint32) bool
	// AddrIsFake reports whether addr lies in a range that cannot be RAM.
	AddrIsFake(addr uint32) bool
}

// Arch decodes register frames for one CPU architecture.
type Arch interface {
	Name() string
	// Machine is the ELF e_machine of core files for this architecture.
	Machine() elf.Machine
	// RegistersFromStack decodes the frame saved at the top of a task stack.
	RegistersFromStack(stack []byte, growsDown bool) (*Registers, error)
	// BuildPrStatus returns the CORE note payload for one task.
	BuildPrStatus(taskID uint32, regs *Registers) []byte
}

// Registers is a decoded task frame. General is in debugger register order. Extra
// holds exception state keyed by architecture register id; it is empty unless the
// task was interrupted by an exception.
type Registers struct {
	General []uint32
	Extra   map[uint32]uint32
}

// ErrStackGrowsUp is returned for tasks whose stack grows towards higher addresses.
var ErrStackGrowsUp = errors.New("stacks growing up are not supported")

// FrameError reports a stack too short for the frame it claims to hold.
type FrameError struct {
	Arch  string
	Frame string
	Need  int
	Have  int
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("%s: stack of %d bytes is too small for %s frame (%d bytes)",
		e.Arch, e.Have, e.Frame, e.Need)
}

// buildPrStatus encodes the prstatus header with pid set to the task id, followed
// by the general registers.
func buildPrStatus(taskID uint32, general []uint32) []byte {
	out := layout.Build(&layout.PrStatus{Pid: taskID})
	return append(out, layout.Words(general)...)
}
