package target

import (
	"debug/elf"

	"github.com/muurk/espcoredump/internal/layout"
)

// RISC-V frame layout: 32 general words (mepc, ra, sp, gp, tp, t0-t2, s0-s1,
// a0-a7, s2-s11, t3-t6) followed by the machine CSRs saved on exception entry.
const (
	RISCVGeneralRegs = 32

	riscvStkMStatus = 32
	riscvStkMCause  = 34
	riscvStkMTVal   = 35
	riscvExcWords   = riscvStkMTVal + 1
)

// CSR numbers used as extra register ids.
const (
	RISCVMCause = 0x342
	RISCVMTVal  = 0x343
)

// RISCV decodes FreeRTOS task frames saved by the ESP RISC-V cores.
type RISCV struct{}

func (RISCV) Name() string         { return "riscv" }
func (RISCV) Machine() elf.Machine { return elf.EM_RISCV }

// RegistersFromStack decodes the frame at the start of stack. Exception state is
// only reported when the frame is long enough to carry mcause and mcause is set.
func (r RISCV) RegistersFromStack(stack []byte, growsDown bool) (*Registers, error) {
	if !growsDown {
		return nil, ErrStackGrowsUp
	}
	words, err := frameWords(r.Name(), "general", stack, RISCVGeneralRegs)
	if err != nil {
		return nil, err
	}
	regs := &Registers{General: words, Extra: map[uint32]uint32{}}

	if len(stack) >= riscvExcWords*4 {
		mcause := layout.Order.Uint32(stack[riscvStkMCause*4:])
		if mcause != 0 {
			regs.Extra[RISCVMCause] = mcause
			regs.Extra[RISCVMTVal] = layout.Order.Uint32(stack[riscvStkMTVal*4:])
		}
	}
	return regs, nil
}

func (RISCV) BuildPrStatus(taskID uint32, regs *Registers) []byte {
	return buildPrStatus(taskID, regs.General)
}
