package target

import (
	"debug/elf"
	"fmt"

	"github.com/muurk/espcoredump/internal/layout"
)

// Debugger register indices in the Xtensa general register set.
const (
	XtensaRegPC       = 0
	XtensaRegPS       = 1
	XtensaRegLBEG     = 2
	XtensaRegLEND     = 3
	XtensaRegLCOUNT   = 4
	XtensaRegSAR      = 5
	XtensaRegARStart  = 64
	XtensaRegARNum    = 64
	XtensaGeneralRegs = XtensaRegARStart + XtensaRegARNum + 1
)

// Extra register ids reported for the crashed task.
const (
	XtensaExcCause  = 0
	XtensaExcVAddr  = 1
	XtensaEPC1      = 177
	XtensaEPS2      = 194
	xtensaEPCLevels = 7
	xtensaEPSLevels = 6

	// XtensaInvalidCause replaces an EXCCAUSE value that names no known cause.
	XtensaInvalidCause = 0xFFFF
)

// Solicited frame word offsets: {exit, pc, ps, next, a0..a3}.
const (
	xtSolExit    = 0
	xtSolPC      = 1
	xtSolPS      = 2
	xtSolARStart = 4
	xtSolARNum   = 4
	xtSolWords   = xtSolARStart + xtSolARNum
)

// Exception frame word offsets: {exit, pc, ps, a0..a15, sar, exccause, excvaddr,
// lbeg, lend, lcount}.
const (
	xtStkPC       = 1
	xtStkPS       = 2
	xtStkARStart  = 3
	xtStkARNum    = 16
	xtStkSAR      = 19
	xtStkExcCause = 20
	xtStkExcVAddr = 21
	xtStkLBEG     = 22
	xtStkLEND     = 23
	xtStkLCOUNT   = 24
	xtStkWords    = 25
)

const (
	psUM   = 1 << 5
	psEXCM = 1 << 4
)

var xtensaExceptionCauses = map[uint32]string{
	0:  "IllegalInstruction",
	1:  "Syscall",
	2:  "InstructionFetchError",
	3:  "LoadStoreError",
	4:  "Level1Interrupt",
	5:  "Alloca",
	6:  "IntegerDivideByZero",
	8:  "Privileged",
	9:  "LoadStoreAlignment",
	12: "InstrPIFDataError",
	13: "LoadStorePIFDataError",
	14: "InstrPIFAddrError",
	15: "LoadStorePIFAddrError",
	16: "InstTLBMiss",
	17: "InstTLBMultiHit",
	18: "InstFetchPrivilege",
	20: "InstFetchProhibited",
	24: "LoadStoreTLBMiss",
	25: "LoadStoreTLBMultihit",
	26: "LoadStorePrivilege",
	28: "LoadProhibited",
	29: "StoreProhibited",
	32: "Coprocessor0Disabled",
	33: "Coprocessor1Disabled",
	34: "Coprocessor2Disabled",
	35: "Coprocessor3Disabled",
	36: "Coprocessor4Disabled",
	37: "Coprocessor5Disabled",
	38: "Coprocessor6Disabled",
	39: "Coprocessor7Disabled",
}

// ExceptionCause returns the name of an Xtensa EXCCAUSE code.
func ExceptionCause(code uint32) (string, bool) {
	name, ok := xtensaExceptionCauses[code]
	return name, ok
}

// Xtensa decodes FreeRTOS task frames saved by Xtensa LX6/LX7 cores.
type Xtensa struct{}

func (Xtensa) Name() string         { return "xtensa" }
func (Xtensa) Machine() elf.Machine { return elf.EM_XTENSA }

// RegistersFromStack decodes the frame at the start of stack. The first word tells
// the two frame shapes apart: zero for a solicited frame left by a voluntary
// context switch, anything else for an exception frame. Every stack must hold a
// full exception frame, whichever shape it turns out to be.
func (x Xtensa) RegistersFromStack(stack []byte, growsDown bool) (*Registers, error) {
	if !growsDown {
		return nil, ErrStackGrowsUp
	}
	if len(stack) < xtStkWords*4 {
		return nil, &FrameError{Arch: x.Name(), Frame: "any", Need: xtStkWords * 4, Have: len(stack)}
	}

	regs := &Registers{
		General: make([]uint32, XtensaGeneralRegs),
		Extra:   map[uint32]uint32{},
	}

	if layout.Order.Uint32(stack) == xtSolExit {
		words, err := frameWords(x.Name(), "solicited", stack, xtSolWords)
		if err != nil {
			return nil, err
		}
		regs.General[XtensaRegPC] = words[xtSolPC]
		regs.General[XtensaRegPS] = words[xtSolPS]
		copy(regs.General[XtensaRegARStart:], words[xtSolARStart:xtSolARStart+xtSolARNum])
		return regs, nil
	}

	words, err := frameWords(x.Name(), "exception", stack, xtStkWords)
	if err != nil {
		return nil, err
	}
	regs.General[XtensaRegPC] = words[xtStkPC]
	regs.General[XtensaRegPS] = words[xtStkPS]
	copy(regs.General[XtensaRegARStart:], words[xtStkARStart:xtStkARStart+xtStkARNum])
	regs.General[XtensaRegSAR] = words[xtStkSAR]
	regs.General[XtensaRegLBEG] = words[xtStkLBEG]
	regs.General[XtensaRegLEND] = words[xtStkLEND]
	regs.General[XtensaRegLCOUNT] = words[xtStkLCOUNT]

	// gdb cannot unwind a windowed user-mode frame that still has EXCM set.
	if regs.General[XtensaRegPS]&psUM != 0 {
		regs.General[XtensaRegPS] &^= psEXCM
	}

	cause := words[xtStkExcCause]
	if _, ok := ExceptionCause(cause); !ok {
		cause = XtensaInvalidCause
	}
	regs.Extra[XtensaExcCause] = cause
	regs.Extra[XtensaExcVAddr] = words[xtStkExcVAddr]
	for i := uint32(0); i < xtensaEPCLevels; i++ {
		regs.Extra[XtensaEPC1+i] = 0
	}
	for i := uint32(0); i < xtensaEPSLevels; i++ {
		regs.Extra[XtensaEPS2+i] = 0
	}
	return regs, nil
}

func (Xtensa) BuildPrStatus(taskID uint32, regs *Registers) []byte {
	return buildPrStatus(taskID, regs.General)
}

// frameWords reads n little-endian words from the start of stack.
func frameWords(arch, frame string, stack []byte, n int) ([]uint32, error) {
	if len(stack) < n*4 {
		return nil, &FrameError{Arch: arch, Frame: frame, Need: n * 4, Have: len(stack)}
	}
	words := make([]uint32, n)
	for i := range words {
		words[i] = layout.Order.Uint32(stack[i*4:])
	}
	return words, nil
}

// ArchByName returns the register decoder for an architecture name.
func ArchByName(name string) (Arch, error) {
	switch name {
	case "xtensa":
		return Xtensa{}, nil
	case "riscv":
		return RISCV{}, nil
	default:
		return nil, fmt.Errorf("unknown architecture %q", name)
	}
}
