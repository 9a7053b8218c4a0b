package target

import (
	"bytes"
	"debug/elf"
	"errors"
	"testing"

	"github.com/muurk/espcoredump/internal/layout"
)

func xtensaException(cause uint32, ps uint32) []uint32 {
	words := make([]uint32, xtStkWords)
	words[0] = 0x40081234 // exit
	words[xtStkPC] = 0x400d1000
	words[xtStkPS] = ps
	for i := 0; i < xtStkARNum; i++ {
		words[xtStkARStart+i] = 0xa0 + uint32(i)
	}
	words[xtStkSAR] = 0x1f
	words[xtStkExcCause] = cause
	words[xtStkExcVAddr] = 0xdeadbeef
	words[xtStkLBEG] = 0x11
	words[xtStkLEND] = 0x22
	words[xtStkLCOUNT] = 0x33
	return words
}

func TestXtensa_SolicitedFrame(t *testing.T) {
	words := make([]uint32, xtStkWords)
	copy(words, []uint32{0, 0x400d2000, 0x00060020, 0x3ffb1000, 1, 2, 3, 4})
	regs, err := Xtensa{}.RegistersFromStack(layout.Words(words), true)
	if err != nil {
		t.Fatalf("RegistersFromStack failed: %v", err)
	}

	if len(regs.General) != XtensaGeneralRegs {
		t.Fatalf("len(General) = %d, want %d", len(regs.General), XtensaGeneralRegs)
	}
	if regs.General[XtensaRegPC] != 0x400d2000 {
		t.Errorf("PC = %#x", regs.General[XtensaRegPC])
	}
	// No EXCM fixup outside exception frames.
	if regs.General[XtensaRegPS] != 0x00060020 {
		t.Errorf("PS = %#x", regs.General[XtensaRegPS])
	}
	for i := 0; i < 4; i++ {
		if got := regs.General[XtensaRegARStart+i]; got != uint32(i+1) {
			t.Errorf("a%d = %d, want %d", i, got, i+1)
		}
	}
	if regs.General[XtensaRegSAR] != 0 || regs.General[XtensaRegLBEG] != 0 {
		t.Error("exception-only registers should stay zero")
	}
	if len(regs.Extra) != 0 {
		t.Errorf("expected no extra registers, got %v", regs.Extra)
	}
}

func TestXtensa_ExceptionFrame(t *testing.T) {
	// UM and EXCM both set: EXCM must be cleared.
	regs, err := Xtensa{}.RegistersFromStack(layout.Words(xtensaException(28, 0x00060030)), true)
	if err != nil {
		t.Fatalf("RegistersFromStack failed: %v", err)
	}

	g := regs.General
	if g[XtensaRegPC] != 0x400d1000 {
		t.Errorf("PC = %#x", g[XtensaRegPC])
	}
	if g[XtensaRegPS] != 0x00060020 {
		t.Errorf("PS = %#x, want 0x60020", g[XtensaRegPS])
	}
	for i := 0; i < 16; i++ {
		if got := g[XtensaRegARStart+i]; got != 0xa0+uint32(i) {
			t.Errorf("a%d = %#x", i, got)
		}
	}
	if g[XtensaRegSAR] != 0x1f || g[XtensaRegLBEG] != 0x11 || g[XtensaRegLEND] != 0x22 || g[XtensaRegLCOUNT] != 0x33 {
		t.Errorf("special registers = %#x %#x %#x %#x",
			g[XtensaRegSAR], g[XtensaRegLBEG], g[XtensaRegLEND], g[XtensaRegLCOUNT])
	}

	if regs.Extra[XtensaExcCause] != 28 {
		t.Errorf("EXCCAUSE = %d, want 28", regs.Extra[XtensaExcCause])
	}
	if regs.Extra[XtensaExcVAddr] != 0xdeadbeef {
		t.Errorf("EXCVADDR = %#x", regs.Extra[XtensaExcVAddr])
	}
	if len(regs.Extra) != 2+7+6 {
		t.Errorf("len(Extra) = %d, want 15", len(regs.Extra))
	}
	for _, id := range []uint32{177, 183, 194, 199} {
		v, ok := regs.Extra[id]
		if !ok || v != 0 {
			t.Errorf("Extra[%d] = %d, %v; want 0, true", id, v, ok)
		}
	}
}

func TestXtensa_ExceptionFrame_PSWithoutUM(t *testing.T) {
	regs, err := Xtensa{}.RegistersFromStack(layout.Words(xtensaException(0, 0x00000010)), true)
	if err != nil {
		t.Fatalf("RegistersFromStack failed: %v", err)
	}
	if regs.General[XtensaRegPS] != 0x10 {
		t.Errorf("PS = %#x, want 0x10", regs.General[XtensaRegPS])
	}
}

func TestXtensa_UnknownCause(t *testing.T) {
	regs, err := Xtensa{}.RegistersFromStack(layout.Words(xtensaException(7, 0)), true)
	if err != nil {
		t.Fatalf("RegistersFromStack failed: %v", err)
	}
	if regs.Extra[XtensaExcCause] != XtensaInvalidCause {
		t.Errorf("EXCCAUSE = %#x, want %#x", regs.Extra[XtensaExcCause], XtensaInvalidCause)
	}
}

func TestXtensa_ShortStack(t *testing.T) {
	tests := []struct {
		name  string
		stack []byte
		need  int
	}{
		{"empty", nil, 100},
		{"solicited words only", layout.Words([]uint32{0, 0x400d2000, 0x00060020, 0, 1, 2, 3, 4}), 100},
		{"exception", layout.Words(xtensaException(0, 0)[:24]), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Xtensa{}.RegistersFromStack(tt.stack, true)
			var ferr *FrameError
			if !errors.As(err, &ferr) {
				t.Fatalf("expected *FrameError, got %v", err)
			}
			if ferr.Need != tt.need {
				t.Errorf("Need = %d, want %d", ferr.Need, tt.need)
			}
		})
	}
}

func TestArch_StackGrowsUp(t *testing.T) {
	stack := make([]byte, 256)
	for _, arch := range []Arch{Xtensa{}, RISCV{}} {
		if _, err := arch.RegistersFromStack(stack, false); !errors.Is(err, ErrStackGrowsUp) {
			t.Errorf("%s: expected ErrStackGrowsUp, got %v", arch.Name(), err)
		}
	}
}

func TestRISCV_Registers(t *testing.T) {
	words := make([]uint32, 36)
	for i := range words[:32] {
		words[i] = uint32(i) + 100
	}

	regs, err := RISCV{}.RegistersFromStack(layout.Words(words), true)
	if err != nil {
		t.Fatalf("RegistersFromStack failed: %v", err)
	}
	if len(regs.General) != RISCVGeneralRegs {
		t.Fatalf("len(General) = %d", len(regs.General))
	}
	if regs.General[0] != 100 || regs.General[31] != 131 {
		t.Errorf("General = %v", regs.General)
	}
	if len(regs.Extra) != 0 {
		t.Errorf("mcause 0 should give no extras, got %v", regs.Extra)
	}

	words[riscvStkMCause] = 7
	words[riscvStkMTVal] = 0x42
	regs, err = RISCV{}.RegistersFromStack(layout.Words(words), true)
	if err != nil {
		t.Fatalf("RegistersFromStack failed: %v", err)
	}
	if regs.Extra[RISCVMCause] != 7 || regs.Extra[RISCVMTVal] != 0x42 {
		t.Errorf("Extra = %v", regs.Extra)
	}

	if _, err := (RISCV{}).RegistersFromStack(make([]byte, 124), true); err == nil {
		t.Error("expected error for short frame")
	}
}

func TestBuildPrStatus(t *testing.T) {
	regs := &Registers{General: []uint32{1, 2, 3}}
	got := Xtensa{}.BuildPrStatus(0x3ffb1234, regs)

	if len(got) != layout.PrStatusSize+12 {
		t.Fatalf("len = %d, want %d", len(got), layout.PrStatusSize+12)
	}

	var ps layout.PrStatus
	if err := layout.Parse("prstatus", got, &ps); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ps.Pid != 0x3ffb1234 {
		t.Errorf("Pid = %#x", ps.Pid)
	}
	if !bytes.Equal(got[layout.PrStatusSize:], layout.Words(regs.General)) {
		t.Error("registers do not follow the prstatus header")
	}
}

func TestArchByName(t *testing.T) {
	tests := []struct {
		name    string
		machine elf.Machine
		wantErr bool
	}{
		{"xtensa", elf.EM_XTENSA, false},
		{"riscv", elf.EM_RISCV, false},
		{"arm", 0, true},
	}

	for _, tt := range tests {
		arch, err := ArchByName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ArchByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil && arch.Machine() != tt.machine {
			t.Errorf("%s: Machine = %v, want %v", tt.name, arch.Machine(), tt.machine)
		}
	}
}

func TestExceptionCause(t *testing.T) {
	if name, ok := ExceptionCause(29); !ok || name != "StoreProhibited" {
		t.Errorf("ExceptionCause(29) = %q, %v", name, ok)
	}
	if _, ok := ExceptionCause(7); ok {
		t.Error("cause 7 should be unknown")
	}
}
