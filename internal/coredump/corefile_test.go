package coredump

import (
	"bytes"
	"debug/elf"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/espcoredump/internal/elffile"
	"github.com/muurk/espcoredump/internal/layout"
	"github.com/muurk/espcoredump/internal/target"
)

func TestCreateCoreFile_SingleTask(t *testing.T) {
	tcb := bytes.Repeat([]byte{0xab}, 16)
	stack := solicitedStack(128, 0x400d1234)
	payload := taskRecord(0x3ffb1000, 0x3ffb0000, 0x3ffb0080, tcb, stack)
	data := container(t, esp32BinV2, 1, 16, 0, payload)

	out := filepath.Join(t.TempDir(), "core.elf")
	res, err := CreateCoreFile(data, out)
	if err != nil {
		t.Fatalf("CreateCoreFile failed: %v", err)
	}

	core, err := elffile.Open(out)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if core.Type != elf.ET_CORE || core.Machine != elf.EM_XTENSA {
		t.Errorf("type/machine = %v/%v", core.Type, core.Machine)
	}
	if len(core.LoadSegments) != 2 {
		t.Fatalf("len(LoadSegments) = %d, want 2", len(core.LoadSegments))
	}
	if core.LoadSegments[0].Addr != 0x3ffb1000 || !bytes.Equal(core.LoadSegments[0].Data, tcb) {
		t.Errorf("tcb segment = %v", core.LoadSegments[0])
	}
	if core.LoadSegments[1].Addr != 0x3ffb0000 || !bytes.Equal(core.LoadSegments[1].Data, stack) {
		t.Errorf("stack segment = %v", core.LoadSegments[1])
	}

	notes := core.Notes()
	if len(notesNamed(notes, NoteNameCore)) != 1 {
		t.Errorf("expected one CORE note, got %v", notes)
	}
	if len(notesNamed(notes, NoteNameTaskInfo)) != 1 {
		t.Errorf("expected one TASK_INFO note, got %v", notes)
	}
	// A solicited frame carries no exception state.
	if len(notesNamed(notes, NoteNameESPInfo)) != 0 || len(notesNamed(notes, NoteNameExtraInfo)) != 0 {
		t.Errorf("unexpected crash notes: %v", notes)
	}

	prstatus := notesNamed(notes, NoteNameCore)[0]
	if prstatus.Type != 1 {
		t.Errorf("CORE note type = %d, want 1", prstatus.Type)
	}
	if len(prstatus.Desc) != layout.PrStatusSize+4*target.XtensaGeneralRegs {
		t.Errorf("CORE note size = %d", len(prstatus.Desc))
	}
	var ps layout.PrStatus
	if err := layout.Parse("prstatus", prstatus.Desc, &ps); err != nil {
		t.Fatalf("Parse prstatus: %v", err)
	}
	if ps.Pid != 0x3ffb1000 {
		t.Errorf("pid = %#x", ps.Pid)
	}
	if pc := layout.Order.Uint32(prstatus.Desc[layout.PrStatusSize:]); pc != 0x400d1234 {
		t.Errorf("pc = %#x", pc)
	}

	if res.Path != out || len(res.Report.Tasks) != 1 || len(res.Report.Warnings) != 0 {
		t.Errorf("result = %+v, report = %+v", res, res.Report)
	}
	written, _ := os.ReadFile(out)
	if res.Size != len(written) {
		t.Errorf("Size = %d, file has %d bytes", res.Size, len(written))
	}
	if res.SHA256 != core.SHA256Hex() {
		t.Errorf("SHA256 = %s, want %s", res.SHA256, core.SHA256Hex())
	}

	// The standard library must accept the file as well.
	std, err := elf.Open(out)
	if err != nil {
		t.Fatalf("debug/elf rejected core file: %v", err)
	}
	defer std.Close()
	if len(std.Progs) != 5 {
		t.Errorf("len(Progs) = %d, want 5", len(std.Progs))
	}
}

func TestCreateCoreFile_CrashedTask(t *testing.T) {
	var payload []byte
	payload = append(payload, taskRecord(0x3ffb1000, 0x3ffb0000, 0x3ffb0080, make([]byte, 16),
		exceptionStack(128, 0x400d2000, 28, 0x10))...)
	payload = append(payload, taskRecord(0x3ffb2000, 0x3ffb3000, 0x3ffb3080, make([]byte, 16),
		exceptionStack(128, 0x400d3000, 29, 0x20))...)
	payload = append(payload, taskRecord(0x3ffb4000, 0x3ffb5000, 0x3ffb5080, make([]byte, 16),
		solicitedStack(128, 0x400d4000))...)
	data := container(t, esp32BinV2, 3, 16, 0, payload)

	core, report, err := loadCore(t, data)
	if err != nil {
		t.Fatalf("CoreFile failed: %v", err)
	}

	notes := core.Notes()
	if n := len(notesNamed(notes, NoteNameCore)); n != 3 {
		t.Errorf("CORE notes = %d, want 3", n)
	}

	// The first task with exception state wins.
	info := notesNamed(notes, NoteNameESPInfo)
	extra := notesNamed(notes, NoteNameExtraInfo)
	if len(info) != 1 || len(extra) != 1 {
		t.Fatalf("ESP_CORE_DUMP_INFO = %d, EXTRA_INFO = %d, want 1 each", len(info), len(extra))
	}
	if info[0].Type != NoteTypeESPInfo || !bytes.Equal(info[0].Desc, layout.Words([]uint32{uint32(esp32BinV2)})) {
		t.Errorf("ESP_CORE_DUMP_INFO = %v % x", info[0], info[0].Desc)
	}

	words := make([]uint32, len(extra[0].Desc)/4)
	for i := range words {
		words[i] = layout.Order.Uint32(extra[0].Desc[i*4:])
	}
	if words[0] != 0x3ffb1000 {
		t.Errorf("EXTRA_INFO task = %#x", words[0])
	}
	// EXCCAUSE(0), EXCVADDR(1), EPC1..7, EPS2..7
	if len(words) != 1+2*15 {
		t.Fatalf("EXTRA_INFO words = %d, want 31", len(words))
	}
	if words[1] != target.XtensaExcCause || words[2] != 28 || words[3] != target.XtensaExcVAddr || words[4] != 0x10 {
		t.Errorf("EXTRA_INFO = %v", words[:5])
	}
	for i := 5; i+2 < len(words); i += 2 {
		if words[i] >= words[i+2] {
			t.Errorf("EXTRA_INFO ids not ascending: %v", words)
			break
		}
	}

	if !report.Tasks[0].Crashed || report.Tasks[1].Crashed || report.Tasks[2].Crashed {
		t.Errorf("crashed flags = %+v", report.Tasks)
	}
}

func TestCreateCoreFile_PartialFailure(t *testing.T) {
	var payload []byte
	payload = append(payload, taskRecord(0x3ffb1000, 0x3ffb0000, 0x3ffb0080, make([]byte, 16), solicitedStack(128, 1))...)
	payload = append(payload, taskRecord(0x00001000, 0x3ffb3000, 0x3ffb3080, make([]byte, 16), solicitedStack(128, 2))...)
	payload = append(payload, taskRecord(0x3ffb4000, 0x3ffb5000, 0x3ffb5080, make([]byte, 16), solicitedStack(128, 3))...)
	data := container(t, esp32BinV2, 3, 16, 0, payload)

	core, report, err := loadCore(t, data)
	if err != nil {
		t.Fatalf("CoreFile failed: %v", err)
	}

	var addrs []uint32
	for _, seg := range core.LoadSegments {
		addrs = append(addrs, seg.Addr)
	}
	want := []uint32{0x3ffb1000, 0x3ffb0000, 0x3ffb3000, 0x3ffb4000, 0x3ffb5000}
	if len(addrs) != len(want) {
		t.Fatalf("load segments = %#x, want %#x", addrs, want)
	}
	for i := range want {
		if addrs[i] != want[i] {
			t.Errorf("segment %d at %#x, want %#x", i, addrs[i], want[i])
		}
	}

	statuses := taskStatuses(t, core)
	if len(statuses) != 3 {
		t.Fatalf("TASK_INFO notes = %d, want 3", len(statuses))
	}
	if statuses[1].Flags != layout.TaskStatusTCBCorrupted || statuses[1].TCBAddr != 0x1000 {
		t.Errorf("task 1 status = %+v", statuses[1])
	}
	if statuses[0].Flags != layout.TaskStatusCorrect || statuses[2].Flags != layout.TaskStatusCorrect {
		t.Errorf("statuses = %+v", statuses)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "task 1") {
		t.Errorf("warnings = %v", report.Warnings)
	}
}

func TestCreateCoreFile_StackAnomalies(t *testing.T) {
	var payload []byte
	// Fake address: kept but flagged.
	payload = append(payload, taskRecord(0x3ffb1000, 0x20000000, 0x20000080, make([]byte, 16), solicitedStack(128, 1))...)
	// Neither sane nor fake: dropped.
	payload = append(payload, taskRecord(0x3ffb2000, 0x50000000, 0x50000080, make([]byte, 16), solicitedStack(128, 2))...)
	data := container(t, esp32BinV2, 2, 16, 0, payload)

	core, report, err := loadCore(t, data)
	if err != nil {
		t.Fatalf("CoreFile failed: %v", err)
	}

	if len(core.LoadSegments) != 3 {
		t.Fatalf("len(LoadSegments) = %d, want 3", len(core.LoadSegments))
	}
	if core.LoadSegments[1].Addr != 0x20000000 {
		t.Errorf("fake stack segment at %#x", core.LoadSegments[1].Addr)
	}

	statuses := taskStatuses(t, core)
	if statuses[0].Flags != layout.TaskStatusStackCorrupted {
		t.Errorf("task 0 flags = %d, want STACK_CORRUPTED", statuses[0].Flags)
	}
	if statuses[1].Flags != layout.TaskStatusCorrect {
		t.Errorf("task 1 flags = %d, want CORRECT", statuses[1].Flags)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("warnings = %v", report.Warnings)
	}
}

func TestCreateCoreFile_MemorySegments(t *testing.T) {
	payload := taskRecord(0x3ffb1000, 0x3ffb0000, 0x3ffb0080, make([]byte, 16), solicitedStack(128, 1))
	payload = append(payload, layout.Build(&layout.MemSegmentHeader{Start: 0x50000000, Size: 6})...)
	payload = append(payload, 1, 2, 3, 4, 5, 6, 0, 0)
	data := container(t, esp32BinV2, 1, 16, 1, payload)

	core, _, err := loadCore(t, data)
	if err != nil {
		t.Fatalf("CoreFile failed: %v", err)
	}
	if len(core.LoadSegments) != 3 {
		t.Fatalf("len(LoadSegments) = %d, want 3", len(core.LoadSegments))
	}
	seg := core.LoadSegments[2]
	if seg.Addr != 0x50000000 || !bytes.Equal(seg.Data, []byte{1, 2, 3, 4, 5, 6}) {
		t.Errorf("memory segment = %v", seg)
	}
}

func TestCreateCoreFile_RegisterFailure(t *testing.T) {
	tests := []struct {
		name     string
		record   []byte
		sentinel error
	}{
		{
			name:     "short exception frame",
			record:   taskRecord(0x3ffb1000, 0x3ffb0000, 0x3ffb0010, make([]byte, 16), exceptionStack(16, 1, 0, 0)),
			sentinel: ErrRegisters,
		},
		{
			name:     "solicited frame without exception frame room",
			record:   taskRecord(0x3ffb1000, 0x3ffb0000, 0x3ffb0020, make([]byte, 16), solicitedStack(32, 1)),
			sentinel: ErrRegisters,
		},
		{
			name:     "stack grows up",
			record:   taskRecord(0x3ffb1000, 0x3ffb0080, 0x3ffb0000, make([]byte, 16), solicitedStack(128, 1)),
			sentinel: target.ErrStackGrowsUp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := container(t, esp32BinV2, 1, 16, 0, tt.record)
			out := filepath.Join(t.TempDir(), "core.elf")

			_, err := CreateCoreFile(data, out)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("got %v, want %v", err, tt.sentinel)
			}
			if !errors.Is(err, ErrRegisters) {
				t.Errorf("expected ErrRegisters, got %v", err)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Error("core file written despite fatal error")
			}
		})
	}
}

func TestCreateCoreFile_TruncatedTasks(t *testing.T) {
	payload := taskRecord(0x3ffb1000, 0x3ffb0000, 0x3ffb0080, make([]byte, 16), solicitedStack(128, 1))
	data := container(t, esp32BinV2, 2, 16, 0, payload)

	_, _, err := loadCore(t, data)
	if !errors.Is(err, layout.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestCreateCoreFile_OversizedStackRange(t *testing.T) {
	payload := taskRecord(0x3ffb1000, 0, 0xfffffffe, make([]byte, 16), solicitedStack(128, 1))
	data := container(t, esp32BinV2, 1, 16, 0, payload)

	_, _, err := loadCore(t, data)
	if !errors.Is(err, layout.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestCreateCoreFile_EmbeddedELF(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "app.elf")
	app := elffile.New(elf.ET_EXEC, elf.EM_XTENSA)
	if err := app.AddSegment(0x400d0000, []byte("application code"), elf.PT_LOAD, elf.PF_R|elf.PF_X); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if err := app.Dump(prog); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	appHex := app.SHA256Hex()

	other := filepath.Join(dir, "other.elf")
	otherApp := elffile.New(elf.ET_EXEC, elf.EM_XTENSA)
	if err := otherApp.AddSegment(0x400d0000, []byte("different code"), elf.PT_LOAD, elf.PF_R|elf.PF_X); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if err := otherApp.Dump(other); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	tests := []struct {
		name     string
		ver      Version
		noteVer  uint32
		noteHash string
		program  string
		sentinel error
	}{
		{"full hash", esp32ELFSHA256, uint32(esp32ELFSHA256), appHex, prog, nil},
		{"truncated hash", esp32ELFCRC32, uint32(esp32ELFCRC32), appHex[:16], prog, nil},
		{"no program", esp32ELFSHA256, 0, "", "", nil},
		{"other program", esp32ELFSHA256, uint32(esp32ELFSHA256), appHex, other, ErrAppMismatch},
		{"empty hash", esp32ELFSHA256, uint32(esp32ELFSHA256), "", prog, ErrAppMismatch},
		{"version mismatch", esp32ELFSHA256, uint32(esp32ELFCRC32), appHex, prog, ErrAppMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := embeddedCore(t, tt.noteVer, tt.noteHash)
			data := container(t, tt.ver, 1, 0, 0, payload)

			staging := t.TempDir()
			out := filepath.Join(t.TempDir(), "core.elf")
			opts := []Option{WithTempDir(staging)}
			if tt.program != "" {
				opts = append(opts, WithProgram(tt.program))
			}

			res, err := CreateCoreFile(data, out, opts...)

			entries, _ := os.ReadDir(staging)
			if len(entries) != 0 {
				t.Errorf("staging directory not cleaned up: %v", entries)
			}

			if tt.sentinel != nil {
				if !errors.Is(err, tt.sentinel) {
					t.Fatalf("got %v, want %v", err, tt.sentinel)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateCoreFile failed: %v", err)
			}

			written, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if !bytes.Equal(written, payload) {
				t.Error("embedded core not written verbatim")
			}
			if len(res.Report.Tasks) != 1 || !res.Report.Tasks[0].Crashed {
				t.Errorf("report = %+v", res.Report)
			}
		})
	}
}

func TestCoreFile_EmbeddedNotELF(t *testing.T) {
	data := container(t, esp32ELFCRC32, 0, 0, 0, []byte("this is not an ELF file"))

	d, err := Load(data, WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_, _, err = d.CoreFile()
	if !errors.Is(err, layout.ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

func loadCore(t *testing.T, data []byte) (*elffile.File, *Report, error) {
	t.Helper()
	d, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return d.CoreFile()
}

func taskStatuses(t *testing.T, core *elffile.File) []layout.TaskStatus {
	t.Helper()
	var out []layout.TaskStatus
	for _, n := range notesNamed(core.Notes(), NoteNameTaskInfo) {
		var st layout.TaskStatus
		if err := layout.Parse("task status", n.Desc, &st); err != nil {
			t.Fatalf("Parse task status: %v", err)
		}
		out = append(out, st)
	}
	return out
}

func TestDump_CoreImage(t *testing.T) {
	t.Run("embedded ELF is the payload", func(t *testing.T) {
		payload := embeddedCore(t, 0, "")
		d, err := Load(container(t, esp32ELFCRC32, 1, 0, 0, payload), WithTempDir(t.TempDir()))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		core, _, err := d.CoreFile()
		if err != nil {
			t.Fatalf("CoreFile failed: %v", err)
		}
		image, err := d.CoreImage(core)
		if err != nil {
			t.Fatalf("CoreImage failed: %v", err)
		}
		if !bytes.Equal(image, payload) {
			t.Error("embedded core image differs from the payload")
		}
	})

	t.Run("legacy dump is serialized", func(t *testing.T) {
		payload := taskRecord(0x3ffb1000, 0x3ffb0000, 0x3ffb0080, make([]byte, 16), solicitedStack(128, 0x400d1234))
		d, err := Load(container(t, esp32BinV2, 1, 16, 0, payload))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		core, _, err := d.CoreFile()
		if err != nil {
			t.Fatalf("CoreFile failed: %v", err)
		}
		image, err := d.CoreImage(core)
		if err != nil {
			t.Fatalf("CoreImage failed: %v", err)
		}
		want, err := core.Bytes()
		if err != nil {
			t.Fatalf("Bytes failed: %v", err)
		}
		if !bytes.Equal(image, want) {
			t.Error("legacy core image differs from the serialized model")
		}
	})
}
