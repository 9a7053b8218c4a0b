package coredump

import (
	"crypto/sha256"
	"debug/elf"
	"hash/crc32"
	"testing"

	"github.com/muurk/espcoredump/internal/elffile"
	"github.com/muurk/espcoredump/internal/layout"
)

const (
	esp32BinV1     = Version(0x00000001)
	esp32BinV2     = Version(0x00000002)
	esp32ELFCRC32  = Version(0x00000100)
	esp32ELFSHA256 = Version(0x00000101)
)

// container wraps payload in a header and checksum trailer for version.
func container(t *testing.T, ver Version, taskNum, tcbSz, segsNum uint32, payload []byte) []byte {
	t.Helper()
	format, err := FormatFor(ver)
	if err != nil {
		t.Fatalf("FormatFor(%#x): %v", uint32(ver), err)
	}

	hdr := layout.HeaderV2{
		TotLen:  uint32(format.HeaderSize + len(payload) + format.Checksum.Size()),
		Ver:     uint32(ver),
		TaskNum: taskNum,
		TcbSz:   tcbSz,
		SegsNum: segsNum,
	}

	var out []byte
	if format.HeaderSize == layout.HeaderV1Size {
		out = layout.Build(&layout.HeaderV1{TotLen: hdr.TotLen, Ver: hdr.Ver, TaskNum: taskNum, TcbSz: tcbSz})
	} else {
		out = layout.Build(&hdr)
	}
	out = append(out, payload...)

	// The trailer always covers the V2 header shape.
	signed := append(layout.Build(&hdr), payload...)
	if format.Checksum == ChecksumSHA256 {
		sum := sha256.Sum256(signed)
		return append(out, sum[:]...)
	}
	return append(out, layout.Words([]uint32{crc32.ChecksumIEEE(signed)})...)
}

// taskRecord encodes one legacy task record with word padding.
func taskRecord(tcbAddr, stackTop, stackEnd uint32, tcb, stack []byte) []byte {
	out := layout.Build(&layout.TaskHeader{TcbAddr: tcbAddr, StackTop: stackTop, StackEnd: stackEnd})
	out = append(out, tcb...)
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	out = append(out, stack...)
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}

// solicitedStack returns a stack of size bytes holding a solicited Xtensa frame.
func solicitedStack(size int, pc uint32) []byte {
	stack := make([]byte, size)
	copy(stack, layout.Words([]uint32{0, pc, 0x00060020, 0, 1, 2, 3, 4}))
	return stack
}

// exceptionStack returns a stack of size bytes holding an Xtensa exception frame.
func exceptionStack(size int, pc, cause, vaddr uint32) []byte {
	words := make([]uint32, 25)
	words[0] = 0x40081234
	words[1] = pc
	words[2] = 0x00060030
	words[20] = cause
	words[21] = vaddr
	stack := make([]byte, size)
	copy(stack, layout.Words(words))
	return stack
}

// embeddedCore builds a minimal ELF core holding an ESP_CORE_DUMP_INFO note.
func embeddedCore(t *testing.T, ver uint32, shaHex string) []byte {
	t.Helper()
	info := layout.AppSHA256Info{Ver: ver}
	copy(info.SHA256[:], shaHex)

	core := elffile.New(elf.ET_CORE, elf.EM_XTENSA)
	if err := core.AddSegment(0x3ffb0000, make([]byte, 64), elf.PT_LOAD, elf.PF_R|elf.PF_W); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	notes := layout.Note{Name: NoteNameESPInfo, Type: NoteTypeESPInfo, Desc: layout.Build(&info)}.Bytes()
	notes = append(notes, layout.Note{
		Name: NoteNameTaskInfo,
		Type: NoteTypeTaskInfo,
		Desc: layout.Build(&layout.TaskStatus{Index: 0, TCBAddr: 0x3ffb1000, StackStart: 0x3ffb0000, StackLen: 64}),
	}.Bytes()...)
	notes = append(notes, layout.Note{
		Name: NoteNameExtraInfo,
		Type: NoteTypeExtraInfo,
		Desc: layout.Words([]uint32{0x3ffb1000, 0, 28}),
	}.Bytes()...)
	if err := core.AddSegment(0, notes, elf.PT_NOTE, 0); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}

	b, err := core.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	return b
}

func notesNamed(notes []layout.Note, name string) []layout.Note {
	var out []layout.Note
	for _, n := range notes {
		if n.Name == name {
			out = append(out, n)
		}
	}
	return out
}
