package layout

// HeaderV1 is the container header of BIN_V1 dumps.
type HeaderV1 struct {
	TotLen  uint32
	Ver     uint32
	TaskNum uint32
	TcbSz   uint32
}

// HeaderV2 is the container header of every later dump version. It adds the
// number of raw memory segments that follow the task records.
type HeaderV2 struct {
	TotLen  uint32
	Ver     uint32
	TaskNum uint32
	TcbSz   uint32
	SegsNum uint32
}

// Sizes of the fixed container records.
const (
	HeaderV1Size         = 16
	HeaderV2Size         = 20
	TaskHeaderSize       = 12
	MemSegmentHeaderSize = 8
	TaskStatusSize       = 36
	PrStatusSize         = 72
	AppSHA256InfoSize    = 68
	CRC32Size            = 4
	SHA256Size           = 32
)

// V2 widens a V1 header. The checksum of every container version is computed over
// the V2 shape, so V1 headers go through here before hashing.
func (h HeaderV1) V2() HeaderV2 {
	return HeaderV2{
		TotLen:  h.TotLen,
		Ver:     h.Ver,
		TaskNum: h.TaskNum,
		TcbSz:   h.TcbSz,
	}
}

// TaskHeader precedes each task record in legacy binary dumps.
type TaskHeader struct {
	TcbAddr  uint32
	StackTop uint32
	StackEnd uint32
}

// GrowsDown reports whether the stack grows towards lower addresses.
func (t TaskHeader) GrowsDown() bool {
	return t.StackEnd > t.StackTop
}

// StackStart returns the lowest address of the saved stack.
func (t TaskHeader) StackStart() uint32 {
	return min(t.StackTop, t.StackEnd)
}

// StackLen returns the saved stack length rounded up to a word. The result is
// computed in 64 bits so a corrupt header never wraps to a short length.
func (t TaskHeader) StackLen() int {
	n := uint64(t.StackEnd) - uint64(t.StackTop)
	if t.StackTop > t.StackEnd {
		n = uint64(t.StackTop) - uint64(t.StackEnd)
	}
	return int((n + 3) &^ 3)
}

// MemSegmentHeader precedes each raw memory region of a BIN_V2 dump.
type MemSegmentHeader struct {
	Start uint32
	Size  uint32
}

// Task status flags carried in TaskStatus.Flags.
const (
	TaskStatusCorrect        uint32 = 0
	TaskStatusTCBCorrupted   uint32 = 1
	TaskStatusStackCorrupted uint32 = 2
)

// TaskStatus is the payload of a TASK_INFO note.
type TaskStatus struct {
	Index      uint32
	Flags      uint32
	TCBAddr    uint32
	StackStart uint32
	StackLen   uint32
	Name       [16]byte
}

// PrStatus is the process status header that precedes the register set in a CORE
// note. Only Pid is populated; it carries the task identifier.
type PrStatus struct {
	SigNo   uint32
	SigCode uint32
	SigErr  uint32
	CurSig  uint16
	Pad0    uint16
	SigPend uint32
	SigHold uint32
	Pid     uint32
	PPid    uint32
	PGrp    uint32
	Sid     uint32
	UTime   uint64
	STime   uint64
	CUTime  uint64
	CSTime  uint64
}

// AppSHA256Info is the payload of the ESP_CORE_DUMP_INFO note inside ELF dumps: the
// dump version followed by the application ELF SHA-256 as ASCII hex.
type AppSHA256Info struct {
	Ver    uint32
	SHA256 [64]byte
}
