package coredump

import "fmt"

// Dump format identifiers carried in the low 16 bits of the version word.
const (
	BinV1     uint16 = 0x0001
	BinV2     uint16 = 0x0002
	ELFCRC32  uint16 = 0x0100
	ELFSHA256 uint16 = 0x0101
)

// Version is the container version word: chip<<16 | major<<8 | minor.
type Version uint32

// Chip returns the chip id.
func (v Version) Chip() uint16 { return uint16(v >> 16) }

// Major returns the major format number.
func (v Version) Major() uint8 { return uint8(v >> 8) }

// Minor returns the minor format number.
func (v Version) Minor() uint8 { return uint8(v) }

// DumpVersion returns the format identifier without the chip id.
func (v Version) DumpVersion() uint16 { return uint16(v) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d (chip %d)", v.Major(), v.Minor(), v.Chip())
}
