package coredump

import (
	"fmt"

	"github.com/muurk/espcoredump/internal/layout"
)

// ChecksumKind selects the container trailer.
type ChecksumKind int

const (
	ChecksumCRC32 ChecksumKind = iota
	ChecksumSHA256
)

// Size returns the trailer length in bytes.
func (k ChecksumKind) Size() int {
	if k == ChecksumSHA256 {
		return layout.SHA256Size
	}
	return layout.CRC32Size
}

func (k ChecksumKind) String() string {
	if k == ChecksumSHA256 {
		return "SHA256"
	}
	return "CRC32"
}

// Extraction selects how the payload becomes a core file.
type Extraction int

const (
	// ExtractLegacy synthesizes a core file from task records.
	ExtractLegacy Extraction = iota
	// ExtractELF treats the payload as a complete core file.
	ExtractELF
)

func (e Extraction) String() string {
	if e == ExtractELF {
		return "elf"
	}
	return "binary"
}

// Format describes how one dump version is laid out.
type Format struct {
	Name       string
	HeaderSize int
	Checksum   ChecksumKind
	Extraction Extraction
}

// FormatFor returns the layout for a version, or a *LoaderError wrapping
// ErrUnsupportedVersion.
func FormatFor(v Version) (Format, error) {
	switch v.DumpVersion() {
	case BinV1:
		return Format{Name: "BIN_V1", HeaderSize: layout.HeaderV1Size, Checksum: ChecksumCRC32, Extraction: ExtractLegacy}, nil
	case BinV2:
		return Format{Name: "BIN_V2", HeaderSize: layout.HeaderV2Size, Checksum: ChecksumCRC32, Extraction: ExtractLegacy}, nil
	case ELFCRC32:
		return Format{Name: "ELF_CRC32", HeaderSize: layout.HeaderV2Size, Checksum: ChecksumCRC32, Extraction: ExtractELF}, nil
	case ELFSHA256:
		return Format{Name: "ELF_SHA256", HeaderSize: layout.HeaderV2Size, Checksum: ChecksumSHA256, Extraction: ExtractELF}, nil
	default:
		return Format{}, &LoaderError{
			Op:  "version",
			Msg: fmt.Sprintf("dump version 0x%04x (word 0x%08x)", v.DumpVersion(), uint32(v)),
			Err: ErrUnsupportedVersion,
		}
	}
}
