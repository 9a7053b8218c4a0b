// Package elffile is an in-memory, mutable model of a 32-bit little-endian ELF
// file. It parses existing images (segments, notes and PROGBITS sections) and builds
// new ones from segments appended one at a time, which is how core files are
// synthesized.
//
// A File keeps LOAD and NOTE segments in two separate lists. Serialization always
// walks LOAD segments first and NOTE segments second, in insertion order, and uses
// the same walk for the program header table and for the payload bytes.
package elffile

import (
	"bytes"
	"crypto/sha256"
	"debug/elf"
	"encoding/hex"
	"fmt"
	"math"
	"os"

	"github.com/muurk/espcoredump/internal/layout"
)

// Segment is one program header entry and its payload.
type Segment struct {
	Type  elf.ProgType
	Addr  uint32
	Flags elf.ProgFlag
	Data  []byte
}

// Min returns the first address covered by the segment.
func (s *Segment) Min() uint32 { return s.Addr }

// Max returns the address just past the segment.
func (s *Segment) Max() uint32 { return s.Addr + uint32(len(s.Data)) }

func (s *Segment) String() string {
	return fmt.Sprintf("%v 0x%08x-0x%08x %v (%d bytes)", s.Type, s.Min(), s.Max(), s.Flags, len(s.Data))
}

// NoteSegment is a PT_NOTE segment together with its decoded notes.
type NoteSegment struct {
	Segment
	Notes []layout.Note
}

// Section is a PROGBITS section with a load address.
type Section struct {
	Name  string
	Addr  uint32
	Flags elf.SectionFlag
	Data  []byte
}

// File is the root of the model.
type File struct {
	Type    elf.Type
	Machine elf.Machine

	LoadSegments []*Segment
	NoteSegments []*NoteSegment
	Sections     []*Section

	// image is the buffer a parsed file was read from
	image []byte
}

// New returns an empty file for synthesis.
func New(typ elf.Type, machine elf.Machine) *File {
	return &File{Type: typ, Machine: machine}
}

// AddSegment appends a segment. PT_NOTE payloads are decoded as notes and a payload
// that does not decode is rejected; every other type is appended to the LOAD list.
// Address ranges are not validated.
func (f *File) AddSegment(addr uint32, data []byte, typ elf.ProgType, flags elf.ProgFlag) error {
	seg := Segment{Type: typ, Addr: addr, Flags: flags, Data: data}
	if typ != elf.PT_NOTE {
		f.LoadSegments = append(f.LoadSegments, &seg)
		return nil
	}

	notes, err := layout.ParseNotes(data)
	if err != nil {
		return fmt.Errorf("note segment at 0x%x: %w", addr, err)
	}
	f.NoteSegments = append(f.NoteSegments, &NoteSegment{Segment: seg, Notes: notes})
	return nil
}

// segments returns every segment in serialization order.
func (f *File) segments() []*Segment {
	segs := make([]*Segment, 0, len(f.LoadSegments)+len(f.NoteSegments))
	segs = append(segs, f.LoadSegments...)
	for _, n := range f.NoteSegments {
		segs = append(segs, &n.Segment)
	}
	return segs
}

// Notes returns the notes of all NOTE segments in order.
func (f *File) Notes() []layout.Note {
	var notes []layout.Note
	for _, seg := range f.NoteSegments {
		notes = append(notes, seg.Notes...)
	}
	return notes
}

// FindNote returns the first note with the given name and type.
func (f *File) FindNote(name string, typ uint32) (layout.Note, bool) {
	for _, n := range f.Notes() {
		if n.Name == name && n.Type == typ {
			return n, true
		}
	}
	return layout.Note{}, false
}

// Bytes serializes the file with no section header table.
func (f *File) Bytes() ([]byte, error) {
	segs := f.segments()
	if len(segs) > math.MaxUint16 {
		return nil, fmt.Errorf("too many segments: %d", len(segs))
	}

	hdr := layout.NewElfHeader(f.Type, f.Machine)
	hdr.Phoff = layout.ElfHeaderSize
	hdr.Phentsize = layout.ProgHeaderSize
	hdr.Phnum = uint16(len(segs))
	hdr.Shstrndx = uint16(elf.SHN_UNDEF)

	offset := uint64(layout.ElfHeaderSize + layout.ProgHeaderSize*len(segs))
	total := offset
	for _, seg := range segs {
		total += uint64(len(seg.Data))
	}
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("core image too large: %d bytes", total)
	}

	var buf bytes.Buffer
	buf.Grow(int(total))
	buf.Write(layout.Build(&hdr))

	for _, seg := range segs {
		ph := elf.Prog32{
			Type:   uint32(seg.Type),
			Off:    uint32(offset),
			Vaddr:  seg.Addr,
			Paddr:  seg.Addr,
			Filesz: uint32(len(seg.Data)),
			Memsz:  uint32(len(seg.Data)),
			Flags:  uint32(seg.Flags),
		}
		buf.Write(layout.Build(&ph))
		offset += uint64(len(seg.Data))
	}
	for _, seg := range segs {
		buf.Write(seg.Data)
	}

	return buf.Bytes(), nil
}

// Dump writes the serialized file to path.
func (f *File) Dump(path string) error {
	data, err := f.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write ELF file: %w", err)
	}
	return nil
}

// SHA256 returns the digest of the image a parsed file was read from, or of the
// serialized form for a synthesized file.
func (f *File) SHA256() []byte {
	data := f.image
	if data == nil {
		var err error
		if data, err = f.Bytes(); err != nil {
			return nil
		}
	}
	sum := sha256.Sum256(data)
	return sum[:]
}

// SHA256Hex returns SHA256 as lowercase hex.
func (f *File) SHA256Hex() string {
	return hex.EncodeToString(f.SHA256())
}
