package elffile

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"

	"github.com/muurk/espcoredump/internal/layout"
)

// Open reads and parses the ELF file at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ELF file: %w", err)
	}
	f, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Read parses an ELF image. Program headers with a non-zero virtual address become
// LOAD segments whatever their type; PT_NOTE headers at address zero become NOTE
// segments. PROGBITS sections with a non-zero address are kept with their names.
func Read(b []byte) (*File, error) {
	hdr, err := layout.ParseElfHeader(b)
	if err != nil {
		return nil, err
	}
	if hdr.Phnum == 0 && hdr.Shnum == 0 {
		return nil, &layout.FormatError{Schema: "elf header", Msg: "no program header table and no section header table"}
	}

	f := &File{
		Type:    elf.Type(hdr.Type),
		Machine: elf.Machine(hdr.Machine),
		image:   b,
	}
	r := layout.NewReader(b)

	if err := f.readSegments(r, hdr); err != nil {
		return nil, err
	}
	if err := f.readSections(r, hdr); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) readSegments(r *layout.Reader, hdr *elf.Header32) error {
	if hdr.Phnum == 0 {
		return nil
	}
	if hdr.Phentsize < layout.ProgHeaderSize {
		return &layout.FormatError{Schema: "program header", Offset: int(hdr.Phoff),
			Msg: fmt.Sprintf("entry size %d is smaller than %d", hdr.Phentsize, layout.ProgHeaderSize)}
	}

	for i := 0; i < int(hdr.Phnum); i++ {
		var ph elf.Prog32
		if err := r.At("program header", int(hdr.Phoff)+i*int(hdr.Phentsize), &ph); err != nil {
			return err
		}
		data, err := r.BytesAt("segment data", int(ph.Off), int(ph.Filesz))
		if err != nil {
			return err
		}

		typ := elf.ProgType(ph.Type)
		switch {
		case ph.Vaddr != 0:
			f.LoadSegments = append(f.LoadSegments, &Segment{
				Type:  typ,
				Addr:  ph.Vaddr,
				Flags: elf.ProgFlag(ph.Flags),
				Data:  data,
			})
		case typ == elf.PT_NOTE:
			notes, err := layout.ParseNotes(data)
			if err != nil {
				return err
			}
			f.NoteSegments = append(f.NoteSegments, &NoteSegment{
				Segment: Segment{Type: typ, Flags: elf.ProgFlag(ph.Flags), Data: data},
				Notes:   notes,
			})
		}
	}
	return nil
}

func (f *File) readSections(r *layout.Reader, hdr *elf.Header32) error {
	if hdr.Shnum == 0 {
		return nil
	}
	if hdr.Shentsize < layout.SectionHeaderSize {
		return &layout.FormatError{Schema: "section header", Offset: int(hdr.Shoff),
			Msg: fmt.Sprintf("entry size %d is smaller than %d", hdr.Shentsize, layout.SectionHeaderSize)}
	}
	if hdr.Shstrndx >= hdr.Shnum {
		return &layout.FormatError{Schema: "section header", Offset: int(hdr.Shoff),
			Msg: fmt.Sprintf("string table index %d out of range (%d sections)", hdr.Shstrndx, hdr.Shnum)}
	}

	section := func(i int) (elf.Section32, error) {
		var sh elf.Section32
		err := r.At("section header", int(hdr.Shoff)+i*int(hdr.Shentsize), &sh)
		return sh, err
	}

	strtabHdr, err := section(int(hdr.Shstrndx))
	if err != nil {
		return err
	}
	strtab, err := r.BytesAt("section string table", int(strtabHdr.Off), int(strtabHdr.Size))
	if err != nil {
		return err
	}

	for i := 0; i < int(hdr.Shnum); i++ {
		if i == int(hdr.Shstrndx) {
			continue
		}
		sh, err := section(i)
		if err != nil {
			return err
		}
		if elf.SectionType(sh.Type) != elf.SHT_PROGBITS || sh.Addr == 0 {
			continue
		}
		name, err := stringAt(strtab, sh.Name)
		if err != nil {
			return err
		}
		data, err := r.BytesAt("section data", int(sh.Off), int(sh.Size))
		if err != nil {
			return err
		}
		f.Sections = append(f.Sections, &Section{
			Name:  name,
			Addr:  sh.Addr,
			Flags: elf.SectionFlag(sh.Flags),
			Data:  data,
		})
	}
	return nil
}

// stringAt returns the NUL-terminated string at off in a string table.
func stringAt(strtab []byte, off uint32) (string, error) {
	if int(off) >= len(strtab) {
		return "", &layout.FormatError{Schema: "section string table", Offset: int(off),
			Msg: fmt.Sprintf("name offset beyond table of %d bytes", len(strtab))}
	}
	end := bytes.IndexByte(strtab[off:], 0)
	if end < 0 {
		return "", &layout.FormatError{Schema: "section string table", Offset: int(off), Msg: "unterminated name"}
	}
	return string(strtab[off : int(off)+end]), nil
}
