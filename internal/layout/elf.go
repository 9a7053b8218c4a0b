package layout

import (
	"bytes"
	"debug/elf"
	"fmt"
)

// Sizes of the 32-bit ELF records.
const (
	ElfHeaderSize     = 52
	ProgHeaderSize    = 32
	SectionHeaderSize = 40
)

// ParseElfHeader decodes a 32-bit little-endian ELF header and checks its
// identification bytes.
func ParseElfHeader(b []byte) (*elf.Header32, error) {
	var h elf.Header32
	if err := Parse("elf header", b, &h); err != nil {
		return nil, err
	}
	if !bytes.Equal(h.Ident[:elf.EI_CLASS], []byte(elf.ELFMAG)) {
		return nil, &FormatError{Schema: "elf header", Msg: fmt.Sprintf("bad magic % x", h.Ident[:elf.EI_CLASS])}
	}
	if elf.Class(h.Ident[elf.EI_CLASS]) != elf.ELFCLASS32 {
		return nil, &FormatError{Schema: "elf header", Offset: elf.EI_CLASS,
			Msg: fmt.Sprintf("unsupported class %v", elf.Class(h.Ident[elf.EI_CLASS]))}
	}
	if elf.Data(h.Ident[elf.EI_DATA]) != elf.ELFDATA2LSB {
		return nil, &FormatError{Schema: "elf header", Offset: elf.EI_DATA,
			Msg: fmt.Sprintf("unsupported data encoding %v", elf.Data(h.Ident[elf.EI_DATA]))}
	}
	return &h, nil
}

// NewElfHeader returns a header with the identification bytes filled in for a
// 32-bit little-endian file.
func NewElfHeader(typ elf.Type, machine elf.Machine) elf.Header32 {
	var h elf.Header32
	copy(h.Ident[:], elf.ELFMAG)
	h.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	h.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	h.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	h.Type = uint16(typ)
	h.Machine = uint16(machine)
	h.Version = uint32(elf.EV_CURRENT)
	h.Ehsize = ElfHeaderSize
	return h
}
