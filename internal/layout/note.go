package layout

import (
	"fmt"
	"strings"
)

const noteHeaderSize = 12

// Note is one ELF note record.
type Note struct {
	Name string
	Type uint32
	Desc []byte
}

// ParseNotes decodes consecutive note records until the buffer is exhausted. Name
// and descriptor are each padded to 4 bytes; the padding after the final record may
// be missing. Declared sizes need not be multiples of 4.
func ParseNotes(b []byte) ([]Note, error) {
	var notes []Note
	r := NewReader(b)
	for r.Remaining() > 0 {
		start := r.Offset()
		if r.Remaining() < noteHeaderSize {
			return notes, shortBuffer("note header", start, noteHeaderSize, r.Remaining())
		}
		namesz, _ := r.Uint32("note namesz")
		descsz, _ := r.Uint32("note descsz")
		typ, _ := r.Uint32("note type")

		name, err := r.Bytes("note name", int(namesz))
		if err != nil {
			return notes, err
		}
		r.Align(4)
		desc, err := r.Bytes("note desc", int(descsz))
		if err != nil {
			return notes, err
		}
		r.Align(4)

		notes = append(notes, Note{
			Name: strings.TrimRight(string(name), "\x00"),
			Type: typ,
			Desc: desc,
		})
	}
	return notes, nil
}

// Bytes encodes the note with a NUL-terminated name.
func (n Note) Bytes() []byte {
	name := append([]byte(n.Name), 0)
	out := make([]byte, 0, noteHeaderSize+AlignUp(len(name), 4)+AlignUp(len(n.Desc), 4))
	out = Order.AppendUint32(out, uint32(len(name)))
	out = Order.AppendUint32(out, uint32(len(n.Desc)))
	out = Order.AppendUint32(out, n.Type)
	out = append(out, name...)
	out = pad4(out)
	out = append(out, n.Desc...)
	return pad4(out)
}

func (n Note) String() string {
	return fmt.Sprintf("Note{name=%s, type=%d, desc=%d bytes}", n.Name, n.Type, len(n.Desc))
}

func pad4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}
