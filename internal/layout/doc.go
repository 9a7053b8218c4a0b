// Package layout declares the byte layouts of every on-the-wire structure used by
// core dumps: the 32-bit ELF header, program and section headers, ELF notes, and the
// legacy core dump container records.
//
// Fixed-size records are plain Go structs encoded little-endian with encoding/binary.
// Variable-length fields are read through a Reader, which keeps a cursor over a
// single backing buffer:
//
//	r := layout.NewReader(payload)
//	var th layout.TaskHeader
//	if err := r.Struct("task header", &th); err != nil {
//	    return err
//	}
//	tcb, err := r.Bytes("tcb", int(tcbSize))
//
// Reader.At reads a record at an absolute offset without moving the cursor, which is
// how ELF program and section header tables are addressed from e_phoff and e_shoff.
//
// Every decoding failure (short buffer, bad magic) is a *FormatError and matches
// ErrFormat with errors.Is.
package layout
