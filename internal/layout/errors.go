package layout

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every *FormatError.
var ErrFormat = errors.New("invalid binary layout")

// FormatError reports a buffer that does not fit the schema being decoded.
type FormatError struct {
	// Schema names the record being decoded (e.g. "elf header", "task header")
	Schema string
	// Offset is the absolute offset into the backing buffer
	Offset int
	// Need is the number of bytes the record requires (0 when not size related)
	Need int
	// Have is the number of bytes that were available
	Have int
	// Msg describes a non-size violation such as a magic mismatch
	Msg string
}

func (e *FormatError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s at offset %d: %s", e.Schema, e.Offset, e.Msg)
	}
	return fmt.Sprintf("%s at offset %d: need %d bytes, have %d", e.Schema, e.Offset, e.Need, e.Have)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func shortBuffer(schema string, off, need, have int) error {
	if have < 0 {
		have = 0
	}
	return &FormatError{Schema: schema, Offset: off, Need: need, Have: have}
}
