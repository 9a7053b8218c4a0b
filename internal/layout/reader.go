package layout

import (
	"bytes"
	"encoding/binary"
)

// Order is the byte order of every structure in this package.
var Order = binary.LittleEndian

// Reader decodes records from a backing buffer, tracking a cursor.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Offset returns the cursor position.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of bytes after the cursor.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

// Struct decodes a fixed-size record at the cursor and advances past it.
func (r *Reader) Struct(schema string, v any) error {
	if err := r.At(schema, r.off, v); err != nil {
		return err
	}
	r.off += binary.Size(v)
	return nil
}

// Uint32 decodes one little-endian word at the cursor.
func (r *Reader) Uint32(schema string) (uint32, error) {
	if r.Remaining() < 4 {
		return 0, shortBuffer(schema, r.off, 4, r.Remaining())
	}
	v := Order.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// Bytes returns the next n bytes and advances past them. The result aliases the
// backing buffer but cannot be appended into it.
func (r *Reader) Bytes(schema string, n int) ([]byte, error) {
	b, err := r.BytesAt(schema, r.off, n)
	if err != nil {
		return nil, err
	}
	r.off += n
	return b, nil
}

// Align advances the cursor to the next multiple of n, stopping at the end of the
// buffer if the trailing padding is missing.
func (r *Reader) Align(n int) {
	r.off = AlignUp(r.off, n)
	if r.off > len(r.buf) {
		r.off = len(r.buf)
	}
}

// At decodes a fixed-size record at an absolute offset. The cursor does not move.
func (r *Reader) At(schema string, off int, v any) error {
	size := binary.Size(v)
	if size < 0 {
		panic("layout: not a fixed-size record")
	}
	if off < 0 || off > len(r.buf) || len(r.buf)-off < size {
		return shortBuffer(schema, off, size, len(r.buf)-off)
	}
	return binary.Read(bytes.NewReader(r.buf[off:off+size]), Order, v)
}

// BytesAt returns n bytes at an absolute offset. The cursor does not move.
func (r *Reader) BytesAt(schema string, off, n int) ([]byte, error) {
	if n < 0 || off < 0 || off > len(r.buf) || len(r.buf)-off < n {
		return nil, shortBuffer(schema, off, n, len(r.buf)-off)
	}
	return r.buf[off : off+n : off+n], nil
}

// Parse decodes a single fixed-size record from the start of b.
func Parse(schema string, b []byte, v any) error {
	return NewReader(b).At(schema, 0, v)
}

// Build encodes a fixed-size record.
func Build(v any) []byte {
	out, err := binary.Append(nil, Order, v)
	if err != nil {
		panic("layout: build " + err.Error())
	}
	return out
}

// Words encodes a slice of words back to back.
func Words(words []uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		Order.PutUint32(out[4*i:], w)
	}
	return out
}

// AlignUp rounds n up to a multiple of align.
func AlignUp(n, align int) int {
	return (n + align - 1) / align * align
}
