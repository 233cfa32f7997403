// Package buffer implements a little-endian read/write cursor over a byte
// slice, used to decode and encode every wire packet the client sends or
// receives.
package buffer

import (
	"encoding/binary"
	"errors"
)

// ErrShortBuffer is returned by a Reader method when fewer bytes remain in
// the underlying slice than the method needs to decode its value.
var ErrShortBuffer = errors.New("buffer: short buffer")

// Reader is a cursor for decoding little-endian wire packets. It never
// panics: every method reports ErrShortBuffer instead, so a malformed or
// truncated packet can be dropped by the caller rather than crashing the
// game loop.
type Reader struct {
	buf []byte
	pos int
	err error
}

// NewReader returns a Reader over b. b is not copied; the caller must not
// mutate it while the Reader is in use.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Err returns the first error encountered by a read, if any.
func (r *Reader) Err() error {
	return r.err
}

// Len returns the number of unread bytes remaining.
func (r *Reader) Len() int {
	if r.pos >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.pos
}

// Pos returns the current read offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Skip advances the cursor by n bytes without decoding them.
func (r *Reader) Skip(n int) {
	if !r.require(n) {
		return
	}
	r.pos += n
}

func (r *Reader) require(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.buf) {
		r.err = ErrShortBuffer
		return false
	}
	return true
}

// Uint8 reads one byte.
func (r *Reader) Uint8() uint8 {
	if !r.require(1) {
		return 0
	}
	v := r.buf[r.pos]
	r.pos++
	return v
}

// Int8 reads one signed byte.
func (r *Reader) Int8() int8 { return int8(r.Uint8()) }

// Uint16 reads a little-endian uint16.
func (r *Reader) Uint16() uint16 {
	if !r.require(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v
}

// Int16 reads a little-endian int16.
func (r *Reader) Int16() int16 { return int16(r.Uint16()) }

// Uint32 reads a little-endian uint32.
func (r *Reader) Uint32() uint32 {
	if !r.require(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

// Int32 reads a little-endian int32.
func (r *Reader) Int32() int32 { return int32(r.Uint32()) }

// Bytes reads n raw bytes and returns a slice referencing the underlying
// buffer (not a copy).
func (r *Reader) Bytes(n int) []byte {
	if !r.require(n) {
		return nil
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v
}

// Rest returns every remaining unread byte.
func (r *Reader) Rest() []byte {
	return r.Bytes(r.Len())
}

// FixedString reads n bytes and trims them at the first NUL, returning the
// text preceding it. Used for nul-padded fixed-width fields such as
// PlayerEntering's name[20]/squad[20].
func (r *Reader) FixedString(n int) string {
	b := r.Bytes(n)
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// Writer is a cursor for encoding little-endian wire packets into a growable
// byte slice.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer. cap is an optional size hint.
func NewWriter(cap int) *Writer {
	return &Writer{buf: make([]byte, 0, cap)}
}

// Bytes returns the encoded buffer so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Uint8 appends one byte.
func (w *Writer) Uint8(v uint8) { w.buf = append(w.buf, v) }

// Int8 appends one signed byte.
func (w *Writer) Int8(v int8) { w.Uint8(uint8(v)) }

// Uint16 appends a little-endian uint16.
func (w *Writer) Uint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// Int16 appends a little-endian int16.
func (w *Writer) Int16(v int16) { w.Uint16(uint16(v)) }

// Uint32 appends a little-endian uint32.
func (w *Writer) Uint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// Int32 appends a little-endian int32.
func (w *Writer) Int32(v int32) { w.Uint32(uint32(v)) }

// WriteBytes appends b verbatim.
func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

// FixedString appends s, padding or truncating it to exactly n bytes with
// trailing NULs.
func (w *Writer) FixedString(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.WriteBytes(b)
}

// SetUint8 overwrites the byte at offset off, used for the position-packet
// checksum byte which is computed after the rest of the packet is written.
func (w *Writer) SetUint8(off int, v uint8) {
	if off >= 0 && off < len(w.buf) {
		w.buf[off] = v
	}
}
