// Package pumpfun decodes pump.fun program logs and instruction payloads
// into typed domain events.
package pumpfun

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// Decode errors. Callers decide whether a failed read is fatal for the
// event or yields a partial result.
var (
	// ErrOutOfRange is returned when a read would pass the end of the payload.
	ErrOutOfRange = errors.New("read out of range")

	// ErrStringLength is returned when a length-prefixed string declares a
	// length above the sanity cap, which marks the payload as corrupt.
	ErrStringLength = errors.New("invalid string length")
)

const (
	// discriminatorLen is the Anchor event/instruction discriminator prefix.
	discriminatorLen = 8

	// maxStringLen caps length-prefixed strings; anything larger is corrupt.
	maxStringLen = 1024

	pubkeyLen = 32
)

// Cursor is a sequential reader over an immutable event payload. The read
// position starts past the 8-byte discriminator. Reads never panic; every
// primitive read reports ErrOutOfRange when the payload is too short.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor creates a cursor positioned after the leading discriminator.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf, off: discriminatorLen}
}

// NewRawCursor creates a cursor positioned at the start of the buffer,
// for payloads without a discriminator prefix.
func NewRawCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the current read position.
func (c *Cursor) Offset() int { return c.off }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	if c.off >= len(c.buf) {
		return 0
	}
	return len(c.buf) - c.off
}

func (c *Cursor) require(n int) error {
	if c.off+n > len(c.buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d, payload is %d", ErrOutOfRange, n, c.off, len(c.buf))
	}
	return nil
}

// Skip advances the read position by n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.off += n
	return nil
}

// ReadU8 reads a single byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

// ReadU16LE reads a little-endian uint16.
func (c *Cursor) ReadU16LE() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, nil
}

// ReadU32LE reads a little-endian uint32.
func (c *Cursor) ReadU32LE() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

// ReadU64LE reads a little-endian uint64. The full unsigned range is
// preserved; scaling into floating point is the caller's concern.
func (c *Cursor) ReadU64LE() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

// ReadPubkey reads 32 bytes and encodes them as a base58 address.
func (c *Cursor) ReadPubkey() (string, error) {
	if err := c.require(pubkeyLen); err != nil {
		return "", err
	}
	pk := base58.Encode(c.buf[c.off : c.off+pubkeyLen])
	c.off += pubkeyLen
	return pk, nil
}

// ReadString reads a u32 length prefix followed by that many UTF-8 bytes.
func (c *Cursor) ReadString() (string, error) {
	length, err := c.ReadU32LE()
	if err != nil {
		return "", err
	}
	if length > maxStringLen {
		return "", fmt.Errorf("%w: %d", ErrStringLength, length)
	}
	if err := c.require(int(length)); err != nil {
		return "", err
	}
	s := string(c.buf[c.off : c.off+int(length)])
	c.off += int(length)
	return s, nil
}
