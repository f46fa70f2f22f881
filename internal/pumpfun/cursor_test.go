package pumpfun

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/mr-tron/base58"
)

// payload builds a discriminator-prefixed buffer from the given body.
func payload(body []byte) []byte {
	buf := make([]byte, discriminatorLen, discriminatorLen+len(body))
	return append(buf, body...)
}

func TestCursor_ReadPrimitives(t *testing.T) {
	body := make([]byte, 15)
	binary.LittleEndian.PutUint32(body[0:], 0xDEADBEEF)
	binary.LittleEndian.PutUint64(body[4:], 1<<62+7)
	binary.LittleEndian.PutUint16(body[12:], 500)
	body[14] = 1

	cur := NewCursor(payload(body))

	u32, err := cur.ReadU32LE()
	if err != nil {
		t.Fatalf("ReadU32LE: %v", err)
	}
	if u32 != 0xDEADBEEF {
		t.Errorf("u32 = %x", u32)
	}

	u64, err := cur.ReadU64LE()
	if err != nil {
		t.Fatalf("ReadU64LE: %v", err)
	}
	if u64 != 1<<62+7 {
		t.Errorf("u64 = %d, full 64-bit range must survive decoding", u64)
	}

	u16, err := cur.ReadU16LE()
	if err != nil {
		t.Fatalf("ReadU16LE: %v", err)
	}
	if u16 != 500 {
		t.Errorf("u16 = %d", u16)
	}

	u8, err := cur.ReadU8()
	if err != nil {
		t.Fatalf("ReadU8: %v", err)
	}
	if u8 != 1 {
		t.Errorf("u8 = %d", u8)
	}

	if cur.Remaining() != 0 {
		t.Errorf("remaining = %d", cur.Remaining())
	}
}

func TestCursor_ReadPastEnd(t *testing.T) {
	cur := NewCursor(payload([]byte{1, 2, 3}))
	if err := cur.Skip(3); err != nil {
		t.Fatalf("Skip: %v", err)
	}

	// one byte past the end
	if _, err := cur.ReadU8(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestCursor_PubkeyAtTail(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	cur := NewCursor(payload(raw))

	pk, err := cur.ReadPubkey()
	if err != nil {
		t.Fatalf("ReadPubkey at buffer tail: %v", err)
	}
	if pk != base58.Encode(raw) {
		t.Errorf("pubkey = %s", pk)
	}

	if _, err := cur.ReadU8(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange after tail read, got %v", err)
	}
}

func TestCursor_StringLengthExceedsBuffer(t *testing.T) {
	body := make([]byte, 6)
	binary.LittleEndian.PutUint32(body, 100) // declares 100 bytes, 2 remain
	cur := NewCursor(payload(body))

	_, err := cur.ReadString()
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestCursor_StringLengthCap(t *testing.T) {
	body := make([]byte, 4)
	binary.LittleEndian.PutUint32(body, maxStringLen+1)
	cur := NewCursor(payload(body))

	_, err := cur.ReadString()
	if !errors.Is(err, ErrStringLength) {
		t.Errorf("expected ErrStringLength, got %v", err)
	}
}

func TestCursor_ShortDiscriminator(t *testing.T) {
	// buffer shorter than the discriminator itself
	cur := NewCursor([]byte{1, 2, 3})
	if _, err := cur.ReadU8(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}
