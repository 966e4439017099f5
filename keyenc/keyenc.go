// Package keyenc encodes record keys into the byte strings used as bucket
// keys.
//
// Unsigned integers are written as fixed-width big-endian values, so byte
// order matches numeric order. Signed integers (Int16, Int32, Int64) use
// the same layout on their two's-complement bits. Negative values therefore
// sort after every non-negative value when compared as bytes; this is the
// historical on-disk layout and is kept so existing files stay readable.
// The OrderedInt types flip the sign bit and sort numerically across the
// whole range, at the cost of a different byte layout.
//
// Text keys are the raw UTF-8 bytes with no terminator or length prefix. A
// bucket must only ever hold keys of a single Key type.
package keyenc

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/konkers/sleigh"
)

// Key is a value that can be written as a bucket key.
type Key interface {
	// KeyLen is the exact number of bytes EncodeKey writes.
	KeyLen() int
	// EncodeKey writes the key into b and returns the number of bytes
	// written.
	EncodeKey(b []byte) (int, error)
}

// Encode returns the canonical encoding of k.
func Encode(k Key) ([]byte, error) {
	b := make([]byte, k.KeyLen())
	n, err := k.EncodeKey(b)
	if err != nil {
		return nil, err
	}
	return b[:n], nil
}

// MustEncode is like Encode but panics on error. It is intended for keys
// whose encoding cannot fail, such as the integer types.
func MustEncode(k Key) []byte {
	b, err := Encode(k)
	if err != nil {
		panic(err)
	}
	return b
}

func errTruncated(op string, need, have int) error {
	return &sleigh.Error{
		Code: sleigh.ETruncatedInput,
		Op:   op,
		Msg:  fmt.Sprintf("need %d bytes, have %d", need, have),
	}
}

// Uint16 is an unsigned 16-bit key.
type Uint16 uint16

// KeyLen implements Key.
func (Uint16) KeyLen() int { return 2 }

// EncodeKey implements Key.
func (k Uint16) EncodeKey(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, errTruncated("keyenc/Uint16.EncodeKey", 2, len(b))
	}
	binary.BigEndian.PutUint16(b, uint16(k))
	return 2, nil
}

// DecodeUint16 reads a Uint16 from the first two bytes of b.
func DecodeUint16(b []byte) (Uint16, error) {
	if len(b) < 2 {
		return 0, errTruncated("keyenc/DecodeUint16", 2, len(b))
	}
	return Uint16(binary.BigEndian.Uint16(b)), nil
}

// Int16 is a signed 16-bit key in two's-complement layout.
type Int16 int16

// KeyLen implements Key.
func (Int16) KeyLen() int { return 2 }

// EncodeKey implements Key.
func (k Int16) EncodeKey(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, errTruncated("keyenc/Int16.EncodeKey", 2, len(b))
	}
	binary.BigEndian.PutUint16(b, uint16(k))
	return 2, nil
}

// DecodeInt16 reads an Int16 from the first two bytes of b.
func DecodeInt16(b []byte) (Int16, error) {
	if len(b) < 2 {
		return 0, errTruncated("keyenc/DecodeInt16", 2, len(b))
	}
	return Int16(binary.BigEndian.Uint16(b)), nil
}

// Uint32 is an unsigned 32-bit key.
type Uint32 uint32

// KeyLen implements Key.
func (Uint32) KeyLen() int { return 4 }

// EncodeKey implements Key.
func (k Uint32) EncodeKey(b []byte) (int, error) {
	if len(b) < 4 {
		return 0, errTruncated("keyenc/Uint32.EncodeKey", 4, len(b))
	}
	binary.BigEndian.PutUint32(b, uint32(k))
	return 4, nil
}

// DecodeUint32 reads a Uint32 from the first four bytes of b.
func DecodeUint32(b []byte) (Uint32, error) {
	if len(b) < 4 {
		return 0, errTruncated("keyenc/DecodeUint32", 4, len(b))
	}
	return Uint32(binary.BigEndian.Uint32(b)), nil
}

// Int32 is a signed 32-bit key in two's-complement layout.
type Int32 int32

// KeyLen implements Key.
func (Int32) KeyLen() int { return 4 }

// EncodeKey implements Key.
func (k Int32) EncodeKey(b []byte) (int, error) {
	if len(b) < 4 {
		return 0, errTruncated("keyenc/Int32.EncodeKey", 4, len(b))
	}
	binary.BigEndian.PutUint32(b, uint32(k))
	return 4, nil
}

// DecodeInt32 reads an Int32 from the first four bytes of b.
func DecodeInt32(b []byte) (Int32, error) {
	if len(b) < 4 {
		return 0, errTruncated("keyenc/DecodeInt32", 4, len(b))
	}
	return Int32(binary.BigEndian.Uint32(b)), nil
}

// Uint64 is an unsigned 64-bit key. Auto-assigned keys use this type.
type Uint64 uint64

// KeyLen implements Key.
func (Uint64) KeyLen() int { return 8 }

// EncodeKey implements Key.
func (k Uint64) EncodeKey(b []byte) (int, error) {
	if len(b) < 8 {
		return 0, errTruncated("keyenc/Uint64.EncodeKey", 8, len(b))
	}
	binary.BigEndian.PutUint64(b, uint64(k))
	return 8, nil
}

// DecodeUint64 reads a Uint64 from the first eight bytes of b.
func DecodeUint64(b []byte) (Uint64, error) {
	if len(b) < 8 {
		return 0, errTruncated("keyenc/DecodeUint64", 8, len(b))
	}
	return Uint64(binary.BigEndian.Uint64(b)), nil
}

// Int64 is a signed 64-bit key in two's-complement layout.
type Int64 int64

// KeyLen implements Key.
func (Int64) KeyLen() int { return 8 }

// EncodeKey implements Key.
func (k Int64) EncodeKey(b []byte) (int, error) {
	if len(b) < 8 {
		return 0, errTruncated("keyenc/Int64.EncodeKey", 8, len(b))
	}
	binary.BigEndian.PutUint64(b, uint64(k))
	return 8, nil
}

// DecodeInt64 reads an Int64 from the first eight bytes of b.
func DecodeInt64(b []byte) (Int64, error) {
	if len(b) < 8 {
		return 0, errTruncated("keyenc/DecodeInt64", 8, len(b))
	}
	return Int64(binary.BigEndian.Uint64(b)), nil
}

// String is a text key stored as its raw UTF-8 bytes.
type String string

// KeyLen implements Key.
func (k String) KeyLen() int { return len(k) }

// EncodeKey implements Key.
func (k String) EncodeKey(b []byte) (int, error) {
	if len(b) < len(k) {
		return 0, errTruncated("keyenc/String.EncodeKey", len(k), len(b))
	}
	return copy(b, k), nil
}

// DecodeString returns b as a String. All of b is consumed.
func DecodeString(b []byte) (String, error) {
	if !utf8.Valid(b) {
		return "", &sleigh.Error{
			Code: sleigh.EInvalidEncoding,
			Op:   "keyenc/DecodeString",
			Msg:  "key is not valid utf-8",
		}
	}
	return String(b), nil
}
