package keyenc

import "encoding/binary"

const (
	signBit16 = 1 << 15
	signBit32 = 1 << 31
	signBit64 = 1 << 63
)

// OrderedInt16 is a signed 16-bit key whose encoding sorts numerically,
// negative values first.
type OrderedInt16 int16

// KeyLen implements Key.
func (OrderedInt16) KeyLen() int { return 2 }

// EncodeKey implements Key.
func (k OrderedInt16) EncodeKey(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, errTruncated("keyenc/OrderedInt16.EncodeKey", 2, len(b))
	}
	binary.BigEndian.PutUint16(b, uint16(k)^signBit16)
	return 2, nil
}

// DecodeOrderedInt16 reads an OrderedInt16 from the first two bytes of b.
func DecodeOrderedInt16(b []byte) (OrderedInt16, error) {
	if len(b) < 2 {
		return 0, errTruncated("keyenc/DecodeOrderedInt16", 2, len(b))
	}
	return OrderedInt16(binary.BigEndian.Uint16(b) ^ signBit16), nil
}

// OrderedInt32 is a signed 32-bit key whose encoding sorts numerically.
type OrderedInt32 int32

// KeyLen implements Key.
func (OrderedInt32) KeyLen() int { return 4 }

// EncodeKey implements Key.
func (k OrderedInt32) EncodeKey(b []byte) (int, error) {
	if len(b) < 4 {
		return 0, errTruncated("keyenc/OrderedInt32.EncodeKey", 4, len(b))
	}
	binary.BigEndian.PutUint32(b, uint32(k)^signBit32)
	return 4, nil
}

// DecodeOrderedInt32 reads an OrderedInt32 from the first four bytes of b.
func DecodeOrderedInt32(b []byte) (OrderedInt32, error) {
	if len(b) < 4 {
		return 0, errTruncated("keyenc/DecodeOrderedInt32", 4, len(b))
	}
	return OrderedInt32(binary.BigEndian.Uint32(b) ^ signBit32), nil
}

// OrderedInt64 is a signed 64-bit key whose encoding sorts numerically.
type OrderedInt64 int64

// KeyLen implements Key.
func (OrderedInt64) KeyLen() int { return 8 }

// EncodeKey implements Key.
func (k OrderedInt64) EncodeKey(b []byte) (int, error) {
	if len(b) < 8 {
		return 0, errTruncated("keyenc/OrderedInt64.EncodeKey", 8, len(b))
	}
	binary.BigEndian.PutUint64(b, uint64(k)^signBit64)
	return 8, nil
}

// DecodeOrderedInt64 reads an OrderedInt64 from the first eight bytes of b.
func DecodeOrderedInt64(b []byte) (OrderedInt64, error) {
	if len(b) < 8 {
		return 0, errTruncated("keyenc/DecodeOrderedInt64", 8, len(b))
	}
	return OrderedInt64(binary.BigEndian.Uint64(b) ^ signBit64), nil
}
