package sleigh

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strconv"
)

// IDLength is the exact length a string (or a byte slice representing it)
// must have in order to be decoded into a valid ID.
const IDLength = 16

var (
	// ErrInvalidID signifies invalid IDs.
	ErrInvalidID = &Error{
		Code: EInvalidEncoding,
		Msg:  "invalid ID",
	}

	// ErrInvalidIDLength is returned when an ID has the incorrect number of bytes.
	ErrInvalidIDLength = &Error{
		Code: EInvalidEncoding,
		Msg:  "id must have a length of 16 bytes",
	}
)

// ID is a unique identifier handed out for auto-assigned keys.
//
// The zero value is reserved as the unset sentinel and is never produced by
// an IDGenerator.
type ID uint64

// IDGenerator represents a generator for IDs.
type IDGenerator interface {
	// ID returns the next non-zero identifier. It may perform storage I/O.
	ID(ctx context.Context) (ID, error)
}

// InvalidID returns the zero value for the type ID.
func InvalidID() ID {
	return 0
}

// IDFromString creates an ID from a given string.
//
// It errors if the input string does not match a valid ID.
func IDFromString(str string) (*ID, error) {
	var id ID
	err := id.DecodeFromString(str)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// DecodeFromString parses s as a hex-encoded string.
func (i *ID) DecodeFromString(s string) error {
	if len(s) != IDLength {
		return ErrInvalidIDLength
	}
	res, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return &Error{
			Code: EInvalidEncoding,
			Err:  err,
		}
	}
	if res == 0 {
		return ErrInvalidID
	}
	*i = ID(res)
	return nil
}

// Encode converts ID to a hex-encoded byte-slice.
func (i ID) Encode() ([]byte, error) {
	if !i.Valid() {
		return nil, ErrInvalidID
	}

	b := make([]byte, hex.DecodedLen(IDLength))
	binary.BigEndian.PutUint64(b, uint64(i))

	dst := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(dst, b)
	return dst, nil
}

// Valid checks whether i is a valid ID.
func (i ID) Valid() bool {
	return i != 0
}

// String returns the ID as a hex encoded string.
//
// Returns an empty string in the case the ID is invalid.
func (i ID) String() string {
	enc, _ := i.Encode()
	return string(enc)
}
