package keyenc

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/konkers/sleigh"
)

// Decodable lists the key types Decode understands.
type Decodable interface {
	Uint16 | Int16 | Uint32 | Int32 | Uint64 | Int64 |
		OrderedInt16 | OrderedInt32 | OrderedInt64 | String
}

// Decode is the inverse of Encode for any of the package's key types.
func Decode[K Decodable](b []byte) (K, error) {
	var k K
	var (
		v   interface{}
		err error
	)
	switch any(k).(type) {
	case Uint16:
		v, err = DecodeUint16(b)
	case Int16:
		v, err = DecodeInt16(b)
	case Uint32:
		v, err = DecodeUint32(b)
	case Int32:
		v, err = DecodeInt32(b)
	case Uint64:
		v, err = DecodeUint64(b)
	case Int64:
		v, err = DecodeInt64(b)
	case OrderedInt16:
		v, err = DecodeOrderedInt16(b)
	case OrderedInt32:
		v, err = DecodeOrderedInt32(b)
	case OrderedInt64:
		v, err = DecodeOrderedInt64(b)
	case String:
		v, err = DecodeString(b)
	}
	if err != nil {
		return k, err
	}
	return v.(K), nil
}

// Kind names a key type. It lets tools that only see raw bucket contents
// render keys once told what type the bucket holds.
type Kind int

// Supported kinds.
const (
	KindBytes Kind = iota
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindUint64
	KindInt64
	KindOrderedInt16
	KindOrderedInt32
	KindOrderedInt64
	KindString
	KindID
)

var kindNames = map[Kind]string{
	KindBytes:        "bytes",
	KindUint16:       "uint16",
	KindInt16:        "int16",
	KindUint32:       "uint32",
	KindInt32:        "int32",
	KindUint64:       "uint64",
	KindInt64:        "int64",
	KindOrderedInt16: "ordered-int16",
	KindOrderedInt32: "ordered-int32",
	KindOrderedInt64: "ordered-int64",
	KindString:       "string",
	KindID:           "id",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindBytes, &sleigh.Error{
		Code: sleigh.EInvalidEncoding,
		Op:   "keyenc/ParseKind",
		Msg:  fmt.Sprintf("unknown key kind %q", s),
	}
}

// Format decodes b as a key of kind k and renders it for display.
func (k Kind) Format(b []byte) (string, error) {
	var (
		v   interface{}
		err error
	)
	switch k {
	case KindBytes:
		return fmt.Sprintf("%x", b), nil
	case KindUint16:
		v, err = DecodeUint16(b)
	case KindInt16:
		v, err = DecodeInt16(b)
	case KindUint32:
		v, err = DecodeUint32(b)
	case KindInt32:
		v, err = DecodeInt32(b)
	case KindUint64:
		v, err = DecodeUint64(b)
	case KindInt64:
		v, err = DecodeInt64(b)
	case KindOrderedInt16:
		v, err = DecodeOrderedInt16(b)
	case KindOrderedInt32:
		v, err = DecodeOrderedInt32(b)
	case KindOrderedInt64:
		v, err = DecodeOrderedInt64(b)
	case KindString:
		var s String
		s, err = DecodeString(b)
		v = strconv.Quote(string(s))
	case KindID:
		var n Uint64
		if n, err = DecodeUint64(b); err == nil {
			var enc []byte
			enc, err = sleigh.ID(n).Encode()
			v = string(enc)
		}
	default:
		return "", &sleigh.Error{
			Code: sleigh.EInvalidEncoding,
			Op:   "keyenc/Kind.Format",
			Msg:  fmt.Sprintf("unknown key kind %d", int(k)),
		}
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

// Parse reads s, as typed on a command line, into the encoded key of kind k.
// Bytes are hex; ids use the same 16 character hex form Format prints.
func (k Kind) Parse(s string) ([]byte, error) {
	var (
		key Key
		err error
	)
	switch k {
	case KindBytes:
		var b []byte
		if b, err = hex.DecodeString(s); err == nil {
			return b, nil
		}
	case KindUint16, KindUint32, KindUint64:
		var n uint64
		if n, err = strconv.ParseUint(s, 10, k.bits()); err == nil {
			switch k {
			case KindUint16:
				key = Uint16(n)
			case KindUint32:
				key = Uint32(n)
			default:
				key = Uint64(n)
			}
		}
	case KindInt16, KindInt32, KindInt64, KindOrderedInt16, KindOrderedInt32, KindOrderedInt64:
		var n int64
		if n, err = strconv.ParseInt(s, 10, k.bits()); err == nil {
			switch k {
			case KindInt16:
				key = Int16(n)
			case KindInt32:
				key = Int32(n)
			case KindInt64:
				key = Int64(n)
			case KindOrderedInt16:
				key = OrderedInt16(n)
			case KindOrderedInt32:
				key = OrderedInt32(n)
			default:
				key = OrderedInt64(n)
			}
		}
	case KindString:
		key = String(s)
	case KindID:
		var id *sleigh.ID
		if id, err = sleigh.IDFromString(s); err == nil {
			key = Uint64(*id)
		}
	default:
		return nil, &sleigh.Error{
			Code: sleigh.EInvalidEncoding,
			Op:   "keyenc/Kind.Parse",
			Msg:  fmt.Sprintf("unknown key kind %d", int(k)),
		}
	}
	if err != nil {
		return nil, &sleigh.Error{
			Code: sleigh.EInvalidEncoding,
			Op:   "keyenc/Kind.Parse",
			Msg:  fmt.Sprintf("%q is not a valid %s key", s, k),
			Err:  err,
		}
	}
	return Encode(key)
}

func (k Kind) bits() int {
	switch k {
	case KindUint16, KindInt16, KindOrderedInt16:
		return 16
	case KindUint32, KindInt32, KindOrderedInt32:
		return 32
	}
	return 64
}
