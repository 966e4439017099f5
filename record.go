package sleigh

import (
	"context"
	"reflect"
)

// Record is implemented once per persisted type, usually on the pointer
// receiver so Prepare can fill in the key.
//
//	type Widget struct {
//	    ID   uint64 `json:"id"`
//	    Name string `json:"name"`
//	}
//
//	func (w *Widget) BucketName() []byte         { return sleigh.TypeBucket(w) }
//	func (w *Widget) KeyBytes() ([]byte, error) { return keyenc.Encode(keyenc.Uint64(w.ID)) }
//	func (w *Widget) Prepare(ctx context.Context, ids sleigh.IDGenerator) error {
//	    return sleigh.AssignID(ctx, ids, &w.ID)
//	}
type Record interface {
	// BucketName is the namespace every record of the type is stored in.
	// It must not depend on the record's field values.
	BucketName() []byte
	// KeyBytes returns the canonical encoding of the record's key field.
	KeyBytes() ([]byte, error)
	// Prepare runs before the record is serialized. Types with
	// auto-assigned keys fill an unset key from ids here.
	Prepare(ctx context.Context, ids IDGenerator) error
}

// TypeBucket returns the name of v's type (pointers stripped) as a bucket
// name. Renaming the type therefore moves its records to a new bucket.
func TypeBucket(v interface{}) []byte {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return nil
	}
	return []byte(t.Name())
}

// AssignID sets *key to a fresh identifier from ids when it holds the unset
// sentinel zero. A key that is already set is left alone.
func AssignID[K ~uint64](ctx context.Context, ids IDGenerator, key *K) error {
	if *key != 0 {
		return nil
	}

	id, err := ids.ID(ctx)
	if err != nil {
		if ErrorCode(err) == EIDGeneration {
			return err
		}
		return &Error{
			Code: EIDGeneration,
			Op:   "sleigh/AssignID",
			Err:  err,
		}
	}
	if !id.Valid() {
		return &Error{
			Code: EIDGeneration,
			Op:   "sleigh/AssignID",
			Msg:  "generator returned the unset id",
		}
	}

	*key = K(id)
	return nil
}

// NoPrepare can be embedded by record types whose keys are always supplied
// by the caller.
type NoPrepare struct{}

// Prepare does nothing.
func (NoPrepare) Prepare(context.Context, IDGenerator) error { return nil }
