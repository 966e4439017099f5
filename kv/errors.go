package kv

import (
	"fmt"

	"github.com/konkers/sleigh"
)

// OpPrefix is the prefix for kv errors.
const OpPrefix = "kv/"

var (
	// ErrFailureGeneratingID occurs only when the sequence cannot produce a
	// valid id in MaxIDGenerationN attempts.
	ErrFailureGeneratingID = &sleigh.Error{
		Code: sleigh.EIDGeneration,
		Msg:  "unable to generate valid id",
	}

	// ErrEmptyKey is returned when a record's key encodes to no bytes.
	ErrEmptyKey = &sleigh.Error{
		Code: sleigh.EKeyEncoding,
		Msg:  "key is empty",
	}
)

// ErrStoreClosed is returned by every operation on a closed RecordStore.
func ErrStoreClosed(op string) *sleigh.Error {
	return sleigh.NewError(
		sleigh.WithErrorCode(sleigh.EStoreClosed),
		sleigh.WithErrorOp(OpPrefix+op),
		sleigh.WithErrorMsg("store is closed"),
	)
}

// ErrRecordNotFound is used when no record is stored under a key.
func ErrRecordNotFound(op string, bucket []byte) *sleigh.Error {
	return sleigh.NewError(
		sleigh.WithErrorCode(sleigh.ENotFound),
		sleigh.WithErrorOp(OpPrefix+op),
		sleigh.WithErrorMsg(fmt.Sprintf("record not found in bucket %q", bucket)),
	)
}

// UnexpectedStorageError is used when the error comes from the storage engine.
func UnexpectedStorageError(op string, err error) *sleigh.Error {
	return sleigh.NewError(
		sleigh.WithErrorCode(sleigh.EStorageEngine),
		sleigh.WithErrorOp(OpPrefix+op),
		sleigh.WithErrorMsg("unexpected error from storage engine"),
		sleigh.WithErrorErr(err),
	)
}

func wrapError(op, code string, err error) *sleigh.Error {
	return sleigh.NewError(
		sleigh.WithErrorCode(code),
		sleigh.WithErrorOp(OpPrefix+op),
		sleigh.WithErrorErr(err),
	)
}
