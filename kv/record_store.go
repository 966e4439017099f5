package kv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/konkers/sleigh"
	"github.com/konkers/sleigh/keyenc"
	"github.com/konkers/sleigh/kit/tracing"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RecordStore stores typed records, one bucket per record type.
//
// A RecordStore owns the Store it was built on and its IDGenerator; Close
// releases both. It is safe for concurrent use.
type RecordStore struct {
	kv    Store
	log   *zap.Logger
	ids   sleigh.IDGenerator
	codec ValueCodec

	// state guards closed. Operations hold it shared for their whole
	// duration so Close waits for them.
	state  sync.RWMutex
	closed bool

	mu      sync.RWMutex
	buckets map[string]struct{}
}

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithIDGenerator replaces the sequence backed generator.
func WithIDGenerator(ids sleigh.IDGenerator) Option {
	return func(s *RecordStore) {
		s.ids = ids
	}
}

// WithValueCodec replaces the JSON value encoding.
func WithValueCodec(c ValueCodec) Option {
	return func(s *RecordStore) {
		s.codec = c
	}
}

// NewRecordStore returns a RecordStore backed by st. Unless overridden,
// ids come from a SequenceIDGenerator over st and values are JSON.
func NewRecordStore(log *zap.Logger, st Store, opts ...Option) *RecordStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &RecordStore{
		kv:      st,
		log:     log,
		codec:   JSONCodec{},
		buckets: map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = NewSequenceIDGenerator(st)
	}
	return s
}

// Put writes rec under its key, replacing any existing record.
//
// rec.Prepare runs first and may assign the key. That assignment is kept
// even if a later step fails.
func (s *RecordStore) Put(ctx context.Context, rec sleigh.Record) (err error) {
	span, ctx := tracing.StartSpanFromContextWithOperationName(ctx, "RecordStore.Put")
	defer func() { tracing.FinishSpan(span, err) }()

	s.state.RLock()
	defer s.state.RUnlock()
	if s.closed {
		return ErrStoreClosed("Put")
	}

	if err := rec.Prepare(ctx, s.ids); err != nil {
		code := sleigh.ErrorCode(err)
		if code == sleigh.EInternal {
			code = sleigh.EIDGeneration
		}
		return wrapError("Put", code, err)
	}

	v, err := s.codec.Encode(rec)
	if err != nil {
		return wrapError("Put", sleigh.ESerialization, err)
	}

	key, err := rec.KeyBytes()
	if err != nil {
		return wrapError("Put", sleigh.EKeyEncoding, err)
	}
	if len(key) == 0 {
		return wrapError("Put", sleigh.EKeyEncoding, ErrEmptyKey)
	}

	name, err := bucketName(rec)
	if err != nil {
		return err
	}

	err = s.kv.Update(ctx, func(tx Tx) error {
		b, err := tx.Bucket(name)
		if err != nil {
			return err
		}
		return b.Put(key, v)
	})
	if err != nil {
		return UnexpectedStorageError("Put", err)
	}
	s.remember(name)

	return nil
}

// Get reads the record stored under key into dst. The bucket comes from
// dst; nothing checks that key has the type dst's records are keyed by.
// Get only reads, so it works on read-only engines; a bucket that was
// never written reports not found.
func (s *RecordStore) Get(ctx context.Context, key keyenc.Key, dst sleigh.Record) (err error) {
	span, ctx := tracing.StartSpanFromContextWithOperationName(ctx, "RecordStore.Get")
	defer func() { tracing.FinishSpan(span, err) }()

	s.state.RLock()
	defer s.state.RUnlock()
	if s.closed {
		return ErrStoreClosed("Get")
	}

	k, err := encodeKey("Get", key)
	if err != nil {
		return err
	}

	name, err := bucketName(dst)
	if err != nil {
		return err
	}

	var decodeErr error
	err = s.kv.View(ctx, func(tx Tx) error {
		b, err := tx.Bucket(name)
		if err != nil {
			return err
		}
		v, err := b.Get(k)
		if err != nil {
			return err
		}
		decodeErr = s.codec.Decode(v, dst)
		return nil
	})
	if IsNotFound(err) {
		return ErrRecordNotFound("Get", name)
	}
	if err != nil {
		return UnexpectedStorageError("Get", err)
	}
	if decodeErr != nil {
		return wrapError("Get", sleigh.EDeserialization, decodeErr)
	}

	return nil
}

// Delete removes the record stored under key from rec's bucket. It fails
// with a not found error when there is nothing to remove.
func (s *RecordStore) Delete(ctx context.Context, key keyenc.Key, rec sleigh.Record) (err error) {
	span, ctx := tracing.StartSpanFromContextWithOperationName(ctx, "RecordStore.Delete")
	defer func() { tracing.FinishSpan(span, err) }()

	s.state.RLock()
	defer s.state.RUnlock()
	if s.closed {
		return ErrStoreClosed("Delete")
	}

	k, err := encodeKey("Delete", key)
	if err != nil {
		return err
	}

	name, err := bucketName(rec)
	if err != nil {
		return err
	}

	err = s.kv.Update(ctx, func(tx Tx) error {
		b, err := tx.Bucket(name)
		if err != nil {
			return err
		}
		if _, err := b.Get(k); err != nil {
			return err
		}
		return b.Delete(k)
	})
	if IsNotFound(err) {
		return ErrRecordNotFound("Delete", name)
	}
	if err != nil {
		return UnexpectedStorageError("Delete", err)
	}
	s.remember(name)

	return nil
}

// NextID returns an id from the store's generator.
func (s *RecordStore) NextID(ctx context.Context) (sleigh.ID, error) {
	s.state.RLock()
	defer s.state.RUnlock()
	if s.closed {
		return sleigh.InvalidID(), ErrStoreClosed("NextID")
	}

	return s.ids.ID(ctx)
}

// Close releases the generator and the underlying store. Calling Close
// more than once is a no-op.
func (s *RecordStore) Close() error {
	s.state.Lock()
	defer s.state.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if c, ok := s.ids.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	if c, ok := s.kv.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	if err != nil {
		return UnexpectedStorageError("Close", err)
	}

	s.log.Info("Record store closed")
	return nil
}

// remember records that name exists. The first sighting is logged.
func (s *RecordStore) remember(name []byte) {
	s.mu.RLock()
	_, ok := s.buckets[string(name)]
	s.mu.RUnlock()
	if ok {
		return
	}

	s.mu.Lock()
	_, ok = s.buckets[string(name)]
	s.buckets[string(name)] = struct{}{}
	s.mu.Unlock()
	if !ok {
		s.log.Debug("Opened bucket", zap.ByteString("bucket", name))
	}
}

func encodeKey(op string, key keyenc.Key) ([]byte, error) {
	k, err := keyenc.Encode(key)
	if err != nil {
		return nil, wrapError(op, sleigh.EKeyEncoding, err)
	}
	if len(k) == 0 {
		return nil, wrapError(op, sleigh.EKeyEncoding, ErrEmptyKey)
	}
	return k, nil
}

func bucketName(rec sleigh.Record) ([]byte, error) {
	name := rec.BucketName()
	switch {
	case len(name) == 0:
		return nil, sleigh.NewError(
			sleigh.WithErrorCode(sleigh.EInternal),
			sleigh.WithErrorOp(OpPrefix+"bucketName"),
			sleigh.WithErrorMsg("record type has an empty bucket name"),
		)
	case bytes.Equal(name, SequenceBucket):
		return nil, sleigh.NewError(
			sleigh.WithErrorCode(sleigh.EInternal),
			sleigh.WithErrorOp(OpPrefix+"bucketName"),
			sleigh.WithErrorMsg(fmt.Sprintf("bucket name %q is reserved for id sequences", name)),
		)
	}
	return name, nil
}

// Find allocates a T and reads the record stored under key into it.
//
//	w, err := kv.Find[Widget](ctx, store, keyenc.Uint64(id))
func Find[T any, P interface {
	*T
	sleigh.Record
}](ctx context.Context, s *RecordStore, key keyenc.Key) (*T, error) {
	var v T
	if err := s.Get(ctx, key, P(&v)); err != nil {
		return nil, err
	}
	return &v, nil
}
