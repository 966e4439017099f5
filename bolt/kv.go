package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/konkers/sleigh/kit/tracing"
	"github.com/konkers/sleigh/kv"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// DefaultTimeout is how long Open waits for the file lock.
const DefaultTimeout = time.Second

// KVStore is a kv.Store backed by boltdb.
type KVStore struct {
	path string

	// mu guards db. Close can race with metric scrapes and in-flight
	// transactions.
	mu sync.RWMutex
	db *bolt.DB

	log      *zap.Logger
	noSync   bool
	readOnly bool
	timeout  time.Duration
}

// KVOption is an option for the bolt kv store.
type KVOption func(*KVStore)

// WithNoSync disables fsync on commit. Only use it where losing recent
// writes on a crash is acceptable, such as tests.
func WithNoSync(s *KVStore) {
	s.noSync = true
}

// WithReadOnly opens the file with a shared lock and rejects writes.
func WithReadOnly(s *KVStore) {
	s.readOnly = true
}

// WithTimeout sets how long Open waits to acquire the file lock.
func WithTimeout(d time.Duration) KVOption {
	return func(s *KVStore) {
		s.timeout = d
	}
}

// NewKVStore returns an instance of KVStore with the file at
// the provided path.
func NewKVStore(log *zap.Logger, path string, opts ...KVOption) *KVStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &KVStore{
		path:    path,
		log:     log,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates boltDB file it doesn't exists and opens it otherwise.
func (s *KVStore) Open(ctx context.Context) error {
	span, _ := tracing.StartSpanFromContextWithOperationName(ctx, "KVStore.Open")
	defer span.Finish()

	// Ensure the required directory structure exists.
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("unable to create directory %s: %v", s.path, err)
	}

	if _, err := os.Stat(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	// Open database file.
	db, err := bolt.Open(s.path, 0600, &bolt.Options{
		Timeout:  s.timeout,
		ReadOnly: s.readOnly,
	})
	if err != nil {
		return fmt.Errorf("unable to open boltdb file %v", err)
	}
	db.NoSync = s.noSync
	s.mu.Lock()
	s.db = db
	s.mu.Unlock()

	s.log.Info("Resources opened", zap.String("path", s.path))
	return nil
}

// Path returns the path of the boltdb file.
func (s *KVStore) Path() string {
	return s.path
}

// Close the connection to the bolt database
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// database returns the open handle, or nil once closed. bolt itself
// rejects transactions on a handle closed after this returns.
func (s *KVStore) database() *bolt.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// View opens up a view transaction against the store.
func (s *KVStore) View(ctx context.Context, fn func(tx kv.Tx) error) error {
	span, ctx := tracing.StartSpanFromContextWithOperationName(ctx, "KVStore.View")
	defer span.Finish()

	db := s.database()
	if db == nil {
		return tracing.LogError(span, bolt.ErrDatabaseNotOpen)
	}

	err := db.View(func(tx *bolt.Tx) error {
		return fn(&Tx{
			tx:  tx,
			ctx: ctx,
		})
	})
	return tracing.LogError(span, err)
}

// Update opens up an update transaction against the store.
func (s *KVStore) Update(ctx context.Context, fn func(tx kv.Tx) error) error {
	span, ctx := tracing.StartSpanFromContextWithOperationName(ctx, "KVStore.Update")
	defer span.Finish()

	db := s.database()
	if db == nil {
		return tracing.LogError(span, bolt.ErrDatabaseNotOpen)
	}

	err := db.Update(func(tx *bolt.Tx) error {
		return fn(&Tx{
			tx:  tx,
			ctx: ctx,
		})
	})
	return tracing.LogError(span, err)
}

// Tx is a light wrapper around a boltdb transaction. It implements kv.Tx.
type Tx struct {
	tx  *bolt.Tx
	ctx context.Context
}

// Context returns the context for the transaction.
func (tx *Tx) Context() context.Context {
	return tx.ctx
}

// WithContext sets the context for the transaction.
func (tx *Tx) WithContext(ctx context.Context) {
	tx.ctx = ctx
}

// createBucketIfNotExists creates a bucket with the provided byte slice.
func (tx *Tx) createBucketIfNotExists(b []byte) (*Bucket, error) {
	bkt, err := tx.tx.CreateBucketIfNotExists(b)
	if err != nil {
		return nil, err
	}
	return &Bucket{
		bucket: bkt,
	}, nil
}

// Bucket retrieves the bucket named b, creating it in writable
// transactions.
func (tx *Tx) Bucket(b []byte) (kv.Bucket, error) {
	bkt := tx.tx.Bucket(b)
	if bkt == nil {
		if !tx.tx.Writable() {
			return nil, kv.ErrBucketNotFound
		}
		return tx.createBucketIfNotExists(b)
	}
	return &Bucket{
		bucket: bkt,
	}, nil
}

// ForEachBucket calls fn for every top-level bucket.
func (tx *Tx) ForEachBucket(fn func(name []byte, b kv.Bucket) error) error {
	return tx.tx.ForEach(func(name []byte, b *bolt.Bucket) error {
		return fn(name, &Bucket{bucket: b})
	})
}

// Bucket implements kv.Bucket.
type Bucket struct {
	bucket *bolt.Bucket
}

// Get retrieves the value at the provided key.
func (b *Bucket) Get(key []byte) ([]byte, error) {
	val := b.bucket.Get(key)
	if val == nil {
		return nil, kv.ErrKeyNotFound
	}

	return val, nil
}

// Put sets the value at the provided key.
func (b *Bucket) Put(key []byte, value []byte) error {
	err := b.bucket.Put(key, value)
	if errors.Is(err, bolt.ErrTxNotWritable) {
		return kv.ErrTxNotWritable
	}
	return err
}

// Delete removes the provided key.
func (b *Bucket) Delete(key []byte) error {
	err := b.bucket.Delete(key)
	if errors.Is(err, bolt.ErrTxNotWritable) {
		return kv.ErrTxNotWritable
	}
	return err
}

// NextSequence returns the next value of the bucket's persistent sequence.
func (b *Bucket) NextSequence() (uint64, error) {
	n, err := b.bucket.NextSequence()
	if errors.Is(err, bolt.ErrTxNotWritable) {
		return 0, kv.ErrTxNotWritable
	}
	return n, err
}

// Cursor retrieves a cursor for iterating through the entries
// in the key value store.
func (b *Bucket) Cursor() (kv.Cursor, error) {
	return &Cursor{
		cursor: b.bucket.Cursor(),
	}, nil
}

// Cursor is a struct for iterating through the entries
// in the key value store.
type Cursor struct {
	cursor *bolt.Cursor
}

// Seek seeks for the first key that is greater than or equal to seek.
func (c *Cursor) Seek(seek []byte) ([]byte, []byte) {
	k, v := c.cursor.Seek(seek)
	if len(k) == 0 && len(v) == 0 {
		return nil, nil
	}
	return k, v
}

// First retrieves the first key value pair in the bucket.
func (c *Cursor) First() ([]byte, []byte) {
	k, v := c.cursor.First()
	if len(k) == 0 && len(v) == 0 {
		return nil, nil
	}
	return k, v
}

// Last retrieves the last key value pair in the bucket.
func (c *Cursor) Last() ([]byte, []byte) {
	k, v := c.cursor.Last()
	if len(k) == 0 && len(v) == 0 {
		return nil, nil
	}
	return k, v
}

// Next retrieves the next key in the bucket.
func (c *Cursor) Next() ([]byte, []byte) {
	k, v := c.cursor.Next()
	if len(k) == 0 && len(v) == 0 {
		return nil, nil
	}
	return k, v
}

// Prev retrieves the previous key in the bucket.
func (c *Cursor) Prev() ([]byte, []byte) {
	k, v := c.cursor.Prev()
	if len(k) == 0 && len(v) == 0 {
		return nil, nil
	}
	return k, v
}
