package bolt

import (
	"context"

	"github.com/konkers/sleigh/kv"
	"go.uber.org/zap"
)

// OpenRecordStore opens the boltdb file at path with kvOpts and returns a
// kv.RecordStore that owns it. Closing the record store closes the file.
func OpenRecordStore(ctx context.Context, log *zap.Logger, path string, kvOpts []KVOption, opts ...kv.Option) (*kv.RecordStore, error) {
	if log == nil {
		log = zap.NewNop()
	}

	st := NewKVStore(log.With(zap.String("service", "bolt")), path, kvOpts...)
	if err := st.Open(ctx); err != nil {
		return nil, err
	}

	return kv.NewRecordStore(log, st, opts...), nil
}
