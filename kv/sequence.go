package kv

import (
	"context"

	"github.com/konkers/sleigh"
	"github.com/konkers/sleigh/kit/tracing"
)

// MaxIDGenerationN is the maximum number of times a sequence is read while
// looking for a non-zero id.
const MaxIDGenerationN = 100

// SequenceBucket holds the persistent counter behind SequenceIDGenerator.
// No record type may use it as its bucket name.
var SequenceBucket = []byte("sleigh_ids")

var _ sleigh.IDGenerator = (*SequenceIDGenerator)(nil)

// SequenceIDGenerator hands out ids from the storage engine's persistent
// bucket sequence, so ids keep increasing across restarts of the same file.
type SequenceIDGenerator struct {
	kv     Store
	bucket []byte
}

// NewSequenceIDGenerator returns a generator drawing from st.
func NewSequenceIDGenerator(st Store) *SequenceIDGenerator {
	return &SequenceIDGenerator{
		kv:     st,
		bucket: SequenceBucket,
	}
}

// ID returns the next non-zero value of the sequence. Zero is reserved as
// the unset key, so a zero from the engine is skipped.
func (g *SequenceIDGenerator) ID(ctx context.Context) (sleigh.ID, error) {
	span, ctx := tracing.StartSpanFromContextWithOperationName(ctx, "SequenceIDGenerator.ID")
	defer span.Finish()

	var id sleigh.ID
	err := g.kv.Update(ctx, func(tx Tx) error {
		b, err := tx.Bucket(g.bucket)
		if err != nil {
			return err
		}

		for i := 0; i < MaxIDGenerationN; i++ {
			n, err := b.NextSequence()
			if err != nil {
				return err
			}
			if next := sleigh.ID(n); next.Valid() {
				id = next
				return nil
			}
		}
		return ErrFailureGeneratingID
	})
	if err != nil {
		if sleigh.ErrorCode(err) != sleigh.EIDGeneration {
			err = wrapError("SequenceIDGenerator.ID", sleigh.EIDGeneration, err)
		}
		return sleigh.InvalidID(), tracing.LogError(span, err)
	}

	return id, nil
}
