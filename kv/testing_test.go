package kv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/konkers/sleigh"
	"github.com/konkers/sleigh/bolt"
	"github.com/konkers/sleigh/inmem"
	"github.com/konkers/sleigh/keyenc"
	"github.com/konkers/sleigh/kv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Widget has an auto-assigned integer key.
type Widget struct {
	ID    uint64   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Parts []string `json:"parts,omitempty" yaml:"parts,omitempty"`
}

func (w *Widget) BucketName() []byte        { return sleigh.TypeBucket(w) }
func (w *Widget) KeyBytes() ([]byte, error) { return keyenc.Encode(keyenc.Uint64(w.ID)) }
func (w *Widget) Prepare(ctx context.Context, ids sleigh.IDGenerator) error {
	return sleigh.AssignID(ctx, ids, &w.ID)
}

// Gadget is keyed by its name, which callers always supply.
type Gadget struct {
	sleigh.NoPrepare
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

func (g *Gadget) BucketName() []byte        { return sleigh.TypeBucket(g) }
func (g *Gadget) KeyBytes() ([]byte, error) { return keyenc.Encode(keyenc.String(g.Name)) }

// slimWidget reads the Widget bucket with fewer fields than were written.
type slimWidget struct {
	sleigh.NoPrepare
	ID uint64 `json:"id"`
}

func (w *slimWidget) BucketName() []byte        { return []byte("Widget") }
func (w *slimWidget) KeyBytes() ([]byte, error) { return keyenc.Encode(keyenc.Uint64(w.ID)) }

type storeFactory struct {
	name string
	new  func(t *testing.T) kv.Store
}

func storeFactories() []storeFactory {
	return []storeFactory{
		{
			name: "inmem",
			new: func(t *testing.T) kv.Store {
				return inmem.NewKVStore()
			},
		},
		{
			name: "bolt",
			new: func(t *testing.T) kv.Store {
				return newTestBoltStore(t)
			},
		},
	}
}

func newTestBoltStore(t *testing.T) *bolt.KVStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sleigh.bolt")
	st := bolt.NewKVStore(zaptest.NewLogger(t), path, bolt.WithNoSync)
	require.NoError(t, st.Open(context.Background()))
	t.Cleanup(func() { st.Close() })
	return st
}

type failingIDs struct {
	err error
}

func (f failingIDs) ID(context.Context) (sleigh.ID, error) {
	return sleigh.InvalidID(), f.err
}
