package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/konkers/sleigh"
	"github.com/konkers/sleigh/bolt"
	"github.com/konkers/sleigh/keyenc"
	"github.com/konkers/sleigh/kit/prom/promtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type Widget struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func (w *Widget) BucketName() []byte        { return sleigh.TypeBucket(w) }
func (w *Widget) KeyBytes() ([]byte, error) { return keyenc.Encode(keyenc.Uint64(w.ID)) }
func (w *Widget) Prepare(ctx context.Context, ids sleigh.IDGenerator) error {
	return sleigh.AssignID(ctx, ids, &w.ID)
}

func seedStore(t *testing.T) string {
	t.Helper()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sleigh.bolt")
	s, err := bolt.OpenRecordStore(ctx, zaptest.NewLogger(t), path, []bolt.KVOption{bolt.WithNoSync})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, &Widget{Name: "sprocket"}))
	require.NoError(t, s.Put(ctx, &Widget{Name: "flange"}))
	require.NoError(t, s.Close())
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd, err := NewCommand(&out, io.Discard)
	require.NoError(t, err)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err = cmd.Execute()
	return out.String(), err
}

func lines(s string) [][]string {
	var rows [][]string
	for _, l := range strings.Split(strings.TrimSpace(s), "\n") {
		rows = append(rows, strings.Fields(l))
	}
	return rows
}

func TestBuckets(t *testing.T) {
	path := seedStore(t)

	out, err := run(t, "buckets", "--bolt-path", path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"BUCKET", "KEYS", "SIZE"},
		{"Widget", "2", "66", "B"},
		{"sleigh_ids", "0", "0", "B"},
	}, lines(out))
}

func TestDump(t *testing.T) {
	path := seedStore(t)

	out, err := run(t, "dump", "--bolt-path", path, "--bucket", "Widget", "--key-type", "uint64")
	require.NoError(t, err)
	assert.Equal(t, "1\t{\"id\":1,\"name\":\"sprocket\"}\n2\t{\"id\":2,\"name\":\"flange\"}\n", out)

	out, err = run(t, "dump", "--bolt-path", path, "--bucket", "Widget")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "0000000000000001\t"), out)

	out, err = run(t, "dump", "--bolt-path", path, "--bucket", "Widget", "--key-type", "id")
	require.NoError(t, err)
	assert.Equal(t, "0000000000000001\t{\"id\":1,\"name\":\"sprocket\"}\n0000000000000002\t{\"id\":2,\"name\":\"flange\"}\n", out)

	_, err = run(t, "dump", "--bolt-path", path, "--bucket", "Gizmo")
	assert.Error(t, err)

	_, err = run(t, "dump", "--bolt-path", path, "--bucket", "Widget", "--key-type", "float")
	assert.Error(t, err)
}

func TestNextID(t *testing.T) {
	path := seedStore(t)

	out, err := run(t, "next-id", "--bolt-path", path)
	require.NoError(t, err)
	assert.Equal(t, "0000000000000003\n", out)

	out, err = run(t, "next-id", "--bolt-path", path)
	require.NoError(t, err)
	assert.Equal(t, "0000000000000004\n", out)
}

func TestStats(t *testing.T) {
	path := seedStore(t)

	out, err := run(t, "stats", "--bolt-path", path)
	require.NoError(t, err)

	mfs, err := promtest.FromText(strings.NewReader(out))
	require.NoError(t, err)
	m := promtest.MustFindMetric(t, mfs, "sleigh_bucket_keys", map[string]string{"bucket": "Widget"})
	assert.Equal(t, float64(2), m.GetGauge().GetValue())
	promtest.MustFindMetric(t, mfs, "boltdb_reads_total", nil)
	promtest.MustFindMetric(t, mfs, "boltdb_writes_total", nil)
}

func TestBoltPathFromEnv(t *testing.T) {
	path := seedStore(t)
	t.Setenv("SLEIGH_BOLT_PATH", path)

	out, err := run(t, "next-id")
	require.NoError(t, err)
	assert.Equal(t, "0000000000000003\n", out)
}

func TestMissingBoltPath(t *testing.T) {
	_, err := run(t, "buckets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bolt-path")
}

func TestNextID_Snowflake(t *testing.T) {
	path := seedStore(t)

	out, err := run(t, "next-id", "--bolt-path", path, "--id-source", "snowflake", "--machine-id", "7")
	require.NoError(t, err)
	id, err := sleigh.IDFromString(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), uint64(*id)>>12&0x3ff)

	// The persistent sequence is untouched.
	out, err = run(t, "next-id", "--bolt-path", path)
	require.NoError(t, err)
	assert.Equal(t, "0000000000000003\n", out)

	_, err = run(t, "next-id", "--bolt-path", path, "--id-source", "uuid")
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	path := seedStore(t)

	out, err := run(t, "get", "--bolt-path", path, "--bucket", "Widget", "--key", "2", "--key-type", "uint64")
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":2,\"name\":\"flange\"}\n", out)

	out, err = run(t, "get", "--bolt-path", path, "--bucket", "Widget", "--key", "0000000000000001", "--key-type", "id")
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1,\"name\":\"sprocket\"}\n", out)

	out, err = run(t, "get", "--bolt-path", path, "--bucket", "Widget", "--key", "0000000000000002")
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":2,\"name\":\"flange\"}\n", out)

	_, err = run(t, "get", "--bolt-path", path, "--bucket", "Widget", "--key", "3", "--key-type", "uint64")
	assert.Error(t, err)

	_, err = run(t, "get", "--bolt-path", path, "--bucket", "Widget", "--key", "1", "--key-type", "id")
	assert.Error(t, err)

	_, err = run(t, "get", "--bolt-path", path, "--bucket", "Widget")
	assert.Error(t, err)
}

func TestLogOutput(t *testing.T) {
	path := seedStore(t)

	var out, logs bytes.Buffer
	cmd, err := NewCommand(&out, &logs)
	require.NoError(t, err)
	cmd.SetArgs([]string{"get", "--bolt-path", path, "--bucket", "Widget", "--key", "1", "--key-type", "uint64", "--log-level", "debug", "--log-format", "json"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, logs.String(), `"msg":"Resources opened"`)
	assert.Contains(t, logs.String(), `"msg":"Read value"`)
}
