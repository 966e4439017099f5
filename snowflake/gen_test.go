package snowflake

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineID(t *testing.T) {
	for i := 0; i <= serverMax; i++ {
		assert.Equal(t, i, New(i).MachineID())
	}
}

func TestNew_InvalidMachineID(t *testing.T) {
	assert.Panics(t, func() { New(-1) })
	assert.Panics(t, func() { New(serverMax + 1) })
}

func TestNextMonotonic(t *testing.T) {
	g := New(10)
	out := make([]uint64, 10000)

	for i := range out {
		out[i] = g.Next()
	}

	// ensure they are all distinct and increasing
	for i := range out[1:] {
		if out[i] >= out[i+1] {
			t.Fatal("bad entries:", out[i], out[i+1])
		}
	}
}

func TestNext_SequenceRollsIntoNextMillisecond(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.UnixMilli(epoch + 5))
	g := NewWithClock(1, mock)

	seen := make(map[uint64]struct{})
	for i := 0; i < sequenceMask+10; i++ {
		v := g.Next()
		_, dup := seen[v]
		require.False(t, dup, "duplicate value %d", v)
		seen[v] = struct{}{}
	}

	last := g.Next()
	assert.Equal(t, uint64(6), last>>timeShift&timeMask)
}

func TestNext_Concurrent(t *testing.T) {
	g := New(3)

	const workers, per = 8, 2000
	results := make([][]uint64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				results[w] = append(results[w], g.Next())
			}
		}(w)
	}
	wg.Wait()

	seen := make(map[uint64]struct{}, workers*per)
	for _, r := range results {
		for _, v := range r {
			_, dup := seen[v]
			require.False(t, dup, "duplicate value %d", v)
			seen[v] = struct{}{}
		}
	}
}
