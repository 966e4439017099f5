package kv

import (
	"bytes"
	"sort"
)

// Pair is a struct for key value pairs.
type Pair struct {
	Key   []byte
	Value []byte
}

// staticCursor implements the Cursor interface for a slice of
// static key value pairs.
type staticCursor struct {
	idx   int
	pairs []Pair
}

// NewStaticCursor returns an instance of a StaticCursor. It
// destructively sorts the provided pairs to be in key ascending order.
func NewStaticCursor(pairs []Pair) Cursor {
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].Key, pairs[j].Key) < 0
	})
	return &staticCursor{
		pairs: pairs,
	}
}

// Seek moves the cursor to the first key greater than or equal to seek,
// matching the boltdb cursor.
func (c *staticCursor) Seek(seek []byte) ([]byte, []byte) {
	i := sort.Search(len(c.pairs), func(i int) bool {
		return bytes.Compare(c.pairs[i].Key, seek) >= 0
	})
	if i >= len(c.pairs) {
		c.idx = len(c.pairs)
		return nil, nil
	}
	c.idx = i
	return c.pairs[i].Key, c.pairs[i].Value
}

func (c *staticCursor) getValueAtIndex(delta int) ([]byte, []byte) {
	idx := c.idx + delta
	if idx < 0 {
		return nil, nil
	}

	if idx >= len(c.pairs) {
		return nil, nil
	}

	c.idx = idx

	pair := c.pairs[c.idx]

	return pair.Key, pair.Value
}

// First retrieves the first element in the cursor.
func (c *staticCursor) First() ([]byte, []byte) {
	return c.getValueAtIndex(-c.idx)
}

// Last retrieves the last element in the cursor.
func (c *staticCursor) Last() ([]byte, []byte) {
	return c.getValueAtIndex(len(c.pairs) - 1 - c.idx)
}

// Next retrieves the next entry in the cursor.
func (c *staticCursor) Next() ([]byte, []byte) {
	return c.getValueAtIndex(1)
}

// Prev retrieves the previous entry in the cursor.
func (c *staticCursor) Prev() ([]byte, []byte) {
	return c.getValueAtIndex(-1)
}
