package snowflake

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

// Layout of a generated value, most significant bits first:
//
//	| 42 bits milliseconds since epoch | 10 bits machine | 12 bits sequence |
const (
	epoch        = 1491696000000
	serverBits   = 10
	sequenceBits = 12
	timeBits     = 42
	serverShift  = sequenceBits
	timeShift    = sequenceBits + serverBits
	serverMax    = ^(-1 << serverBits)
	sequenceMask = ^(-1 << sequenceBits)
	timeMask     = ^(-1 << timeBits)
)

// Generator produces time ordered 64-bit values for one machine id.
type Generator struct {
	state   uint64
	machine uint64
	clock   clock.Clock
}

// New returns a Generator for machineID, which must be in [0, 1023].
func New(machineID int) *Generator {
	return NewWithClock(machineID, clock.New())
}

// NewWithClock is New with the time source replaced, mostly for tests.
func NewWithClock(machineID int, c clock.Clock) *Generator {
	if machineID < 0 || machineID > serverMax {
		panic(fmt.Errorf("invalid machine id; must be 0 ≤ id ≤ %d", serverMax))
	}
	return &Generator{
		machine: uint64(machineID << serverShift),
		clock:   c,
	}
}

func (g *Generator) now() uint64 {
	return uint64(g.clock.Now().UnixNano() / int64(time.Millisecond))
}

// MachineID returns the machine id the generator was built with.
func (g *Generator) MachineID() int {
	return int(g.machine >> serverShift)
}

// Next returns the next value. Values from one Generator strictly increase.
func (g *Generator) Next() uint64 {
	var state uint64

	// A bounded number of CAS attempts keeps the call from spinning under
	// heavy contention.
	for i := 0; i < 100; i++ {
		t := (g.now() - epoch) & timeMask
		current := atomic.LoadUint64(&g.state)
		currentTime := current >> timeShift & timeMask
		currentSeq := current & sequenceMask

		switch {
		case t > currentTime:
			state = t << timeShift
		case currentSeq == sequenceMask:
			state = (currentTime + 1) << timeShift
		default:
			state = current + 1
		}

		if atomic.CompareAndSwapUint64(&g.state, current, state) {
			return state | g.machine
		}
	}

	// Contended: fall back to bumping the counter. This may drift ahead of
	// the clock until a later CAS catches up.
	return atomic.AddUint64(&g.state, 1) | g.machine
}
