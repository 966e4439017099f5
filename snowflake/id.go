package snowflake

import (
	"context"
	"math/rand"

	"github.com/benbjohnson/clock"
	"github.com/konkers/sleigh"
)

var _ sleigh.IDGenerator = (*IDGenerator)(nil)

// MaxAttempts bounds how many zero values ID skips before giving up.
const MaxAttempts = 100

// ErrFailureGeneratingID is returned when the generator only produced the
// reserved zero id.
var ErrFailureGeneratingID = &sleigh.Error{
	Code: sleigh.EIDGeneration,
	Op:   "snowflake/IDGenerator.ID",
	Msg:  "unable to generate valid id",
}

// IDGenerator holds the ID generator.
type IDGenerator struct {
	Generator *Generator

	clock clock.Clock
}

// IDGeneratorOp is an option for an IDGenerator.
type IDGeneratorOp func(*IDGenerator)

// WithMachineID uses the low 10 bits of machineID to set the machine ID for the snowflake ID.
func WithMachineID(machineID int) IDGeneratorOp {
	return func(g *IDGenerator) {
		g.Generator = New(machineID & serverMax)
	}
}

// WithClock replaces the wall clock the generator reads.
func WithClock(c clock.Clock) IDGeneratorOp {
	return func(g *IDGenerator) {
		g.clock = c
	}
}

// NewIDGenerator returns a new IDGenerator. Without WithMachineID a random
// machine id is used.
func NewIDGenerator(opts ...IDGeneratorOp) *IDGenerator {
	gen := &IDGenerator{}
	for _, f := range opts {
		f(gen)
	}
	if gen.Generator == nil {
		gen.Generator = New(rand.Intn(serverMax + 1))
	}
	if gen.clock != nil {
		gen.Generator.clock = gen.clock
	}
	return gen
}

// ID returns the next sleigh.ID from an IDGenerator.
func (g *IDGenerator) ID(ctx context.Context) (sleigh.ID, error) {
	for i := 0; i < MaxAttempts; i++ {
		if id := sleigh.ID(g.Generator.Next()); id.Valid() {
			return id, nil
		}
	}
	return sleigh.InvalidID(), ErrFailureGeneratingID
}
