package bleepbloops

import (
	"sync/atomic"
	"time"
)

// Clock tracks the logical timeline of a graph. The counter advances by
// exactly one block per render pass, so elapsed time is a pure function
// of rendered samples and never depends on wall-clock measurement. The
// counter may be read from any goroutine while the render loop advances
// it.
type Clock struct {
	rate    SampleRate
	block   BlockSize
	samples atomic.Uint64
}

func newClock(rate SampleRate, block BlockSize) *Clock {
	return &Clock{rate: rate, block: block}
}

// advance moves the counter one block forward and returns the sample
// index at which the new block starts.
func (c *Clock) advance() uint64 {
	return c.samples.Add(uint64(c.block)) - uint64(c.block)
}

// Samples returns the total number of samples rendered so far.
func (c *Clock) Samples() uint64 {
	return c.samples.Load()
}

// Elapsed returns the logical time passed since the start of rendering.
func (c *Clock) Elapsed() time.Duration {
	return c.rate.DurationOf(c.Samples())
}

// SampleRate returns the rate the clock counts at.
func (c *Clock) SampleRate() SampleRate {
	return c.rate
}

// BlockSize returns the size of a single render quantum.
func (c *Clock) BlockSize() BlockSize {
	return c.block
}
