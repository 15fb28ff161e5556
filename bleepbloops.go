package bleepbloops

import (
	"fmt"
	"time"
)

type (
	// Buffer is a single block of mono samples. It is the unit of data
	// passed along every connection in a graph. A buffer is owned by the
	// module that produced it and must not be mutated downstream within
	// the same render pass.
	Buffer []float64

	// SampleRate is the number of samples per second.
	SampleRate int

	// BlockSize is the number of samples in a single render quantum. It
	// is fixed for the lifetime of a graph.
	BlockSize int

	// BlockWriter consumes finished blocks of samples. It is implemented
	// by the Bridge for live playback and by file writers for offline
	// rendering.
	BlockWriter interface {
		WriteBlock(Buffer) error
	}

	// ConfigurationError is returned when a graph or bridge is
	// constructed with an invalid sample rate, block size or queue
	// depth.
	ConfigurationError struct {
		Field string
		Value int
	}
)

// DurationOf returns the time it takes to play provided number of
// samples at this sample rate.
func (rate SampleRate) DurationOf(samples uint64) time.Duration {
	return time.Duration(float64(samples) / float64(rate) * float64(time.Second))
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %d", e.Field, e.Value)
}

// clear zeroes all samples of the buffer.
func (b Buffer) clear() {
	for i := range b {
		b[i] = 0
	}
}
