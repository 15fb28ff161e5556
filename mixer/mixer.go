// Package mixer provides a module that sums multiple signals.
package mixer

import (
	"fmt"

	"github.com/gradiuscypher/bleepbloops"
)

// Mixer sums a fixed number of signal inputs into a single output. It
// is a pure linear combiner: no normalization, no limiting. Clipping
// policy belongs to the output sink.
type Mixer struct {
	gains []float64
	ins   []string
}

// New creates a mixer with the provided number of inputs, named
// in0..inN-1, each with gain 1.
func New(inputs int) *Mixer {
	gains := make([]float64, inputs)
	ins := make([]string, inputs)
	for i := range gains {
		gains[i] = 1
		ins[i] = fmt.Sprintf("in%d", i)
	}
	return &Mixer{gains: gains, ins: ins}
}

// SetGain sets the gain of a single input. Call it only between render
// passes, e.g. via Engine.Push. Out-of-range inputs are ignored.
func (m *Mixer) SetGain(input int, gain float64) {
	if input < 0 || input >= len(m.gains) {
		return
	}
	m.gains[input] = gain
}

// Ports implements bleepbloops.Module.
func (m *Mixer) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{
		Ins:  m.ins,
		Outs: []string{"out"},
	}
}

// Process implements bleepbloops.Module.
func (m *Mixer) Process(b *bleepbloops.Block) error {
	out := b.Outs[0]
	for i := range out {
		var sum float64
		for j := range b.Ins {
			sum += m.gains[j] * b.Ins[j][i]
		}
		out[i] = sum
	}
	return nil
}
