// Package mock provides modules for testing graphs and engines.
package mock

import (
	"github.com/gradiuscypher/bleepbloops"
)

// Counter counts blocks and samples that went through a module.
type Counter struct {
	Blocks  int
	Samples int
}

func (c *Counter) advance(size int) {
	c.Blocks++
	c.Samples += size
}

// Source outputs a constant value on its single output.
type Source struct {
	Value float64
	Counter
}

// Ports implements bleepbloops.Module.
func (s *Source) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{Outs: []string{"out"}}
}

// Process implements bleepbloops.Module.
func (s *Source) Process(b *bleepbloops.Block) error {
	out := b.Outs[0]
	for i := range out {
		out[i] = s.Value
	}
	s.advance(len(out))
	return nil
}

// Ramp outputs the clock sample index of every sample, which makes
// block timing and delay semantics observable in tests.
type Ramp struct {
	Counter
}

// Ports implements bleepbloops.Module.
func (r *Ramp) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{Outs: []string{"out"}}
}

// Process implements bleepbloops.Module.
func (r *Ramp) Process(b *bleepbloops.Block) error {
	out := b.Outs[0]
	for i := range out {
		out[i] = float64(b.Start + uint64(i))
	}
	r.advance(len(out))
	return nil
}

// Pass copies its input to its output unchanged.
type Pass struct {
	Counter
}

// Ports implements bleepbloops.Module.
func (p *Pass) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{Ins: []string{"in"}, Outs: []string{"out"}}
}

// Process implements bleepbloops.Module.
func (p *Pass) Process(b *bleepbloops.Block) error {
	copy(b.Outs[0], b.Ins[0])
	p.advance(len(b.Ins[0]))
	return nil
}

// Gain scales its input by the gain parameter, base 1. It is the
// smallest module with a parameter input, which makes base overrides
// and the modulation law observable in tests.
type Gain struct {
	Counter
}

// Ports implements bleepbloops.Module.
func (g *Gain) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{
		Ins: []string{"in"},
		Params: []bleepbloops.ParamSpec{
			{Name: "gain", Value: 1},
		},
		Outs: []string{"out"},
	}
}

// Process implements bleepbloops.Module.
func (g *Gain) Process(b *bleepbloops.Block) error {
	var (
		in   = b.Ins[0]
		gain = b.Params[0]
		out  = b.Outs[0]
	)
	for i := range in {
		out[i] = in[i] * gain.At(i)
	}
	g.advance(len(in))
	return nil
}

// Sink captures every sample it receives. Err, when set, is returned
// from Process to exercise engine error paths.
type Sink struct {
	Captured []float64
	Err      error
	Counter
}

// Ports implements bleepbloops.Module.
func (s *Sink) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{Ins: []string{"in"}}
}

// Process implements bleepbloops.Module.
func (s *Sink) Process(b *bleepbloops.Block) error {
	if s.Err != nil {
		return s.Err
	}
	s.Captured = append(s.Captured, b.Ins[0]...)
	s.advance(len(b.Ins[0]))
	return nil
}
