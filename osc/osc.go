// Package osc provides oscillator modules: sine, square and triangle.
//
// Every oscillator carries a normalized phase accumulator in [0, 1)
// turns across blocks, so frequency modulation never introduces a phase
// discontinuity at a block boundary. Both frequency and amplitude are
// parameter inputs and accept audio-rate modulation.
package osc

import (
	"math"

	"github.com/gradiuscypher/bleepbloops"
)

const twoPi = 2 * math.Pi

// Sine is a sine wave oscillator.
type Sine struct {
	frequency float64
	amplitude float64
	phase     float64
}

// NewSine creates a sine oscillator with provided base frequency in Hz
// and amplitude.
func NewSine(frequency, amplitude float64) *Sine {
	return &Sine{frequency: frequency, amplitude: amplitude}
}

// Ports implements bleepbloops.Module.
func (s *Sine) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{
		Params: []bleepbloops.ParamSpec{
			{Name: "frequency", Value: s.frequency},
			{Name: "amplitude", Value: s.amplitude},
		},
		Outs: []string{"signal"},
	}
}

// Process implements bleepbloops.Module.
func (s *Sine) Process(b *bleepbloops.Block) error {
	var (
		frequency = b.Params[0]
		amplitude = b.Params[1]
		out       = b.Outs[0]
		rate      = float64(b.Rate)
	)
	for i := range out {
		out[i] = amplitude.At(i) * math.Sin(twoPi*s.phase)
		s.phase = wrap(s.phase + frequency.At(i)/rate)
	}
	return nil
}

// Square is a square wave oscillator with a variable duty cycle.
type Square struct {
	frequency float64
	amplitude float64
	duty      float64
	phase     float64
}

// NewSquare creates a square oscillator. Duty is the fraction of the
// period spent at positive amplitude; 0.5 gives a symmetric square.
func NewSquare(frequency, amplitude, duty float64) *Square {
	return &Square{frequency: frequency, amplitude: amplitude, duty: duty}
}

// Ports implements bleepbloops.Module.
func (s *Square) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{
		Params: []bleepbloops.ParamSpec{
			{Name: "frequency", Value: s.frequency},
			{Name: "amplitude", Value: s.amplitude},
			{Name: "duty", Value: s.duty},
		},
		Outs: []string{"signal"},
	}
}

// Process implements bleepbloops.Module.
func (s *Square) Process(b *bleepbloops.Block) error {
	var (
		frequency = b.Params[0]
		amplitude = b.Params[1]
		duty      = b.Params[2]
		out       = b.Outs[0]
		rate      = float64(b.Rate)
	)
	for i := range out {
		d := duty.At(i)
		if d < 0 {
			d = 0
		} else if d > 1 {
			d = 1
		}
		amp := amplitude.At(i)
		if s.phase < d {
			out[i] = amp
		} else {
			out[i] = -amp
		}
		s.phase = wrap(s.phase + frequency.At(i)/rate)
	}
	return nil
}

// Triangle is a triangle wave oscillator.
type Triangle struct {
	frequency float64
	amplitude float64
	phase     float64
}

// NewTriangle creates a triangle oscillator with provided base
// frequency in Hz and amplitude.
func NewTriangle(frequency, amplitude float64) *Triangle {
	return &Triangle{frequency: frequency, amplitude: amplitude}
}

// Ports implements bleepbloops.Module.
func (t *Triangle) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{
		Params: []bleepbloops.ParamSpec{
			{Name: "frequency", Value: t.frequency},
			{Name: "amplitude", Value: t.amplitude},
		},
		Outs: []string{"signal"},
	}
}

// Process implements bleepbloops.Module.
func (t *Triangle) Process(b *bleepbloops.Block) error {
	var (
		frequency = b.Params[0]
		amplitude = b.Params[1]
		out       = b.Outs[0]
		rate      = float64(b.Rate)
	)
	for i := range out {
		// arcsin of sine gives the triangle shape with the same phase
		// alignment as the sine oscillator
		out[i] = amplitude.At(i) * (2 / math.Pi) * math.Asin(math.Sin(twoPi*t.phase))
		t.phase = wrap(t.phase + frequency.At(i)/rate)
	}
	return nil
}

// wrap keeps the phase within [0, 1), bounding accumulated
// floating-point error over long runs. Negative frequencies wrap the
// same way.
func wrap(phase float64) float64 {
	if phase >= 0 && phase < 1 {
		return phase
	}
	return phase - math.Floor(phase)
}
