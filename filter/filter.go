// Package filter provides a biquad filter module with lowpass,
// highpass and bandpass responses.
package filter

import (
	"math"
	"sync/atomic"

	"github.com/gradiuscypher/bleepbloops"
)

// Mode selects the filter response.
type Mode int

const (
	// Lowpass attenuates frequencies above the cutoff.
	Lowpass Mode = iota
	// Highpass attenuates frequencies below the cutoff.
	Highpass
	// Bandpass passes a band around the cutoff.
	Bandpass
)

func (m Mode) String() string {
	switch m {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	}
	return "unknown"
}

// minCutoff is the lowest cutoff the coefficient update accepts. Values
// below it, zero and negative included, would blow the recurrence up,
// so the effective cutoff is clamped and the clamp counted instead.
const minCutoff = 1.0

// Filter is a second-order IIR filter. The cutoff is a parameter input
// capable of audio-rate modulation; coefficients are recomputed only
// when the effective cutoff changes, so a constant cutoff costs one
// update per block while a modulated one may cost one per sample.
type Filter struct {
	mode   Mode
	cutoff float64
	q      float64

	// RBJ coefficients, a0-normalized
	b0, b1, b2 float64
	a1, a2     float64
	// delay registers
	x1, x2 float64
	y1, y2 float64

	last   float64 // effective cutoff the coefficients were derived from
	clamps atomic.Uint64
}

// New creates a filter with provided mode and base cutoff frequency in
// Hz. Q defaults to 1/sqrt(2), a flat passband.
func New(mode Mode, cutoff float64) *Filter {
	return &Filter{
		mode:   mode,
		cutoff: cutoff,
		q:      1 / math.Sqrt2,
		last:   math.NaN(),
	}
}

// SetMode switches the filter response and resets the delay registers,
// so no transient of the previous response leaks into the new one. An
// out-of-range mode behaves as Lowpass. Call it only between render
// passes, e.g. via Engine.Push.
func (f *Filter) SetMode(m Mode) {
	f.mode = m
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
	f.last = math.NaN()
}

// SetResonance sets the Q factor. Call it only between render passes.
func (f *Filter) SetResonance(q float64) {
	if q <= 0 {
		q = 1 / math.Sqrt2
	}
	f.q = q
	f.last = math.NaN()
}

// Mode returns the current filter response.
func (f *Filter) Mode() Mode {
	return f.mode
}

// Clamps returns the number of samples whose cutoff had to be clamped
// into the valid range. It is a diagnostic, not an error.
func (f *Filter) Clamps() uint64 {
	return f.clamps.Load()
}

// Ports implements bleepbloops.Module.
func (f *Filter) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{
		Ins: []string{"in"},
		Params: []bleepbloops.ParamSpec{
			{Name: "cutoff", Value: f.cutoff},
		},
		Outs: []string{"out"},
	}
}

// Process implements bleepbloops.Module.
func (f *Filter) Process(b *bleepbloops.Block) error {
	var (
		in     = b.Ins[0]
		cutoff = b.Params[0]
		out    = b.Outs[0]
		rate   = float64(b.Rate)
	)
	if cutoff.Constant() {
		f.update(cutoff.At(0), rate)
	}
	for i := range in {
		if !cutoff.Constant() {
			f.update(cutoff.At(i), rate)
		}
		x := in[i]
		y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
		f.x2, f.x1 = f.x1, x
		f.y2, f.y1 = f.y1, y
		out[i] = y
	}
	return nil
}

// update recomputes the RBJ coefficients when the effective cutoff
// changed since the last update.
func (f *Filter) update(cutoff, rate float64) {
	nyquist := rate * 0.49
	if cutoff < minCutoff {
		cutoff = minCutoff
		f.clamps.Add(1)
	} else if cutoff > nyquist {
		cutoff = nyquist
		f.clamps.Add(1)
	}
	if cutoff == f.last {
		return
	}
	f.last = cutoff

	omega := twoPiOver(rate) * cutoff
	sin, cos := math.Sincos(omega)
	alpha := sin / (2 * f.q)
	a0 := 1 + alpha

	switch f.mode {
	case Highpass:
		f.b1 = -(1 + cos) / a0
		f.b0 = -f.b1 / 2
		f.b2 = f.b0
	case Bandpass:
		f.b0 = alpha / a0
		f.b1 = 0
		f.b2 = -f.b0
	default:
		// lowpass, also the fallback for out-of-range modes: the
		// render path clamps to valid behavior instead of faulting
		f.b1 = (1 - cos) / a0
		f.b0 = f.b1 / 2
		f.b2 = f.b0
	}
	f.a1 = -2 * cos / a0
	f.a2 = (1 - alpha) / a0
}

func twoPiOver(rate float64) float64 {
	return 2 * math.Pi / rate
}
