// Package vca provides a voltage-controlled amplifier module.
package vca

import (
	"github.com/gradiuscypher/bleepbloops"
)

// VCA scales its signal input by the cv parameter. With a modulation
// source connected to cv the effective gain at sample i is base +
// source[i]*connection gain, so a bipolar oscillator on cv with base 0
// gates the signal on and off, and with base 1 produces tremolo.
type VCA struct {
	gain float64
}

// New creates a VCA with the provided base gain.
func New(gain float64) *VCA {
	return &VCA{gain: gain}
}

// Ports implements bleepbloops.Module.
func (v *VCA) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{
		Ins: []string{"in"},
		Params: []bleepbloops.ParamSpec{
			{Name: "cv", Value: v.gain},
		},
		Outs: []string{"out"},
	}
}

// Process implements bleepbloops.Module.
func (v *VCA) Process(b *bleepbloops.Block) error {
	var (
		in  = b.Ins[0]
		cv  = b.Params[0]
		out = b.Outs[0]
	)
	for i := range in {
		out[i] = in[i] * cv.At(i)
	}
	return nil
}
