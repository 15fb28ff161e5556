// Package example builds ready-made patches demonstrating the engine:
// modulated waveforms, a chord, gated beeps, morse code and a melody.
// Each builder wires a graph whose output sink writes to the provided
// writer, so the same patch can feed a live device or a file.
package example

import (
	"github.com/gradiuscypher/bleepbloops"
	"github.com/gradiuscypher/bleepbloops/filter"
	"github.com/gradiuscypher/bleepbloops/mixer"
	"github.com/gradiuscypher/bleepbloops/osc"
	"github.com/gradiuscypher/bleepbloops/seq"
	"github.com/gradiuscypher/bleepbloops/vca"
)

// Tremolo builds a 440 Hz sine with a 2 Hz amplitude wobble, lowpassed
// at 2 kHz.
func Tremolo(rate bleepbloops.SampleRate, block bleepbloops.BlockSize, w bleepbloops.BlockWriter) (*bleepbloops.Graph, error) {
	g, err := bleepbloops.New(rate, block)
	if err != nil {
		return nil, err
	}
	carrier := g.Add(osc.NewSine(440, 0.6))
	lfo := g.Add(osc.NewSine(2, 0.3))
	lp := g.Add(filter.New(filter.Lowpass, 2000))
	out := g.Add(bleepbloops.NewOutput(w, block))

	if err := g.Connect(lfo, "signal", carrier, "amplitude", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(carrier, "signal", lp, "in", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(lp, "out", out, "in", 1); err != nil {
		return nil, err
	}
	return g, nil
}

// Chord builds a C major chord from three waveforms with gentle
// vibrato on the root.
func Chord(rate bleepbloops.SampleRate, block bleepbloops.BlockSize, w bleepbloops.BlockWriter) (*bleepbloops.Graph, error) {
	g, err := bleepbloops.New(rate, block)
	if err != nil {
		return nil, err
	}
	root := g.Add(osc.NewSine(261.63, 1))
	third := g.Add(osc.NewTriangle(329.63, 1))
	fifth := g.Add(osc.NewSquare(392, 1, 0.6))
	vibrato := g.Add(osc.NewSine(5, 3))
	mix := g.Add(mixer.New(3))
	lp := g.Add(filter.New(filter.Lowpass, 3000))
	out := g.Add(bleepbloops.NewOutput(w, block))

	if err := g.Connect(vibrato, "signal", root, "frequency", 1); err != nil {
		return nil, err
	}
	voices := []struct {
		handle bleepbloops.Handle
		input  string
		gain   float64
	}{
		{root, "in0", 0.4},
		{third, "in1", 0.3},
		{fifth, "in2", 0.2},
	}
	for _, v := range voices {
		if err := g.Connect(v.handle, "signal", mix, v.input, v.gain); err != nil {
			return nil, err
		}
	}
	if err := g.Connect(mix, "out", lp, "in", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(lp, "out", out, "in", 1); err != nil {
		return nil, err
	}
	return g, nil
}

// Beeper builds a 500 Hz square wave gated on and off twice a second by
// a square LFO through a VCA.
func Beeper(rate bleepbloops.SampleRate, block bleepbloops.BlockSize, w bleepbloops.BlockWriter) (*bleepbloops.Graph, error) {
	g, err := bleepbloops.New(rate, block)
	if err != nil {
		return nil, err
	}
	tone := g.Add(osc.NewSquare(500, 0.7, 0.5))
	gate := g.Add(osc.NewSquare(2, 1, 0.5))
	amp := g.Add(vca.New(0))
	lp := g.Add(filter.New(filter.Lowpass, 4000))
	out := g.Add(bleepbloops.NewOutput(w, block))

	if err := g.Connect(tone, "signal", amp, "in", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(gate, "signal", amp, "cv", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(amp, "out", lp, "in", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(lp, "out", out, "in", 1); err != nil {
		return nil, err
	}
	return g, nil
}

// Morse builds a 660 Hz sine gated to spell SOS: three short, three
// long, three short pulses, repeating.
func Morse(rate bleepbloops.SampleRate, block bleepbloops.BlockSize, w bleepbloops.BlockWriter) (*bleepbloops.Graph, error) {
	g, err := bleepbloops.New(rate, block)
	if err != nil {
		return nil, err
	}
	tone := g.Add(osc.NewSine(660, 0.7))
	pattern, err := seq.New(240) // quarter-second units at 240 bpm
	if err != nil {
		return nil, err
	}
	if err := sos(pattern); err != nil {
		return nil, err
	}
	steps := g.Add(pattern)
	amp := g.Add(vca.New(0))
	lp := g.Add(filter.New(filter.Lowpass, 4000))
	out := g.Add(bleepbloops.NewOutput(w, block))

	if err := g.Connect(tone, "signal", amp, "in", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(steps, "gate", amp, "cv", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(amp, "out", lp, "in", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(lp, "out", out, "in", 1); err != nil {
		return nil, err
	}
	return g, nil
}

// Melody builds a sequenced lead: the sequencer's pitch drives a sine
// oscillator and its gate drives a VCA.
func Melody(rate bleepbloops.SampleRate, block bleepbloops.BlockSize, w bleepbloops.BlockWriter) (*bleepbloops.Graph, error) {
	g, err := bleepbloops.New(rate, block)
	if err != nil {
		return nil, err
	}
	s, err := seq.New(120)
	if err != nil {
		return nil, err
	}
	melody := []struct {
		note  string
		beats float64
	}{
		{"C4", 1}, {"C4", 1}, {"G4", 1}, {"G4", 1},
		{"A4", 1}, {"A4", 1}, {"G4", 2},
		{"F4", 1}, {"F4", 1}, {"E4", 1}, {"E4", 1},
		{"D4", 1}, {"D4", 1}, {"C4", 2},
	}
	for _, n := range melody {
		if err := s.Add(n.note, n.beats); err != nil {
			return nil, err
		}
	}
	steps := g.Add(s)
	lead := g.Add(osc.NewSine(0, 0.6)) // pitch comes from the sequencer
	amp := g.Add(vca.New(0))
	lp := g.Add(filter.New(filter.Lowpass, 3000))
	out := g.Add(bleepbloops.NewOutput(w, block))

	if err := g.Connect(steps, "pitch", lead, "frequency", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(steps, "gate", amp, "cv", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(lead, "signal", amp, "in", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(amp, "out", lp, "in", 1); err != nil {
		return nil, err
	}
	if err := g.Connect(lp, "out", out, "in", 1); err != nil {
		return nil, err
	}
	return g, nil
}

// sos programs the morse pattern: dits and dahs as gated notes, gaps as
// rests. One beat is a quarter second at 240 bpm.
func sos(s *seq.Sequencer) error {
	letter := func(long bool) error {
		beats := 1.0
		if long {
			beats = 3
		}
		for i := 0; i < 3; i++ {
			if err := s.Add("E5", beats); err != nil {
				return err
			}
			if err := s.AddRest(1); err != nil {
				return err
			}
		}
		return s.AddRest(2) // letter gap
	}
	if err := letter(false); err != nil {
		return err
	}
	if err := letter(true); err != nil {
		return err
	}
	if err := letter(false); err != nil {
		return err
	}
	return s.AddRest(4) // word gap before repeating
}
