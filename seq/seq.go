// Package seq provides a step sequencer module.
package seq

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gradiuscypher/bleepbloops"
)

// Sequencer walks a list of steps at a fixed tempo and outputs two
// control signals at audio rate: pitch, the frequency of the current
// note in Hz, and gate, 1 while a note sounds and 0 during rests. Wire
// pitch into an oscillator's frequency parameter (base 0) and gate into
// a VCA's cv to play a melody. The sequence loops.
type Sequencer struct {
	bpm   float64
	steps []step

	pos       int
	remaining uint64
}

type step struct {
	frequency float64 // 0 for a rest
	beats     float64
}

// New creates a sequencer at the provided tempo in beats per minute.
// It fails on a non-positive tempo.
func New(bpm float64) (*Sequencer, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("invalid tempo %v bpm", bpm)
	}
	return &Sequencer{bpm: bpm, pos: -1}, nil
}

// Add appends a note held for the provided number of beats. Note names
// are letters C..B with an optional sharp and an octave, e.g. "A4",
// "F#3". It fails on a malformed name or negative beats.
func (s *Sequencer) Add(note string, beats float64) error {
	if beats < 0 {
		return fmt.Errorf("negative beats %v", beats)
	}
	frequency, err := Frequency(note)
	if err != nil {
		return err
	}
	s.steps = append(s.steps, step{frequency: frequency, beats: beats})
	return nil
}

// AddRest appends silence held for the provided number of beats. It
// fails on negative beats.
func (s *Sequencer) AddRest(beats float64) error {
	if beats < 0 {
		return fmt.Errorf("negative beats %v", beats)
	}
	s.steps = append(s.steps, step{beats: beats})
	return nil
}

// Ports implements bleepbloops.Module.
func (s *Sequencer) Ports() bleepbloops.Ports {
	return bleepbloops.Ports{
		Outs: []string{"pitch", "gate"},
	}
}

// Process implements bleepbloops.Module.
func (s *Sequencer) Process(b *bleepbloops.Block) error {
	var (
		pitch = b.Outs[0]
		gate  = b.Outs[1]
	)
	samplesPerBeat := float64(b.Rate) * 60 / s.bpm
	for i := range pitch {
		if len(s.steps) == 0 {
			pitch[i] = 0
			gate[i] = 0
			continue
		}
		if s.remaining == 0 {
			s.pos = (s.pos + 1) % len(s.steps)
			s.remaining = uint64(s.steps[s.pos].beats * samplesPerBeat)
			if s.remaining == 0 {
				// zero-length steps still occupy one sample
				s.remaining = 1
			}
		}
		st := s.steps[s.pos]
		pitch[i] = st.frequency
		if st.frequency > 0 {
			gate[i] = 1
		} else {
			gate[i] = 0
		}
		s.remaining--
	}
	return nil
}

var offsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// Frequency returns the equal-temperament frequency of a note name,
// with A4 = 440 Hz.
func Frequency(note string) (float64, error) {
	if len(note) < 2 {
		return 0, fmt.Errorf("malformed note %q", note)
	}
	offset, ok := offsets[note[0]]
	if !ok {
		return 0, fmt.Errorf("malformed note %q", note)
	}
	rest := note[1:]
	if rest[0] == '#' {
		offset++
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil || octave < 0 || octave > 8 {
		return 0, fmt.Errorf("malformed note %q", note)
	}
	midi := (octave+1)*12 + offset
	return 440 * math.Pow(2, float64(midi-69)/12), nil
}
