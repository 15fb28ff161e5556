package example_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gradiuscypher/bleepbloops"
	"github.com/gradiuscypher/bleepbloops/example"
)

type capture struct {
	samples []float64
}

func (c *capture) WriteBlock(b bleepbloops.Buffer) error {
	c.samples = append(c.samples, b...)
	return nil
}

func TestExamples(t *testing.T) {
	builders := map[string]func(bleepbloops.SampleRate, bleepbloops.BlockSize, bleepbloops.BlockWriter) (*bleepbloops.Graph, error){
		"tremolo": example.Tremolo,
		"chord":   example.Chord,
		"beeper":  example.Beeper,
		"morse":   example.Morse,
		"melody":  example.Melody,
	}
	for name, builder := range builders {
		t.Run(name, func(t *testing.T) {
			c := &capture{}
			g, err := builder(44100, 512, c)
			assert.NoError(t, err)

			// a second of audio, enough for every patch to produce sound
			for i := 0; i < 87; i++ {
				assert.NoError(t, g.Render())
			}

			assert.Equal(t, 87*512, len(c.samples))
			var peak float64
			for _, s := range c.samples {
				assert.False(t, math.IsNaN(s))
				assert.LessOrEqual(t, math.Abs(s), 1.0)
				if math.Abs(s) > peak {
					peak = math.Abs(s)
				}
			}
			assert.Greater(t, peak, 0.01, "patch produced silence")
		})
	}
}
