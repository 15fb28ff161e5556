// Package portaudio plays bridged audio through the default output
// device using portaudio.
package portaudio

import (
	"context"

	"github.com/gordonklaus/portaudio"

	"github.com/gradiuscypher/bleepbloops"
)

// Player pulls samples from a bridge and writes them to a portaudio
// stream. The blocking stream writes are what paces consumption; the
// bridge read itself never waits, so a starved queue produces silence
// instead of a stall.
type Player struct {
	bridge *bleepbloops.Bridge
	stream *portaudio.Stream
	out    []float32
	tmp    []float64
}

// NewPlayer opens the default output device with provided sample rate
// and block size. It also initializes the portaudio api.
func NewPlayer(bridge *bleepbloops.Bridge, rate bleepbloops.SampleRate, block bleepbloops.BlockSize) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	p := &Player{
		bridge: bridge,
		out:    make([]float32, block),
		tmp:    make([]float64, block),
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(rate), int(block), &p.out)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	p.stream = stream
	return p, nil
}

// Play writes blocks to the device until the context is cancelled.
func (p *Player) Play(ctx context.Context) error {
	if err := p.stream.Start(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return p.stream.Stop()
		default:
		}
		p.bridge.ReadSamples(p.tmp)
		for i := range p.tmp {
			p.out[i] = float32(p.tmp[i])
		}
		if err := p.stream.Write(); err != nil {
			return err
		}
	}
}

// Close terminates portaudio structures.
func (p *Player) Close() error {
	if err := p.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
