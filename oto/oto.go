// Package oto plays bridged audio through the platform device using
// the pure-Go oto library.
package oto

import (
	"math"

	"github.com/ebitengine/oto/v3"

	"github.com/gradiuscypher/bleepbloops"
)

// Context wraps the process-wide oto context.
type Context struct {
	ctx *oto.Context
}

// NewContext creates a mono float32 oto context for the provided sample
// rate and waits for the device to become ready.
func NewContext(rate bleepbloops.SampleRate) (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(rate),
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return &Context{ctx: ctx}, nil
}

// Player creates a player consuming from the bridge. Call Play to
// start the device.
func (c *Context) Player(bridge *bleepbloops.Bridge) *Player {
	r := &reader{bridge: bridge}
	return &Player{player: c.ctx.NewPlayer(r)}
}

// Player streams bridge samples to the device.
type Player struct {
	player *oto.Player
}

// Play starts playback. The device pulls from the bridge at its own
// pace from here on.
func (p *Player) Play() {
	p.player.Play()
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	return p.player.Close()
}

// reader adapts the bridge to the io.Reader the oto player consumes.
// Read is called on the device's schedule and must not block, which the
// bridge guarantees.
type reader struct {
	bridge *bleepbloops.Bridge
	tmp    []float64
}

func (r *reader) Read(p []byte) (int, error) {
	n := len(p) / 4
	if cap(r.tmp) < n {
		r.tmp = make([]float64, n)
	}
	tmp := r.tmp[:n]
	r.bridge.ReadSamples(tmp)
	for i, s := range tmp {
		bits := math.Float32bits(float32(s))
		p[i*4] = byte(bits)
		p[i*4+1] = byte(bits >> 8)
		p[i*4+2] = byte(bits >> 16)
		p[i*4+3] = byte(bits >> 24)
	}
	return n * 4, nil
}
