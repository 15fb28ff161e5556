// Command bleepbloops plays or renders one of the built-in example
// patches.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gradiuscypher/bleepbloops"
	"github.com/gradiuscypher/bleepbloops/example"
	"github.com/gradiuscypher/bleepbloops/log"
	"github.com/gradiuscypher/bleepbloops/mp3"
	"github.com/gradiuscypher/bleepbloops/oto"
	"github.com/gradiuscypher/bleepbloops/portaudio"
	"github.com/gradiuscypher/bleepbloops/wav"
)

type builderFunc = func(bleepbloops.SampleRate, bleepbloops.BlockSize, bleepbloops.BlockWriter) (*bleepbloops.Graph, error)

var builders = map[string]builderFunc{
	"tremolo": example.Tremolo,
	"chord":   example.Chord,
	"beeper":  example.Beeper,
	"morse":   example.Morse,
	"melody":  example.Melody,
}

func main() {
	var (
		name     = flag.String("example", "beeper", "patch to play: tremolo, chord, beeper, morse or melody")
		rate     = flag.Int("rate", 44100, "sample rate in Hz")
		block    = flag.Int("block", 512, "block size in samples")
		duration = flag.Duration("duration", 10*time.Second, "how long to play")
		driver   = flag.String("driver", "oto", "playback driver: oto or portaudio")
		wavPath  = flag.String("wav", "", "render to wav file instead of playing")
		mp3Path  = flag.String("mp3", "", "render to mp3 file instead of playing")
	)
	flag.Parse()

	l := log.GetLogger()
	builder, ok := builders[*name]
	if !ok {
		l.Fatalf("unknown example %q", *name)
	}

	var err error
	switch {
	case *wavPath != "":
		err = render(builder, *rate, *block, *duration, func() (writeCloser, error) {
			return wav.NewWriter(*wavPath, bleepbloops.SampleRate(*rate))
		})
	case *mp3Path != "":
		err = render(builder, *rate, *block, *duration, func() (writeCloser, error) {
			return mp3.NewWriter(*mp3Path, bleepbloops.SampleRate(*rate), 192, 2)
		})
	default:
		err = play(builder, *driver, *rate, *block, *duration)
	}
	if err != nil {
		l.Fatal(err)
	}
}

type writeCloser interface {
	bleepbloops.BlockWriter
	Close() error
}

// render runs the graph offline, block by block, until the requested
// duration of audio is written.
func render(builder builderFunc, rate, block int, duration time.Duration, open func() (writeCloser, error)) error {
	w, err := open()
	if err != nil {
		return err
	}
	defer w.Close()

	g, err := builder(bleepbloops.SampleRate(rate), bleepbloops.BlockSize(block), w)
	if err != nil {
		return err
	}
	for g.Clock().Elapsed() < duration {
		if err := g.Render(); err != nil {
			return err
		}
	}
	return nil
}

// play renders in real time through the platform audio device.
func play(builder builderFunc, driver string, rate, block int, duration time.Duration) error {
	bridge, err := bleepbloops.NewBridge(bleepbloops.BlockSize(block), 4)
	if err != nil {
		return err
	}
	g, err := builder(bleepbloops.SampleRate(rate), bleepbloops.BlockSize(block), bridge)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	engine := bleepbloops.NewEngine(g)
	errc := make(chan error, 1)
	go func() {
		errc <- engine.Run(ctx)
	}()

	switch driver {
	case "oto":
		err = playOto(bridge, rate, errc)
	case "portaudio":
		err = playPortaudio(ctx, bridge, rate, block, errc)
	default:
		err = fmt.Errorf("unknown driver %q", driver)
		cancel()
		<-errc
	}
	bridge.Close()
	if n := bridge.Underruns(); n > 0 {
		fmt.Fprintf(os.Stderr, "%d underruns\n", n)
	}
	return err
}

func playOto(bridge *bleepbloops.Bridge, rate int, errc <-chan error) error {
	octx, err := oto.NewContext(bleepbloops.SampleRate(rate))
	if err != nil {
		return err
	}
	player := octx.Player(bridge)
	player.Play()

	err = <-errc
	if cerr := player.Close(); err == nil {
		err = cerr
	}
	return err
}

func playPortaudio(ctx context.Context, bridge *bleepbloops.Bridge, rate, block int, errc <-chan error) error {
	player, err := portaudio.NewPlayer(bridge, bleepbloops.SampleRate(rate), bleepbloops.BlockSize(block))
	if err != nil {
		return err
	}
	err = player.Play(ctx)
	if rerr := <-errc; err == nil {
		err = rerr
	}
	if cerr := player.Close(); err == nil {
		err = cerr
	}
	return err
}
