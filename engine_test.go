package bleepbloops_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/gradiuscypher/bleepbloops"
	"github.com/gradiuscypher/bleepbloops/mock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stopAfter cancels the context once the provided number of blocks
// passed through it.
type stopAfter struct {
	mock.Sink
	blocks int
	cancel context.CancelFunc
}

func (s *stopAfter) Process(b *bleepbloops.Block) error {
	if err := s.Sink.Process(b); err != nil {
		return err
	}
	if s.Blocks == s.blocks {
		s.cancel()
	}
	return nil
}

func TestEngineNoOutput(t *testing.T) {
	g, _ := bleepbloops.New(44100, 64)
	g.Add(&mock.Source{Value: 1})

	e := bleepbloops.NewEngine(g)
	err := e.Run(context.Background())
	assert.True(t, errors.Is(err, bleepbloops.ErrNoOutput))
}

func TestEngineRun(t *testing.T) {
	g, _ := bleepbloops.New(44100, 64)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := g.Add(&mock.Source{Value: 0.5})
	sink := &stopAfter{blocks: 4, cancel: cancel}
	hSink := g.Add(sink)
	assert.NoError(t, g.Connect(src, "out", hSink, "in", 1))

	e := bleepbloops.NewEngine(g)
	assert.NoError(t, e.Run(ctx))

	assert.Equal(t, 4, sink.Blocks)
	assert.Equal(t, uint64(4*64), g.Clock().Samples())
	for _, s := range sink.Captured {
		assert.Equal(t, 0.5, s)
	}
}

func TestEngineModuleError(t *testing.T) {
	g, _ := bleepbloops.New(44100, 64)
	fail := errors.New("broken")
	src := g.Add(&mock.Source{Value: 1})
	sink := g.Add(&mock.Sink{Err: fail})
	assert.NoError(t, g.Connect(src, "out", sink, "in", 1))

	e := bleepbloops.NewEngine(g)
	err := e.Run(context.Background())
	assert.True(t, errors.Is(err, fail))
}

func TestEngineAppliesParamAtBlockBoundary(t *testing.T) {
	g, _ := bleepbloops.New(44100, 64)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := g.Add(&mock.Source{Value: 1})
	gain := g.Add(&mock.Gain{})
	sink := &stopAfter{blocks: 2, cancel: cancel}
	hSink := g.Add(sink)
	assert.NoError(t, g.Connect(src, "out", gain, "in", 1))
	assert.NoError(t, g.Connect(gain, "out", hSink, "in", 1))

	e := bleepbloops.NewEngine(g)
	// queued before the run, applied before the first block renders
	assert.NoError(t, g.SetParam(gain, "gain", 0.25))

	assert.NoError(t, e.Run(ctx))
	for _, s := range sink.Captured {
		assert.Equal(t, 0.25, s)
	}
}

func TestEnginePush(t *testing.T) {
	g, _ := bleepbloops.New(44100, 64)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gm := &mock.Gain{}
	src := g.Add(&mock.Source{Value: 1})
	gain := g.Add(gm)
	sink := &stopAfter{blocks: 1, cancel: cancel}
	hSink := g.Add(sink)
	assert.NoError(t, g.Connect(src, "out", gain, "in", 1))
	assert.NoError(t, g.Connect(gain, "out", hSink, "in", 1))

	e := bleepbloops.NewEngine(g)
	pushed := false
	e.Push(func() { pushed = true })

	assert.NoError(t, e.Run(ctx))
	assert.True(t, pushed)
}

func TestControlPathNeverBlocksOnIdleEngine(t *testing.T) {
	g, _ := bleepbloops.New(44100, 64)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := g.Add(&mock.Source{Value: 1})
	gain := g.Add(&mock.Gain{})
	sink := &stopAfter{blocks: 1, cancel: cancel}
	hSink := g.Add(sink)
	assert.NoError(t, g.Connect(src, "out", gain, "in", 1))
	assert.NoError(t, g.Connect(gain, "out", hSink, "in", 1))

	e := bleepbloops.NewEngine(g)

	// the engine is attached but not running: edits must accumulate,
	// never wedge the graph mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			assert.NoError(t, g.SetParam(gain, "gain", float64(i)/100))
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SetParam blocked with an idle engine attached")
	}

	// the last queued edit wins once the engine runs
	assert.NoError(t, e.Run(ctx))
	for _, s := range sink.Captured {
		assert.InDelta(t, 1.99, s, 1e-12)
	}
}

// removeSelf drops itself from the graph after the provided number of
// blocks, leaving the graph without a sink.
type removeSelf struct {
	mock.Sink
	blocks int
	graph  *bleepbloops.Graph
	handle bleepbloops.Handle
}

func (r *removeSelf) Process(b *bleepbloops.Block) error {
	if err := r.Sink.Process(b); err != nil {
		return err
	}
	if r.Blocks == r.blocks {
		r.graph.Remove(r.handle)
	}
	return nil
}

func TestEngineStopsWhenLastSinkRemoved(t *testing.T) {
	g, _ := bleepbloops.New(44100, 64)
	src := g.Add(&mock.Source{Value: 0.5})
	sink := &removeSelf{blocks: 2, graph: g}
	hSink := g.Add(sink)
	sink.handle = hSink
	assert.NoError(t, g.Connect(src, "out", hSink, "in", 1))

	e := bleepbloops.NewEngine(g)
	err := e.Run(context.Background())
	assert.True(t, errors.Is(err, bleepbloops.ErrNoOutput))
	assert.Equal(t, 2, sink.Blocks)
}

func TestEngineSwapsProgram(t *testing.T) {
	g, _ := bleepbloops.New(44100, 64)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := g.Add(&mock.Source{Value: 0.5})
	sink := &stopAfter{blocks: 2, cancel: cancel}
	hSink := g.Add(sink)
	assert.NoError(t, g.Connect(src, "out", hSink, "in", 1))

	e := bleepbloops.NewEngine(g)
	// topology edits after attach publish a recompiled program, the
	// engine picks it up before the first pass
	loud := g.Add(&mock.Source{Value: 0.9})
	g.Disconnect(hSink, "in")
	assert.NoError(t, g.Connect(loud, "out", hSink, "in", 1))

	assert.NoError(t, e.Run(ctx))
	for _, s := range sink.Captured {
		assert.Equal(t, 0.9, s)
	}
}
