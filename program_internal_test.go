package bleepbloops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testSource struct{}

func (testSource) Ports() Ports         { return Ports{Outs: []string{"out"}} }
func (testSource) Process(*Block) error { return nil }

type testPass struct{}

func (testPass) Ports() Ports         { return Ports{Ins: []string{"in"}, Outs: []string{"out"}} }
func (testPass) Process(*Block) error { return nil }

type testSink struct{}

func (testSink) Ports() Ports         { return Ports{Ins: []string{"in"}} }
func (testSink) Process(*Block) error { return nil }

func orderHandles(p *program) []Handle {
	hs := make([]Handle, len(p.order))
	for i, n := range p.order {
		hs[i] = n.handle
	}
	return hs
}

func TestSortDeterministic(t *testing.T) {
	g, _ := New(44100, 64)
	a := g.Add(testSource{})
	pa := g.Add(testPass{})
	m := g.Add(testPass{})
	sink := g.Add(testSink{})
	assert.NoError(t, g.Connect(a, "out", pa, "in", 1))
	assert.NoError(t, g.Connect(pa, "out", m, "in", 1))
	assert.NoError(t, g.Connect(m, "out", sink, "in", 1))

	first := orderHandles(g.snapshot())
	g.prog = nil
	second := orderHandles(g.snapshot())
	assert.Equal(t, first, second)
}

func TestSortTieBreakByHandle(t *testing.T) {
	g, _ := New(44100, 64)
	// two independent chains with nothing ordering them relative to
	// each other
	a := g.Add(testSource{})
	b := g.Add(testSource{})
	sa := g.Add(testSink{})
	sb := g.Add(testSink{})
	assert.NoError(t, g.Connect(a, "out", sa, "in", 1))
	assert.NoError(t, g.Connect(b, "out", sb, "in", 1))

	assert.Equal(t, []Handle{a, b, sa, sb}, orderHandles(g.snapshot()))
}

func TestSortStableUnderUnrelatedChange(t *testing.T) {
	g, _ := New(44100, 64)
	a := g.Add(testSource{})
	sa := g.Add(testSink{})
	assert.NoError(t, g.Connect(a, "out", sa, "in", 1))
	before := orderHandles(g.snapshot())

	// an unrelated chain must not reorder the existing one
	b := g.Add(testSource{})
	sb := g.Add(testSink{})
	assert.NoError(t, g.Connect(b, "out", sb, "in", 1))
	after := orderHandles(g.snapshot())

	relative := make([]Handle, 0, len(before))
	for _, h := range after {
		if h == a || h == sa {
			relative = append(relative, h)
		}
	}
	assert.Equal(t, before, relative)
}

func TestDelayedEdgeDoesNotConstrainOrder(t *testing.T) {
	g, _ := New(44100, 64)
	a := g.Add(testPass{})
	b := g.Add(testPass{})
	sink := g.Add(testSink{})
	assert.NoError(t, g.Connect(a, "out", b, "in", 1))
	assert.NoError(t, g.ConnectDelayed(b, "out", a, "in", 1))
	assert.NoError(t, g.Connect(b, "out", sink, "in", 1))

	// the feedback edge is ignored by the sort; a precedes b
	assert.Equal(t, []Handle{a, b, sink}, orderHandles(g.snapshot()))
}
