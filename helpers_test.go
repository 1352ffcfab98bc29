package userlogic

import (
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/skovsen/D2D_UserLogic/internal/logging"
)

type routeCall struct {
	from, to *Vertex
}

// fakeGraph answers every query with a direct route to the target unless
// the target is marked unreachable or a route was scripted.
type fakeGraph struct {
	vertices    []*Vertex
	doors       []*Vertex
	scripted    map[*Vertex][]*Vertex
	unreachable map[*Vertex]bool
	calls       []routeCall
}

func newFakeGraph(vertices, doors []*Vertex) *fakeGraph {
	return &fakeGraph{
		vertices:    vertices,
		doors:       doors,
		scripted:    make(map[*Vertex][]*Vertex),
		unreachable: make(map[*Vertex]bool),
	}
}

func (g *fakeGraph) FindRoute(from, to *Vertex) (Route, bool) {
	g.calls = append(g.calls, routeCall{from: from, to: to})
	if g.unreachable[to] {
		return nil, false
	}
	if path, ok := g.scripted[to]; ok {
		return NewPathRoute(append([]*Vertex(nil), path...)), true
	}
	if from == to {
		return NewPathRoute(nil), true
	}
	return NewPathRoute([]*Vertex{to}), true
}

func (g *fakeGraph) Vertices() []*Vertex { return g.vertices }
func (g *fakeGraph) Doors() []*Vertex    { return g.doors }

type fakeOwner struct {
	graph     *fakeGraph
	opts      Options
	released  []*Vertex
	cancels   int
	destroyed []*Agent

	// seatFreeOnDestroy records whether the seat was already released
	// when AgentDestroyed was called
	seatFreeOnDestroy []bool
}

func newFakeOwner(graph *fakeGraph) *fakeOwner {
	return &fakeOwner{graph: graph, opts: DefaultOptions()}
}

func (o *fakeOwner) UnoccupySeat(seat *Vertex) { o.released = append(o.released, seat) }
func (o *fakeOwner) CancelGoToTabletRequest()  { o.cancels++ }
func (o *fakeOwner) Graph() WaypointGraph      { return o.graph }
func (o *fakeOwner) Options() Options          { return o.opts }
func (o *fakeOwner) Logger() *slog.Logger      { return logging.NewNop() }
func (o *fakeOwner) AgentDestroyed(a *Agent) {
	o.destroyed = append(o.destroyed, a)
	o.seatFreeOnDestroy = append(o.seatFreeOnDestroy, len(o.released) > 0)
}

type fakeField struct {
	temp  *Temperature
	pixel float64
}

func (f *fakeField) Temperature(orb.Point) (Temperature, bool) {
	if f.temp == nil {
		return 0, false
	}
	return *f.temp, true
}

func (f *fakeField) ThermalPixelSize() float64 { return f.pixel }

func vertex(id string, x, y float64, kind VertexKind) *Vertex {
	return &Vertex{ID: id, Position: orb.Point{x, y}, Kind: kind}
}

func temp(t float64) *Temperature {
	v := Temperature(t)
	return &v
}

// newWalker returns a started agent standing on at. speed is exact, the
// comfort band is neutral.
func newWalker(t *testing.T, owner *fakeOwner, role Role, seat, at *Vertex, speed float64) *Agent {
	t.Helper()

	owner.opts.MinUserSpeed = speed
	owner.opts.MaxUserSpeed = speed

	a := NewAgent()
	require.NoError(t, a.Initialize(owner, role, seat))
	a.rng = rand.New(rand.NewPCG(1, 2))
	a.started = true
	a.position = at.Position
	a.lastVertex = at
	return a
}

// walking puts a on a route towards next with rest following.
func walking(a *Agent, state UserState, next *Vertex, rest ...*Vertex) *PathRoute {
	r := NewPathRoute(rest)
	a.state = state
	a.route = r
	a.nextVertex = next
	return r
}
