package userlogic

import (
	"container/heap"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

var (
	// ErrUnknownVertex is returned when an edge names a vertex the graph does not have.
	ErrUnknownVertex = errors.New("unknown vertex")
	// ErrEmptyGraph is returned when a room has no vertices or no doors.
	ErrEmptyGraph = errors.New("room graph has no vertices or no doors")
)

// RoomGraph is the waypoint graph of a room. Edges are undirected and
// weighted by their planar length.
type RoomGraph struct {
	vertices []*Vertex
	byID     map[string]*Vertex
	edges    map[*Vertex][]roomEdge

	doors   []*Vertex
	seats   []*Vertex
	tablets []*Vertex

	outline orb.Polygon
}

type roomEdge struct {
	to     *Vertex
	length float64
}

var _ WaypointGraph = (*RoomGraph)(nil)

// NewRoomGraph returns an empty graph.
func NewRoomGraph() *RoomGraph {
	return &RoomGraph{
		byID:  make(map[string]*Vertex),
		edges: make(map[*Vertex][]roomEdge),
	}
}

// AddVertex inserts a vertex. IDs must be unique.
func (g *RoomGraph) AddVertex(id string, p orb.Point, kind VertexKind) (*Vertex, error) {
	if _, exists := g.byID[id]; exists {
		return nil, fmt.Errorf("vertex %q added twice", id)
	}
	v := &Vertex{ID: id, Position: p, Kind: kind}
	g.vertices = append(g.vertices, v)
	g.byID[id] = v

	switch kind {
	case Door:
		g.doors = append(g.doors, v)
	case Seat:
		g.seats = append(g.seats, v)
	case Tablet:
		g.tablets = append(g.tablets, v)
	}
	return v, nil
}

// Connect inserts an undirected edge between two vertices.
func (g *RoomGraph) Connect(fromID, toID string) error {
	from, ok := g.byID[fromID]
	if !ok {
		return fmt.Errorf("connect %s-%s: %w %q", fromID, toID, ErrUnknownVertex, fromID)
	}
	to, ok := g.byID[toID]
	if !ok {
		return fmt.Errorf("connect %s-%s: %w %q", fromID, toID, ErrUnknownVertex, toID)
	}

	length := planar.Distance(from.Position, to.Position)
	g.edges[from] = append(g.edges[from], roomEdge{to: to, length: length})
	g.edges[to] = append(g.edges[to], roomEdge{to: from, length: length})
	return nil
}

// Vertex looks a vertex up by ID.
func (g *RoomGraph) Vertex(id string) (*Vertex, bool) {
	v, ok := g.byID[id]
	return v, ok
}

// Vertices returns all vertices in insertion order.
func (g *RoomGraph) Vertices() []*Vertex { return g.vertices }

// Doors returns the door vertices in insertion order.
func (g *RoomGraph) Doors() []*Vertex { return g.doors }

// Seats returns the seat vertices in insertion order.
func (g *RoomGraph) Seats() []*Vertex { return g.seats }

// Tablets returns the tablet vertices in insertion order.
func (g *RoomGraph) Tablets() []*Vertex { return g.tablets }

// Neighbors returns the vertices connected to v.
func (g *RoomGraph) Neighbors(v *Vertex) []*Vertex {
	out := make([]*Vertex, 0, len(g.edges[v]))
	for _, e := range g.edges[v] {
		out = append(out, e.to)
	}
	return out
}

// Bound is the bounding box of all vertices and the outline.
func (g *RoomGraph) Bound() orb.Bound {
	points := make(orb.MultiPoint, 0, len(g.vertices))
	for _, v := range g.vertices {
		points = append(points, v.Position)
	}
	b := points.Bound()
	if len(g.outline) > 0 {
		b = b.Union(g.outline.Bound())
	}
	return b
}

// Validate checks that users can enter and leave the room and that every
// vertex is inside the outline.
func (g *RoomGraph) Validate() error {
	if len(g.vertices) == 0 || len(g.doors) == 0 {
		return ErrEmptyGraph
	}
	return g.checkOutline()
}

// FindRoute runs Dijkstra from one vertex to another. The route does not
// contain from and ends with to.
func (g *RoomGraph) FindRoute(from, to *Vertex) (Route, bool) {
	if from == nil || to == nil {
		return nil, false
	}
	if v, ok := g.byID[from.ID]; !ok || v != from {
		return nil, false
	}
	if from == to {
		return NewPathRoute(nil), true
	}

	dist := map[*Vertex]float64{from: 0}
	prev := make(map[*Vertex]*Vertex)
	done := make(map[*Vertex]bool)

	frontier := &routeQueue{{vertex: from}}

	for frontier.Len() > 0 {
		u := heap.Pop(frontier).(queued).vertex
		if u == to {
			break
		}
		if done[u] {
			continue
		}
		done[u] = true

		for _, e := range g.edges[u] {
			alt := dist[u] + e.length
			if d, ok := dist[e.to]; !ok || alt < d {
				dist[e.to] = alt
				prev[e.to] = u
				heap.Push(frontier, queued{vertex: e.to, dist: alt})
			}
		}
	}

	if _, ok := dist[to]; !ok {
		return nil, false
	}

	// reconstruct path of vertices, from excluded
	var path []*Vertex
	for v := to; v != from; v = prev[v] {
		path = append(path, v)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return NewPathRoute(path), true
}

// PathRoute is a Route over a precomputed slice.
type PathRoute struct {
	path []*Vertex
	i    int
}

// NewPathRoute returns a route over path. The slice is not copied.
func NewPathRoute(path []*Vertex) *PathRoute {
	return &PathRoute{path: path}
}

// Next returns the next vertex, false once the route is exhausted.
func (r *PathRoute) Next() (*Vertex, bool) {
	if r.i >= len(r.path) {
		return nil, false
	}
	v := r.path[r.i]
	r.i++
	return v, true
}

// Remaining returns the vertices not pulled yet.
func (r *PathRoute) Remaining() []*Vertex { return r.path[r.i:] }

// LoadRoom reads a room graph from a GeoJSON file.
func LoadRoom(path string) (*RoomGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load room: %w", err)
	}
	return ParseRoom(data)
}

// ParseRoom reads a room graph from a GeoJSON feature collection. Point
// features are vertices with an "id" and a "kind" property; LineString
// features with "from" and "to" properties are edges. An optional Polygon
// feature is the floor outline.
func ParseRoom(data []byte) (*RoomGraph, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse room: %w", err)
	}

	g := NewRoomGraph()
	var lines []*geojson.Feature

	for i, f := range fc.Features {
		switch geom := f.Geometry.(type) {
		case orb.Point:
			id := f.Properties.MustString("id", "")
			if id == "" {
				return nil, fmt.Errorf("parse room: feature %d has no id", i)
			}
			kind, err := ParseVertexKind(f.Properties.MustString("kind", ""))
			if err != nil {
				return nil, fmt.Errorf("parse room: vertex %s: %w", id, err)
			}
			if _, err := g.AddVertex(id, geom, kind); err != nil {
				return nil, fmt.Errorf("parse room: %w", err)
			}
		case orb.LineString:
			lines = append(lines, f)
		case orb.Polygon:
			if len(g.outline) > 0 {
				return nil, fmt.Errorf("parse room: feature %d is a second outline", i)
			}
			g.SetOutline(geom)
		default:
			return nil, fmt.Errorf("parse room: feature %d has unsupported geometry %s", i, f.Geometry.GeoJSONType())
		}
	}

	// edges last, they may reference vertices declared after them
	for _, f := range lines {
		from := f.Properties.MustString("from", "")
		to := f.Properties.MustString("to", "")
		if err := g.Connect(from, to); err != nil {
			return nil, fmt.Errorf("parse room: %w", err)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("parse room: %w", err)
	}
	return g, nil
}

// FeatureCollection exports the graph in the format ParseRoom reads.
func (g *RoomGraph) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(g.outline) > 0 {
		f := geojson.NewFeature(g.outline)
		f.Properties["name"] = "outline"
		fc.Append(f)
	}
	for _, v := range g.vertices {
		f := geojson.NewFeature(v.Position)
		f.Properties["id"] = v.ID
		f.Properties["kind"] = v.Kind.String()
		fc.Append(f)
	}

	seen := make(map[[2]*Vertex]bool)
	for _, from := range g.vertices {
		for _, e := range g.edges[from] {
			if seen[[2]*Vertex{e.to, from}] {
				continue
			}
			seen[[2]*Vertex{from, e.to}] = true

			f := geojson.NewFeature(orb.LineString{from.Position, e.to.Position})
			f.Properties["from"] = from.ID
			f.Properties["to"] = e.to.ID
			fc.Append(f)
		}
	}
	return fc
}

// routeQueue orders the frontier of FindRoute by distance from the start.
type routeQueue []queued

type queued struct {
	vertex *Vertex
	dist   float64
}

func (q routeQueue) Len() int           { return len(q) }
func (q routeQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q routeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *routeQueue) Push(x any)        { *q = append(*q, x.(queued)) }

func (q *routeQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	*q = old[:len(old)-1]
	return last
}
