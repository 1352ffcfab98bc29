package userlogic

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/paulmach/orb"
)

// VertexKind tells what a graph node stands for in the room.
type VertexKind int

const (
	Waypoint VertexKind = iota
	Door
	Seat
	Tablet
)

func (k VertexKind) String() string {
	switch k {
	case Waypoint:
		return "waypoint"
	case Door:
		return "door"
	case Seat:
		return "seat"
	case Tablet:
		return "tablet"
	}
	return fmt.Sprintf("VertexKind(%d)", int(k))
}

// ParseVertexKind is the inverse of VertexKind.String. An empty string is a
// waypoint.
func ParseVertexKind(s string) (VertexKind, error) {
	switch s {
	case "", "waypoint":
		return Waypoint, nil
	case "door":
		return Door, nil
	case "seat":
		return Seat, nil
	case "tablet":
		return Tablet, nil
	}
	return Waypoint, fmt.Errorf("unknown vertex kind %q", s)
}

// Vertex is a positioned node of the room graph. It is not modified after
// the graph is built.
type Vertex struct {
	ID       string
	Position orb.Point
	Kind     VertexKind
}

// IsDoor reports whether users can enter and leave the room here.
func (v *Vertex) IsDoor() bool { return v.Kind == Door }

func (v *Vertex) String() string {
	return fmt.Sprintf("%s(%s %v)", v.ID, v.Kind, v.Position)
}

// Route is a forward only sequence of vertices. Once Next reports false the
// route is exhausted for good.
type Route interface {
	Next() (*Vertex, bool)
}

// WaypointGraph answers route queries between vertices of a room.
type WaypointGraph interface {
	// FindRoute returns the route from one vertex to another, false if
	// the target can not be reached.
	FindRoute(from, to *Vertex) (Route, bool)
	Vertices() []*Vertex
	Doors() []*Vertex
}

// Temperature in °C.
type Temperature float64

func (t Temperature) String() string { return fmt.Sprintf("%.1f°C", float64(t)) }

// ThermalField is the room temperature simulation as seen by a user.
type ThermalField interface {
	// Temperature at a position, false if there is no data there.
	Temperature(p orb.Point) (Temperature, bool)
	// ThermalPixelSize is the edge length of one field cell in m.
	ThermalPixelSize() float64
}

// OccupancyAuthority keeps track of seats and pending tablet requests.
// Both calls are idempotent.
type OccupancyAuthority interface {
	UnoccupySeat(seat *Vertex)
	CancelGoToTabletRequest()
}

// Owner is the controller an agent belongs to.
type Owner interface {
	OccupancyAuthority
	Graph() WaypointGraph
	Options() Options
	Logger() *slog.Logger
	// AgentDestroyed is called exactly once, after the seat was released.
	AgentDestroyed(a *Agent)
}

// Observer is told about users leaving the simulation.
type Observer interface {
	OnDestroyed(a *Agent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(a *Agent)

// OnDestroyed calls f(a).
func (f ObserverFunc) OnDestroyed(a *Agent) { f(a) }

// LectureState is the schedule signal of the room.
type LectureState int

const (
	NoLecture LectureState = iota
	Lecture
	Pause
)

func (s LectureState) String() string {
	switch s {
	case NoLecture:
		return "None"
	case Lecture:
		return "Lecture"
	case Pause:
		return "Pause"
	}
	return fmt.Sprintf("LectureState(%d)", int(s))
}

// ParseLectureState accepts "none", "lecture" and "pause" in any case.
func ParseLectureState(s string) (LectureState, error) {
	switch strings.ToLower(s) {
	case "none":
		return NoLecture, nil
	case "lecture":
		return Lecture, nil
	case "pause":
		return Pause, nil
	}
	return NoLecture, fmt.Errorf("unknown lecture state %q", s)
}

// UnmarshalText lets LectureState be used in config files.
func (s *LectureState) UnmarshalText(text []byte) error {
	v, err := ParseLectureState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (s LectureState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
