package userlogic

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/skovsen/D2D_UserLogic/internal/logging"
)

var (
	// ErrAlreadyInitialized is returned when Initialize is called a second time.
	ErrAlreadyInitialized = errors.New("user was already initialized")
	// ErrNotInitialized is returned when an agent is used before Initialize.
	ErrNotInitialized = errors.New("user is not initialized")
	// ErrAlreadyStarted is returned when Start is called a second time.
	ErrAlreadyStarted = errors.New("user was already started")
	// ErrNoSeat is returned when an agent is initialized without a seat.
	ErrNoSeat = errors.New("user has no seat")
)

// Role is what a user does in the room.
type Role int

const (
	Student Role = iota
	Lecturer
)

func (r Role) String() string {
	switch r {
	case Student:
		return "Student"
	case Lecturer:
		return "Lecturer"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// UserState is the behaviour an agent is currently executing.
type UserState int

const (
	Unknown UserState = iota
	LeavingRoom
	GoToSeat
	Listening
	Lecturing
	Idle
	Moving
	OpeningWindow
	ClosingWindow
	TurningUpHeater
	TurningDownHeater
)

var userStateNames = [...]string{
	Unknown:           "Unknown",
	LeavingRoom:       "LeavingRoom",
	GoToSeat:          "GoToSeat",
	Listening:         "Listening",
	Lecturing:         "Lecturing",
	Idle:              "Idle",
	Moving:            "Moving",
	OpeningWindow:     "OpeningWindow",
	ClosingWindow:     "ClosingWindow",
	TurningUpHeater:   "TurningUpHeater",
	TurningDownHeater: "TurningDownHeater",
}

func (s UserState) String() string {
	if s >= 0 && int(s) < len(userStateNames) {
		return userStateNames[s]
	}
	return fmt.Sprintf("UserState(%d)", int(s))
}

// AllUserStates lists every state in declaration order.
func AllUserStates() []UserState {
	states := make([]UserState, len(userStateNames))
	for i := range states {
		states[i] = UserState(i)
	}
	return states
}

// An Agent is one simulated user of the room - anything that can walk,
// sit down, feel cold and leave.
type Agent struct {
	UUID string

	owner Owner
	opts  Options
	log   *slog.Logger
	rng   *rand.Rand

	initialized bool
	started     bool
	destroyed   bool

	role  Role
	state UserState
	seat  *Vertex

	position   orb.Point
	lastVertex *Vertex
	nextVertex *Vertex
	route      Route

	speedFactor      float64
	minComfortFactor float64
	maxComfortFactor float64

	comfort     Comfort
	temperature *Temperature

	field       ThermalField
	surfaceArea float64
}

// NewAgent returns an agent that still has to be initialized by its owner.
func NewAgent() *Agent {
	return &Agent{
		UUID:        uuid.NewString(),
		state:       Unknown,
		surfaceArea: initialSurfaceArea,
		log:         logging.NewNop(),
	}
}

// Initialize binds the agent to its owner, role and seat. It may only be
// called once.
func (a *Agent) Initialize(owner Owner, role Role, seat *Vertex) error {
	if a.initialized {
		return ErrAlreadyInitialized
	}
	if seat == nil {
		return ErrNoSeat
	}

	a.initialized = true
	a.owner = owner
	a.opts = owner.Options()
	a.role = role
	a.seat = seat
	if l := owner.Logger(); l != nil {
		a.log = l.With("user", a.UUID, "role", role.String())
	}
	return nil
}

// Start draws the per-user random factors and places the user on a random
// door of the room. The factors are kept for the lifetime of the agent, so
// Start may only succeed once.
func (a *Agent) Start(rng *rand.Rand) error {
	if !a.initialized {
		return ErrNotInitialized
	}
	if a.started {
		return ErrAlreadyStarted
	}

	a.rng = rng
	a.speedFactor = rng.Float64()
	a.minComfortFactor = rng.Float64()
	a.maxComfortFactor = rng.Float64()

	door := a.randomDoor()
	if door == nil {
		return fmt.Errorf("start %s: %w", a.UUID, ErrEmptyGraph)
	}
	a.position = door.Position
	a.lastVertex = door
	a.nextVertex = nil
	a.started = true
	return nil
}

// Role of the user.
func (a *Agent) Role() Role { return a.role }

// State of the user.
func (a *Agent) State() UserState { return a.state }

// Seat assigned to the user.
func (a *Agent) Seat() *Vertex { return a.seat }

// Position is the absolute position of the user in m.
func (a *Agent) Position() orb.Point { return a.position }

// LastVertex is the graph node the user reached most recently.
func (a *Agent) LastVertex() *Vertex { return a.lastVertex }

// NextVertex is the graph node the user is walking towards, nil if none.
func (a *Agent) NextVertex() *Vertex { return a.nextVertex }

// Route currently followed, nil if none.
func (a *Agent) Route() Route { return a.route }

// Destroyed reports whether the user has left the simulation.
func (a *Agent) Destroyed() bool { return a.destroyed }

// Speed of the user in m/s.
func (a *Agent) Speed() float64 {
	return lerp(a.opts.MinUserSpeed, a.opts.MaxUserSpeed, a.speedFactor)
}

// Factors returns the normalized speed, min comfort and max comfort values
// drawn at start.
func (a *Agent) Factors() (speed, minComfort, maxComfort float64) {
	return a.speedFactor, a.minComfortFactor, a.maxComfortFactor
}

// setFactors overrides the normalized random factors. Values are clamped
// to [0,1].
func (a *Agent) setFactors(speed, minComfort, maxComfort float64) {
	a.speedFactor = clamp01(speed)
	a.minComfortFactor = clamp01(minComfort)
	a.maxComfortFactor = clamp01(maxComfort)
}

// destroy removes the user. The seat is released before the owner is told,
// and a second call does nothing.
func (a *Agent) destroy() {
	if a.destroyed {
		return
	}
	a.destroyed = true

	if a.role == Student {
		a.owner.UnoccupySeat(a.seat)
	}

	a.route = nil
	a.nextVertex = nil
	a.log.Info("user left the room", "position", a.position)
	a.owner.AgentDestroyed(a)
}

func (a *Agent) randomVertex() *Vertex {
	return pick(a.rng, a.owner.Graph().Vertices())
}

func (a *Agent) randomDoor() *Vertex {
	return pick(a.rng, a.owner.Graph().Doors())
}

func pick(rng *rand.Rand, vertices []*Vertex) *Vertex {
	if len(vertices) == 0 {
		return nil
	}
	return vertices[rng.IntN(len(vertices))]
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*clamp01(t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
