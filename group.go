package userlogic

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skovsen/D2D_UserLogic/internal/logging"
)

// Room is the graph a group lives in.
type Room interface {
	WaypointGraph
	Seats() []*Vertex
	Tablets() []*Vertex
}

// AttachableField is a thermal field users can be taken in and out of.
type AttachableField interface {
	ThermalField
	Attach(obj ThermalObject) error
	Detach(obj ThermalObject)
}

// Group owns the users of a room: it hands out seats, keeps the pending
// tablet request, ticks every user and tells observers about users leaving.
type Group struct {
	room     Room
	opts     Options
	log      *slog.Logger
	rng      *rand.Rand
	field    AttachableField
	schedule LectureSchedule
	metrics  *Metrics

	clock     time.Duration
	users     []*Agent
	left      []*Agent
	observers []Observer

	mu            sync.Mutex
	occupied      map[*Vertex]*Agent
	tabletRequest bool
}

var _ Owner = (*Group)(nil)

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithOptions sets the user options.
func WithOptions(o Options) GroupOption {
	return func(g *Group) { g.opts = o }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) GroupOption {
	return func(g *Group) { g.log = l }
}

// WithSeed seeds the random source used for user parameters and targets.
func WithSeed(seed uint64) GroupOption {
	return func(g *Group) { g.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithField attaches spawned users to a thermal field.
func WithField(f AttachableField) GroupOption {
	return func(g *Group) { g.field = f }
}

// WithSchedule sets the lecture schedule. The default is DefaultSchedule.
func WithSchedule(s LectureSchedule) GroupOption {
	return func(g *Group) { g.schedule = s }
}

// WithRegisterer registers the group metrics with reg.
func WithRegisterer(reg prometheus.Registerer) GroupOption {
	return func(g *Group) { g.metrics = NewMetrics(reg) }
}

// NewGroup creates a group for room.
func NewGroup(room Room, opts ...GroupOption) (*Group, error) {
	g := &Group{
		room:     room,
		opts:     DefaultOptions(),
		log:      logging.NewNop(),
		schedule: DefaultSchedule(),
		occupied: make(map[*Vertex]*Agent),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if g.metrics == nil {
		g.metrics = NewMetrics(nil)
	}
	if err := g.opts.Validate(); err != nil {
		return nil, err
	}
	if len(room.Vertices()) == 0 || len(room.Doors()) == 0 {
		return nil, ErrEmptyGraph
	}
	return g, nil
}

// Graph is the waypoint graph of the room.
func (g *Group) Graph() WaypointGraph { return g.room }

// Options shared by the users.
func (g *Group) Options() Options { return g.opts }

// Logger of the group.
func (g *Group) Logger() *slog.Logger { return g.log }

// Clock is the simulated time since the group was created.
func (g *Group) Clock() time.Duration { return g.clock }

// Users returns the users still in the room.
func (g *Group) Users() []*Agent { return slices.Clone(g.users) }

// Subscribe adds an observer for users leaving the room.
func (g *Group) Subscribe(o Observer) {
	g.observers = append(g.observers, o)
}

// Spawn brings a new user into the room. Students get a random free seat,
// lecturers the first tablet (or the first seat if the room has no tablet).
func (g *Group) Spawn(role Role) (*Agent, error) {
	seat, err := g.seatFor(role)
	if err != nil {
		return nil, err
	}

	a := NewAgent()
	if err := a.Initialize(g, role, seat); err != nil {
		return nil, err
	}
	if role == Student {
		g.OccupySeat(seat, a)
	}
	if err := a.Start(g.rng); err != nil {
		g.UnoccupySeat(seat)
		return nil, err
	}
	if g.field != nil {
		if err := g.field.Attach(a); err != nil {
			g.UnoccupySeat(seat)
			return nil, err
		}
	}

	g.users = append(g.users, a)
	g.metrics.RecordSpawn(role)
	g.log.Info("user entered the room", "user", a.UUID, "role", role, "seat", seat.ID, "door", a.LastVertex().ID)
	return a, nil
}

func (g *Group) seatFor(role Role) (*Vertex, error) {
	if role == Lecturer {
		if tablets := g.room.Tablets(); len(tablets) > 0 {
			return tablets[0], nil
		}
		if seats := g.room.Seats(); len(seats) > 0 {
			return seats[0], nil
		}
		return nil, ErrNoSeat
	}

	g.mu.Lock()
	var free []*Vertex
	for _, s := range g.room.Seats() {
		if _, taken := g.occupied[s]; !taken {
			free = append(free, s)
		}
	}
	g.mu.Unlock()

	if len(free) == 0 {
		return nil, fmt.Errorf("spawn %s: %w: all %d seats are taken", role, ErrNoSeat, len(g.room.Seats()))
	}
	return free[g.rng.IntN(len(free))], nil
}

// Tick advances the simulation by dt. With no lecture going on, users that
// are waiting or sitting are sent out of the room before they update.
func (g *Group) Tick(dt time.Duration) error {
	lecture := g.schedule.At(g.clock)

	users := slices.Clone(g.users)
	if lecture == NoLecture {
		for _, a := range users {
			if !decidesEveryTick(a.State()) && a.State() != LeavingRoom {
				a.leaveRoom()
			}
		}
	}

	for _, a := range users {
		if err := a.Update(lecture, dt); err != nil {
			return fmt.Errorf("tick user %s: %w", a.UUID, err)
		}
	}

	g.clock += dt
	g.removeLeft()
	g.metrics.Observe(g.users, g.clock.Seconds())
	return nil
}

// decidesEveryTick reports whether Update runs the priority ladder in s.
func decidesEveryTick(s UserState) bool {
	return s == Unknown || s == Moving || s == Lecturing
}

// AgentDestroyed is called by a user that left the room. Users that are not
// in the room any more are ignored.
func (g *Group) AgentDestroyed(a *Agent) {
	if !slices.Contains(g.users, a) || slices.Contains(g.left, a) {
		return
	}
	g.left = append(g.left, a)

	if g.field != nil {
		g.field.Detach(a)
	}
	g.metrics.RecordDestroyed(a.Role())
	for _, o := range g.observers {
		o.OnDestroyed(a)
	}
}

func (g *Group) removeLeft() {
	if len(g.left) == 0 {
		return
	}
	g.users = slices.DeleteFunc(g.users, func(a *Agent) bool {
		return slices.Contains(g.left, a)
	})
	g.left = g.left[:0]
}

// OccupySeat marks seat as taken by a. It returns false if somebody else
// sits there.
func (g *Group) OccupySeat(seat *Vertex, a *Agent) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if other, taken := g.occupied[seat]; taken && other != a {
		return false
	}
	g.occupied[seat] = a
	return true
}

// UnoccupySeat frees seat. Freeing a free seat does nothing.
func (g *Group) UnoccupySeat(seat *Vertex) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.occupied, seat)
}

// Occupant returns the user sitting on seat.
func (g *Group) Occupant(seat *Vertex) (*Agent, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.occupied[seat]
	return a, ok
}

// RequestTablet files a request for a user to go to the tablet. It returns
// false if a request is already pending.
func (g *Group) RequestTablet() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tabletRequest {
		return false
	}
	g.tabletRequest = true
	return true
}

// TabletRequested reports whether a tablet request is pending.
func (g *Group) TabletRequested() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tabletRequest
}

// CancelGoToTabletRequest drops the pending tablet request, if any.
func (g *Group) CancelGoToTabletRequest() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tabletRequest = false
}
