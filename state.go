package userlogic

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotStarted is returned when an agent is updated before Start.
var ErrNotStarted = errors.New("user was not started")

// Update runs one simulation tick for the user: it samples the temperature,
// decides what to do given the lecture signal and walks for dt.
func (a *Agent) Update(lecture LectureState, dt time.Duration) error {
	if !a.initialized {
		return ErrNotInitialized
	}
	if !a.started {
		return ErrNotStarted
	}
	if a.destroyed {
		return nil
	}

	a.updateTemperatureFeeling(a.sampleTemperature())

	budget := a.Speed() * dt.Seconds()

	switch a.state {
	case Unknown:
		// Every user starts by walking around, whatever the signal says.
		a.log.Debug("first decision", "wanted", a.decide(lecture), "lecture", lecture)
		a.setState(Moving)

	case Moving, Lecturing:
		switch next := a.decide(lecture); next {
		case Moving, Lecturing:
			a.setState(next)
			a.wander(budget)
		case LeavingRoom:
			a.leaveRoom()
		case GoToSeat:
			a.goToSeat()
		default:
			a.setState(next)
		}

	case LeavingRoom:
		a.leave(budget)

	case GoToSeat:
		a.walkToSeat(budget)
	}

	return nil
}

// decide picks the wanted state for the lecture signal. The order of the
// checks is the priority of the wishes.
func (a *Agent) decide(lecture LectureState) UserState {
	switch {
	case lecture == NoLecture:
		return LeavingRoom
	case a.comfort.Freezing:
		return TurningUpHeater
	case a.comfort.Sweating:
		return TurningDownHeater
	case lecture == Lecture:
		if a.role == Lecturer {
			return Lecturing
		}
		return GoToSeat
	case lecture == Pause:
		if a.role == Lecturer {
			return GoToSeat
		}
		return Moving
	}
	return a.state
}

// LeaveRoom sends the user to a random door. Nothing happens if the user is
// already leaving.
func (a *Agent) LeaveRoom() error {
	if !a.initialized {
		return ErrNotInitialized
	}
	a.leaveRoom()
	return nil
}

// GoToSeat sends the user to their seat. Nothing happens if the user is
// already on the way.
func (a *Agent) GoToSeat() error {
	if !a.initialized {
		return ErrNotInitialized
	}
	a.goToSeat()
	return nil
}

func (a *Agent) leaveRoom() {
	if a.state == LeavingRoom || a.destroyed {
		return
	}
	a.owner.CancelGoToTabletRequest()
	a.setTarget(a.randomDoor())
	a.setState(LeavingRoom)
}

func (a *Agent) goToSeat() {
	if a.state == GoToSeat || a.destroyed {
		return
	}
	a.setTarget(a.seat)
	a.setState(GoToSeat)
}

func (a *Agent) setState(s UserState) {
	if a.state == s {
		return
	}
	a.log.Debug("state changed", "from", a.state, "to", s)
	a.state = s
}

// setTarget replaces the current route by one to target. The route starts
// at the vertex the user is walking to, or the last one reached.
func (a *Agent) setTarget(target *Vertex) bool {
	from := a.nextVertex
	if from == nil {
		from = a.lastVertex
	}
	if from == nil || target == nil {
		a.route = nil
		return false
	}

	route, ok := a.owner.Graph().FindRoute(from, target)
	if !ok {
		a.log.Debug("no route", "from", from.ID, "to", target.ID)
		a.route = nil
		return false
	}
	a.route = route
	return true
}

// Caption is a one line status of the user, e.g.
// "Moving [Sweating] (24.3°C)".
func (a *Agent) Caption() string {
	var b strings.Builder
	b.WriteString(a.state.String())
	b.WriteByte(' ')
	if a.comfort.Sweating {
		b.WriteString("[Sweating]")
	}
	if a.comfort.Freezing {
		b.WriteString("[Freezing]")
	}
	if a.temperature != nil {
		fmt.Fprintf(&b, " (%s)", a.temperature)
	} else {
		b.WriteString(" (No Data)")
	}
	return b.String()
}
