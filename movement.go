package userlogic

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// wander walks to random vertices of the room. When a route runs out the
// next one is requested right away so no part of the tick is lost.
func (a *Agent) wander(budget float64) {
	if a.route == nil && !a.setTarget(a.randomVertex()) {
		return
	}
	if a.nextVertex == nil && !a.pull() && !a.retarget() {
		return
	}

	retargets := 0
	a.follow(budget, func() bool {
		retargets++
		if retargets > a.opts.MaxRetargetsPerTick {
			return false
		}
		return a.retarget()
	})
}

// leave walks to a door. The user is destroyed when the door is reached or
// no door can be reached.
func (a *Agent) leave(budget float64) {
	if a.route == nil && !a.setTarget(a.randomDoor()) {
		a.destroy()
		return
	}
	if a.nextVertex == nil && !a.pull() {
		a.destroy()
		return
	}

	a.follow(budget, func() bool {
		a.destroy()
		return false
	})
}

// walkToSeat walks to the seat of the user. If the seat is reached or can
// not be reached the user is put on it.
func (a *Agent) walkToSeat(budget float64) {
	if a.route == nil && !a.setTarget(a.seat) {
		a.seatReached()
		return
	}
	if a.nextVertex == nil && !a.pull() {
		a.seatReached()
		return
	}

	a.follow(budget, func() bool {
		a.seatReached()
		return false
	})
}

func (a *Agent) seatReached() {
	a.position = a.seat.Position
	a.lastVertex = a.seat
	a.nextVertex = nil
	a.route = nil
}

// retarget starts a route to a random vertex and pulls its first vertex.
func (a *Agent) retarget() bool {
	if a.setTarget(a.randomVertex()) && a.pull() {
		return true
	}
	a.nextVertex = nil
	return false
}

// pull takes the next vertex from the route.
func (a *Agent) pull() bool {
	if a.route == nil {
		a.nextVertex = nil
		return false
	}
	v, ok := a.route.Next()
	if !ok {
		a.nextVertex = nil
		return false
	}
	a.nextVertex = v
	return true
}

// follow moves the user along the route until budget is used up. Every
// vertex that is reached costs stepCost of the budget. When the route is
// exhausted the position is committed and exhausted decides whether the
// walk goes on; it returns true only if it set a new next vertex.
func (a *Agent) follow(budget float64, exhausted func() bool) {
	pos := a.position

	for budget > 0 && a.nextVertex != nil {
		target := a.nextVertex.Position
		cost := a.stepCost(pos, target)

		if cost > budget {
			pos = towards(pos, target, budget)
			budget = 0
			break
		}

		pos = target
		a.lastVertex = a.nextVertex
		budget -= cost

		if !a.pull() {
			a.position = pos
			if !exhausted() {
				return
			}
			pos = a.position
		}
	}

	a.position = pos
}

// stepCost is what reaching to costs from the travel budget. Unless
// LinearStepBudget is set this is the squared distance, which makes edges
// longer than 1 m slower to walk than the user speed says.
func (a *Agent) stepCost(from, to orb.Point) float64 {
	if a.opts.LinearStepBudget {
		return planar.Distance(from, to)
	}
	return planar.DistanceSquared(from, to)
}

// towards returns the point dist away from from in the direction of to.
func towards(from, to orb.Point, dist float64) orb.Point {
	dx, dy := to[0]-from[0], to[1]-from[1]
	l := math.Hypot(dx, dy)
	if l == 0 {
		return from
	}
	return orb.Point{from[0] + dx/l*dist, from[1] + dy/l*dist}
}
