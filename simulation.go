package userlogic

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Simulator drives a group and its thermal field tick by tick.
type Simulator struct {
	Group *Group
	Field *GridField

	// Tick is the simulated duration of one step.
	Tick time.Duration

	// Limiter paces Run in wall clock time. Nil runs as fast as possible.
	Limiter *rate.Limiter
}

// Realtime returns a limiter that lets Run advance speedup simulated seconds
// per wall clock second.
func Realtime(tick time.Duration, speedup float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(speedup/tick.Seconds()), 1)
}

// Populate spawns students and lecturers.
func (s *Simulator) Populate(students, lecturers int) error {
	for range lecturers {
		if _, err := s.Group.Spawn(Lecturer); err != nil {
			return fmt.Errorf("populate: %w", err)
		}
	}
	for range students {
		if _, err := s.Group.Spawn(Student); err != nil {
			return fmt.Errorf("populate: %w", err)
		}
	}
	return nil
}

// Step runs one thermal update and one user update.
func (s *Simulator) Step() error {
	if s.Field != nil {
		s.Field.Step(s.Tick)
	}
	return s.Group.Tick(s.Tick)
}

// Run steps until ticks steps are done, the room is empty or ctx is done.
// It returns the number of steps taken.
func (s *Simulator) Run(ctx context.Context, ticks int) (int, error) {
	if s.Tick <= 0 {
		return 0, fmt.Errorf("%w: tick must be positive, got %s", ErrInvalidOptions, s.Tick)
	}

	for i := range ticks {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if len(s.Group.Users()) == 0 {
			return i, nil
		}
		if s.Limiter != nil {
			if err := s.Limiter.Wait(ctx); err != nil {
				return i, err
			}
		}
		if err := s.Step(); err != nil {
			return i, err
		}
	}
	return ticks, nil
}
