package userlogic

import (
	"fmt"
	"time"
)

// LectureSchedule gives the lecture signal for a simulation time.
type LectureSchedule interface {
	At(elapsed time.Duration) LectureState
}

// FixedLecture is a schedule that never changes.
type FixedLecture LectureState

// At returns the fixed state.
func (f FixedLecture) At(time.Duration) LectureState { return LectureState(f) }

// Phase is one block of the schedule.
type Phase struct {
	State    LectureState  `yaml:"state"`
	Duration time.Duration `yaml:"duration"`
}

// Schedule is a list of phases. After the last phase the room is empty
// unless Loop is set.
type Schedule struct {
	Phases []Phase `yaml:"phases"`
	Loop   bool    `yaml:"loop"`
}

// DefaultSchedule is a double lecture with a break.
func DefaultSchedule() Schedule {
	return Schedule{
		Phases: []Phase{
			{State: Lecture, Duration: 45 * time.Minute},
			{State: Pause, Duration: 15 * time.Minute},
			{State: Lecture, Duration: 45 * time.Minute},
		},
	}
}

// Total is the length of one pass through the phases.
func (s Schedule) Total() time.Duration {
	var total time.Duration
	for _, p := range s.Phases {
		total += p.Duration
	}
	return total
}

// At returns the lecture state at elapsed.
func (s Schedule) At(elapsed time.Duration) LectureState {
	total := s.Total()
	if total <= 0 || elapsed < 0 {
		return NoLecture
	}
	if elapsed >= total {
		if !s.Loop {
			return NoLecture
		}
		elapsed %= total
	}

	for _, p := range s.Phases {
		if elapsed < p.Duration {
			return p.State
		}
		elapsed -= p.Duration
	}
	return NoLecture
}

// Validate rejects negative durations.
func (s Schedule) Validate() error {
	for i, p := range s.Phases {
		if p.Duration < 0 {
			return fmt.Errorf("%w: phase %d has negative duration %s", ErrInvalidOptions, i, p.Duration)
		}
	}
	return nil
}
