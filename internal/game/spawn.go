package game

import (
	"math/rand"
	"time"
)

// Spawn pacing.
const (
	RerollInterval    = 5 * time.Second
	PopulationMin     = 10
	PopulationSpan    = 6 // PopulationMin..PopulationMin+PopulationSpan-1
	InitialPopulation = 12
	SpawnChance       = 0.05
)

// Scheduler keeps a wall-clock driven target population and decides, once per
// frame, whether a new sphere should enter.
type Scheduler struct {
	now        func() time.Time
	target     int
	lastReroll time.Time
}

// NewScheduler creates a scheduler reading time from clock (time.Now when nil).
// The first call to Tick re-rolls the target.
func NewScheduler(clock func() time.Time) *Scheduler {
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		now:    clock,
		target: InitialPopulation,
	}
}

// Target returns the current population goal.
func (s *Scheduler) Target() int {
	return s.target
}

// Tick re-rolls the target when RerollInterval has elapsed and reports whether
// a sphere should be spawned given the current count.
func (s *Scheduler) Tick(rng *rand.Rand, count int) bool {
	now := s.now()
	if s.lastReroll.IsZero() || now.Sub(s.lastReroll) > RerollInterval {
		s.target = PopulationMin + rng.Intn(PopulationSpan)
		s.lastReroll = now
	}
	return count < s.target && rng.Float64() < SpawnChance
}
