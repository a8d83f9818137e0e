// Package combo tracks consecutive-kill streaks and the score multiplier they grant.
package combo

import (
	"fmt"
	"math"
	"time"

	"github.com/dinorampage/combat/internal/util"
)

const (
	// DecayDuration is how long a streak survives without a new kill.
	DecayDuration = 2 * time.Second
	// MaxMultiplier caps the combo multiplier.
	MaxMultiplier = 5.0
	// DisplayThreshold is the smallest streak shown on the HUD.
	DisplayThreshold = 2
)

// Multiplier returns min(5.0, 1.0 + 0.1*streak).
func Multiplier(streak int) float64 {
	if streak <= 0 {
		return 1
	}
	return math.Min(MaxMultiplier, 1+0.1*float64(streak))
}

// State is the combo economy for one session.
type State struct {
	streak     int
	max        int
	multiplier float64
	timer      util.Timer
}

func New() *State {
	return &State{
		multiplier: 1,
		timer:      util.NewTimer(DecayDuration),
	}
}

// AddKill extends the streak and restarts the decay timer.
func (s *State) AddKill() {
	s.streak++
	s.timer.Reset()
	if s.streak > s.max {
		s.max = s.streak
	}
	s.multiplier = Multiplier(s.streak)
}

// Update advances the decay timer and drops the streak once it lapses.
func (s *State) Update(dt time.Duration) {
	s.timer.Tick(dt)
	if s.timer.Finished() && s.streak > 0 {
		s.streak = 0
		s.multiplier = 1
	}
}

func (s *State) Streak() int { return s.streak }

func (s *State) Max() int { return s.max }

func (s *State) Multiplier() float64 { return s.multiplier }

// Display returns the HUD text, blank below DisplayThreshold.
func (s *State) Display() string {
	if s.streak < DisplayThreshold {
		return ""
	}
	return fmt.Sprintf("%dx", s.streak)
}
