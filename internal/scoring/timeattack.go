package scoring

import (
	"time"

	"github.com/dinorampage/combat/internal/util"
)

// TimeAttack is a countdown mode ranked on kills and best combo.
type TimeAttack struct {
	active   bool
	timer    util.Timer
	kills    int
	maxCombo int
}

func NewTimeAttack(d time.Duration) *TimeAttack {
	return &TimeAttack{timer: util.NewTimer(d)}
}

// Start resets the countdown and tallies.
func (m *TimeAttack) Start() {
	m.active = true
	m.timer.Reset()
	m.kills = 0
	m.maxCombo = 0
}

func (m *TimeAttack) Stop() { m.active = false }

func (m *TimeAttack) Active() bool { return m.active }

// Update tracks the best streak seen and advances the countdown. Streaks
// reached after the countdown has finished do not count toward the rank.
func (m *TimeAttack) Update(dt time.Duration, streak int) {
	if !m.active || m.timer.Finished() {
		return
	}
	if streak > m.maxCombo {
		m.maxCombo = streak
	}
	m.timer.Tick(dt)
}

// RecordKill counts a kill while the countdown runs.
func (m *TimeAttack) RecordKill() {
	if m.active && !m.timer.Finished() {
		m.kills++
	}
}

// Finished reports whether an active run has run out of time.
func (m *TimeAttack) Finished() bool {
	return m.active && m.timer.Finished()
}

func (m *TimeAttack) Remaining() time.Duration { return m.timer.Remaining() }

func (m *TimeAttack) Kills() int { return m.kills }

func (m *TimeAttack) MaxCombo() int { return m.maxCombo }

// RankScore is kills × (1 + 0.1 × maxCombo).
func (m *TimeAttack) RankScore() float64 {
	return float64(m.kills) * (1 + 0.1*float64(m.maxCombo))
}

// Rank maps RankScore to S, A, B or C.
func (m *TimeAttack) Rank() string {
	switch s := m.RankScore(); {
	case s >= 50:
		return "S"
	case s >= 35:
		return "A"
	case s >= 20:
		return "B"
	default:
		return "C"
	}
}
