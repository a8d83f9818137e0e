// Package scoring keeps the score and currency ledger and the time attack mode.
package scoring

import (
	"maps"

	"github.com/dinorampage/combat/internal/util"
	"github.com/dinorampage/combat/pkg/core"
)

// Reward is the score and coin delta of one kill.
type Reward struct {
	Score int
	Coins int
}

// KillReward computes round(baseScore × part × combo) and the flat coin reward.
func KillReward(baseScore, coins int, part core.BodyPart, comboMultiplier float64) Reward {
	return Reward{
		Score: util.RoundHalfAway(float64(baseScore) * part.Multiplier() * comboMultiplier),
		Coins: coins,
	}
}

// Ledger accumulates score, coins and kill counts for a session.
type Ledger struct {
	score     int
	coins     int
	kills     int
	bySpecies map[core.Species]int
}

func NewLedger() *Ledger {
	return &Ledger{bySpecies: make(map[core.Species]int)}
}

// RecordKill credits a kill and returns the reward applied.
func (l *Ledger) RecordKill(s core.Species, baseScore, coins int, part core.BodyPart, comboMultiplier float64) Reward {
	r := KillReward(baseScore, coins, part, comboMultiplier)
	l.score += r.Score
	l.coins += r.Coins
	l.kills++
	l.bySpecies[s]++
	return r
}

// Spend deducts amount if the balance covers it.
func (l *Ledger) Spend(amount int) bool {
	if amount < 0 || amount > l.coins {
		return false
	}
	l.coins -= amount
	return true
}

// Grant adds coins outside of kills.
func (l *Ledger) Grant(amount int) {
	if amount > 0 {
		l.coins += amount
	}
}

func (l *Ledger) Score() int { return l.score }

func (l *Ledger) Coins() int { return l.coins }

func (l *Ledger) Kills() int { return l.kills }

// KillsBySpecies returns a copy of the per-species kill counts.
func (l *Ledger) KillsBySpecies() map[core.Species]int {
	return maps.Clone(l.bySpecies)
}
