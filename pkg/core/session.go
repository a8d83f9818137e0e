// pkg/core/session.go
package core

import "time"

// Session represents one simulated combat run.
type Session struct {
	ID         uint
	Name       string
	Seed       int64
	TickRate   int
	AgentCount int
	TimeAttack time.Duration
	StartTime  time.Time
	Tag        string
}

// SessionSummary is the final tally of a session.
type SessionSummary struct {
	SessionID      uint
	Ticks          uint64
	SimTime        time.Duration
	Score          int
	Coins          int
	Kills          int
	MaxCombo       int
	Shots          int
	VehicleHealth  float64
	Rank           string
	KillsBySpecies map[Species]int
}
