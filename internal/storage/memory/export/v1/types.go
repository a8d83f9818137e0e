// Package v1 contains the v1 export format for recorded combat sessions.
// Events are compact positional arrays so long sessions stay small on disk.
package v1

// FormatVersion is written into every export
const FormatVersion = 1

// Export is the root JSON structure for v1 format
type Export struct {
	FormatVersion int      `json:"formatVersion"`
	SessionName   string   `json:"sessionName"`
	Tags          string   `json:"tags"`
	Seed          int64    `json:"seed"`
	TickRate      int      `json:"tickRate"`
	TimeAttackMs  int64    `json:"timeAttackMs"`
	StartTime     string   `json:"startTime"`
	EndTick       uint64   `json:"endTick"`
	Summary       *Summary `json:"summary,omitempty"`
	Agents        []Agent  `json:"agents"`
	Events        [][]any  `json:"events"`
}

// Summary is the final tally, present once the session has ended
type Summary struct {
	Ticks          uint64         `json:"ticks"`
	SimTimeMs      int64          `json:"simTimeMs"`
	Score          int            `json:"score"`
	Coins          int            `json:"coins"`
	Kills          int            `json:"kills"`
	MaxCombo       int            `json:"maxCombo"`
	Shots          int            `json:"shots"`
	VehicleHealth  float64        `json:"vehicleHealth"`
	Rank           string         `json:"rank"`
	KillsBySpecies map[string]int `json:"killsBySpecies"`
}

// Agent is every creature that appears in the recorded events
type Agent struct {
	ID        uint32  `json:"id"`
	Species   string  `json:"species"`
	FirstTick uint64  `json:"firstTick"`
	LastTick  uint64  `json:"lastTick"`
	Damage    float64 `json:"damageTaken"`
	Killed    int     `json:"killed"`
	KillTick  uint64  `json:"killTick,omitempty"`
}
