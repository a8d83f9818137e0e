package sim

import (
	"time"

	"github.com/dinorampage/combat/internal/weapon"
	"github.com/dinorampage/combat/pkg/core"
)

// AgentView is the presentation view of one agent.
type AgentView struct {
	ID           core.EntityID
	Species      core.Species
	State        core.AgentState
	Health       float64
	MaxHealth    float64
	Position     core.Vec3
	Yaw          float64
	Reacting     bool
	FallProgress float64
}

// VehicleView is the presentation view of the vehicle.
type VehicleView struct {
	Position  core.Vec3
	Yaw       float64
	TurretYaw float64
	Speed     float64
	Health    float64
	MaxHealth float64
	Destroyed bool
}

// ComboView is the HUD combo readout.
type ComboView struct {
	Streak     int
	Max        int
	Display    string
	Multiplier float64
}

// TimeAttackView is the HUD time attack readout.
type TimeAttackView struct {
	Remaining time.Duration
	Kills     int
	MaxCombo  int
	Finished  bool
	Rank      string
}

// Snapshot is everything the presentation layer needs after a tick.
type Snapshot struct {
	Tick        uint64
	Time        time.Duration
	Vehicle     VehicleView
	Agents      []AgentView
	Projectiles int
	LockedID    core.EntityID
	Combo       ComboView
	Score       int
	Coins       int
	Kills       int
	Weapon      weapon.Stats
	TimeAttack  *TimeAttackView
	Events      []core.Event
}

// Agent returns the view of an agent by ID.
func (s *Snapshot) Agent(id core.EntityID) (AgentView, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentView{}, false
}

// EventsOf returns the tick's events of one kind in emission order.
func (s *Snapshot) EventsOf(kind core.EventKind) []core.Event {
	var out []core.Event
	for _, e := range s.Events {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// Sink receives the events of every completed tick in emission order.
type Sink interface {
	HandleEvents(events []core.Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(events []core.Event)

func (f SinkFunc) HandleEvents(events []core.Event) { f(events) }
