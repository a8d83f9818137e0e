package v1

import (
	"math"
	"sort"
	"time"

	"github.com/dinorampage/combat/pkg/core"
)

// SessionData contains all the data needed to build an export
type SessionData struct {
	Session *core.Session
	Summary *core.SessionSummary // nil while the session is running
	Events  []core.Event         // in emission order
}

// Build creates an Export from the session data
func Build(data *SessionData) Export {
	export := Export{
		FormatVersion: FormatVersion,
		SessionName:   data.Session.Name,
		Tags:          data.Session.Tag,
		Seed:          data.Session.Seed,
		TickRate:      data.Session.TickRate,
		TimeAttackMs:  data.Session.TimeAttack.Milliseconds(),
		StartTime:     data.Session.StartTime.UTC().Format(time.RFC3339),
		Agents:        make([]Agent, 0),
		Events:        make([][]any, 0, len(data.Events)),
	}

	agents := make(map[core.EntityID]*Agent)
	touch := func(id core.EntityID, species core.Species, tick uint64) *Agent {
		a, ok := agents[id]
		if !ok {
			a = &Agent{ID: uint32(id), Species: species.String(), FirstTick: tick}
			agents[id] = a
		}
		a.LastTick = tick
		return a
	}

	for _, e := range data.Events {
		tick, _ := e.At()
		export.EndTick = max(export.EndTick, tick)

		switch ev := e.(type) {
		// Format: [tick, "fired", weapon, [ox, oy, oz], [dx, dy, dz], pellets, lockedId]
		case core.FiredEvent:
			export.Events = append(export.Events, []any{
				tick,
				"fired",
				ev.Weapon.String(),
				vec(ev.Origin),
				vec(ev.Direction),
				ev.Pellets,
				uint32(ev.LockedID),
			})

		// Format: [tick, "hit", targetId, part, weapon, damage, [x, y, z], explosion, lethal]
		case core.HitEvent:
			a := touch(ev.TargetID, ev.Species, tick)
			a.Damage += ev.Damage
			export.Events = append(export.Events, []any{
				tick,
				"hit",
				uint32(ev.TargetID),
				ev.Part.String(),
				ev.Weapon.String(),
				round2(ev.Damage),
				vec(ev.Position),
				boolToInt(ev.Explosion),
				boolToInt(ev.Lethal),
			})

		// Format: [tick, "killed", targetId, [part, weapon], score, coins, streak, multiplier]
		case core.KillEvent:
			a := touch(ev.TargetID, ev.Species, tick)
			a.Killed = 1
			a.KillTick = tick
			export.Events = append(export.Events, []any{
				tick,
				"killed",
				uint32(ev.TargetID),
				[]string{ev.Part.String(), ev.Weapon.String()},
				ev.Score,
				ev.Coins,
				ev.Streak,
				round2(ev.Multiplier),
			})

		// Format: [tick, "explosion", [x, y, z], radius, damage, affected]
		case core.ExplosionEvent:
			export.Events = append(export.Events, []any{
				tick,
				"explosion",
				vec(ev.Position),
				round2(ev.Radius),
				round2(ev.Damage),
				ev.Affected,
			})

		// Format: [tick, "attack", attackerId, damage, vehicleHealth]
		case core.AttackEvent:
			touch(ev.AttackerID, ev.Species, tick)
			export.Events = append(export.Events, []any{
				tick,
				"attack",
				uint32(ev.AttackerID),
				round2(ev.Damage),
				round2(ev.VehicleHealth),
			})

		// Format: [tick, "weapon", from, to]
		case core.WeaponSwitchedEvent:
			export.Events = append(export.Events, []any{
				tick,
				"weapon",
				ev.From.String(),
				ev.To.String(),
			})

		// Format: [tick, "purchase", upgrade, level, cost, coinsLeft]
		case core.PurchaseEvent:
			export.Events = append(export.Events, []any{
				tick,
				"purchase",
				ev.Upgrade,
				ev.Level,
				ev.Cost,
				ev.CoinsLeft,
			})
		}
	}

	for _, a := range agents {
		a.Damage = round2(a.Damage)
		export.Agents = append(export.Agents, *a)
	}
	sort.Slice(export.Agents, func(i, j int) bool {
		return export.Agents[i].ID < export.Agents[j].ID
	})

	if data.Summary != nil {
		export.Summary = buildSummary(data.Summary)
		export.EndTick = max(export.EndTick, data.Summary.Ticks)
	}

	return export
}

func buildSummary(sum *core.SessionSummary) *Summary {
	bySpecies := make(map[string]int, len(sum.KillsBySpecies))
	for s, n := range sum.KillsBySpecies {
		bySpecies[s.String()] = n
	}
	return &Summary{
		Ticks:          sum.Ticks,
		SimTimeMs:      sum.SimTime.Milliseconds(),
		Score:          sum.Score,
		Coins:          sum.Coins,
		Kills:          sum.Kills,
		MaxCombo:       sum.MaxCombo,
		Shots:          sum.Shots,
		VehicleHealth:  round2(sum.VehicleHealth),
		Rank:           sum.Rank,
		KillsBySpecies: bySpecies,
	}
}

// vec rounds a position to centimetres.
func vec(v core.Vec3) []float64 {
	return []float64{round2(v.X), round2(v.Y), round2(v.Z)}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
