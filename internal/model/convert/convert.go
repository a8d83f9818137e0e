// Package convert maps core session and combat types onto GORM models
package convert

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dinorampage/combat/internal/geo"
	"github.com/dinorampage/combat/internal/model"
	"github.com/dinorampage/combat/pkg/core"
	"gorm.io/datatypes"
)

// eventTime anchors a simulation timestamp to the session's wall clock start.
func eventTime(start time.Time, e core.Event) (uint64, time.Time) {
	tick, simTime := e.At()
	return tick, start.Add(simTime)
}

func vecToJSON(v core.Vec3) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}

// SessionToModel converts a core.Session to a GORM Session
func SessionToModel(s *core.Session) model.Session {
	m := model.Session{
		Name:         s.Name,
		Seed:         s.Seed,
		TickRate:     s.TickRate,
		AgentCount:   s.AgentCount,
		TimeAttackMs: s.TimeAttack.Milliseconds(),
		StartTime:    s.StartTime,
		Tag:          s.Tag,
	}
	m.ID = s.ID
	return m
}

// ApplySummary fills the summary columns of m from the final tally.
func ApplySummary(m *model.Session, sum *core.SessionSummary, end time.Time) {
	m.EndTime = sql.NullTime{Time: end, Valid: !end.IsZero()}
	m.Ticks = sum.Ticks
	m.SimTimeMs = sum.SimTime.Milliseconds()
	m.Score = sum.Score
	m.Coins = sum.Coins
	m.Kills = sum.Kills
	m.MaxCombo = sum.MaxCombo
	m.Shots = sum.Shots
	m.VehicleHealth = float32(sum.VehicleHealth)
	m.Rank = sum.Rank
	m.KillsBySpecies = KillsBySpeciesJSON(sum.KillsBySpecies)
}

// KillsBySpeciesJSON encodes kill counts keyed by species name.
func KillsBySpeciesJSON(kills map[core.Species]int) datatypes.JSON {
	named := make(map[string]int, len(kills))
	for s, n := range kills {
		named[s.String()] = n
	}
	data, err := json.Marshal(named)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}

// FiredEventToModel converts a core.FiredEvent to a GORM FiredEvent
func FiredEventToModel(sessionID uint, start time.Time, e core.FiredEvent) model.FiredEvent {
	tick, at := eventTime(start, e)
	origin, elev := geo.PointFromVec3(e.Origin)
	m := model.FiredEvent{
		Time:            at,
		SessionID:       sessionID,
		Tick:            tick,
		Weapon:          e.Weapon.String(),
		Pellets:         uint8(e.Pellets),
		Origin:          origin,
		OriginElevation: float32(elev),
		Direction:       vecToJSON(e.Direction),
	}
	if e.LockedID != 0 {
		m.LockedID = sql.NullInt32{Int32: int32(e.LockedID), Valid: true}
	}
	return m
}

// HitEventToModel converts a core.HitEvent to a GORM HitEvent
func HitEventToModel(sessionID uint, start time.Time, e core.HitEvent) model.HitEvent {
	tick, at := eventTime(start, e)
	pos, elev := geo.PointFromVec3(e.Position)
	return model.HitEvent{
		Time:      at,
		SessionID: sessionID,
		Tick:      tick,
		TargetID:  uint32(e.TargetID),
		Species:   e.Species.String(),
		Part:      e.Part.String(),
		Weapon:    e.Weapon.String(),
		Damage:    float32(e.Damage),
		Explosion: e.Explosion,
		Lethal:    e.Lethal,
		Position:  pos,
		Elevation: float32(elev),
	}
}

// KillEventToModel converts a core.KillEvent to a GORM KillEvent
func KillEventToModel(sessionID uint, start time.Time, e core.KillEvent) model.KillEvent {
	tick, at := eventTime(start, e)
	pos, elev := geo.PointFromVec3(e.Position)
	return model.KillEvent{
		Time:       at,
		SessionID:  sessionID,
		Tick:       tick,
		TargetID:   uint32(e.TargetID),
		Species:    e.Species.String(),
		Part:       e.Part.String(),
		Weapon:     e.Weapon.String(),
		Score:      e.Score,
		Coins:      e.Coins,
		Streak:     e.Streak,
		Multiplier: float32(e.Multiplier),
		Position:   pos,
		Elevation:  float32(elev),
	}
}

// ExplosionEventToModel converts a core.ExplosionEvent to a GORM ExplosionEvent
func ExplosionEventToModel(sessionID uint, start time.Time, e core.ExplosionEvent) model.ExplosionEvent {
	tick, at := eventTime(start, e)
	pos, elev := geo.PointFromVec3(e.Position)
	return model.ExplosionEvent{
		Time:         at,
		SessionID:    sessionID,
		Tick:         tick,
		ProjectileID: uint32(e.ProjectileID),
		Weapon:       e.Weapon.String(),
		Radius:       float32(e.Radius),
		Damage:       float32(e.Damage),
		Affected:     e.Affected,
		Position:     pos,
		Elevation:    float32(elev),
	}
}

// AttackEventToModel converts a core.AttackEvent to a GORM AttackEvent
func AttackEventToModel(sessionID uint, start time.Time, e core.AttackEvent) model.AttackEvent {
	tick, at := eventTime(start, e)
	return model.AttackEvent{
		Time:          at,
		SessionID:     sessionID,
		Tick:          tick,
		AttackerID:    uint32(e.AttackerID),
		Species:       e.Species.String(),
		Damage:        float32(e.Damage),
		VehicleHealth: float32(e.VehicleHealth),
	}
}

// WeaponEventToModel converts a core.WeaponSwitchedEvent to a GORM WeaponEvent
func WeaponEventToModel(sessionID uint, start time.Time, e core.WeaponSwitchedEvent) model.WeaponEvent {
	tick, at := eventTime(start, e)
	return model.WeaponEvent{
		Time:      at,
		SessionID: sessionID,
		Tick:      tick,
		From:      e.From.String(),
		To:        e.To.String(),
	}
}

// PurchaseEventToModel converts a core.PurchaseEvent to a GORM PurchaseEvent
func PurchaseEventToModel(sessionID uint, start time.Time, e core.PurchaseEvent) model.PurchaseEvent {
	tick, at := eventTime(start, e)
	return model.PurchaseEvent{
		Time:      at,
		SessionID: sessionID,
		Tick:      tick,
		Upgrade:   e.Upgrade,
		Level:     e.Level,
		Cost:      e.Cost,
		CoinsLeft: e.CoinsLeft,
	}
}
