// pkg/core/events.go
package core

import "time"

// EventKind names an event type. Values double as recorder command suffixes.
type EventKind string

const (
	KindFired          EventKind = "FIRED"
	KindHit            EventKind = "HIT"
	KindKill           EventKind = "KILL"
	KindExplosion      EventKind = "EXPLOSION"
	KindAttack         EventKind = "ATTACK"
	KindWeaponSwitched EventKind = "WEAPON"
	KindPurchase       EventKind = "PURCHASE"
)

// Event is implemented by every combat event produced during a tick.
type Event interface {
	Kind() EventKind
	At() (tick uint64, simTime time.Duration)
}

// Stamp carries the tick number and simulation time an event was emitted at.
type Stamp struct {
	Tick uint64
	Time time.Duration
}

func (s Stamp) At() (uint64, time.Duration) { return s.Tick, s.Time }

// FiredEvent is emitted once per accepted shot, regardless of pellet count.
type FiredEvent struct {
	Stamp
	Weapon    WeaponType
	Origin    Vec3
	Direction Vec3
	Pellets   int
	LockedID  EntityID // 0 for free aim
}

func (FiredEvent) Kind() EventKind { return KindFired }

// HitEvent represents damage applied to an agent, direct or from an explosion.
type HitEvent struct {
	Stamp
	TargetID  EntityID
	Species   Species
	Part      BodyPart
	Weapon    WeaponType
	Damage    float64
	Position  Vec3
	Explosion bool
	Lethal    bool
}

func (HitEvent) Kind() EventKind { return KindHit }

// KillEvent is emitted when a hit takes an agent to zero health.
type KillEvent struct {
	Stamp
	TargetID   EntityID
	Species    Species
	Part       BodyPart
	Weapon     WeaponType
	Position   Vec3
	Score      int
	Coins      int
	Streak     int
	Multiplier float64
}

func (KillEvent) Kind() EventKind { return KindKill }

// ExplosionEvent is emitted when an explosive projectile's fuse runs out.
type ExplosionEvent struct {
	Stamp
	ProjectileID EntityID
	Weapon       WeaponType
	Position     Vec3
	Radius       float64
	Damage       float64
	Affected     int
}

func (ExplosionEvent) Kind() EventKind { return KindExplosion }

// AttackEvent is emitted when an agent lands a melee attack on the vehicle.
type AttackEvent struct {
	Stamp
	AttackerID    EntityID
	Species       Species
	Damage        float64
	VehicleHealth float64
}

func (AttackEvent) Kind() EventKind { return KindAttack }

// WeaponSwitchedEvent represents a change of the active weapon.
type WeaponSwitchedEvent struct {
	Stamp
	From WeaponType
	To   WeaponType
}

func (WeaponSwitchedEvent) Kind() EventKind { return KindWeaponSwitched }

// PurchaseEvent represents a successful upgrade purchase.
type PurchaseEvent struct {
	Stamp
	Upgrade   string
	Level     int
	Cost      int
	CoinsLeft int
}

func (PurchaseEvent) Kind() EventKind { return KindPurchase }
