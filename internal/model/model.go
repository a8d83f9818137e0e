package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&FiredEvent{},
	&HitEvent{},
	&KillEvent{},
	&ExplosionEvent{},
	&AttackEvent{},
	&WeaponEvent{},
	&PurchaseEvent{},
	&SessionPerformance{},
}

////////////////////////
// SYSTEM MODELS
////////////////////////

// SessionPerformance is a periodic sample of recorder health for a session
type SessionPerformance struct {
	Time                time.Time         `json:"time" gorm:"type:timestamptz;index:idx_sessionperf_time"`
	SessionID           uint              `json:"sessionId" gorm:"index:idx_sessionperf_session_id"`
	Session             Session           `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick                uint64            `json:"tick"`
	AgentsAlive         uint16            `json:"agentsAlive"`
	Projectiles         uint16            `json:"projectiles"`
	WriteQueueLengths   WriteQueueLengths `json:"writeQueueLengths" gorm:"embedded;embeddedPrefix:writequeue_"`
	LastWriteDurationMs float32           `json:"lastWriteDurationMs"`
}

func (*SessionPerformance) TableName() string {
	return "session_performances"
}

// WriteQueueLengths is the number of records waiting for each table
type WriteQueueLengths struct {
	Fired     uint16 `json:"fired"`
	Hits      uint16 `json:"hits"`
	Kills     uint16 `json:"kills"`
	Explosion uint16 `json:"explosions"`
	Attacks   uint16 `json:"attacks"`
	Weapons   uint16 `json:"weapons"`
	Purchases uint16 `json:"purchases"`
}

// Total sums every queue.
func (w WriteQueueLengths) Total() int {
	return int(w.Fired) + int(w.Hits) + int(w.Kills) + int(w.Explosion) +
		int(w.Attacks) + int(w.Weapons) + int(w.Purchases)
}

////////////////////////
// RECORDING MODELS
////////////////////////

// Session is one simulated combat run. Summary columns are filled in when the
// session ends.
type Session struct {
	gorm.Model
	Name         string    `json:"name" gorm:"size:200"`
	Seed         int64     `json:"seed"`
	TickRate     int       `json:"tickRate"`
	AgentCount   int       `json:"agentCount"`
	TimeAttackMs int64     `json:"timeAttackMs"` // 0 when time attack is off
	StartTime    time.Time `json:"startTime" gorm:"type:timestamptz;index:idx_session_start"`
	Tag          string    `json:"tag" gorm:"size:127"`

	EndTime        sql.NullTime   `json:"endTime" gorm:"type:timestamptz;default:NULL"`
	Ticks          uint64         `json:"ticks"`
	SimTimeMs      int64          `json:"simTimeMs"`
	Score          int            `json:"score"`
	Coins          int            `json:"coins"`
	Kills          int            `json:"kills"`
	MaxCombo       int            `json:"maxCombo"`
	Shots          int            `json:"shots"`
	VehicleHealth  float32        `json:"vehicleHealth"`
	Rank           string         `json:"rank" gorm:"size:2"`
	KillsBySpecies datatypes.JSON `json:"killsBySpecies" gorm:"type:jsonb;default:'{}'"` // species name -> kills

	FiredEvents     []FiredEvent
	HitEvents       []HitEvent
	KillEvents      []KillEvent
	ExplosionEvents []ExplosionEvent
	AttackEvents    []AttackEvent
	WeaponEvents    []WeaponEvent
	PurchaseEvents  []PurchaseEvent
}

func (*Session) TableName() string {
	return "sessions"
}

// FiredEvent is one accepted shot. Shotgun blasts are a single row.
type FiredEvent struct {
	ID        uint          `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time     `json:"time" gorm:"type:timestamptz;"` // session start + sim time
	SessionID uint          `json:"sessionId" gorm:"index:idx_firedevent_session_id"`
	Session   Session       `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick      uint64        `json:"tick" gorm:"index:idx_firedevent_tick;"`
	Weapon    string        `json:"weapon" gorm:"size:32"`
	Pellets   uint8         `json:"pellets"`
	LockedID  sql.NullInt32 `json:"lockedId" gorm:"default:NULL"` // NULL for free aim

	Origin          geom.Point     `json:"origin"`
	OriginElevation float32        `json:"originElev"`
	Direction       datatypes.JSON `json:"direction"` // unit vector {"x","y","z"}
}

func (*FiredEvent) TableName() string {
	return "fired_events"
}

// HitEvent is damage applied to an agent by a projectile or an explosion
type HitEvent struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time `json:"time" gorm:"type:timestamptz;"`
	SessionID uint      `json:"sessionId" gorm:"index:idx_hitevent_session_id"`
	Session   Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick      uint64    `json:"tick" gorm:"index:idx_hitevent_tick;"`
	TargetID  uint32    `json:"targetId" gorm:"index:idx_hitevent_target_id"`
	Species   string    `json:"species" gorm:"size:32"`
	Part      string    `json:"part" gorm:"size:8"`
	Weapon    string    `json:"weapon" gorm:"size:32"`
	Damage    float32   `json:"damage"`
	Explosion bool      `json:"explosion" gorm:"default:false"`
	Lethal    bool      `json:"lethal" gorm:"default:false"`

	Position  geom.Point `json:"position"`
	Elevation float32    `json:"elev"`
}

func (*HitEvent) TableName() string {
	return "hit_events"
}

// KillEvent is an agent taken to zero health, with the reward it paid out
type KillEvent struct {
	ID         uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time       time.Time `json:"time" gorm:"type:timestamptz;"`
	SessionID  uint      `json:"sessionId" gorm:"index:idx_killevent_session_id"`
	Session    Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick       uint64    `json:"tick" gorm:"index:idx_killevent_tick;"`
	TargetID   uint32    `json:"targetId"`
	Species    string    `json:"species" gorm:"size:32;index:idx_killevent_species"`
	Part       string    `json:"part" gorm:"size:8"`
	Weapon     string    `json:"weapon" gorm:"size:32"`
	Score      int       `json:"score"`
	Coins      int       `json:"coins"`
	Streak     int       `json:"streak"`
	Multiplier float32   `json:"multiplier"`

	Position  geom.Point `json:"position"`
	Elevation float32    `json:"elev"`
}

func (*KillEvent) TableName() string {
	return "kill_events"
}

// ExplosionEvent is a rocket detonation
type ExplosionEvent struct {
	ID           uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time         time.Time `json:"time" gorm:"type:timestamptz;"`
	SessionID    uint      `json:"sessionId" gorm:"index:idx_explosionevent_session_id"`
	Session      Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick         uint64    `json:"tick" gorm:"index:idx_explosionevent_tick;"`
	ProjectileID uint32    `json:"projectileId"`
	Weapon       string    `json:"weapon" gorm:"size:32"`
	Radius       float32   `json:"radius"`
	Damage       float32   `json:"damage"`
	Affected     int       `json:"affected"`

	Position  geom.Point `json:"position"`
	Elevation float32    `json:"elev"`
}

func (*ExplosionEvent) TableName() string {
	return "explosion_events"
}

// AttackEvent is a melee attack that landed on the vehicle
type AttackEvent struct {
	ID            uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time          time.Time `json:"time" gorm:"type:timestamptz;"`
	SessionID     uint      `json:"sessionId" gorm:"index:idx_attackevent_session_id"`
	Session       Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick          uint64    `json:"tick" gorm:"index:idx_attackevent_tick;"`
	AttackerID    uint32    `json:"attackerId"`
	Species       string    `json:"species" gorm:"size:32"`
	Damage        float32   `json:"damage"`
	VehicleHealth float32   `json:"vehicleHealth"`
}

func (*AttackEvent) TableName() string {
	return "attack_events"
}

// WeaponEvent is a change of the active weapon
type WeaponEvent struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time `json:"time" gorm:"type:timestamptz;"`
	SessionID uint      `json:"sessionId" gorm:"index:idx_weaponevent_session_id"`
	Session   Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick      uint64    `json:"tick"`
	From      string    `json:"from" gorm:"size:32"`
	To        string    `json:"to" gorm:"size:32"`
}

func (*WeaponEvent) TableName() string {
	return "weapon_events"
}

// PurchaseEvent is an upgrade bought in the shop
type PurchaseEvent struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time `json:"time" gorm:"type:timestamptz;"`
	SessionID uint      `json:"sessionId" gorm:"index:idx_purchaseevent_session_id"`
	Session   Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick      uint64    `json:"tick"`
	Upgrade   string    `json:"upgrade" gorm:"size:32"`
	Level     int       `json:"level"`
	Cost      int       `json:"cost"`
	CoinsLeft int       `json:"coinsLeft"`
}

func (*PurchaseEvent) TableName() string {
	return "purchase_events"
}
