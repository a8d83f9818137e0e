// internal/storage/storage.go
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/dinorampage/combat/internal/model"
	"github.com/dinorampage/combat/pkg/core"
)

var (
	// ErrUnknownBackend is returned when the configured storage type has no implementation
	ErrUnknownBackend = errors.New("unknown storage backend")
	// ErrNoSession is returned when an event arrives before StartSession
	ErrNoSession = errors.New("no active session")
)

// Backend is the interface all storage implementations must satisfy.
// Backends are write-only: they record a session and never feed back into it.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management (StartSession assigns the ID to the passed pointer)
	StartSession(s *core.Session) error
	EndSession(sum *core.SessionSummary) error

	// Event recording
	RecordFiredEvent(e *core.FiredEvent) error
	RecordHitEvent(e *core.HitEvent) error
	RecordKillEvent(e *core.KillEvent) error
	RecordExplosionEvent(e *core.ExplosionEvent) error
	RecordAttackEvent(e *core.AttackEvent) error
	RecordWeaponEvent(e *core.WeaponSwitchedEvent) error
	RecordPurchaseEvent(e *core.PurchaseEvent) error
}

// Exportable is an optional interface for backends that write the session to
// a file when it ends.
type Exportable interface {
	ExportedFilePath() string
}

// QueueReporter is an optional interface for backends that buffer writes.
type QueueReporter interface {
	WriteQueueLengths() model.WriteQueueLengths
	LastWriteDuration() time.Duration
}

// PerformanceRecorder is an optional interface for backends that persist
// recorder health samples alongside the session.
type PerformanceRecorder interface {
	RecordPerformance(p model.SessionPerformance) error
}

// Record routes any combat event to the matching Backend method.
func Record(b Backend, e core.Event) error {
	switch ev := e.(type) {
	case core.FiredEvent:
		return b.RecordFiredEvent(&ev)
	case core.HitEvent:
		return b.RecordHitEvent(&ev)
	case core.KillEvent:
		return b.RecordKillEvent(&ev)
	case core.ExplosionEvent:
		return b.RecordExplosionEvent(&ev)
	case core.AttackEvent:
		return b.RecordAttackEvent(&ev)
	case core.WeaponSwitchedEvent:
		return b.RecordWeaponEvent(&ev)
	case core.PurchaseEvent:
		return b.RecordPurchaseEvent(&ev)
	default:
		return fmt.Errorf("unsupported event %T", e)
	}
}
