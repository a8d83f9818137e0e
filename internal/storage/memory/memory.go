// internal/storage/memory/memory.go
package memory

import (
	"slices"
	"sync"

	"github.com/dinorampage/combat/internal/config"
	"github.com/dinorampage/combat/internal/storage"
	"github.com/dinorampage/combat/pkg/core"
)

// Backend stores session events in memory and exports them to JSON when the
// session ends
type Backend struct {
	cfg     config.MemoryConfig
	session *core.Session
	events  []core.Event

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg: cfg,
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session and discards any previous one
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	s.ID = b.idCounter
	b.session = s
	b.events = nil
	return nil
}

// EndSession writes the export file. The recorded events are kept until the
// next StartSession.
func (b *Backend) EndSession(sum *core.SessionSummary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return storage.ErrNoSession
	}
	if err := b.exportJSON(sum); err != nil {
		return err
	}
	b.session = nil
	return nil
}

func (b *Backend) record(e core.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return storage.ErrNoSession
	}
	b.events = append(b.events, e)
	return nil
}

func (b *Backend) RecordFiredEvent(e *core.FiredEvent) error { return b.record(*e) }

func (b *Backend) RecordHitEvent(e *core.HitEvent) error { return b.record(*e) }

func (b *Backend) RecordKillEvent(e *core.KillEvent) error { return b.record(*e) }

func (b *Backend) RecordExplosionEvent(e *core.ExplosionEvent) error { return b.record(*e) }

func (b *Backend) RecordAttackEvent(e *core.AttackEvent) error { return b.record(*e) }

func (b *Backend) RecordWeaponEvent(e *core.WeaponSwitchedEvent) error { return b.record(*e) }

func (b *Backend) RecordPurchaseEvent(e *core.PurchaseEvent) error { return b.record(*e) }

// Events returns a copy of everything recorded for the current or last session.
func (b *Backend) Events() []core.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.events)
}

// ExportedFilePath returns the path of the last exported file
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
