// Package gormstorage implements storage.Backend on any GORM dialect.
// Events are converted on arrival and queued per table; a writer goroutine
// drains the queues in batches so recording never blocks on the database.
package gormstorage

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dinorampage/combat/internal/model"
	"github.com/dinorampage/combat/internal/model/convert"
	"github.com/dinorampage/combat/internal/queue"
	"github.com/dinorampage/combat/internal/storage"
	"github.com/dinorampage/combat/pkg/core"
	"gorm.io/gorm"
)

const (
	defaultFlushInterval = 500 * time.Millisecond
	batchSize            = 500
)

// Dependencies holds the database handle and logger for the backend.
// A nil DB runs the backend in queue-only mode.
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	FlushInterval time.Duration
}

type queues struct {
	Fired      *queue.Queue[model.FiredEvent]
	Hits       *queue.Queue[model.HitEvent]
	Kills      *queue.Queue[model.KillEvent]
	Explosions *queue.Queue[model.ExplosionEvent]
	Attacks    *queue.Queue[model.AttackEvent]
	Weapons    *queue.Queue[model.WeaponEvent]
	Purchases  *queue.Queue[model.PurchaseEvent]
}

func newQueues() *queues {
	return &queues{
		Fired:      queue.New[model.FiredEvent](),
		Hits:       queue.New[model.HitEvent](),
		Kills:      queue.New[model.KillEvent](),
		Explosions: queue.New[model.ExplosionEvent](),
		Attacks:    queue.New[model.AttackEvent](),
		Weapons:    queue.New[model.WeaponEvent](),
		Purchases:  queue.New[model.PurchaseEvent](),
	}
}

// Backend records sessions through GORM.
type Backend struct {
	deps   Dependencies
	log    *slog.Logger
	queues *queues

	mu      sync.RWMutex
	session *model.Session
	nextID  uint // session IDs in queue-only mode

	flushMu           sync.Mutex
	lastWriteDuration atomic.Int64
	stopChan          chan struct{}
	done              chan struct{}
	closeOnce         sync.Once
}

// New creates a GORM backend. Call Init before recording.
func New(deps Dependencies) *Backend {
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = defaultFlushInterval
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		deps: deps,
		log:  log.With("backend", "gorm"),
	}
}

// Init creates the write queues and starts the writer goroutine.
// Schema migration is the caller's responsibility.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	go b.writeLoop()
	return nil
}

// Close stops the writer and flushes whatever is still queued.
func (b *Backend) Close() error {
	if b.stopChan == nil {
		return nil
	}
	b.closeOnce.Do(func() {
		close(b.stopChan)
		<-b.done
		b.Flush()
	})
	return nil
}

// DB returns the underlying handle, nil in queue-only mode.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// StartSession inserts the session row and stores its ID on s.
func (b *Backend) StartSession(s *core.Session) error {
	m := convert.SessionToModel(s)
	m.ID = 0

	if b.deps.DB != nil {
		if err := b.deps.DB.Create(&m).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
	} else {
		b.mu.Lock()
		b.nextID++
		m.ID = b.nextID
		b.mu.Unlock()
	}

	b.mu.Lock()
	b.session = &m
	b.mu.Unlock()

	s.ID = m.ID
	b.log.Info("Session started", "sessionId", m.ID, "name", m.Name)
	return nil
}

// EndSession flushes pending events and stores the summary columns.
func (b *Backend) EndSession(sum *core.SessionSummary) error {
	b.Flush()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return storage.ErrNoSession
	}

	convert.ApplySummary(b.session, sum, time.Now())
	if b.deps.DB != nil {
		if err := b.deps.DB.Omit("FiredEvents", "HitEvents", "KillEvents", "ExplosionEvents",
			"AttackEvents", "WeaponEvents", "PurchaseEvents").Save(b.session).Error; err != nil {
			return fmt.Errorf("failed to save session summary: %w", err)
		}
	}

	b.log.Info("Session ended", "sessionId", b.session.ID, "score", sum.Score, "kills", sum.Kills)
	b.session = nil
	return nil
}

// Session returns a copy of the active session row.
func (b *Backend) Session() (model.Session, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.session == nil {
		return model.Session{}, false
	}
	return *b.session, true
}

func (b *Backend) active() (uint, time.Time, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.session == nil {
		return 0, time.Time{}, storage.ErrNoSession
	}
	return b.session.ID, b.session.StartTime, nil
}

func (b *Backend) RecordFiredEvent(e *core.FiredEvent) error {
	id, start, err := b.active()
	if err != nil {
		return err
	}
	b.queues.Fired.Push(convert.FiredEventToModel(id, start, *e))
	return nil
}

func (b *Backend) RecordHitEvent(e *core.HitEvent) error {
	id, start, err := b.active()
	if err != nil {
		return err
	}
	b.queues.Hits.Push(convert.HitEventToModel(id, start, *e))
	return nil
}

func (b *Backend) RecordKillEvent(e *core.KillEvent) error {
	id, start, err := b.active()
	if err != nil {
		return err
	}
	b.queues.Kills.Push(convert.KillEventToModel(id, start, *e))
	return nil
}

func (b *Backend) RecordExplosionEvent(e *core.ExplosionEvent) error {
	id, start, err := b.active()
	if err != nil {
		return err
	}
	b.queues.Explosions.Push(convert.ExplosionEventToModel(id, start, *e))
	return nil
}

func (b *Backend) RecordAttackEvent(e *core.AttackEvent) error {
	id, start, err := b.active()
	if err != nil {
		return err
	}
	b.queues.Attacks.Push(convert.AttackEventToModel(id, start, *e))
	return nil
}

func (b *Backend) RecordWeaponEvent(e *core.WeaponSwitchedEvent) error {
	id, start, err := b.active()
	if err != nil {
		return err
	}
	b.queues.Weapons.Push(convert.WeaponEventToModel(id, start, *e))
	return nil
}

func (b *Backend) RecordPurchaseEvent(e *core.PurchaseEvent) error {
	id, start, err := b.active()
	if err != nil {
		return err
	}
	b.queues.Purchases.Push(convert.PurchaseEventToModel(id, start, *e))
	return nil
}

// RecordPerformance writes a health sample straight through; samples are rare.
func (b *Backend) RecordPerformance(p model.SessionPerformance) error {
	if b.deps.DB == nil {
		return nil
	}
	if err := b.deps.DB.Create(&p).Error; err != nil {
		return fmt.Errorf("failed to write performance sample: %w", err)
	}
	return nil
}

// WriteQueueLengths reports how many records wait in each queue.
func (b *Backend) WriteQueueLengths() model.WriteQueueLengths {
	if b.queues == nil {
		return model.WriteQueueLengths{}
	}
	return model.WriteQueueLengths{
		Fired:     uint16(min(b.queues.Fired.Len(), 65535)),
		Hits:      uint16(min(b.queues.Hits.Len(), 65535)),
		Kills:     uint16(min(b.queues.Kills.Len(), 65535)),
		Explosion: uint16(min(b.queues.Explosions.Len(), 65535)),
		Attacks:   uint16(min(b.queues.Attacks.Len(), 65535)),
		Weapons:   uint16(min(b.queues.Weapons.Len(), 65535)),
		Purchases: uint16(min(b.queues.Purchases.Len(), 65535)),
	}
}

// LastWriteDuration is the wall time of the most recent non-empty flush.
func (b *Backend) LastWriteDuration() time.Duration {
	return time.Duration(b.lastWriteDuration.Load())
}

// Flush drains every queue into the database. It is a no-op in queue-only mode.
func (b *Backend) Flush() {
	if b.deps.DB == nil || b.queues == nil {
		return
	}
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	start := time.Now()
	n := writeQueue(b.deps.DB, b.queues.Fired, "fired events", b.log)
	n += writeQueue(b.deps.DB, b.queues.Hits, "hit events", b.log)
	n += writeQueue(b.deps.DB, b.queues.Kills, "kill events", b.log)
	n += writeQueue(b.deps.DB, b.queues.Explosions, "explosion events", b.log)
	n += writeQueue(b.deps.DB, b.queues.Attacks, "attack events", b.log)
	n += writeQueue(b.deps.DB, b.queues.Weapons, "weapon events", b.log)
	n += writeQueue(b.deps.DB, b.queues.Purchases, "purchase events", b.log)
	if n > 0 {
		b.lastWriteDuration.Store(int64(time.Since(start)))
	}
}

// writeQueue writes all items from a queue in one transaction and returns how
// many were written. Failed batches go back to the front of the queue.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger) int {
	items := q.Drain(0)
	if len(items) == 0 {
		return 0
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&items, batchSize).Error
	})
	if err != nil {
		log.Error("Error creating records", "table", name, "count", len(items), "error", err)
		q.Requeue(items...)
		return 0
	}
	return len(items)
}

func (b *Backend) writeLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			b.Flush()
		}
	}
}
