package worker

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dinorampage/combat/internal/dispatcher"
	"github.com/dinorampage/combat/internal/mission"
	"github.com/dinorampage/combat/internal/model"
	"github.com/dinorampage/combat/internal/storage"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// ErrUnexpectedPayload is returned when a command carries the wrong event type
var ErrUnexpectedPayload = errors.New("unexpected payload")

// PointWriter receives telemetry points, typically an influx.Manager.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point) error
}

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Logger         *slog.Logger
	MissionContext *mission.Context
	Telemetry      PointWriter
}

// Manager forwards recorded combat events from the dispatcher to a storage backend
type Manager struct {
	deps       Dependencies
	backend    storage.Backend
	dispatcher *dispatcher.Dispatcher

	dispatchErrors atomic.Int64
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

// Backend returns the storage backend events are recorded to.
func (m *Manager) Backend() storage.Backend {
	return m.backend
}

// LastWriteDuration returns the duration of the backend's last write cycle.
// Returns 0 if the backend doesn't buffer writes.
func (m *Manager) LastWriteDuration() time.Duration {
	if r, ok := m.backend.(storage.QueueReporter); ok {
		return r.LastWriteDuration()
	}
	return 0
}

// WriteQueueLengths returns the backend's pending write counts, or zeros if
// the backend doesn't buffer writes.
func (m *Manager) WriteQueueLengths() model.WriteQueueLengths {
	if r, ok := m.backend.(storage.QueueReporter); ok {
		return r.WriteQueueLengths()
	}
	return model.WriteQueueLengths{}
}

// DispatchErrors counts events that could not be handed to the dispatcher.
func (m *Manager) DispatchErrors() int64 {
	return m.dispatchErrors.Load()
}
