package worker

import (
	"fmt"

	"github.com/dinorampage/combat/internal/dispatcher"
	"github.com/dinorampage/combat/internal/influx"
	"github.com/dinorampage/combat/internal/storage"
	"github.com/dinorampage/combat/pkg/core"
)

// Command returns the dispatcher command for an event kind, e.g. ":HIT:".
func Command(kind core.EventKind) string {
	return ":" + string(kind) + ":"
}

// RegisterHandlers registers all event handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	m.dispatcher = d

	// High-volume combat events - buffered
	d.Register(Command(core.KindFired), m.record(core.KindFired), dispatcher.Buffered(5000), dispatcher.Logged())
	d.Register(Command(core.KindHit), m.record(core.KindHit), dispatcher.Buffered(5000), dispatcher.Logged())
	d.Register(Command(core.KindExplosion), m.record(core.KindExplosion), dispatcher.Buffered(1000), dispatcher.Logged())
	d.Register(Command(core.KindAttack), m.record(core.KindAttack), dispatcher.Buffered(1000), dispatcher.Logged())

	// Score-bearing events are never dropped
	d.Register(Command(core.KindKill), m.record(core.KindKill, m.writeKillPoint), dispatcher.Buffered(2000), dispatcher.Blocking(), dispatcher.Logged())
	d.Register(Command(core.KindPurchase), m.record(core.KindPurchase), dispatcher.Buffered(100), dispatcher.Blocking(), dispatcher.Logged())

	// Rare - sync
	d.Register(Command(core.KindWeaponSwitched), m.record(core.KindWeaponSwitched), dispatcher.Logged())
}

// HandleEvents dispatches one tick's events. It satisfies sim.Sink.
func (m *Manager) HandleEvents(events []core.Event) {
	if m.dispatcher == nil {
		return
	}
	for _, e := range events {
		_, err := m.dispatcher.Dispatch(dispatcher.Event{
			Command: Command(e.Kind()),
			Payload: e,
		})
		if err != nil {
			m.dispatchErrors.Add(1)
			tick, _ := e.At()
			m.deps.Logger.Warn("Failed to dispatch event", "kind", e.Kind(), "tick", tick, "error", err)
		}
	}
}

// record returns a handler that stores events of one kind in the backend and
// then runs the given follow-ups on each stored event.
func (m *Manager) record(kind core.EventKind, then ...func(core.Event)) dispatcher.HandlerFunc {
	return func(e dispatcher.Event) (any, error) {
		ev, ok := e.Payload.(core.Event)
		if !ok || ev.Kind() != kind {
			return nil, fmt.Errorf("%w for %s: %T", ErrUnexpectedPayload, e.Command, e.Payload)
		}
		if err := storage.Record(m.backend, ev); err != nil {
			return nil, fmt.Errorf("record %s: %w", e.Command, err)
		}
		for _, fn := range then {
			fn(ev)
		}
		return nil, nil
	}
}

func (m *Manager) writeKillPoint(ev core.Event) {
	kill, ok := ev.(core.KillEvent)
	if !ok || m.deps.Telemetry == nil {
		return
	}
	var s *core.Session
	if m.deps.MissionContext != nil {
		s = m.deps.MissionContext.GetSession()
	}
	if err := m.deps.Telemetry.WritePoint(influx.KillPoint(s, kill)); err != nil {
		m.deps.Logger.Warn("Failed to write kill telemetry", "error", err)
	}
}
