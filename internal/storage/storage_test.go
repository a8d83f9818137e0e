package storage

import (
	"testing"

	"github.com/dinorampage/combat/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	calls []string
}

func (m *mockBackend) Init() error { return nil }
func (m *mockBackend) Close() error { return nil }
func (m *mockBackend) StartSession(s *core.Session) error {
	s.ID = 1
	return nil
}
func (m *mockBackend) EndSession(sum *core.SessionSummary) error { return nil }
func (m *mockBackend) RecordFiredEvent(e *core.FiredEvent) error { return m.add("fired") }
func (m *mockBackend) RecordHitEvent(e *core.HitEvent) error { return m.add("hit") }
func (m *mockBackend) RecordKillEvent(e *core.KillEvent) error { return m.add("kill") }
func (m *mockBackend) RecordAttackEvent(e *core.AttackEvent) error { return m.add("attack") }
func (m *mockBackend) RecordExplosionEvent(e *core.ExplosionEvent) error {
	return m.add("explosion")
}
func (m *mockBackend) RecordWeaponEvent(e *core.WeaponSwitchedEvent) error {
	return m.add("weapon")
}
func (m *mockBackend) RecordPurchaseEvent(e *core.PurchaseEvent) error {
	return m.add("purchase")
}

func (m *mockBackend) add(name string) error {
	m.calls = append(m.calls, name)
	return nil
}

var _ Backend = (*mockBackend)(nil)

type unknownEvent struct{ core.Stamp }

func (unknownEvent) Kind() core.EventKind { return "UNKNOWN" }

func TestRecordRoutesEveryKind(t *testing.T) {
	b := &mockBackend{}
	events := []core.Event{
		core.FiredEvent{},
		core.HitEvent{},
		core.KillEvent{},
		core.ExplosionEvent{},
		core.AttackEvent{},
		core.WeaponSwitchedEvent{},
		core.PurchaseEvent{},
	}

	for _, e := range events {
		require.NoError(t, Record(b, e))
	}
	assert.Equal(t, []string{"fired", "hit", "kill", "explosion", "attack", "weapon", "purchase"}, b.calls)
}

func TestRecordRejectsUnknownEvent(t *testing.T) {
	b := &mockBackend{}
	err := Record(b, unknownEvent{})
	assert.Error(t, err)
	assert.Empty(t, b.calls)
}
