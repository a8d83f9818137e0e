package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		name     string
		model    interface{ TableName() string }
		expected string
	}{
		{"Session", &Session{}, "sessions"},
		{"SessionPerformance", &SessionPerformance{}, "session_performances"},
		{"FiredEvent", &FiredEvent{}, "fired_events"},
		{"HitEvent", &HitEvent{}, "hit_events"},
		{"KillEvent", &KillEvent{}, "kill_events"},
		{"ExplosionEvent", &ExplosionEvent{}, "explosion_events"},
		{"AttackEvent", &AttackEvent{}, "attack_events"},
		{"WeaponEvent", &WeaponEvent{}, "weapon_events"},
		{"PurchaseEvent", &PurchaseEvent{}, "purchase_events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.model.TableName())
		})
	}
}

func TestDatabaseModelsHaveTableNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range DatabaseModels {
		named, ok := m.(interface{ TableName() string })
		if assert.True(t, ok, "%T has no TableName", m) {
			assert.False(t, seen[named.TableName()], "duplicate table %s", named.TableName())
			seen[named.TableName()] = true
		}
	}
	assert.Len(t, seen, 9)
}

func TestWriteQueueLengthsTotal(t *testing.T) {
	w := WriteQueueLengths{Fired: 10, Hits: 5, Kills: 1, Purchases: 2}
	assert.Equal(t, 18, w.Total())
	assert.Equal(t, 0, WriteQueueLengths{}.Total())
}
