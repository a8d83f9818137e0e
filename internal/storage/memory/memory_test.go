package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dinorampage/combat/internal/config"
	"github.com/dinorampage/combat/internal/storage"
	v1 "github.com/dinorampage/combat/internal/storage/memory/export/v1"
	"github.com/dinorampage/combat/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface checks
var (
	_ storage.Backend    = (*Backend)(nil)
	_ storage.Exportable = (*Backend)(nil)
)

func testSession(name string) *core.Session {
	return &core.Session{
		Name:      name,
		Seed:      7,
		TickRate:  60,
		StartTime: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestStartSessionAssignsIDs(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())
	defer b.Close()

	first := testSession("a")
	second := testSession("b")
	require.NoError(t, b.StartSession(first))
	require.NoError(t, b.StartSession(second))
	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)
}

func TestRecordRequiresSession(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})

	assert.ErrorIs(t, b.RecordHitEvent(&core.HitEvent{}), storage.ErrNoSession)
	assert.ErrorIs(t, b.EndSession(&core.SessionSummary{}), storage.ErrNoSession)
	assert.Empty(t, b.Events())
}

func TestRecordKeepsEmissionOrder(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.StartSession(testSession("order")))

	require.NoError(t, b.RecordFiredEvent(&core.FiredEvent{Stamp: core.Stamp{Tick: 1}}))
	require.NoError(t, b.RecordHitEvent(&core.HitEvent{Stamp: core.Stamp{Tick: 2}}))
	require.NoError(t, b.RecordKillEvent(&core.KillEvent{Stamp: core.Stamp{Tick: 2}}))
	require.NoError(t, b.RecordExplosionEvent(&core.ExplosionEvent{Stamp: core.Stamp{Tick: 3}}))
	require.NoError(t, b.RecordAttackEvent(&core.AttackEvent{Stamp: core.Stamp{Tick: 4}}))
	require.NoError(t, b.RecordWeaponEvent(&core.WeaponSwitchedEvent{Stamp: core.Stamp{Tick: 5}}))
	require.NoError(t, b.RecordPurchaseEvent(&core.PurchaseEvent{Stamp: core.Stamp{Tick: 6}}))

	events := b.Events()
	require.Len(t, events, 7)
	kinds := make([]core.EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind()
	}
	assert.Equal(t, []core.EventKind{
		core.KindFired, core.KindHit, core.KindKill, core.KindExplosion,
		core.KindAttack, core.KindWeaponSwitched, core.KindPurchase,
	}, kinds)
}

func TestEndSessionWritesPlainJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: false})

	s := testSession("Night Hunt: Ridge")
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.RecordKillEvent(&core.KillEvent{
		Stamp:    core.Stamp{Tick: 30},
		TargetID: 3,
		Species:  core.Stegosaurus,
		Score:    120,
		Coins:    20,
	}))
	require.NoError(t, b.EndSession(&core.SessionSummary{SessionID: s.ID, Ticks: 60, Score: 120, Kills: 1}))

	path := b.ExportedFilePath()
	assert.Equal(t, filepath.Join(dir, "Night_Hunt__Ridge_1_20260301_123000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var export v1.Export
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, "Night Hunt: Ridge", export.SessionName)
	assert.Equal(t, uint64(60), export.EndTick)
	require.NotNil(t, export.Summary)
	assert.Equal(t, 120, export.Summary.Score)
	require.Len(t, export.Events, 1)
	require.Len(t, export.Agents, 1)
	assert.Equal(t, "Stegosaurus", export.Agents[0].Species)

	// events stay readable after the session ends
	assert.Len(t, b.Events(), 1)
	assert.ErrorIs(t, b.RecordHitEvent(&core.HitEvent{}), storage.ErrNoSession)
}

func TestEndSessionWritesGzip(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})

	s := testSession("")
	require.NoError(t, b.StartSession(s))
	require.NoError(t, b.RecordAttackEvent(&core.AttackEvent{Stamp: core.Stamp{Tick: 5}, AttackerID: 2, Species: core.Velociraptor, Damage: 8}))
	require.NoError(t, b.EndSession(&core.SessionSummary{SessionID: s.ID}))

	path := b.ExportedFilePath()
	assert.True(t, strings.HasSuffix(path, ".json.gz"))
	assert.Contains(t, filepath.Base(path), "session_1_")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var export v1.Export
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	require.Len(t, export.Events, 1)
	assert.Equal(t, "attack", export.Events[0][1])
}

func TestStartSessionResetsEvents(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.StartSession(testSession("one")))
	require.NoError(t, b.RecordHitEvent(&core.HitEvent{}))

	require.NoError(t, b.StartSession(testSession("two")))
	assert.Empty(t, b.Events())
}
