// Package sim runs the combat simulation as a fixed, ordered per-tick pipeline:
// input, firing, projectile motion, hit resolution, reactions, agent AI,
// movement, melee attacks and lifecycle cleanup.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dinorampage/combat/internal/agent"
	"github.com/dinorampage/combat/internal/cache"
	"github.com/dinorampage/combat/internal/combo"
	"github.com/dinorampage/combat/internal/config"
	"github.com/dinorampage/combat/internal/mission"
	"github.com/dinorampage/combat/internal/projectile"
	"github.com/dinorampage/combat/internal/scoring"
	"github.com/dinorampage/combat/internal/shop"
	"github.com/dinorampage/combat/internal/util"
	"github.com/dinorampage/combat/internal/weapon"
	"github.com/dinorampage/combat/pkg/core"
)

// ErrInvalidConfig is returned by New for unusable session settings.
var ErrInvalidConfig = errors.New("invalid sim config")

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithSink adds a sink that receives every tick's events.
func WithSink(s Sink) Option {
	return func(e *Engine) {
		e.sinks = append(e.sinks, s)
	}
}

// WithMissionContext publishes session progress to mc.
func WithMissionContext(mc *mission.Context) Option {
	return func(e *Engine) {
		e.mission = mc
	}
}

// WithPRNG replaces the seeded random source.
func WithPRNG(rng *util.PRNG) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithoutSpawn starts the session with no agents.
func WithoutSpawn() Option {
	return func(e *Engine) {
		e.noSpawn = true
	}
}

// Stats is a concurrency-safe summary of the latest tick.
type Stats struct {
	Tick          uint64
	SimTime       time.Duration
	AgentsAlive   int
	Projectiles   int
	Score         int
	Coins         int
	Kills         int
	Streak        int
	Shots         int
	MaxCombo      int
	VehicleHealth float64
	Rank          string

	KillsBySpecies map[core.Species]int
}

// Engine owns all session state. Step is not safe for concurrent use;
// Stats and Summary may be called from other goroutines.
type Engine struct {
	cfg     config.SimConfig
	session core.Session
	dt      time.Duration
	tick    uint64
	now     time.Duration

	rng     *util.PRNG
	logger  *slog.Logger
	sinks   []Sink
	mission *mission.Context
	metrics *metrics
	noSpawn bool

	agents      *cache.AgentCache
	ai          *agent.Controller
	spawner     *Spawner
	vehicle     *Vehicle
	lock        TargetLock
	inventory   *weapon.Inventory
	launcher    *projectile.Launcher
	projectiles *projectile.Set
	combo       *combo.State
	ledger      *scoring.Ledger
	timeAttack  *scoring.TimeAttack
	shop        *shop.Shop

	nextID      core.EntityID
	shots       int
	events      []core.Event
	hits        []pendingHit
	detonations []projectile.Detonation
	steps       []step

	mu    sync.RWMutex
	stats Stats
}

// New validates the static tables and session settings and spawns the
// initial agents. Table validation failures are fatal for the session.
func New(cfg config.SimConfig, opts ...Option) (*Engine, error) {
	if err := weapon.ValidateTable(weapon.Table()); err != nil {
		return nil, fmt.Errorf("weapon table: %w", err)
	}
	if err := agent.ValidateSpecies(agent.SpeciesTable()); err != nil {
		return nil, fmt.Errorf("species table: %w", err)
	}
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("%w: tick rate %d", ErrInvalidConfig, cfg.TickRate)
	}
	if cfg.AgentCount < 0 {
		return nil, fmt.Errorf("%w: agent count %d", ErrInvalidConfig, cfg.AgentCount)
	}
	if cfg.StartingCoins < 0 {
		return nil, fmt.Errorf("%w: starting coins %d", ErrInvalidConfig, cfg.StartingCoins)
	}
	if cfg.SpawnExtent < 0 || cfg.SpawnExclusion < 0 {
		return nil, fmt.Errorf("%w: negative spawn area", ErrInvalidConfig)
	}

	e := &Engine{
		cfg:    cfg,
		dt:     time.Second / time.Duration(cfg.TickRate),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.rng == nil {
		e.rng = util.NewPRNG(cfg.Seed)
	}

	m, err := newMetrics()
	if err != nil {
		return nil, err
	}
	e.metrics = m

	e.session = core.Session{
		Name:       fmt.Sprintf("rampage-%d", e.rng.Seed()),
		Seed:       e.rng.Seed(),
		TickRate:   cfg.TickRate,
		AgentCount: cfg.AgentCount,
		TimeAttack: cfg.TimeAttack,
		StartTime:  time.Now().UTC(),
	}

	e.agents = cache.NewAgentCache()
	e.ai = agent.NewController(e.rng, e.logger)
	e.spawner = NewSpawner(e.rng, cfg.SpawnExtent, cfg.SpawnExclusion)
	e.vehicle = NewVehicle()
	e.inventory = weapon.NewInventory()
	e.launcher = projectile.NewLauncher(e.rng)
	e.projectiles = projectile.NewSet(e.newID)
	e.combo = combo.New()
	e.ledger = scoring.NewLedger()
	e.ledger.Grant(cfg.StartingCoins)
	e.shop = shop.New(e.ledger, e.inventory.Upgrades(), e.vehicle)
	if cfg.TimeAttack > 0 {
		e.timeAttack = scoring.NewTimeAttack(cfg.TimeAttack)
		e.timeAttack.Start()
	}
	e.steps = e.pipeline()

	if !e.noSpawn {
		e.spawnWave()
	}
	if e.mission != nil {
		e.mission.SetSession(&e.session)
	}
	e.publishStats()
	return e, nil
}

func (e *Engine) newID() core.EntityID {
	e.nextID++
	return e.nextID
}

func (e *Engine) spawnWave() {
	for i := 0; i < e.cfg.AgentCount; i++ {
		e.agents.Add(e.spawner.Spawn(e.newID(), e.vehicle.Position))
	}
	e.logger.Debug("spawned agents", "count", e.cfg.AgentCount, "alive", e.agents.CountAlive())
}

// AddAgent places an agent of species s at pos and returns it.
func (e *Engine) AddAgent(s core.Species, pos core.Vec3) *agent.Agent {
	a := agent.New(e.newID(), agent.MustStats(s), pos)
	e.agents.Add(a)
	return a
}

// Session returns the session metadata. Storage backends assign its ID.
func (e *Engine) Session() *core.Session { return &e.session }

func (e *Engine) Agents() *cache.AgentCache { return e.agents }

func (e *Engine) Vehicle() *Vehicle { return e.vehicle }

func (e *Engine) Inventory() *weapon.Inventory { return e.inventory }

func (e *Engine) Shop() *shop.Shop { return e.shop }

func (e *Engine) Ledger() *scoring.Ledger { return e.ledger }

func (e *Engine) Combo() *combo.State { return e.combo }

// TickDuration returns the nominal tick length. Individual steps may differ
// by a nanosecond so that sim time stays an exact multiple of the tick rate.
func (e *Engine) TickDuration() time.Duration {
	return time.Second / time.Duration(e.cfg.TickRate)
}

// simTimeAt is the simulation time at the end of tick. Deriving it from the
// tick count keeps whole seconds exact at rates that do not divide 1s.
func simTimeAt(tick uint64, rate int) time.Duration {
	return time.Duration(tick) * time.Second / time.Duration(rate)
}

// Step runs one tick of the pipeline and returns its snapshot.
func (e *Engine) Step(in Input) *Snapshot {
	e.tick++
	now := simTimeAt(e.tick, e.cfg.TickRate)
	e.dt = now - e.now
	e.now = now
	e.events = e.events[:0]

	for _, s := range e.steps {
		s.run(&in)
	}

	snap := e.snapshot()
	for _, sink := range e.sinks {
		sink.HandleEvents(snap.Events)
	}
	if e.mission != nil {
		e.mission.Advance(e.tick, e.now)
	}
	e.metrics.ticks.Add(context.Background(), 1)
	e.publishStats()
	return snap
}

// Driver produces the input for the next tick from the previous snapshot.
type Driver interface {
	Next(prev *Snapshot) Input
}

// DriverFunc adapts a function to Driver.
type DriverFunc func(prev *Snapshot) Input

func (f DriverFunc) Next(prev *Snapshot) Input { return f(prev) }

// Run steps the session ticks times, stopping early if ctx is cancelled.
func (e *Engine) Run(ctx context.Context, ticks int, d Driver) (core.SessionSummary, error) {
	var snap *Snapshot
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return e.Summary(), ctx.Err()
		default:
		}
		snap = e.Step(d.Next(snap))
	}
	return e.Summary(), nil
}

// Stats returns the summary of the latest tick.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) publishStats() {
	st := Stats{
		Tick:          e.tick,
		SimTime:       e.now,
		AgentsAlive:   e.agents.CountAlive(),
		Projectiles:   e.projectiles.Len(),
		Score:         e.ledger.Score(),
		Coins:         e.ledger.Coins(),
		Kills:         e.ledger.Kills(),
		Streak:        e.combo.Streak(),
		Shots:         e.shots,
		MaxCombo:      e.combo.Max(),
		VehicleHealth: e.vehicle.Health,

		KillsBySpecies: e.ledger.KillsBySpecies(),
	}
	if e.timeAttack != nil {
		st.Rank = e.timeAttack.Rank()
	}
	e.mu.Lock()
	e.stats = st
	e.mu.Unlock()
}

// Summary returns the session tally as of the latest tick.
func (e *Engine) Summary() core.SessionSummary {
	st := e.Stats()
	return core.SessionSummary{
		SessionID:      e.session.ID,
		Ticks:          st.Tick,
		SimTime:        st.SimTime,
		Score:          st.Score,
		Coins:          st.Coins,
		Kills:          st.Kills,
		MaxCombo:       st.MaxCombo,
		Shots:          st.Shots,
		VehicleHealth:  st.VehicleHealth,
		Rank:           st.Rank,
		KillsBySpecies: st.KillsBySpecies,
	}
}

func (e *Engine) emit(ev core.Event) {
	e.events = append(e.events, ev)
}

func (e *Engine) stamp() core.Stamp {
	return core.Stamp{Tick: e.tick, Time: e.now}
}
