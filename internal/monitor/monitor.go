package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dinorampage/combat/internal/mission"
	"github.com/dinorampage/combat/internal/model"
	"github.com/dinorampage/combat/internal/sim"
	"github.com/dinorampage/combat/internal/storage"
	"github.com/dinorampage/combat/internal/worker"
)

// DefaultInterval is used when Dependencies.Interval is not positive.
const DefaultInterval = 5 * time.Second

// StatsSource exposes the latest tick summary, typically a *sim.Engine.
type StatsSource interface {
	Stats() sim.Stats
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger         *slog.Logger
	MissionContext *mission.Context
	Stats          StatsSource
	WorkerManager  *worker.Manager             // optional
	Telemetry      worker.PointWriter          // optional
	Performance    storage.PerformanceRecorder // optional
	Interval       time.Duration
	StatusPath     string // optional
}

// Status is one monitor sample.
type Status struct {
	Stats       sim.Stats                `json:"stats"`
	Performance model.SessionPerformance `json:"performance"`
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Sample returns the current session status
func (s *Service) Sample(now time.Time) Status {
	st := s.deps.Stats.Stats()

	perf := model.SessionPerformance{
		Time:        now,
		Tick:        st.Tick,
		AgentsAlive: uint16(min(st.AgentsAlive, 65535)),
		Projectiles: uint16(min(st.Projectiles, 65535)),
	}
	if s.deps.MissionContext != nil {
		if session := s.deps.MissionContext.GetSession(); session != nil {
			perf.SessionID = session.ID
		}
	}
	if s.deps.WorkerManager != nil {
		perf.WriteQueueLengths = s.deps.WorkerManager.WriteQueueLengths()
		perf.LastWriteDurationMs = float32(s.deps.WorkerManager.LastWriteDuration().Microseconds()) / 1000
	}

	return Status{Stats: st, Performance: perf}
}

// Report takes a sample and publishes it to every configured output.
// Samples are only persisted once the session has an ID.
func (s *Service) Report(now time.Time) Status {
	status := s.Sample(now)
	st, perf := status.Stats, status.Performance
	logger := s.deps.Logger

	logger.Info("Session status",
		"simTime", st.SimTime,
		"agentsAlive", st.AgentsAlive,
		"projectiles", st.Projectiles,
		"score", st.Score,
		"kills", st.Kills,
		"streak", st.Streak,
		"vehicleHealth", st.VehicleHealth,
		"pendingWrites", perf.WriteQueueLengths.Total(),
	)

	if err := s.writeStatusFile(status); err != nil {
		logger.Error("Error writing status file", "error", err)
	}

	if perf.SessionID == 0 {
		return status
	}

	if s.deps.Telemetry != nil {
		session := s.deps.MissionContext.GetSession()
		if err := s.deps.Telemetry.WritePoint(statsPoint(status, session, now)); err != nil {
			logger.Error("Error writing session stats point", "error", err)
		}
		if err := s.deps.Telemetry.WritePoint(queuePoint(perf, session, now)); err != nil {
			logger.Error("Error writing write queue point", "error", err)
		}
	}

	if s.deps.Performance != nil {
		if err := s.deps.Performance.RecordPerformance(perf); err != nil {
			logger.Error("Error writing performance sample", "error", err)
		}
	}

	return status
}

func (s *Service) writeStatusFile(status Status) error {
	if s.deps.StatusPath == "" {
		return nil
	}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	return os.WriteFile(s.deps.StatusPath, append(data, '\n'), 0644)
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if s.deps.Stats == nil {
		s.mu.Unlock()
		return fmt.Errorf("monitor: no stats source")
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("Starting status monitor", "interval", s.deps.Interval)

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				s.Report(now)
			}
		}
	}()

	return nil
}

// Stop stops the status monitor and waits for the goroutine to exit
func (s *Service) Stop() {
	s.mu.Lock()
	if s.isRunning {
		select {
		case <-s.stopChan:
		default:
			close(s.stopChan)
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}
