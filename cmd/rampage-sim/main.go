package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dinorampage/combat/internal/config"
	"github.com/dinorampage/combat/internal/dispatcher"
	"github.com/dinorampage/combat/internal/influx"
	"github.com/dinorampage/combat/internal/logging"
	"github.com/dinorampage/combat/internal/mission"
	"github.com/dinorampage/combat/internal/monitor"
	intOtel "github.com/dinorampage/combat/internal/otel"
	"github.com/dinorampage/combat/internal/sim"
	"github.com/dinorampage/combat/internal/storage"
	"github.com/dinorampage/combat/internal/worker"
	"github.com/dinorampage/combat/pkg/core"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	ExtensionName string = "rampage-sim"
)

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ExtensionName, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ExtensionName, err)
		os.Exit(1)
	}
}

// run executes one headless session and prints its summary to out.
func run(ctx context.Context, opts options, out io.Writer) error {
	sessionStart := time.Now()
	configErr := config.Load(opts.ConfigDir)

	level := viper.GetString("logLevel")

	// Logging: session log file unless stdout was requested
	var fileWriter io.Writer
	var logWriter io.Writer = os.Stdout
	logFilePath := ""
	if !opts.LogStdout {
		logFilePath = logging.LogFilePath(viper.GetString("logsDir"), ExtensionName, sessionStart)
		f, err := logging.OpenLogFile(logFilePath)
		if err != nil {
			return err
		}
		defer f.Close()
		fileWriter = f
		logWriter = f
	}

	otelProvider, err := intOtel.New(config.GetOTelConfig(), fileWriter)
	if err != nil {
		return fmt.Errorf("failed to initialize OTel provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelProvider.Shutdown(shutdownCtx)
	}()

	missionCtx := mission.NewContext()

	slogManager := logging.NewSlogManager()
	slogManager.Setup(fileWriter, level, otelProvider.LoggerProvider(), logging.SessionContext(missionCtx))
	logger := slogManager.Logger()
	dbLog := logging.NewZerolog(logWriter, level)

	logger.Info("Starting up...", "version", CurrentVersion, "buildDate", BuildDate)
	if configErr != nil {
		logger.Warn("Failed to load config, using defaults!", "error", configErr)
	} else {
		logger.Info("Loaded config", "file", viper.ConfigFileUsed())
	}
	if logFilePath != "" {
		logger.Info("Logging to file", "path", logFilePath)
	}

	simCfg := config.GetSimConfig()
	storageCfg := config.GetStorageConfig()

	backend, err := createStorageBackend(storageCfg, sessionStart, logger, dbLog)
	if err != nil {
		return err
	}
	if backend != nil {
		if err := backend.Init(); err != nil {
			return fmt.Errorf("failed to initialize storage backend: %w", err)
		}
	}

	var telemetry *influx.Manager
	if influxCfg := config.GetInfluxConfig(); influxCfg.Enabled {
		backupPath := filepath.Join(viper.GetString("logsDir"), fmt.Sprintf("%s_%s.lp.gz", ExtensionName, sessionStart.Format("20060102_150405")))
		telemetry = influx.NewManager(influxCfg, dbLog, backupPath)
		if err := telemetry.Connect(ctx); err != nil {
			logger.Error("Failed to initialize InfluxDB, telemetry disabled", "error", err)
			telemetry = nil
		} else {
			defer telemetry.Close()
		}
	}

	eventDispatcher, err := dispatcher.New(logging.NewDispatcherLogger(dbLog))
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	simOpts := []sim.Option{
		sim.WithLogger(logger),
		sim.WithMissionContext(missionCtx),
	}

	var workerManager *worker.Manager
	if backend != nil {
		deps := worker.Dependencies{
			Logger:         logger,
			MissionContext: missionCtx,
		}
		if telemetry != nil {
			deps.Telemetry = telemetry
		}
		workerManager = worker.NewManager(deps, backend)
		workerManager.RegisterHandlers(eventDispatcher)
		simOpts = append(simOpts, sim.WithSink(workerManager))
		logger.Debug("Worker handlers registered with dispatcher")
	}

	engine, err := sim.New(simCfg, simOpts...)
	if err != nil {
		eventDispatcher.Close()
		closeBackend(backend, logger)
		return fmt.Errorf("failed to create session: %w", err)
	}
	session := engine.Session()

	if backend != nil {
		if err := backend.StartSession(session); err != nil {
			eventDispatcher.Close()
			closeBackend(backend, logger)
			return fmt.Errorf("failed to start session: %w", err)
		}
	}
	logger.Info("Session started",
		"id", session.ID,
		"name", session.Name,
		"seed", session.Seed,
		"agents", session.AgentCount,
		"tickRate", session.TickRate,
		"ticks", simCfg.Ticks,
	)

	monitorDeps := monitor.Dependencies{
		Logger:         logger,
		MissionContext: missionCtx,
		Stats:          engine,
		WorkerManager:  workerManager,
		Interval:       config.GetMonitorConfig().Interval,
		StatusPath:     opts.StatusFile,
	}
	if telemetry != nil {
		monitorDeps.Telemetry = telemetry
	}
	if pr, ok := backend.(storage.PerformanceRecorder); ok {
		monitorDeps.Performance = pr
	}
	monitorService := monitor.NewService(monitorDeps)
	if err := monitorService.Start(); err != nil {
		logger.Error("Failed to start status monitor", "error", err)
	}

	runStart := time.Now()
	summary, runErr := engine.Run(ctx, simCfg.Ticks, sim.NewAutopilot(engine))
	if errors.Is(runErr, context.Canceled) {
		logger.Warn("Session interrupted", "tick", summary.Ticks)
		runErr = nil
	}
	logger.Info("Session finished", "ticks", summary.Ticks, "duration", time.Since(runStart))

	// Drain every queued event before the session is closed
	monitorService.Stop()
	monitorService.Report(time.Now())
	eventDispatcher.Close()

	exportPath := ""
	if backend != nil {
		if err := backend.EndSession(&summary); err != nil {
			logger.Error("Failed to end session", "error", err)
		}
		if e, ok := backend.(storage.Exportable); ok {
			exportPath = e.ExportedFilePath()
		}
		closeBackend(backend, logger)
	}
	if workerManager != nil && workerManager.DispatchErrors() > 0 {
		logger.Warn("Some events were not recorded", "count", workerManager.DispatchErrors())
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := slogManager.Flush(flushCtx); err != nil {
		logger.Error("Failed to flush logs", "error", err)
	}

	printSummary(out, session, summary, exportPath)
	return runErr
}

func closeBackend(backend storage.Backend, logger *slog.Logger) {
	if backend == nil {
		return
	}
	if err := backend.Close(); err != nil {
		logger.Error("Failed to close storage backend", "error", err)
	}
}

func printSummary(w io.Writer, s *core.Session, sum core.SessionSummary, exportPath string) {
	fmt.Fprintf(w, "Session %d %q (seed %d)\n", s.ID, s.Name, s.Seed)
	fmt.Fprintf(w, "  ticks:          %d (%s simulated)\n", sum.Ticks, sum.SimTime)
	fmt.Fprintf(w, "  score:          %d\n", sum.Score)
	fmt.Fprintf(w, "  coins:          %d\n", sum.Coins)
	fmt.Fprintf(w, "  kills:          %d\n", sum.Kills)
	fmt.Fprintf(w, "  max combo:      %d\n", sum.MaxCombo)
	fmt.Fprintf(w, "  shots:          %d\n", sum.Shots)
	fmt.Fprintf(w, "  vehicle health: %.0f\n", sum.VehicleHealth)
	if sum.Rank != "" {
		fmt.Fprintf(w, "  rank:           %s\n", sum.Rank)
	}
	for _, sp := range core.AllSpecies {
		if n := sum.KillsBySpecies[sp]; n > 0 {
			fmt.Fprintf(w, "    %-14s %d\n", sp.String()+":", n)
		}
	}
	if exportPath != "" {
		fmt.Fprintf(w, "  recording:      %s\n", exportPath)
	}
}
