// Package game drives an ecosystem engine: it owns the run state, paces
// steps against wall-clock time and feeds telemetry.
package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/ecocycle/config"
	"github.com/pthm-cable/ecocycle/ecosystem"
	"github.com/pthm-cable/ecocycle/telemetry"
)

// maxCatchUp bounds the days stepped for one Advance call after a stall.
const maxCatchUp = 10

// maxBookmarks is the number of recent bookmarks kept for display.
const maxBookmarks = 50

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	LogStats       bool
	OutputDir      string
	StepsPerUpdate int // days per UpdateHeadless call (0 = config)
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the engine and everything driving it.
type Game struct {
	cfg    *config.Config
	engine *ecosystem.Engine

	run            RunState
	accum          time.Duration
	stepsPerUpdate int

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarks        []telemetry.Bookmark
	lastStats        *telemetry.WindowStats
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGameWithOptions creates a game reset to the configured parameters.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	engine, err := ecosystem.NewEngine(cfg.Params, cfg.EngineOptions())
	if err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config", "error", err)
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = cfg.Simulation.StepsPerUpdate
	}

	g := &Game{
		cfg:              cfg,
		engine:           engine,
		stepsPerUpdate:   steps,
		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager:    om,
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}
	return g, nil
}

// Engine returns the driven engine for read-only queries.
func (g *Game) Engine() *ecosystem.Engine {
	return g.engine
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// State returns the current run state.
func (g *Game) State() RunState {
	return g.run
}

// Tick returns the current simulated day.
func (g *Game) Tick() int {
	return g.engine.Current().Day
}

// Bookmarks returns the most recent bookmarks, oldest first.
func (g *Game) Bookmarks() []telemetry.Bookmark {
	return append([]telemetry.Bookmark(nil), g.bookmarks...)
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() (telemetry.WindowStats, bool) {
	if g.lastStats == nil {
		return telemetry.WindowStats{}, false
	}
	return *g.lastStats, true
}

// PerfStats returns timings for the most recent simulated days.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}


func (g *Game) setState(s RunState) {
	if s == g.run {
		return
	}
	slog.Info("run state", "from", g.run.String(), "to", s.String(), "day", g.Tick())
	g.run = s
	if s != Running {
		g.accum = 0
	}
}

// Start begins or resumes running.
func (g *Game) Start() {
	g.setState(Running)
}

// Pause stops stepping without discarding state.
func (g *Game) Pause() {
	if g.run == Running {
		g.setState(Paused)
	}
}

// Toggle flips between running and paused (starting from idle).
func (g *Game) Toggle() {
	g.setState(g.run.Toggled())
}

// Reset restarts from day 0 with the active parameters and stops running.
func (g *Game) Reset() {
	// Active params were validated when applied.
	_ = g.ApplyParams(g.engine.Params())
}

// ApplyParams validates p and, if valid, restarts the simulation with it.
// On error nothing changes, including the run state.
func (g *Game) ApplyParams(p ecosystem.Params) error {
	if err := g.engine.Reset(p); err != nil {
		return err
	}
	g.setState(Idle)
	g.accum = 0
	g.collector.Reset(0)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(g.cfg.Telemetry.BookmarkHistorySize, g.cfg.Bookmarks)
	g.bookmarks = nil
	g.lastStats = nil
	slog.Info("reset", "params", p)
	return nil
}

// Advance accumulates elapsed wall-clock time and steps one day per tick
// interval while running. Returns the number of days stepped.
func (g *Game) Advance(elapsed time.Duration) int {
	if g.run != Running {
		return 0
	}
	interval := g.cfg.Derived.TickInterval
	g.accum += elapsed

	n := 0
	for g.accum >= interval {
		g.accum -= interval
		g.step()
		n++
		if n >= maxCatchUp {
			g.accum = 0
			break
		}
	}
	return n
}

// UpdateHeadless runs StepsPerUpdate days with no pacing.
func (g *Game) UpdateHeadless() {
	if g.run != Running {
		g.Start()
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// StepOnce advances a single day while not running. A running game
// ignores it.
func (g *Game) StepOnce() {
	if g.run == Running {
		return
	}
	g.step()
}

// step advances one day and feeds telemetry.
func (g *Game) step() {
	recorded := g.engine.Current()
	g.perfCollector.StartDay(recorded.Day)

	g.perfCollector.StartPhase(telemetry.PhaseStep)
	g.engine.Step()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if flows, ok := g.engine.LastFlows(); ok {
		g.collector.Record(flows)
	}
	g.flushTelemetry()

	g.perfCollector.StartPhase(telemetry.PhaseOutput)
	if err := g.outputManager.WriteSnapshot(recorded); err != nil {
		slog.Warn("failed to write snapshot", "error", err)
	}

	g.perfCollector.EndDay()
}

// Unload releases output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Warn("failed to close output", "error", err)
	}
}
