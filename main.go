package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ecocycle/config"
	"github.com/pthm-cable/ecocycle/game"
	"github.com/pthm-cable/ecocycle/telemetry"
	"github.com/pthm-cable/ecocycle/tui"
	"github.com/pthm-cable/ecocycle/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	terminal := flag.Bool("tui", false, "Run the terminal dashboard instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxDays := flag.Int("max-days", 0, "Stop after N days (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Days per headless update call (0 = use config)")
	report := flag.Bool("report", false, "Print a summary report when a headless run ends")
	var overrides []string
	flag.Func("set", "Override a config value, key=value (repeatable)", func(s string) error {
		overrides = append(overrides, s)
		return nil
	})

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if err := cfg.ApplyOverrides(overrides); err != nil {
		var oe *config.OverrideError
		if errors.As(err, &oe) && oe.Suggestion != "" {
			slog.Error("invalid override", "error", err, "suggestion", oe.Suggestion)
		} else {
			slog.Error("invalid override", "error", err)
		}
		os.Exit(1)
	}

	opts := game.Options{
		Config:         cfg,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	switch {
	case *headless:
		runHeadless(g, *maxDays, *report)
	case *terminal:
		// The dashboard owns stdout
		slog.SetDefault(slog.New(slog.DiscardHandler))
		if err := tui.Run(g, *maxDays); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		runWindow(g, cfg, *maxDays)
	}
}

func runHeadless(g *game.Game, maxDays int, report bool) {
	if maxDays <= 0 {
		slog.Warn("headless run without -max-days runs until interrupted")
	}
	slog.Info("starting headless simulation",
		"max_days", maxDays,
		"params", g.Engine().Params(),
	)

	for maxDays <= 0 || g.Tick() < maxDays {
		g.UpdateHeadless()
	}
	slog.Info("max days reached", "day", g.Tick())

	if report {
		fmt.Println(telemetry.RenderReport(telemetry.NewReport(g.Engine(), g.Bookmarks())))
	}
}

func runWindow(g *game.Game, cfg *config.Config, maxDays int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ecocycle")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0)
	if cfg.Screen.Fullscreen {
		rl.ToggleFullscreen()
	}

	w := ui.NewWindow(g)
	for !rl.WindowShouldClose() {
		w.Update()
		w.Draw()

		if maxDays > 0 && g.Tick() >= maxDays {
			break
		}
	}
}
