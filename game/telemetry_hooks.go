package game

import (
	"log/slog"

	"github.com/pthm-cable/ecocycle/ecosystem"
	"github.com/pthm-cable/ecocycle/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	current := g.engine.Current()
	if !g.collector.ShouldFlush(current.Day) {
		return
	}

	g.perfCollector.StartPhase(telemetry.PhaseAnalysis)
	alerts := g.engine.Alerts()
	stable := false
	for _, r := range g.engine.Recommendations() {
		if r.Kind == ecosystem.RecommendStable {
			stable = true
		}
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	stats := g.collector.Flush(current, g.engine.History(), len(alerts), stable)
	g.lastStats = &stats
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Warn("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndDay); err != nil {
		slog.Warn("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Warn("failed to write bookmark", "error", err)
		}

		g.bookmarks = append(g.bookmarks, bm)
		if len(g.bookmarks) > maxBookmarks {
			g.bookmarks = g.bookmarks[len(g.bookmarks)-maxBookmarks:]
		}
	}
}
