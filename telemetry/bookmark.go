package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecocycle/config"
	"github.com/pthm-cable/ecocycle/ecosystem"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPreyCrash          BookmarkType = "prey_crash"
	BookmarkPredatorRecovery   BookmarkType = "predator_recovery"
	BookmarkStableEcosystem    BookmarkType = "stable_ecosystem"
	BookmarkProducerSaturation BookmarkType = "producer_saturation"
	BookmarkExtinction         BookmarkType = "extinction"
)

// stableLookback is the number of recent windows whose spread decides stability.
const stableLookback = 4

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Day         int          `csv:"day"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"day", b.Day,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentFoxMin       float64 // minimum fox count since the last recovery
	hasFoxMin          bool
	recentRabbitPeak   float64 // peak rabbit count since the last crash
	stableWindowsCount int     // consecutive windows with stable populations
	saturated          bool    // carrots were capacity-bound last window
	extinct            [3]bool // species already reported extinct
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < stableLookback+1 {
		historySize = stableLookback + 1
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	bookmarks = append(bookmarks, bd.checkExtinction(stats)...)

	if bd.historyFull || bd.historyIdx > 0 {
		// Rabbits dropped well below their recent peak
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Foxes climbed back from a low point
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Carrot regrowth mostly lost to the ceiling
	if b := bd.checkProducerSaturation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Update history
	bd.addToHistory(stats)

	// Low spread over the last few windows, judged including this one
	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Track fox minimum and rabbit peak
	if stats.Foxes > 0 && (!bd.hasFoxMin || stats.Foxes < bd.recentFoxMin) {
		bd.recentFoxMin = stats.Foxes
		bd.hasFoxMin = true
	}
	if stats.Rabbits > bd.recentRabbitPeak {
		bd.recentRabbitPeak = stats.Rabbits
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	if n > count {
		n = count
	}
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	var out []Bookmark
	for _, sp := range ecosystem.AllSpecies {
		if stats.Population(sp) > 0 || bd.extinct[sp] {
			continue
		}
		bd.extinct[sp] = true
		out = append(out, Bookmark{
			Type:        BookmarkExtinction,
			Day:         stats.WindowEndDay,
			Description: fmt.Sprintf("%s died out", sp),
		})
	}
	return out
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	c := bd.cfg.PredatorRecovery
	if !bd.hasFoxMin || bd.recentFoxMin > c.MaxLow {
		return nil
	}

	threshold := bd.recentFoxMin * c.RecoveryMultiplier
	if stats.Foxes >= threshold && stats.Foxes >= c.MinFinal {
		// Reset the minimum after triggering
		oldMin := bd.recentFoxMin
		bd.recentFoxMin = stats.Foxes

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Day:         stats.WindowEndDay,
			Description: fmt.Sprintf("Fox population recovered from %.1f to %.1f", oldMin, stats.Foxes),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentRabbitPeak == 0 {
		return nil
	}
	c := bd.cfg.PreyCrash

	dropPercent := 1.0 - stats.Rabbits/bd.recentRabbitPeak
	if dropPercent > c.DropPercent && stats.Rabbits < bd.recentRabbitPeak-c.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentRabbitPeak
		bd.recentRabbitPeak = stats.Rabbits

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Day:         stats.WindowEndDay,
			Description: fmt.Sprintf("Rabbits crashed %.0f%% from peak %.1f to %.1f", dropPercent*100, oldPeak, stats.Rabbits),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	c := bd.cfg.StableEcosystem

	// Need both animal populations present
	if stats.Rabbits < c.MinRabbits || stats.Foxes < c.MinFoxes {
		bd.stableWindowsCount = 0
		return nil
	}

	window := bd.recent(stableLookback)
	if len(window) < stableLookback {
		return nil
	}

	foxes := make([]float64, len(window))
	rabbits := make([]float64, len(window))
	for i, h := range window {
		foxes[i] = h.Foxes
		rabbits[i] = h.Rabbits
	}

	if coefficientOfVariation(foxes) < c.CVThreshold && coefficientOfVariation(rabbits) < c.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == c.StableWindows { // trigger exactly once per stable run
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Day:         stats.WindowEndDay,
			Description: fmt.Sprintf("Stable ecosystem with %.1f rabbits, %.1f foxes over %d+ windows", stats.Rabbits, stats.Foxes, c.StableWindows),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkProducerSaturation(stats WindowStats) *Bookmark {
	frac := stats.WastedFraction()
	was := bd.saturated
	bd.saturated = frac > bd.cfg.ProducerSaturation.WastedFraction
	if !bd.saturated || was {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkProducerSaturation,
		Day:         stats.WindowEndDay,
		Description: fmt.Sprintf("Carrots at capacity, %.0f%% of regrowth wasted", frac*100),
	}
}

// coefficientOfVariation uses the population standard deviation.
func coefficientOfVariation(x []float64) float64 {
	mean := stat.Mean(x, nil)
	if mean <= 0 {
		return 0
	}
	return stat.PopStdDev(x, nil) / mean
}
