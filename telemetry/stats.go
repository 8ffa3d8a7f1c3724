package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecocycle/ecosystem"
)

// SeriesStats summarises one population series.
type SeriesStats struct {
	Mean float64
	Std  float64
	CV   float64 // Std / Mean; 0 when the mean is 0
	Min  float64
	Max  float64
	P10  float64
	P50  float64
	P90  float64
}

// ComputeSeriesStats calculates mean, spread and percentiles of values.
// Returns the zero value for an empty slice.
func ComputeSeriesStats(values []float64) SeriesStats {
	n := len(values)
	if n == 0 {
		return SeriesStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var s SeriesStats
	if n > 1 {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean = sorted[0]
	}
	if s.Mean > 0 {
		s.CV = s.Std / s.Mean
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.P10 = Percentile(sorted, 0.10)
	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)
	return s
}

// Percentile calculates the p-th percentile of a sorted slice with linear
// interpolation. p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	// Linear interpolation between closest ranks
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// WindowStats holds aggregated statistics for a window of days.
type WindowStats struct {
	WindowStartDay int `csv:"-"`
	WindowEndDay   int `csv:"window_end"`
	Days           int `csv:"days"`

	// Populations at window end
	Foxes   float64 `csv:"foxes"`
	Rabbits float64 `csv:"rabbits"`
	Carrots float64 `csv:"carrots"`

	// Population spread over the window (from start-of-day snapshots)
	FoxesMean   float64 `csv:"foxes_mean"`
	FoxesCV     float64 `csv:"foxes_cv"`
	RabbitsMean float64 `csv:"rabbits_mean"`
	RabbitsCV   float64 `csv:"rabbits_cv"`
	CarrotsMean float64 `csv:"carrots_mean"`
	CarrotsCV   float64 `csv:"carrots_cv"`

	// Flow totals over the window
	RabbitsEaten   float64 `csv:"rabbits_eaten"`
	CarrotsEaten   float64 `csv:"carrots_eaten"`
	FoxBirths      float64 `csv:"fox_births"`
	FoxDeaths      float64 `csv:"fox_deaths"`
	RabbitBirths   float64 `csv:"rabbit_births"`
	RabbitDeaths   float64 `csv:"rabbit_deaths"`
	CarrotRegrowth float64 `csv:"carrot_regrowth"`
	CarrotWasted   float64 `csv:"carrot_wasted"`
	MeanSatiation  float64 `csv:"mean_satiation"`

	// Health signals at window end
	Alerts int  `csv:"alerts"`
	Stable bool `csv:"stable"`
}

// Population returns the window-end population of one species.
func (s WindowStats) Population(sp ecosystem.Species) float64 {
	switch sp {
	case ecosystem.Foxes:
		return s.Foxes
	case ecosystem.Rabbits:
		return s.Rabbits
	default:
		return s.Carrots
	}
}

// WastedFraction returns the share of carrot regrowth lost to capacity.
func (s WindowStats) WastedFraction() float64 {
	if s.CarrotRegrowth <= 0 {
		return 0
	}
	return math.Min(1, s.CarrotWasted/s.CarrotRegrowth)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartDay),
		slog.Int("window_end", s.WindowEndDay),
		slog.Int("days", s.Days),
		slog.Float64("foxes", s.Foxes),
		slog.Float64("rabbits", s.Rabbits),
		slog.Float64("carrots", s.Carrots),
		slog.Float64("foxes_mean", s.FoxesMean),
		slog.Float64("foxes_cv", s.FoxesCV),
		slog.Float64("rabbits_mean", s.RabbitsMean),
		slog.Float64("rabbits_cv", s.RabbitsCV),
		slog.Float64("carrots_mean", s.CarrotsMean),
		slog.Float64("carrots_cv", s.CarrotsCV),
		slog.Float64("rabbits_eaten", s.RabbitsEaten),
		slog.Float64("carrots_eaten", s.CarrotsEaten),
		slog.Float64("fox_births", s.FoxBirths),
		slog.Float64("fox_deaths", s.FoxDeaths),
		slog.Float64("rabbit_births", s.RabbitBirths),
		slog.Float64("rabbit_deaths", s.RabbitDeaths),
		slog.Float64("carrot_regrowth", s.CarrotRegrowth),
		slog.Float64("carrot_wasted", s.CarrotWasted),
		slog.Float64("mean_satiation", s.MeanSatiation),
		slog.Int("alerts", s.Alerts),
		slog.Bool("stable", s.Stable),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndDay,
		"foxes", s.Foxes,
		"rabbits", s.Rabbits,
		"carrots", s.Carrots,
		"foxes_cv", s.FoxesCV,
		"rabbits_cv", s.RabbitsCV,
		"carrots_cv", s.CarrotsCV,
		"rabbits_eaten", s.RabbitsEaten,
		"carrots_eaten", s.CarrotsEaten,
		"fox_births", s.FoxBirths,
		"rabbit_births", s.RabbitBirths,
		"carrot_wasted", s.CarrotWasted,
		"mean_satiation", s.MeanSatiation,
		"alerts", s.Alerts,
		"stable", s.Stable,
	)
}
