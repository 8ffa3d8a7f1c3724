package telemetry

import "github.com/pthm-cable/ecocycle/ecosystem"

// Collector accumulates daily flows within day windows and produces WindowStats.
type Collector struct {
	windowDays int

	// Current window tracking
	windowStartDay int
	days           int

	// Flow totals for current window
	flows        ecosystem.Flows
	satiationSum float64
}

// NewCollector creates a new stats collector.
// windowDays: how many simulated days each stats window covers.
func NewCollector(windowDays int) *Collector {
	if windowDays < 1 {
		windowDays = 1
	}
	return &Collector{windowDays: windowDays}
}

// Record adds the flows of one simulated day to the current window.
func (c *Collector) Record(f ecosystem.Flows) {
	c.flows.RabbitsEaten += f.RabbitsEaten
	c.flows.CarrotsEaten += f.CarrotsEaten
	c.flows.FoxDeaths += f.FoxDeaths
	c.flows.FoxBirths += f.FoxBirths
	c.flows.RabbitBirths += f.RabbitBirths
	c.flows.RabbitDeaths += f.RabbitDeaths
	c.flows.CarrotRegrowth += f.CarrotRegrowth
	c.flows.CarrotWasted += f.CarrotWasted
	c.satiationSum += f.Satiation
	c.days++
}

// ShouldFlush returns true if enough days have passed to flush the window.
func (c *Collector) ShouldFlush(currentDay int) bool {
	return currentDay-c.windowStartDay >= c.windowDays
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller must provide:
// - current: the engine's current day and populations
// - history: recorded snapshots; those from the window's first day on are summarised
// - alerts: number of active alerts
// - stable: whether the stable recommendation is showing
func (c *Collector) Flush(current ecosystem.Snapshot, history ecosystem.HistoryView, alerts int, stable bool) WindowStats {
	var foxes, rabbits, carrots []float64
	for i := 0; i < history.Len(); i++ {
		if history.Day[i] < c.windowStartDay {
			continue
		}
		foxes = append(foxes, history.Foxes[i])
		rabbits = append(rabbits, history.Rabbits[i])
		carrots = append(carrots, history.Carrots[i])
	}
	foxStats := ComputeSeriesStats(foxes)
	rabbitStats := ComputeSeriesStats(rabbits)
	carrotStats := ComputeSeriesStats(carrots)

	var meanSatiation float64
	if c.days > 0 {
		meanSatiation = c.satiationSum / float64(c.days)
	}

	stats := WindowStats{
		WindowStartDay: c.windowStartDay,
		WindowEndDay:   current.Day,
		Days:           c.days,

		Foxes:   current.Foxes,
		Rabbits: current.Rabbits,
		Carrots: current.Carrots,

		FoxesMean:   foxStats.Mean,
		FoxesCV:     foxStats.CV,
		RabbitsMean: rabbitStats.Mean,
		RabbitsCV:   rabbitStats.CV,
		CarrotsMean: carrotStats.Mean,
		CarrotsCV:   carrotStats.CV,

		RabbitsEaten:   c.flows.RabbitsEaten,
		CarrotsEaten:   c.flows.CarrotsEaten,
		FoxBirths:      c.flows.FoxBirths,
		FoxDeaths:      c.flows.FoxDeaths,
		RabbitBirths:   c.flows.RabbitBirths,
		RabbitDeaths:   c.flows.RabbitDeaths,
		CarrotRegrowth: c.flows.CarrotRegrowth,
		CarrotWasted:   c.flows.CarrotWasted,
		MeanSatiation:  meanSatiation,

		Alerts: alerts,
		Stable: stable,
	}

	c.Reset(current.Day)
	return stats
}

// Reset discards the current window and starts a new one at day.
func (c *Collector) Reset(day int) {
	c.windowStartDay = day
	c.days = 0
	c.flows = ecosystem.Flows{}
	c.satiationSum = 0
}

// WindowDays returns the number of days per window.
func (c *Collector) WindowDays() int {
	return c.windowDays
}
