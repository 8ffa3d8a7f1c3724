package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed part of a simulated day.
type Phase int

const (
	PhaseStep      Phase = iota // engine update
	PhaseAnalysis               // alerts and recommendations
	PhaseTelemetry              // flow windows and bookmarks
	PhaseOutput                 // history snapshot
	numPhases
)

var phaseNames = [numPhases]string{"step", "analysis", "telemetry", "output"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// DayTiming is the wall-clock cost of stepping one simulated day.
type DayTiming struct {
	Day    int
	Total  time.Duration
	Phases [numPhases]time.Duration

	entered [numPhases]bool
}

// PerfCollector times the phases of each simulated day and keeps the most
// recent days in a ring.
type PerfCollector struct {
	now  func() time.Time
	ring []DayTiming
	next int
	n    int

	cur     DayTiming
	open    bool
	dayAt   time.Time
	phase   Phase
	inPhase bool
	phaseAt time.Time
}

// NewPerfCollector keeps the last windowSize days, timed with the wall clock.
func NewPerfCollector(windowSize int) *PerfCollector {
	return NewPerfCollectorWithClock(windowSize, time.Now)
}

// NewPerfCollectorWithClock is NewPerfCollector with a custom clock.
func NewPerfCollectorWithClock(windowSize int, now func() time.Time) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{now: now, ring: make([]DayTiming, windowSize)}
}

// StartDay begins timing the step from simulated day.
func (p *PerfCollector) StartDay(day int) {
	p.cur = DayTiming{Day: day}
	p.open = true
	p.inPhase = false
	p.dayAt = p.now()
	p.phaseAt = p.dayAt
}

// StartPhase closes the running phase and opens ph. The first phase of a
// day starts at StartDay, so phases always sum to the day total. A phase
// entered more than once in a day accumulates.
func (p *PerfCollector) StartPhase(ph Phase) {
	if !p.open || ph < 0 || ph >= numPhases {
		return
	}
	if p.inPhase {
		p.closePhase(p.now())
	}
	p.phase = ph
	p.inPhase = true
	p.cur.entered[ph] = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.cur.Phases[p.phase] += now.Sub(p.phaseAt)
		p.inPhase = false
	}
	p.phaseAt = now
}

// EndDay closes the day and stores it, evicting the oldest once full.
func (p *PerfCollector) EndDay() {
	if !p.open {
		return
	}
	now := p.now()
	p.closePhase(now)
	p.cur.Total = now.Sub(p.dayAt)
	p.open = false

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.n < len(p.ring) {
		p.n++
	}
}

// Days returns the stored timings, oldest first.
func (p *PerfCollector) Days() []DayTiming {
	out := make([]DayTiming, 0, p.n)
	start := (p.next - p.n + len(p.ring)) % len(p.ring)
	for i := 0; i < p.n; i++ {
		out = append(out, p.ring[(start+i)%len(p.ring)])
	}
	return out
}

// PerfStats summarizes the stored days.
type PerfStats struct {
	Days       int
	AvgDay     time.Duration
	P95Day     time.Duration
	MaxDay     time.Duration
	SlowestDay int // simulated day whose step took MaxDay

	DaysPerSecond float64

	// Per-day averages and shares of AvgDay for every phase entered in
	// the window. A phase that ran on some days only is averaged over all.
	PhaseAvg map[Phase]time.Duration
	PhasePct map[Phase]float64
}

// Stats aggregates the stored days.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg: make(map[Phase]time.Duration),
		PhasePct: make(map[Phase]float64),
	}
	days := p.Days()
	if len(days) == 0 {
		return s
	}
	s.Days = len(days)

	totals := make([]float64, len(days))
	var sums [numPhases]time.Duration
	var entered [numPhases]bool
	for i, d := range days {
		totals[i] = float64(d.Total)
		if i == 0 || d.Total > s.MaxDay {
			s.MaxDay = d.Total
			s.SlowestDay = d.Day
		}
		for ph := Phase(0); ph < numPhases; ph++ {
			sums[ph] += d.Phases[ph]
			entered[ph] = entered[ph] || d.entered[ph]
		}
	}

	s.AvgDay = time.Duration(stat.Mean(totals, nil))
	sort.Float64s(totals)
	s.P95Day = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))
	if s.AvgDay > 0 {
		s.DaysPerSecond = float64(time.Second) / float64(s.AvgDay)
	}

	for ph := Phase(0); ph < numPhases; ph++ {
		if !entered[ph] {
			continue
		}
		avg := sums[ph] / time.Duration(len(days))
		s.PhaseAvg[ph] = avg
		s.PhasePct[ph] = 0
		if s.AvgDay > 0 {
			s.PhasePct[ph] = float64(avg) * 100 / float64(s.AvgDay)
		}
	}
	return s
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("days", s.Days),
		slog.Int64("avg_day_us", s.AvgDay.Microseconds()),
		slog.Int64("p95_day_us", s.P95Day.Microseconds()),
		slog.Int64("max_day_us", s.MaxDay.Microseconds()),
		slog.Int("slowest_day", s.SlowestDay),
		slog.Int("days_per_sec", int(s.DaysPerSecond)),
	}
	for ph := Phase(0); ph < numPhases; ph++ {
		if pct, ok := s.PhasePct[ph]; ok {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int     `csv:"window_end"`
	Days         int     `csv:"days"`
	AvgDayUS     int64   `csv:"avg_day_us"`
	P95DayUS     int64   `csv:"p95_day_us"`
	MaxDayUS     int64   `csv:"max_day_us"`
	SlowestDay   int     `csv:"slowest_day"`
	DaysPerSec   float64 `csv:"days_per_sec"`
	StepPct      float64 `csv:"step_pct"`
	AnalysisPct  float64 `csv:"analysis_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	OutputPct    float64 `csv:"output_pct"`
}

// ToCSV flattens s for the stats window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		Days:         s.Days,
		AvgDayUS:     s.AvgDay.Microseconds(),
		P95DayUS:     s.P95Day.Microseconds(),
		MaxDayUS:     s.MaxDay.Microseconds(),
		SlowestDay:   s.SlowestDay,
		DaysPerSec:   s.DaysPerSecond,
		StepPct:      s.PhasePct[PhaseStep],
		AnalysisPct:  s.PhasePct[PhaseAnalysis],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
		OutputPct:    s.PhasePct[PhaseOutput],
	}
}
