package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecocycle/ecosystem"
)

func newEngine(t *testing.T) *ecosystem.Engine {
	t.Helper()
	e, err := ecosystem.NewEngine(ecosystem.DefaultParams(), ecosystem.Options{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestCollector_FlushTotals(t *testing.T) {
	e := newEngine(t)
	c := NewCollector(5)

	var eaten, regrowth, satiation float64
	for day := 0; day < 5; day++ {
		if c.ShouldFlush(e.Current().Day) {
			t.Fatalf("ShouldFlush true on day %d", e.Current().Day)
		}
		e.Step()
		f, _ := e.LastFlows()
		c.Record(f)
		eaten += f.RabbitsEaten
		regrowth += f.CarrotRegrowth
		satiation += f.Satiation
	}

	if !c.ShouldFlush(e.Current().Day) {
		t.Fatal("ShouldFlush false after a full window")
	}

	stats := c.Flush(e.Current(), e.History(), len(e.Alerts()), false)

	if stats.WindowStartDay != 0 || stats.WindowEndDay != 5 || stats.Days != 5 {
		t.Errorf("window = [%d, %d] over %d days, want [0, 5] over 5", stats.WindowStartDay, stats.WindowEndDay, stats.Days)
	}
	if math.Abs(stats.RabbitsEaten-eaten) > 1e-9 {
		t.Errorf("rabbits eaten = %v, want %v", stats.RabbitsEaten, eaten)
	}
	if math.Abs(stats.CarrotRegrowth-regrowth) > 1e-9 {
		t.Errorf("carrot regrowth = %v, want %v", stats.CarrotRegrowth, regrowth)
	}
	if math.Abs(stats.MeanSatiation-satiation/5) > 1e-9 {
		t.Errorf("mean satiation = %v, want %v", stats.MeanSatiation, satiation/5)
	}

	cur := e.Current()
	if stats.Foxes != cur.Foxes || stats.Rabbits != cur.Rabbits || stats.Carrots != cur.Carrots {
		t.Errorf("window-end populations = %v/%v/%v, want %+v", stats.Foxes, stats.Rabbits, stats.Carrots, cur)
	}

	want := ComputeSeriesStats(e.History().Series(ecosystem.Foxes))
	if math.Abs(stats.FoxesMean-want.Mean) > 1e-9 {
		t.Errorf("foxes mean = %v, want %v", stats.FoxesMean, want.Mean)
	}
}

func TestCollector_WindowResets(t *testing.T) {
	e := newEngine(t)
	c := NewCollector(3)

	for i := 0; i < 3; i++ {
		e.Step()
		f, _ := e.LastFlows()
		c.Record(f)
	}
	c.Flush(e.Current(), e.History(), 0, false)

	if c.ShouldFlush(e.Current().Day) {
		t.Error("ShouldFlush true right after flush")
	}

	for i := 0; i < 3; i++ {
		e.Step()
		f, _ := e.LastFlows()
		c.Record(f)
	}
	stats := c.Flush(e.Current(), e.History(), 0, false)

	if stats.WindowStartDay != 3 || stats.Days != 3 {
		t.Errorf("second window starts at %d over %d days, want 3 over 3", stats.WindowStartDay, stats.Days)
	}

	// Only snapshots from day 3 on feed the spread
	view := e.History()
	var foxes []float64
	for i := 0; i < view.Len(); i++ {
		if view.Day[i] >= 3 {
			foxes = append(foxes, view.Foxes[i])
		}
	}
	want := ComputeSeriesStats(foxes)
	if math.Abs(stats.FoxesMean-want.Mean) > 1e-9 {
		t.Errorf("foxes mean = %v, want %v", stats.FoxesMean, want.Mean)
	}
}

func TestCollector_MinimumWindow(t *testing.T) {
	c := NewCollector(0)
	if c.WindowDays() != 1 {
		t.Errorf("window days = %d, want 1", c.WindowDays())
	}
}
