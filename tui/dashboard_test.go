package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pthm-cable/ecocycle/config"
	"github.com/pthm-cable/ecocycle/game"
)

func newTestModel(t *testing.T, maxDays int) model {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g, err := game.NewGameWithOptions(game.Options{Config: cfg})
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return New(g, maxDays).(model)
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		top    float64
		want   string
	}{
		{"empty", nil, 10, ""},
		{"scaled", []float64{0, 5, 10}, 10, " ▄█"},
		{"clamped", []float64{20}, 10, "█"},
		{"zero top", []float64{1}, 0, "█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.values, tt.top); got != tt.want {
				t.Errorf("Sparkline(%v, %v) = %q, want %q", tt.values, tt.top, got, tt.want)
			}
		})
	}
}

func TestUpdate_Keys(t *testing.T) {
	m := newTestModel(t, 0)

	next, _ := m.Update(key(' '))
	m = next.(model)
	if m.g.State() != game.Running {
		t.Fatalf("space: state = %v, want running", m.g.State())
	}

	next, _ = m.Update(key(' '))
	m = next.(model)
	if m.g.State() != game.Paused {
		t.Fatalf("second space: state = %v, want paused", m.g.State())
	}

	next, _ = m.Update(key('n'))
	m = next.(model)
	if m.g.Tick() != 1 {
		t.Fatalf("n: day = %d, want 1", m.g.Tick())
	}

	next, _ = m.Update(key('r'))
	m = next.(model)
	if m.g.Tick() != 0 || m.g.State() != game.Idle {
		t.Errorf("r: day %d state %v, want day 0 idle", m.g.Tick(), m.g.State())
	}

	_, cmd := m.Update(key('q'))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestUpdate_TickAdvancesRunningGame(t *testing.T) {
	m := newTestModel(t, 3)
	interval := m.g.Config().Derived.TickInterval
	m.g.Start()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	next, cmd := m.Update(tickMsg(t0))
	m = next.(model)
	if m.g.Tick() != 0 || cmd == nil {
		t.Fatalf("first tick stepped to day %d", m.g.Tick())
	}

	next, _ = m.Update(tickMsg(t0.Add(interval * 2)))
	m = next.(model)
	if m.g.Tick() != 2 {
		t.Fatalf("day = %d, want 2", m.g.Tick())
	}

	_, cmd = m.Update(tickMsg(t0.Add(interval * 3)))
	if cmd == nil {
		t.Fatal("no command at max days")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("reaching max days did not quit")
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, 0)
	m.g.StepOnce()
	m.g.StepOnce()

	out := m.View()
	for _, want := range []string{"day 2", "foxes", "rabbits", "carrots", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
