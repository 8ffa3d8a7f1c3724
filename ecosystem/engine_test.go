package ecosystem

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func newTestEngine(t *testing.T, p Params) *Engine {
	t.Helper()
	e, err := NewEngine(p, Options{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// equilibriumParams sits at a fixed point: predation matches net prey
// growth, predator births match deaths and carrots stay at capacity.
func equilibriumParams() Params {
	return Params{
		FoxesInit:              10,
		RabbitsInit:            100,
		CarrotsInit:            500,
		RabbitsPerFoxPerDay:    0.55,
		CarrotsPerRabbitPerDay: 0.5,
		CarrotGrowthRate:       15,
		FoxDeathRate:           0.05,
		RabbitDeathRate:        0.045,
		RabbitBirthRate:        0.1,
		MaxCarrots:             500,
		FoxConversion:          0.1,
	}
}

func TestEngine_FirstStep(t *testing.T) {
	e := newTestEngine(t, DefaultParams())
	e.Step()

	cur := e.Current()
	if cur.Day != 1 {
		t.Errorf("day = %d, want 1", cur.Day)
	}

	h := e.History()
	if h.Len() != 1 {
		t.Fatalf("history length = %d, want 1", h.Len())
	}
	want := Snapshot{Day: 0, Foxes: 10, Rabbits: 50, Carrots: 200}
	if got := h.Snapshot(0); got != want {
		t.Errorf("history[0] = %+v, want pre-step snapshot %+v", got, want)
	}

	if cur.Foxes < 0 || cur.Rabbits < 0 || cur.Carrots < 0 || cur.Carrots > 500 {
		t.Errorf("populations out of range: %+v", cur)
	}

	flows, ok := e.LastFlows()
	if !ok {
		t.Fatal("expected flows after a step")
	}
	if flows.RabbitsEaten != 5 {
		t.Errorf("rabbits eaten = %v, want 5", flows.RabbitsEaten)
	}
}

func TestEngine_NoPreyDoesNotFail(t *testing.T) {
	p := DefaultParams()
	p.RabbitsInit = 0
	e := newTestEngine(t, p)

	for i := 0; i < 50; i++ {
		e.Step()
	}

	cur := e.Current()
	if cur.Rabbits != 0 {
		t.Errorf("rabbits = %v, want 0", cur.Rabbits)
	}
	if cur.Foxes >= 10 {
		t.Errorf("foxes = %v, want decline from 10", cur.Foxes)
	}
	if cur.Carrots != p.MaxCarrots {
		t.Errorf("carrots = %v, want capacity %v after unchecked regrowth", cur.Carrots, p.MaxCarrots)
	}
}

func TestEngine_CarrotCeilingExact(t *testing.T) {
	p := DefaultParams()
	p.CarrotGrowthRate = 5000
	e := newTestEngine(t, p)
	e.Step()

	if got := e.Current().Carrots; got != p.MaxCarrots {
		t.Errorf("carrots = %v, want exactly %v", got, p.MaxCarrots)
	}
}

func TestEngine_Invariants(t *testing.T) {
	heavyPredation := DefaultParams()
	heavyPredation.FoxesInit = 200
	heavyPredation.RabbitsPerFoxPerDay = 5

	boom := DefaultParams()
	boom.RabbitBirthRate = 2
	boom.CarrotGrowthRate = 300

	extinct := DefaultParams()
	extinct.FoxesInit = 0
	extinct.RabbitsInit = 0
	extinct.CarrotsInit = 0

	cases := map[string]Params{
		"reference":       DefaultParams(),
		"heavy predation": heavyPredation,
		"boom":            boom,
		"empty":           extinct,
		"equilibrium":     equilibriumParams(),
	}

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			e, err := NewEngine(p, Options{HistoryCapacity: 30})
			if err != nil {
				t.Fatalf("NewEngine: %v", err)
			}

			for i := 1; i <= 250; i++ {
				e.Step()
				cur := e.Current()

				if cur.Day != i {
					t.Fatalf("day = %d after %d steps", cur.Day, i)
				}
				if cur.Foxes < 0 || cur.Rabbits < 0 || cur.Carrots < 0 {
					t.Fatalf("negative population on day %d: %+v", cur.Day, cur)
				}
				if cur.Carrots > p.MaxCarrots {
					t.Fatalf("carrots %v exceed capacity %v", cur.Carrots, p.MaxCarrots)
				}

				h := e.History()
				if len(h.Day) != len(h.Foxes) || len(h.Day) != len(h.Rabbits) || len(h.Day) != len(h.Carrots) {
					t.Fatalf("history sequences differ in length on day %d", cur.Day)
				}
				if h.Len() > 30 {
					t.Fatalf("history length %d exceeds capacity", h.Len())
				}
				if last := h.Day[h.Len()-1]; last != cur.Day-1 {
					t.Fatalf("last recorded day = %d, want %d", last, cur.Day-1)
				}
			}
		})
	}
}

func TestEngine_HistoryEvictsOldest(t *testing.T) {
	e, err := NewEngine(DefaultParams(), Options{HistoryCapacity: 100})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	for i := 0; i < 150; i++ {
		e.Step()
	}

	h := e.History()
	if h.Len() != 100 {
		t.Fatalf("history length = %d, want 100", h.Len())
	}
	if h.Day[0] != 50 || h.Day[99] != 149 {
		t.Errorf("history days span %d..%d, want 50..149", h.Day[0], h.Day[99])
	}
	for i := 1; i < h.Len(); i++ {
		if h.Day[i] != h.Day[i-1]+1 {
			t.Fatalf("history not chronological at %d: %v", i, h.Day[i-1:i+1])
		}
	}
}

func TestEngine_HistoryViewIsDetached(t *testing.T) {
	e := newTestEngine(t, DefaultParams())
	e.Step()

	h := e.History()
	h.Foxes[0] = -1

	if got := e.History().Foxes[0]; got != 10 {
		t.Errorf("engine history changed through view: foxes[0] = %v", got)
	}
}

func TestEngine_Deterministic(t *testing.T) {
	run := func() (Snapshot, HistoryView) {
		e := newTestEngine(t, DefaultParams())
		for i := 0; i < 120; i++ {
			e.Step()
		}
		return e.Current(), e.History()
	}

	cur1, h1 := run()
	cur2, h2 := run()

	if cur1 != cur2 {
		t.Errorf("current differs between runs: %+v vs %+v", cur1, cur2)
	}
	if !reflect.DeepEqual(h1, h2) {
		t.Error("history differs between runs")
	}
}

func TestEngine_QueriesIdempotent(t *testing.T) {
	e := newTestEngine(t, DefaultParams())
	for i := 0; i < 25; i++ {
		e.Step()
	}

	tr1, ok1 := e.Trends()
	tr2, ok2 := e.Trends()
	if tr1 != tr2 || ok1 != ok2 {
		t.Error("Trends changed between calls")
	}
	if !reflect.DeepEqual(e.Alerts(), e.Alerts()) {
		t.Error("Alerts changed between calls")
	}
	if !reflect.DeepEqual(e.Recommendations(), e.Recommendations()) {
		t.Error("Recommendations changed between calls")
	}
	if e.Current().Day != 25 || e.HistoryLen() != 25 {
		t.Error("queries mutated the state")
	}
}

func TestEngine_ResetRejectsInvalidParams(t *testing.T) {
	e := newTestEngine(t, DefaultParams())
	for i := 0; i < 5; i++ {
		e.Step()
	}
	before := e.Current()

	bad := DefaultParams()
	bad.MaxCarrots = 0
	bad.FoxDeathRate = math.NaN()

	err := e.Reset(bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrInvalidParam) {
		t.Errorf("error %v does not wrap ErrInvalidParam", err)
	}
	var pe *ParamError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a *ParamError", err)
	}

	if e.Current() != before {
		t.Errorf("state changed after rejected reset: %+v vs %+v", e.Current(), before)
	}
	if e.HistoryLen() != 5 {
		t.Errorf("history length = %d, want 5 after rejected reset", e.HistoryLen())
	}
	if e.Params() != DefaultParams() {
		t.Error("params changed after rejected reset")
	}
}

func TestEngine_ResetRestarts(t *testing.T) {
	e := newTestEngine(t, DefaultParams())
	for i := 0; i < 7; i++ {
		e.Step()
	}

	p := DefaultParams()
	p.FoxesInit = 3
	if err := e.Reset(p); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	cur := e.Current()
	if cur.Day != 0 || cur.Foxes != 3 || cur.Rabbits != 50 || cur.Carrots != 200 {
		t.Errorf("after reset: %+v", cur)
	}
	if e.HistoryLen() != 0 {
		t.Errorf("history length = %d, want 0", e.HistoryLen())
	}
	if _, ok := e.LastFlows(); ok {
		t.Error("flows should be cleared by reset")
	}
}

func TestNewEngine_InvalidParams(t *testing.T) {
	p := DefaultParams()
	p.RabbitsPerFoxPerDay = 0

	if _, err := NewEngine(p, Options{}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("NewEngine error = %v, want ErrInvalidParam", err)
	}
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"valid", func(p *Params) {}, ""},
		{"negative foxes", func(p *Params) { p.FoxesInit = -1 }, "foxes_init"},
		{"zero appetite", func(p *Params) { p.CarrotsPerRabbitPerDay = 0 }, "carrots_per_rabbit_per_day"},
		{"death rate above one", func(p *Params) { p.RabbitDeathRate = 1.5 }, "rabbit_death_rate"},
		{"negative growth", func(p *Params) { p.CarrotGrowthRate = -3 }, "carrot_growth_rate"},
		{"infinite birth rate", func(p *Params) { p.RabbitBirthRate = math.Inf(1) }, "rabbit_birth_rate"},
		{"conversion above one", func(p *Params) { p.FoxConversion = 2 }, "fox_conversion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()

			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var pe *ParamError
			if !errors.As(err, &pe) {
				t.Fatalf("error %v is not a *ParamError", err)
			}
			if pe.Field != tt.field {
				t.Errorf("field = %q, want %q", pe.Field, tt.field)
			}
		})
	}
}
