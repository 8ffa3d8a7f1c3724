package main

import (
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/ecocycle/ecosystem"
)

// steadyParams is a fixed point for every starting scale.
func steadyParams() ecosystem.Params {
	return ecosystem.Params{
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

func TestEvaluate_SurvivalDominates(t *testing.T) {
	const days = 20
	fe := NewFitnessEvaluator(NewParamVector(), steadyParams(), days)

	good, b := fe.evaluateParams(steadyParams())
	if good > -days {
		t.Errorf("steady fitness = %.2f, want <= %d", good, -days)
	}
	if b <= 0 || b > 1 {
		t.Errorf("steady balance = %.3f, want in (0, 1]", b)
	}

	doomed := steadyParams()
	doomed.FoxDeathRate = 1
	bad, b := fe.evaluateParams(doomed)
	if bad <= good {
		t.Errorf("fitness with doomed foxes %.2f not worse than steady %.2f", bad, good)
	}
	if b != 0 {
		t.Errorf("balance with an extinct species = %.3f, want 0", b)
	}
}

func TestParamVector_ApplyClampsAndKeepsPopulations(t *testing.T) {
	pv := NewParamVector()
	base := ecosystem.DefaultParams()

	raw := pv.DefaultVector()
	raw[3] = 7 // fox_death_rate far out of range
	p := pv.ApplyToParams(base, raw)

	if p.FoxDeathRate != pv.Specs[3].Max {
		t.Errorf("fox_death_rate = %v, want clamped to %v", p.FoxDeathRate, pv.Specs[3].Max)
	}
	if p.Initial() != base.Initial() {
		t.Errorf("starting populations changed: %+v", p.Initial())
	}
	if err := p.Validate(); err != nil {
		t.Errorf("clamped params invalid: %v", err)
	}

	round := pv.Denormalize(pv.Normalize(pv.ExtractFromParams(base)))
	for i, v := range pv.ExtractFromParams(base) {
		if math.Abs(round[i]-v) > 1e-9 {
			t.Errorf("%s: normalize round trip %v -> %v", pv.Specs[i].Name, v, round[i])
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"45s", "0m45s"},
		{"1h2m3s", "1h02m03s"},
	}
	for _, tt := range tests {
		d, err := time.ParseDuration(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := formatDuration(d); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
