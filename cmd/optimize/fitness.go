package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecocycle/ecosystem"
	"github.com/pthm-cable/ecocycle/ensemble"
)

// minViablePop is the population at or below which a species counts as
// functionally extinct.
const minViablePop = 1.0

// defaultScales multiply the base starting populations, one ensemble
// member each.
var defaultScales = []float64{0.5, 1, 1.5}

// FitnessEvaluator runs ensembles and computes fitness. Score is safe
// for concurrent use; each call owns its ensemble.
type FitnessEvaluator struct {
	params *ParamVector
	base   ecosystem.Params
	days   int
	scales []float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, base ecosystem.Params, days int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params: params,
		base:   base,
		days:   days,
		scales: defaultScales,
	}
}

// Score computes fitness (lower = better) and the balance component for
// a raw parameter vector.
func (fe *FitnessEvaluator) Score(x []float64) (fitness, balance float64) {
	return fe.evaluateParams(fe.params.ApplyToParams(fe.base, x))
}

// evaluateParams runs one member per starting scale for fe.days days.
// Fitness = -(mean survival days × (1 + 0.2 × balance)): survival
// dominates and balance separates configs that survive equally long.
func (fe *FitnessEvaluator) evaluateParams(p ecosystem.Params) (fitness, balance float64) {
	w := ensemble.New()
	w.SetViable(minViablePop)
	for _, s := range fe.scales {
		member := p
		member.FoxesInit *= s
		member.RabbitsInit *= s
		member.CarrotsInit *= s
		if _, err := w.Spawn(fmt.Sprintf("x%g", s), member); err != nil {
			// Clamped vectors are always valid; a bad base config is not.
			return 0, 0
		}
	}
	w.StepN(fe.days)

	results := w.Results()
	survival := make([]float64, 0, len(results)*len(ecosystem.AllSpecies))
	balances := make([]float64, 0, len(results))
	for i, r := range results {
		for _, sp := range ecosystem.AllSpecies {
			survival = append(survival, float64(r.SurvivalDays(sp, fe.days)))
		}
		balances = append(balances, balanceScore(scaled(p.Initial(), fe.scales[i]), r))
	}

	balance = stat.Mean(balances, nil)
	return -(stat.Mean(survival, nil) * (1.0 + 0.2*balance)), balance
}

// balanceScore is 1 when every species ends where it started and decays
// with the squared log ratio of final to initial populations. Members with
// an extinct species score 0.
func balanceScore(initial ecosystem.Populations, r ensemble.Result) float64 {
	if r.Survivors() < len(ecosystem.AllSpecies) {
		return 0
	}
	var sq float64
	for _, sp := range ecosystem.AllSpecies {
		d := math.Log((r.Final.Get(sp) + 1) / (initial.Get(sp) + 1))
		sq += d * d
	}
	return math.Exp(-sq)
}

func scaled(p ecosystem.Populations, s float64) ecosystem.Populations {
	return ecosystem.Populations{Foxes: p.Foxes * s, Rabbits: p.Rabbits * s, Carrots: p.Carrots * s}
}
