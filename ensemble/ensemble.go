// Package ensemble runs many independent ecosystems side by side. Each
// ecosystem is an ECS entity carrying its populations, its rates and a
// record of how it has fared.
package ensemble

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/ecocycle/components"
	"github.com/pthm-cable/ecocycle/ecosystem"
)

// Result summarises one ensemble member.
type Result struct {
	Name       string
	Final      ecosystem.Populations
	Min        ecosystem.Populations
	ExtinctDay [3]int // -1 for species still alive
}

// SurvivalDays returns how many days species s lasted, capped at horizon.
func (r Result) SurvivalDays(s ecosystem.Species, horizon int) int {
	if d := r.ExtinctDay[s]; d >= 0 && d < horizon {
		return d
	}
	return horizon
}

// Survivors returns the number of species still alive.
func (r Result) Survivors() int {
	n := 0
	for _, d := range r.ExtinctDay {
		if d < 0 {
			n++
		}
	}
	return n
}

// World owns the ECS world holding the ensemble.
type World struct {
	world *ecs.World

	memberMapper *ecs.Map4[components.Stock, components.Rates, components.Fate, components.Label]
	stepFilter   *ecs.Filter3[components.Stock, components.Rates, components.Fate]
	resultFilter *ecs.Filter3[components.Stock, components.Fate, components.Label]

	day    int
	count  int
	viable float64
}

// New creates an empty ensemble on day 0.
func New() *World {
	world := ecs.NewWorld()
	return &World{
		world:        world,
		memberMapper: ecs.NewMap4[components.Stock, components.Rates, components.Fate, components.Label](world),
		stepFilter:   ecs.NewFilter3[components.Stock, components.Rates, components.Fate](world),
		resultFilter: ecs.NewFilter3[components.Stock, components.Fate, components.Label](world),
	}
}

// SetViable sets the population at or below which a species counts as
// gone. It applies to members spawned afterwards; the default is 0.
func (w *World) SetViable(v float64) {
	w.viable = v
}

// Spawn validates p and adds an ecosystem starting from its initial
// populations. Members spawned after day 0 simply start later; their
// extinction days are still counted on the ensemble's clock.
func (w *World) Spawn(name string, p ecosystem.Params) (ecs.Entity, error) {
	if err := p.Validate(); err != nil {
		return ecs.Entity{}, err
	}

	initial := p.Initial()
	stock := components.Stock{Populations: initial}
	rates := components.Rates{Params: p}
	fate := components.NewFate(initial, w.viable)
	label := components.Label{Name: name, Index: w.count}
	w.count++

	return w.memberMapper.NewEntity(&stock, &rates, &fate, &label), nil
}

// Step advances every member by one day.
func (w *World) Step() {
	w.day++
	query := w.stepFilter.Query()
	for query.Next() {
		stock, rates, fate := query.Get()
		stock.Populations, _ = ecosystem.Advance(stock.Populations, rates.Params)
		fate.Observe(w.day, stock.Populations)
	}
}

// StepN advances every member by n days.
func (w *World) StepN(n int) {
	for i := 0; i < n; i++ {
		w.Step()
	}
}

// Day returns the number of days stepped.
func (w *World) Day() int {
	return w.day
}

// Len returns the number of members.
func (w *World) Len() int {
	return w.count
}

// Results returns one summary per member in spawn order.
func (w *World) Results() []Result {
	type indexed struct {
		index int
		res   Result
	}
	rows := make([]indexed, 0, w.count)

	query := w.resultFilter.Query()
	for query.Next() {
		stock, fate, label := query.Get()
		rows = append(rows, indexed{
			index: label.Index,
			res: Result{
				Name:       label.Name,
				Final:      stock.Populations,
				Min:        fate.Min,
				ExtinctDay: fate.ExtinctDay,
			},
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })
	out := make([]Result, len(rows))
	for i, r := range rows {
		out[i] = r.res
	}
	return out
}
