// Package components defines ECS components for ensemble runs.
package components

import "github.com/pthm-cable/ecocycle/ecosystem"

// Stock is the standing population of one ensemble member.
type Stock struct {
	ecosystem.Populations
}

// Rates is the parameter set driving one ensemble member.
type Rates struct {
	ecosystem.Params
}

// Label identifies an ensemble member in results.
type Label struct {
	Name  string
	Index int // spawn order
}

// Fate records how a member's populations have fared so far.
type Fate struct {
	Min        ecosystem.Populations
	ExtinctDay [3]int  // first day each species fell to Viable; -1 while alive
	Viable     float64 // populations at or below this count as gone
}

// NewFate starts tracking from the initial populations. A species that
// starts at or below viable counts as extinct on day 0.
func NewFate(initial ecosystem.Populations, viable float64) Fate {
	f := Fate{Min: initial, Viable: viable}
	for _, sp := range ecosystem.AllSpecies {
		f.ExtinctDay[sp] = -1
		if initial.Get(sp) <= viable {
			f.ExtinctDay[sp] = 0
		}
	}
	return f
}

// Observe folds the populations reached on day into the record.
func (f *Fate) Observe(day int, pop ecosystem.Populations) {
	f.Min.Foxes = min(f.Min.Foxes, pop.Foxes)
	f.Min.Rabbits = min(f.Min.Rabbits, pop.Rabbits)
	f.Min.Carrots = min(f.Min.Carrots, pop.Carrots)
	for _, sp := range ecosystem.AllSpecies {
		if f.ExtinctDay[sp] < 0 && pop.Get(sp) <= f.Viable {
			f.ExtinctDay[sp] = day
		}
	}
}

// Alive reports whether species s has never died out.
func (f Fate) Alive(s ecosystem.Species) bool {
	return f.ExtinctDay[s] < 0
}
