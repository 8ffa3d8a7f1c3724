// Package main provides CMA-ES optimization for ecosystem rates.
package main

import (
	"github.com/pthm-cable/ecocycle/ecosystem"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // YAML key under params:
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable rates. Starting
// populations are not searched; the evaluator scales them instead.
func NewParamVector() *ParamVector {
	d := ecosystem.DefaultParams()
	return &ParamVector{
		Specs: []ParamSpec{
			// Feeding
			{Name: "rabbits_per_fox_per_day", Min: 0.05, Max: 3, Default: d.RabbitsPerFoxPerDay},
			{Name: "carrots_per_rabbit_per_day", Min: 0.05, Max: 10, Default: d.CarrotsPerRabbitPerDay},
			{Name: "carrot_growth_rate", Min: 1, Max: 100, Default: d.CarrotGrowthRate},
			// Births and deaths
			{Name: "fox_death_rate", Min: 0.005, Max: 0.5, Default: d.FoxDeathRate},
			{Name: "rabbit_death_rate", Min: 0.005, Max: 0.5, Default: d.RabbitDeathRate},
			{Name: "rabbit_birth_rate", Min: 0.01, Max: 1, Default: d.RabbitBirthRate},
			{Name: "fox_conversion", Min: 0.01, Max: 1, Default: d.FoxConversion},
			// Capacity
			{Name: "max_carrots", Min: 50, Max: 5000, Default: d.MaxCarrots},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToParams returns base with the (clamped) values substituted.
// Order must match Specs order.
func (pv *ParamVector) ApplyToParams(base ecosystem.Params, values []float64) ecosystem.Params {
	c := pv.Clamp(values)
	p := base
	p.RabbitsPerFoxPerDay = c[0]
	p.CarrotsPerRabbitPerDay = c[1]
	p.CarrotGrowthRate = c[2]
	p.FoxDeathRate = c[3]
	p.RabbitDeathRate = c[4]
	p.RabbitBirthRate = c[5]
	p.FoxConversion = c[6]
	p.MaxCarrots = c[7]
	return p
}

// ExtractFromParams extracts the searched values from p.
func (pv *ParamVector) ExtractFromParams(p ecosystem.Params) []float64 {
	return []float64{
		p.RabbitsPerFoxPerDay,
		p.CarrotsPerRabbitPerDay,
		p.CarrotGrowthRate,
		p.FoxDeathRate,
		p.RabbitDeathRate,
		p.RabbitBirthRate,
		p.FoxConversion,
		p.MaxCarrots,
	}
}
