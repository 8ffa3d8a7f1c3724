// Package ecosystem implements the fox/rabbit/carrot population model:
// the daily update rule, the bounded snapshot history and the health
// signals derived from both.
package ecosystem

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParam is wrapped by every parameter validation failure.
var ErrInvalidParam = errors.New("ecosystem: invalid parameter")

// ParamError describes a single rejected parameter value.
type ParamError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s = %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParam
}

// Params holds the caller-supplied parameter set for one run.
type Params struct {
	FoxesInit   float64 `yaml:"foxes_init"`
	RabbitsInit float64 `yaml:"rabbits_init"`
	CarrotsInit float64 `yaml:"carrots_init"`

	RabbitsPerFoxPerDay    float64 `yaml:"rabbits_per_fox_per_day"`    // Predator appetite
	CarrotsPerRabbitPerDay float64 `yaml:"carrots_per_rabbit_per_day"` // Prey appetite
	CarrotGrowthRate       float64 `yaml:"carrot_growth_rate"`         // Percent per day

	FoxDeathRate    float64 `yaml:"fox_death_rate"`
	RabbitDeathRate float64 `yaml:"rabbit_death_rate"`
	RabbitBirthRate float64 `yaml:"rabbit_birth_rate"`

	MaxCarrots float64 `yaml:"max_carrots"` // Producer carrying capacity

	// FoxConversion scales surplus prey eaten into new predators.
	FoxConversion float64 `yaml:"fox_conversion"`
}

// DefaultParams returns the reference parameter set.
func DefaultParams() Params {
	return Params{
		FoxesInit:              10,
		RabbitsInit:            50,
		CarrotsInit:            200,
		RabbitsPerFoxPerDay:    0.5,
		CarrotsPerRabbitPerDay: 2.0,
		CarrotGrowthRate:       15,
		FoxDeathRate:           0.05,
		RabbitDeathRate:        0.03,
		RabbitBirthRate:        0.1,
		MaxCarrots:             500,
		FoxConversion:          0.1,
	}
}

// Validate checks every field and returns all violations joined together.
// A nil return means the set is safe to hand to Reset.
func (p Params) Validate() error {
	var errs []error

	check := func(field string, v float64, ok bool, reason string) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, &ParamError{Field: field, Value: v, Reason: "must be a finite number"})
			return
		}
		if !ok {
			errs = append(errs, &ParamError{Field: field, Value: v, Reason: reason})
		}
	}

	check("foxes_init", p.FoxesInit, p.FoxesInit >= 0, "must be >= 0")
	check("rabbits_init", p.RabbitsInit, p.RabbitsInit >= 0, "must be >= 0")
	check("carrots_init", p.CarrotsInit, p.CarrotsInit >= 0, "must be >= 0")
	check("rabbits_per_fox_per_day", p.RabbitsPerFoxPerDay, p.RabbitsPerFoxPerDay > 0, "must be > 0")
	check("carrots_per_rabbit_per_day", p.CarrotsPerRabbitPerDay, p.CarrotsPerRabbitPerDay > 0, "must be > 0")
	check("carrot_growth_rate", p.CarrotGrowthRate, p.CarrotGrowthRate >= 0, "must be >= 0")
	check("fox_death_rate", p.FoxDeathRate, p.FoxDeathRate >= 0 && p.FoxDeathRate <= 1, "must be in [0, 1]")
	check("rabbit_death_rate", p.RabbitDeathRate, p.RabbitDeathRate >= 0 && p.RabbitDeathRate <= 1, "must be in [0, 1]")
	check("rabbit_birth_rate", p.RabbitBirthRate, p.RabbitBirthRate >= 0, "must be >= 0")
	check("max_carrots", p.MaxCarrots, p.MaxCarrots > 0, "must be > 0")
	check("fox_conversion", p.FoxConversion, p.FoxConversion >= 0 && p.FoxConversion <= 1, "must be in [0, 1]")

	return errors.Join(errs...)
}

// Initial returns the starting populations encoded in the parameter set.
func (p Params) Initial() Populations {
	return Populations{
		Foxes:   p.FoxesInit,
		Rabbits: p.RabbitsInit,
		Carrots: p.CarrotsInit,
	}
}
