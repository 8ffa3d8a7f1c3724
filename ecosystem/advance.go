package ecosystem

import "math"

// Species identifies one level of the food chain.
type Species uint8

const (
	Foxes Species = iota
	Rabbits
	Carrots
)

// AllSpecies lists the species in reporting order (predator first).
var AllSpecies = [...]Species{Foxes, Rabbits, Carrots}

func (s Species) String() string {
	switch s {
	case Foxes:
		return "foxes"
	case Rabbits:
		return "rabbits"
	case Carrots:
		return "carrots"
	default:
		return "unknown"
	}
}

// Populations holds the three standing stocks.
type Populations struct {
	Foxes   float64
	Rabbits float64
	Carrots float64
}

// Get returns the population of a single species.
func (p Populations) Get(s Species) float64 {
	switch s {
	case Foxes:
		return p.Foxes
	case Rabbits:
		return p.Rabbits
	default:
		return p.Carrots
	}
}

// Total returns the sum of all three populations.
func (p Populations) Total() float64 {
	return p.Foxes + p.Rabbits + p.Carrots
}

// Flows breaks one day's update into its individual terms.
type Flows struct {
	RabbitsEaten float64
	CarrotsEaten float64

	FoxDeaths    float64
	FoxBirths    float64 // conversion of surplus prey
	RabbitBirths float64
	RabbitDeaths float64

	CarrotRegrowth float64
	CarrotWasted   float64 // regrowth lost to the capacity ceiling

	// Satiation is the fraction of predator appetite that was met.
	// 1 when there is no appetite to meet.
	Satiation float64
}

// Advance applies one day of the update rule to pop and returns the new
// populations together with the flows that produced them. Every term is
// computed from the pre-step values. The result is never negative and
// carrots never exceed p.MaxCarrots.
func Advance(pop Populations, p Params) (Populations, Flows) {
	var f Flows

	appetite := pop.Foxes * p.RabbitsPerFoxPerDay
	f.RabbitsEaten = math.Min(pop.Rabbits, appetite)
	f.CarrotsEaten = math.Min(pop.Carrots, pop.Rabbits*p.CarrotsPerRabbitPerDay)

	if appetite > 0 {
		f.Satiation = f.RabbitsEaten / appetite
	} else {
		f.Satiation = 1
	}

	f.FoxDeaths = pop.Foxes * p.FoxDeathRate
	f.FoxBirths = math.Max(0, f.RabbitsEaten-f.FoxDeaths) * p.FoxConversion
	f.RabbitBirths = pop.Rabbits * p.RabbitBirthRate
	f.RabbitDeaths = pop.Rabbits * p.RabbitDeathRate
	f.CarrotRegrowth = pop.Carrots * (p.CarrotGrowthRate / 100)

	next := Populations{
		Foxes:   math.Max(0, pop.Foxes-f.FoxDeaths+f.FoxBirths),
		Rabbits: math.Max(0, pop.Rabbits-f.RabbitsEaten+f.RabbitBirths-f.RabbitDeaths),
		Carrots: math.Max(0, pop.Carrots-f.CarrotsEaten+f.CarrotRegrowth),
	}

	// Ceiling goes last so regrowth past capacity is discarded.
	if next.Carrots > p.MaxCarrots {
		f.CarrotWasted = next.Carrots - p.MaxCarrots
		next.Carrots = p.MaxCarrots
	}

	return next, f
}
