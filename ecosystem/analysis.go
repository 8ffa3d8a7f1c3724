package ecosystem

import "fmt"

// Thresholds configures the derived health signals.
type Thresholds struct {
	// Low-population warnings fire when a population is strictly below these.
	LowFoxes   float64 `yaml:"low_foxes"`
	LowRabbits float64 `yaml:"low_rabbits"`
	LowCarrots float64 `yaml:"low_carrots"`

	// Prolonged extinction: the last ProlongedWindow snapshots are all zero,
	// checked only once the history holds more than ProlongedMinHistory entries.
	ProlongedWindow     int `yaml:"prolonged_window"`
	ProlongedMinHistory int `yaml:"prolonged_min_history"`

	// Recommendation ratios against the initial population.
	OverpopulationRatio float64 `yaml:"overpopulation_ratio"`
	CrisisRatio         float64 `yaml:"crisis_ratio"`
	StableMinDays       int     `yaml:"stable_min_days"`
}

// DefaultThresholds returns the reference thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowFoxes:            2,
		LowRabbits:          5,
		LowCarrots:          50,
		ProlongedWindow:     5,
		ProlongedMinHistory: 10,
		OverpopulationRatio: 3.0,
		CrisisRatio:         0.25,
		StableMinDays:       10,
	}
}

func (t Thresholds) low(s Species) float64 {
	switch s {
	case Foxes:
		return t.LowFoxes
	case Rabbits:
		return t.LowRabbits
	default:
		return t.LowCarrots
	}
}

// Trend is the direction of change between the last two snapshots. There
// is no neutral value: "no trend yet" is reported by the ok result of
// ComputeTrends, and an unchanged population is TrendDown.
type Trend uint8

const (
	TrendDown Trend = iota
	TrendUp
)

func (t Trend) String() string {
	if t == TrendUp {
		return "up"
	}
	return "down"
}

// Trends holds one direction per species.
type Trends struct {
	Foxes   Trend
	Rabbits Trend
	Carrots Trend
}

// Get returns the trend of one species.
func (t Trends) Get(s Species) Trend {
	switch s {
	case Foxes:
		return t.Foxes
	case Rabbits:
		return t.Rabbits
	default:
		return t.Carrots
	}
}

// ComputeTrends compares the two most recent snapshots in h. A species is
// up only if it strictly increased; ties count as down. ok is false when
// h holds fewer than two snapshots.
func ComputeTrends(h *History) (Trends, bool) {
	n := h.Len()
	if n < 2 {
		return Trends{}, false
	}
	prev, last := h.At(n-2), h.At(n-1)

	dir := func(a, b float64) Trend {
		if b > a {
			return TrendUp
		}
		return TrendDown
	}
	return Trends{
		Foxes:   dir(prev.Foxes, last.Foxes),
		Rabbits: dir(prev.Rabbits, last.Rabbits),
		Carrots: dir(prev.Carrots, last.Carrots),
	}, true
}

// AlertKind classifies an alert. Kinds are emitted in declaration order.
type AlertKind uint8

const (
	AlertLow AlertKind = iota
	AlertExtinct
	AlertProlongedExtinction
)

func (k AlertKind) String() string {
	switch k {
	case AlertLow:
		return "low"
	case AlertExtinct:
		return "extinct"
	case AlertProlongedExtinction:
		return "prolonged_extinction"
	default:
		return "unknown"
	}
}

// Alert is a single condition raised against the current state.
type Alert struct {
	Kind    AlertKind
	Species Species
	Message string
}

func (a Alert) String() string {
	return a.Message
}

var alertMessages = map[AlertKind][3]string{
	AlertLow: {
		"Fox population very low - risk of extinction",
		"Rabbit population very low - foxes may starve",
		"Carrots running short - rabbits may starve",
	},
	AlertExtinct: {
		"Foxes have gone extinct",
		"Rabbits have gone extinct",
		"No carrots left",
	},
	AlertProlongedExtinction: {
		"Foxes have been extinct for several days",
		"Rabbits have been extinct for several days",
		"Carrots have been gone for several days",
	},
}

func newAlert(k AlertKind, s Species) Alert {
	return Alert{Kind: k, Species: s, Message: alertMessages[k][s]}
}

// ComputeAlerts returns the alerts for pop and its history: all low
// warnings first, then extinctions, then prolonged extinctions, each group
// in species order.
func ComputeAlerts(pop Populations, h *History, th Thresholds) []Alert {
	var alerts []Alert

	for _, s := range AllSpecies {
		if pop.Get(s) < th.low(s) {
			alerts = append(alerts, newAlert(AlertLow, s))
		}
	}

	for _, s := range AllSpecies {
		if pop.Get(s) == 0 {
			alerts = append(alerts, newAlert(AlertExtinct, s))
		}
	}

	if th.ProlongedWindow > 0 && h.Len() > th.ProlongedMinHistory && h.Len() >= th.ProlongedWindow {
		for _, s := range AllSpecies {
			if recentlyZero(h, s, th.ProlongedWindow) {
				alerts = append(alerts, newAlert(AlertProlongedExtinction, s))
			}
		}
	}

	return alerts
}

// recentlyZero reports whether the last window snapshots of s are all zero.
func recentlyZero(h *History, s Species, window int) bool {
	n := h.Len()
	for i := n - window; i < n; i++ {
		if h.At(i).Populations().Get(s) != 0 {
			return false
		}
	}
	return true
}

// RecommendationKind classifies a recommendation.
type RecommendationKind uint8

const (
	RecommendOverpopulation RecommendationKind = iota
	RecommendCrisis
	RecommendStable
)

func (k RecommendationKind) String() string {
	switch k {
	case RecommendOverpopulation:
		return "overpopulation"
	case RecommendCrisis:
		return "crisis"
	case RecommendStable:
		return "stable"
	default:
		return "unknown"
	}
}

// Recommendation is a piece of guidance derived from population ratios.
// Species is meaningless for RecommendStable.
type Recommendation struct {
	Kind    RecommendationKind
	Species Species
	Ratio   float64
	Message string
}

func (r Recommendation) String() string {
	return r.Message
}

// StableMessage is the text of the RecommendStable recommendation.
const StableMessage = "The ecosystem is in balance. All populations are healthy."

var overpopulationAdvice = [3]string{
	"too many foxes, they could wipe out the rabbits; lower rabbits_per_fox_per_day or raise fox_death_rate",
	"too many rabbits, they could strip the carrots; raise rabbit_death_rate or add foxes",
	"carrots are piling up; the herbivores cannot keep up with regrowth",
}

var crisisAdvice = [3]string{
	"foxes are collapsing; raise rabbits_per_fox_per_day or lower fox_death_rate",
	"rabbits are collapsing; raise rabbit_birth_rate or reduce predation",
	"carrots are collapsing; raise carrot_growth_rate or lower carrots_per_rabbit_per_day",
}

// ComputeRecommendations compares pop against the initial populations.
// Each species yields at most one of overpopulation (ratio above
// OverpopulationRatio) or crisis (ratio below CrisisRatio). Species that
// started at zero have no ratio and are skipped. When nothing fires and
// day exceeds StableMinDays, a single stable recommendation is returned.
func ComputeRecommendations(pop, initial Populations, day int, th Thresholds) []Recommendation {
	var recs []Recommendation

	for _, s := range AllSpecies {
		base := initial.Get(s)
		if base == 0 {
			continue
		}
		ratio := pop.Get(s) / base

		switch {
		case ratio > th.OverpopulationRatio:
			recs = append(recs, Recommendation{
				Kind:    RecommendOverpopulation,
				Species: s,
				Ratio:   ratio,
				Message: fmt.Sprintf("%s at %.1fx initial: %s", s, ratio, overpopulationAdvice[s]),
			})
		case ratio < th.CrisisRatio:
			recs = append(recs, Recommendation{
				Kind:    RecommendCrisis,
				Species: s,
				Ratio:   ratio,
				Message: fmt.Sprintf("%s at %.0f%% of initial: %s", s, ratio*100, crisisAdvice[s]),
			})
		}
	}

	if len(recs) == 0 && day > th.StableMinDays {
		recs = append(recs, Recommendation{Kind: RecommendStable, Message: StableMessage})
	}

	return recs
}

// Shares holds each species' fraction of the combined population.
type Shares struct {
	Foxes   float64
	Rabbits float64
	Carrots float64
}

// Get returns the share of one species.
func (s Shares) Get(sp Species) float64 {
	switch sp {
	case Foxes:
		return s.Foxes
	case Rabbits:
		return s.Rabbits
	default:
		return s.Carrots
	}
}

// ComputeShares divides each population by the total. All shares are zero
// when the total is zero.
func ComputeShares(pop Populations) Shares {
	total := pop.Total()
	if total == 0 {
		return Shares{}
	}
	return Shares{
		Foxes:   pop.Foxes / total,
		Rabbits: pop.Rabbits / total,
		Carrots: pop.Carrots / total,
	}
}
