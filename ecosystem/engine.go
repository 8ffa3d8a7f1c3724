package ecosystem

// Options configures an Engine. The zero value selects the defaults.
type Options struct {
	HistoryCapacity int
	Thresholds      *Thresholds
}

// Engine owns an ecosystem state and the parameter set driving it.
// It is not safe for concurrent use: Step and Reset must be serialised
// by the caller, and queries must not run while Step is in progress.
type Engine struct {
	params     Params
	state      *State
	thresholds Thresholds

	lastFlows Flows
	stepped   bool // lastFlows is valid
}

// NewEngine validates p and returns an engine reset to its initial
// populations.
func NewEngine(p Params, opts Options) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	th := DefaultThresholds()
	if opts.Thresholds != nil {
		th = *opts.Thresholds
	}

	e := &Engine{
		state:      NewState(opts.HistoryCapacity),
		thresholds: th,
	}
	e.apply(p)
	return e, nil
}

// Reset validates p and, only if it is valid, restarts the simulation
// from day 0 with an empty history. On error the engine is unchanged.
func (e *Engine) Reset(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.apply(p)
	return nil
}

func (e *Engine) apply(p Params) {
	e.params = p
	e.state.Reset(p)
	e.lastFlows = Flows{}
	e.stepped = false
}

// Step advances the ecosystem by one day. The start-of-day snapshot is
// recorded before any population changes.
func (e *Engine) Step() {
	e.state.RecordSnapshot()

	next, flows := Advance(e.state.Populations, e.params)
	e.state.Populations = next
	e.state.Day++

	e.lastFlows = flows
	e.stepped = true
}

// Current returns the current day and populations.
func (e *Engine) Current() Snapshot {
	return e.state.Snapshot()
}

// History returns a detached copy of the recorded snapshots.
func (e *Engine) History() HistoryView {
	return e.state.History().View()
}

// HistoryLen returns the number of recorded snapshots without copying.
func (e *Engine) HistoryLen() int {
	return e.state.History().Len()
}

// Params returns the active parameter set.
func (e *Engine) Params() Params {
	return e.params
}

// Thresholds returns the analysis thresholds in use.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// LastFlows returns the flows of the most recent Step. ok is false when
// no step has run since the last reset.
func (e *Engine) LastFlows() (Flows, bool) {
	return e.lastFlows, e.stepped
}

// Trends compares the two most recent snapshots.
func (e *Engine) Trends() (Trends, bool) {
	return ComputeTrends(e.state.History())
}

// Alerts evaluates the alert conditions against the current state.
func (e *Engine) Alerts() []Alert {
	return ComputeAlerts(e.state.Populations, e.state.History(), e.thresholds)
}

// Recommendations compares the current state to the initial populations.
func (e *Engine) Recommendations() []Recommendation {
	return ComputeRecommendations(e.state.Populations, e.params.Initial(), e.state.Day, e.thresholds)
}

// Distribution returns each species' share of the combined population.
func (e *Engine) Distribution() Shares {
	return ComputeShares(e.state.Populations)
}
