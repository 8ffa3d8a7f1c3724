package ecosystem

// DefaultHistoryCapacity is the number of daily snapshots kept.
const DefaultHistoryCapacity = 100

// Snapshot is the ecosystem as it stood at the start of a day.
type Snapshot struct {
	Day     int     `csv:"day"`
	Foxes   float64 `csv:"foxes"`
	Rabbits float64 `csv:"rabbits"`
	Carrots float64 `csv:"carrots"`
}

// Populations returns the three stocks of the snapshot.
func (s Snapshot) Populations() Populations {
	return Populations{Foxes: s.Foxes, Rabbits: s.Rabbits, Carrots: s.Carrots}
}

// History is a fixed-capacity ring buffer of snapshots. Once full, each
// append evicts the oldest entry.
type History struct {
	buf   []Snapshot
	start int // index of the oldest entry
	count int
}

// NewHistory creates an empty history holding at most capacity entries.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &History{buf: make([]Snapshot, capacity)}
}

// Append records s, evicting the oldest snapshot when at capacity.
func (h *History) Append(s Snapshot) {
	if h.count < len(h.buf) {
		h.buf[(h.start+h.count)%len(h.buf)] = s
		h.count++
		return
	}
	h.buf[h.start] = s
	h.start = (h.start + 1) % len(h.buf)
}

// Clear drops every entry; capacity is unchanged.
func (h *History) Clear() {
	h.start = 0
	h.count = 0
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return h.count
}

// Cap returns the maximum number of stored snapshots.
func (h *History) Cap() int {
	return len(h.buf)
}

// At returns the i-th oldest snapshot. i must be in [0, Len()).
func (h *History) At(i int) Snapshot {
	return h.buf[(h.start+i)%len(h.buf)]
}

// View copies the history into a chronological, caller-owned view.
func (h *History) View() HistoryView {
	v := HistoryView{
		Day:     make([]int, h.count),
		Foxes:   make([]float64, h.count),
		Rabbits: make([]float64, h.count),
		Carrots: make([]float64, h.count),
	}
	for i := 0; i < h.count; i++ {
		s := h.At(i)
		v.Day[i] = s.Day
		v.Foxes[i] = s.Foxes
		v.Rabbits[i] = s.Rabbits
		v.Carrots[i] = s.Carrots
	}
	return v
}

// HistoryView is a detached copy of the history as four parallel,
// equal-length sequences ordered oldest first.
type HistoryView struct {
	Day     []int
	Foxes   []float64
	Rabbits []float64
	Carrots []float64
}

// Len returns the number of snapshots in the view.
func (v HistoryView) Len() int {
	return len(v.Day)
}

// Series returns the sequence for one species.
func (v HistoryView) Series(s Species) []float64 {
	switch s {
	case Foxes:
		return v.Foxes
	case Rabbits:
		return v.Rabbits
	default:
		return v.Carrots
	}
}

// Snapshot returns the i-th entry of the view.
func (v HistoryView) Snapshot(i int) Snapshot {
	return Snapshot{Day: v.Day[i], Foxes: v.Foxes[i], Rabbits: v.Rabbits[i], Carrots: v.Carrots[i]}
}

// Snapshots returns the view as a slice of records.
func (v HistoryView) Snapshots() []Snapshot {
	out := make([]Snapshot, v.Len())
	for i := range out {
		out[i] = v.Snapshot(i)
	}
	return out
}

// Last returns a view of the most recent n entries (all of them if n is
// larger than the view).
func (v HistoryView) Last(n int) HistoryView {
	if n < 0 {
		n = 0
	}
	if n > v.Len() {
		n = v.Len()
	}
	from := v.Len() - n
	return HistoryView{
		Day:     v.Day[from:],
		Foxes:   v.Foxes[from:],
		Rabbits: v.Rabbits[from:],
		Carrots: v.Carrots[from:],
	}
}

// State is the mutable ecosystem: current day, populations and history.
type State struct {
	Day int
	Populations

	history *History
}

// NewState creates a state with an empty history of the given capacity.
func NewState(historyCapacity int) *State {
	return &State{history: NewHistory(historyCapacity)}
}

// Reset restarts the state from the initial populations in p and clears
// the history.
func (s *State) Reset(p Params) {
	s.Day = 0
	s.Populations = p.Initial()
	s.history.Clear()
}

// RecordSnapshot appends the current day and populations to the history.
func (s *State) RecordSnapshot() {
	s.history.Append(s.Snapshot())
}

// Snapshot returns the current day and populations.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Day:     s.Day,
		Foxes:   s.Foxes,
		Rabbits: s.Rabbits,
		Carrots: s.Carrots,
	}
}

// History returns the underlying ring buffer. Callers outside the package
// receive views through Engine.History instead.
func (s *State) History() *History {
	return s.history
}
