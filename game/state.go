package game

// RunState is the driver's run mode. The engine itself has no notion of
// running; the driver decides when Step is called.
type RunState uint8

const (
	Idle RunState = iota
	Running
	Paused
)

func (s RunState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Toggled returns the state after the Start/Pause control is pressed.
func (s RunState) Toggled() RunState {
	if s == Running {
		return Paused
	}
	return Running
}

// ActionLabel returns the label for the Start/Pause control in state s.
func (s RunState) ActionLabel() string {
	switch s {
	case Running:
		return "Pause"
	case Paused:
		return "Resume"
	default:
		return "Start"
	}
}
