package statuswatch

import "time"

// DetectorState is the state of a [Detector].
type DetectorState int

const (
	// Unseeded means no status has been recorded yet.
	Unseeded DetectorState = iota

	// Seeded means a baseline status has been recorded.
	Seeded
)

// String returns a human-readable name for the state.
func (s DetectorState) String() string {
	switch s {
	case Unseeded:
		return "unseeded"
	case Seeded:
		return "seeded"
	default:
		return "invalid"
	}
}

// Transition is a change of status between two consecutive successful polls.
type Transition struct {
	From Status
	To   Status
	At   time.Time
}

// Detector tracks the last observed status and reports transitions.
//
// The zero value is an Unseeded detector ready for use. The first call to
// [Detector.Observe] records a baseline without reporting anything; later
// calls report a [Transition] whenever the status differs from the stored one
// by exact string comparison.
//
// Detector is not safe for concurrent use. It is owned by the poll loop.
type Detector struct {
	state DetectorState
	last  Status
}

// Observe feeds a successfully extracted status into the detector.
//
// It returns the transition and true when status differs from the stored
// value, in which case the stored value becomes status. Failed poll cycles
// must not call Observe.
func (d *Detector) Observe(status Status, at time.Time) (Transition, bool) {
	if d.state == Unseeded {
		d.state = Seeded
		d.last = status
		return Transition{}, false
	}

	if status == d.last {
		return Transition{}, false
	}

	t := Transition{From: d.last, To: status, At: at}
	d.last = status
	return t, true
}

// Last returns the stored status. The boolean is false while Unseeded.
func (d *Detector) Last() (Status, bool) {
	return d.last, d.state == Seeded
}

// State returns the detector's current state.
func (d *Detector) State() DetectorState {
	return d.state
}
