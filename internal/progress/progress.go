package progress

// State identifies where a job is in its lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateProbing   State = "probing"
	StateReady     State = "ready"
	StateEncoding  State = "encoding"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// Terminal reports whether s is a final state for an encode.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateCancelled, StateFailed:
		return true
	}
	return false
}

// Event is a progress snapshot extracted from the encoder's status line.
// Values are advisory: Fraction is usually non-decreasing but may regress.
type Event struct {
	JobID          string
	Fraction       float64 // 0.0 .. 1.0
	ElapsedMinutes int
	OutputSizeMB   int
}

// Percent returns Fraction as a whole percentage.
func (e Event) Percent() int {
	return int(100*e.Fraction + 0.5)
}

// Result is emitted once per job when it reaches a terminal state.
type Result struct {
	JobID      string
	State      State // StateCompleted, StateCancelled or StateFailed
	ExitCode   int   // -1 when the process never exited normally
	OutputPath string
	Bytes      int64 // size of the output file when the job ended
	Err        error // set for StateFailed
}

// Reporter is implemented by a UI or any observer interested in job events.
// Both methods are called from the job's read loop goroutine.
type Reporter interface {
	Update(e Event)
	Result(r Result)
}

// Funcs adapts plain functions to a Reporter. Nil fields are skipped.
type Funcs struct {
	OnProgress func(Event)
	OnDone     func(Result)
}

func (f Funcs) Update(e Event) {
	if f.OnProgress != nil {
		f.OnProgress(e)
	}
}

func (f Funcs) Result(r Result) {
	if f.OnDone != nil {
		f.OnDone(r)
	}
}

// Nop discards everything.
var Nop Reporter = Funcs{}
