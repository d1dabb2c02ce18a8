package hazard

// Recorder keeps the most recent hazard events in memory, oldest first.
type Recorder struct {
	limit  int
	events []Event
}

// NewRecorder returns a Recorder retaining at most limit events.
// A limit of zero or less keeps every event.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Notify appends ev, discarding the oldest event once the limit is reached.
func (r *Recorder) Notify(ev Event) {
	r.events = append(r.events, ev)
	if r.limit > 0 && len(r.events) > r.limit {
		// Copy down rather than reslice so the backing array does not grow
		// without bound.
		n := copy(r.events, r.events[len(r.events)-r.limit:])
		r.events = r.events[:n]
	}
}

// Events returns a copy of the retained events.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of retained events.
func (r *Recorder) Len() int {
	return len(r.events)
}

// Reset discards all retained events.
func (r *Recorder) Reset() {
	r.events = nil
}
