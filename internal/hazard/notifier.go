package hazard

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shinji-kodama/cargofleet/internal/model"
)

// Event describes one rejected load on a hazard-capable container.
type Event struct {
	// ID uniquely identifies the event so log lines and recorder entries
	// can be correlated.
	ID uuid.UUID `json:"id"`

	Serial string     `json:"serial"`
	Kind   model.Kind `json:"kind"`

	// Weight is the attempted load in kilograms.
	Weight float64 `json:"weight"`

	// Limit is the effective limit in kilograms that Weight exceeded.
	Limit float64 `json:"limit"`

	// Message is the human-readable description passed to sinks.
	Message string `json:"message"`

	At time.Time `json:"at"`
}

// NewEvent builds an Event with a fresh ID and a message naming the
// serial, the attempted weight and the limit.
func NewEvent(serial string, kind model.Kind, weight, limit float64) Event {
	return Event{
		ID:      uuid.New(),
		Serial:  serial,
		Kind:    kind,
		Weight:  weight,
		Limit:   limit,
		Message: fmt.Sprintf("overfill attempt for %s container %s with %g kg (limit %g kg)", kind, serial, weight, limit),
		At:      time.Now().UTC(),
	}
}

// String returns the event as a single "[HAZARD]" line.
func (e Event) String() string {
	return "[HAZARD] " + e.Message
}

// Notifier receives hazard events. Implementations must not block for long;
// they are called synchronously from Load.
type Notifier interface {
	Notify(Event)
}

// Func adapts an ordinary function to the Notifier interface.
type Func func(Event)

// Notify calls f(ev).
func (f Func) Notify(ev Event) {
	f(ev)
}

// Notify delivers ev to n. A nil notifier is a no-op, and a panic raised by
// the sink is swallowed so that the caller can still return its error.
func Notify(n Notifier, ev Event) {
	if n == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	n.Notify(ev)
}

// Multi fans each event out to every non-nil notifier in order. A panic in
// one sink does not stop delivery to the others.
type Multi []Notifier

// Notify delivers ev to every sink.
func (m Multi) Notify(ev Event) {
	for _, n := range m {
		Notify(n, ev)
	}
}

// LogNotifier writes events to a zap logger.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier returns a LogNotifier writing to log. A nil logger is
// replaced by zap.NewNop.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log.Named("hazard")}
}

// Notify logs ev at warn level with structured fields.
func (l *LogNotifier) Notify(ev Event) {
	l.log.Warn(ev.Message,
		zap.String("event_id", ev.ID.String()),
		zap.String("serial", ev.Serial),
		zap.String("kind", ev.Kind.String()),
		zap.Float64("weight_kg", ev.Weight),
		zap.Float64("limit_kg", ev.Limit),
	)
}
