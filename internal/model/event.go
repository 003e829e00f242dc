package model

import (
	"time"
)

// LogEvent is one concrete occurrence: a start instant, an optional
// end instant, and optional extra detail. A zero End means the event
// is still open. An event belongs to the calendar day of its start
// time in local time, never its end time.
type LogEvent struct {
	ID          string       `json:"id"`
	EventTypeID string       `json:"eventTypeId"`
	Start       time.Time    `json:"startTime"`
	End         time.Time    `json:"endTime,omitzero"`
	Extra       *ExtraFields `json:"extra,omitempty"`
}

// IsOpen returns true if the event has no end time recorded.
func (e *LogEvent) IsOpen() bool {
	return e.End.IsZero()
}

// Duration returns the recorded duration, or zero for open events.
func (e *LogEvent) Duration() time.Duration {
	if e.IsOpen() {
		return 0
	}
	return e.End.Sub(e.Start)
}

// Day returns the local calendar date the event belongs to.
func (e *LogEvent) Day() string {
	return e.Start.Local().Format(DateFormat)
}

// NewLogEvent creates a new open event with a fresh id.
func NewLogEvent(eventTypeID string, start time.Time) *LogEvent {
	return &LogEvent{
		ID:          NewID(),
		EventTypeID: eventTypeID,
		Start:       start,
	}
}

// Clone returns a deep copy of the event.
func (e *LogEvent) Clone() *LogEvent {
	out := *e
	if e.Extra != nil {
		out.Extra = e.Extra.Clone()
	}
	return &out
}
