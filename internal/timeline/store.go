// Package timeline owns the ordered collection of log events: the
// durable timeline store, the legacy-schema migrator applied at load
// time, and the tap-pairing controller that turns repeated tap signals
// into open/close pairs.
package timeline

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/logging"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/storage"
)

// TypeChecker is the slice of the registry the store needs.
type TypeChecker interface {
	HasEventType(id string) bool
}

// Order selects the sort direction of day views. Ordering is a caller
// choice, not a property of the store: the today view wants newest
// first, the detail view oldest first.
type Order int

const (
	// Descending sorts most recent start first.
	Descending Order = iota
	// Ascending sorts earliest start first.
	Ascending
)

// Store owns the event collection and is the sole writer of its
// persisted snapshot. Every mutation re-serializes the whole
// collection before returning; a failed write leaves the in-memory
// state untouched.
type Store struct {
	kv     storage.KV
	types  TypeChecker
	events []*model.LogEvent
}

// Load reads and migrates the persisted event snapshot. Records from
// any prior schema version are normalized on the way in; unparseable
// records are dropped, counted and logged, never mixed into the
// collection.
func Load(kv storage.KV, types TypeChecker) (*Store, error) {
	s := &Store{kv: kv, types: types}

	data, found, err := kv.Load(model.KeyEvents)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("timeline load", "storage read failed", err)
	}
	if !found {
		return s, nil
	}

	events, dropped, err := Migrate(data)
	if err != nil {
		return nil, err
	}
	s.events = events
	if dropped > 0 {
		logging.Warn("unparseable legacy records dropped during migration",
			logging.KeyCount, dropped)
	}
	return s, nil
}

func (s *Store) persist(events []*model.LogEvent) error {
	if events == nil {
		events = []*model.LogEvent{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return errors.NewSystemErrorWithOp("timeline persist", "marshal failed", err)
	}
	if err := s.kv.Save(model.KeyEvents, data); err != nil {
		return errors.NewSystemErrorWithOp("timeline persist", "storage write failed", err)
	}
	return nil
}

// commit persists the candidate collection and swaps it in only after
// the write succeeded.
func (s *Store) commit(events []*model.LogEvent) error {
	if err := s.persist(events); err != nil {
		return err
	}
	s.events = events
	return nil
}

func (s *Store) clone() []*model.LogEvent {
	out := make([]*model.LogEvent, len(s.events))
	for i, e := range s.events {
		out[i] = e.Clone()
	}
	return out
}

// Append creates and persists a new open event, returning its id.
func (s *Store) Append(eventTypeID string, start time.Time) (*model.LogEvent, error) {
	if !s.types.HasEventType(eventTypeID) {
		return nil, errors.ErrUnknownEventType
	}
	evt := model.NewLogEvent(eventTypeID, start)
	next := append(s.clone(), evt)
	if err := s.commit(next); err != nil {
		return nil, err
	}
	logging.DebugLog("event appended",
		logging.KeyEventID, evt.ID, logging.KeyEventType, eventTypeID)
	return evt.Clone(), nil
}

// Close sets the end time on an open event. Closing an already closed
// event fails with ErrAlreadyClosed; an end before the start is a
// data-entry mistake and fails with ErrInvalidInterval without
// mutating the event.
func (s *Store) Close(eventID string, end time.Time) error {
	next := s.clone()
	evt := findEvent(next, eventID)
	if evt == nil {
		return errors.ErrNotFound
	}
	if !evt.IsOpen() {
		return errors.ErrAlreadyClosed
	}
	if end.Before(evt.Start) {
		logging.Warn("close rejected, end precedes start",
			logging.KeyEventID, eventID)
		return errors.ErrInvalidInterval
	}
	evt.End = end
	return s.commit(next)
}

// Patch is a sparse update applied over an existing event. Nil fields
// are left untouched; extras merge field-by-field over the prior bag.
type Patch struct {
	Start    *time.Time
	End      *time.Time
	ClearEnd bool
	Extra    *model.ExtraFields
}

// Apply patches an event and re-validates the start/end invariant
// after applying.
func (s *Store) Apply(eventID string, p Patch) (*model.LogEvent, error) {
	next := s.clone()
	evt := findEvent(next, eventID)
	if evt == nil {
		return nil, errors.ErrNotFound
	}

	if p.Start != nil {
		evt.Start = *p.Start
	}
	if p.ClearEnd {
		evt.End = time.Time{}
	} else if p.End != nil {
		evt.End = *p.End
	}
	if p.Extra != nil {
		if evt.Extra == nil {
			evt.Extra = &model.ExtraFields{}
		}
		evt.Extra.Merge(p.Extra)
	}

	if !evt.IsOpen() && evt.End.Before(evt.Start) {
		return nil, errors.ErrInvalidInterval
	}
	if err := s.commit(next); err != nil {
		return nil, err
	}
	return evt.Clone(), nil
}

// Delete permanently removes an event. There is no undo.
func (s *Store) Delete(eventID string) error {
	next := s.clone()
	for i, e := range next {
		if e.ID == eventID {
			next = append(next[:i], next[i+1:]...)
			return s.commit(next)
		}
	}
	return errors.ErrNotFound
}

// Get returns a copy of the event with the given id.
func (s *Store) Get(eventID string) (*model.LogEvent, error) {
	if evt := findEvent(s.events, eventID); evt != nil {
		return evt.Clone(), nil
	}
	return nil, errors.ErrNotFound
}

// All returns a copy of the whole collection, unordered.
func (s *Store) All() []*model.LogEvent {
	return s.clone()
}

// Len returns the number of events in the store.
func (s *Store) Len() int {
	return len(s.events)
}

// ForDay returns the events whose start falls on the given local
// calendar date, sorted by start time in the requested order.
func (s *Store) ForDay(date string, order Order) []*model.LogEvent {
	var out []*model.LogEvent
	for _, e := range s.events {
		if e.Day() == date {
			out = append(out, e.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if order == Ascending {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Start.After(out[j].Start)
	})
	return out
}

// Days returns every date that has at least one event, sorted.
func (s *Store) Days() []string {
	seen := make(map[string]bool)
	for _, e := range s.events {
		seen[e.Day()] = true
	}
	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Strings(days)
	return days
}

func findEvent(events []*model.LogEvent, id string) *model.LogEvent {
	for _, e := range events {
		if e.ID == id {
			return e
		}
	}
	return nil
}
