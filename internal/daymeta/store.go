// Package daymeta owns per-calendar-day ambient attributes: step
// counts, an opaque weather snapshot, and a cycle phase. Records are
// created lazily the first time a day is touched and filled in
// incrementally; setters merge into the day without clobbering fields
// another source already set.
package daymeta

import (
	"encoding/json"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/storage"
)

// Store persists one DayMeta record per calendar date.
type Store struct {
	kv storage.KV
}

// New creates a day-metadata store over the given KV.
func New(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Get returns the day's record, or nil if the day was never touched.
func (s *Store) Get(date string) (*model.DayMeta, error) {
	data, found, err := s.kv.Load(model.DayKey(date))
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("daymeta load", "storage read failed", err)
	}
	if !found {
		return nil, nil
	}
	var meta model.DayMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.NewSystemErrorWithOp("daymeta load", "corrupt day record", err)
	}
	return &meta, nil
}

// Touch ensures the day has a record, creating an empty one if needed,
// and returns it.
func (s *Store) Touch(date string) (*model.DayMeta, error) {
	meta, err := s.Get(date)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		return meta, nil
	}
	meta = &model.DayMeta{Date: date}
	if err := s.save(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *Store) save(meta *model.DayMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return errors.NewSystemErrorWithOp("daymeta persist", "marshal failed", err)
	}
	if err := s.kv.Save(model.DayKey(meta.Date), data); err != nil {
		return errors.NewSystemErrorWithOp("daymeta persist", "storage write failed", err)
	}
	return nil
}

// merge loads (or lazily creates) the day, applies the mutation and
// persists. Only the mutated field changes; everything already set
// stays.
func (s *Store) merge(date string, apply func(*model.DayMeta)) (*model.DayMeta, error) {
	meta, err := s.Get(date)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		meta = &model.DayMeta{Date: date}
	}
	apply(meta)
	if err := s.save(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// SetSteps records the day's step count.
func (s *Store) SetSteps(date string, steps int) (*model.DayMeta, error) {
	return s.merge(date, func(m *model.DayMeta) {
		m.Steps = model.Int(steps)
	})
}

// SetCyclePhase records the day's cycle phase.
func (s *Store) SetCyclePhase(date string, phase string) (*model.DayMeta, error) {
	return s.merge(date, func(m *model.DayMeta) {
		m.CyclePhase = phase
	})
}

// SetWeather stores an opaque weather snapshot for the day.
func (s *Store) SetWeather(date string, snapshot json.RawMessage) (*model.DayMeta, error) {
	return s.merge(date, func(m *model.DayMeta) {
		m.Weather = append(json.RawMessage(nil), snapshot...)
	})
}

// Dates lists every date with a record, sorted.
func (s *Store) Dates() ([]string, error) {
	keys, err := s.kv.Keys(model.PrefixDayMeta + ":")
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("daymeta list", "storage read failed", err)
	}
	dates := make([]string, 0, len(keys))
	for _, k := range keys {
		dates = append(dates, k[len(model.PrefixDayMeta)+1:])
	}
	return dates, nil
}
