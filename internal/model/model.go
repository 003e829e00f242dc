// Package model defines the domain models for HealthKey.
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Snapshot keys for the persisted stores. Each store owns exactly one
// logical record per key; the timeline and registry are single
// documents, day metadata is keyed per calendar date.
const (
	KeyEvents     = "events"
	KeyRegistry   = "registry"
	PrefixDayMeta = "daymeta"
	KeyPendingTap = "session:pending"
)

// DayKey returns the storage key for a day's metadata record.
func DayKey(date string) string {
	return fmt.Sprintf("%s:%s", PrefixDayMeta, date)
}

// NewID generates a stable unique identifier using UUID v7 so that ids
// sort roughly by creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the entropy source does; fall back to v4.
		return uuid.NewString()
	}
	return id.String()
}

// DateFormat is the calendar-day format used throughout the engine.
const DateFormat = "2006-01-02"
