package model

import "encoding/json"

// DayMeta holds per-calendar-day ambient attributes, independent of
// any single event. One record per day, created lazily the first time
// the day is touched; fields fill in incrementally and are never
// required to be complete. Weather is an opaque snapshot from an
// external source; the engine stores it without interpreting it.
type DayMeta struct {
	Date       string          `json:"date"`
	Steps      *int            `json:"steps,omitempty"`
	Weather    json.RawMessage `json:"weather,omitempty"`
	CyclePhase string          `json:"cyclePhase,omitempty"`
}

// Weather is the shape produced by the bundled open-meteo fetcher.
// Stored under DayMeta.Weather; consumers that only relay the snapshot
// never need to decode it.
type Weather struct {
	TemperatureC *float64 `json:"temperatureC,omitempty"`
	Humidity     *float64 `json:"humidity,omitempty"`
	PressureHpa  *float64 `json:"pressureHpa,omitempty"`
	Description  string   `json:"description,omitempty"`
}
