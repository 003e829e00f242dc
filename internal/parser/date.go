// Package parser turns CLI arguments into dates and instants.
package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/model"
)

// ParseDay parses a calendar-day argument: "", "today", "yesterday",
// a literal YYYY-MM-DD, or anything go-dateparser understands
// ("last monday", "3 days ago"). The result is a local date string.
func ParseDay(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "", "today":
		return now.Local().Format(model.DateFormat), nil
	case "yesterday":
		return now.Local().AddDate(0, 0, -1).Format(model.DateFormat), nil
	}

	if t, err := time.ParseInLocation(model.DateFormat, input, time.Local); err == nil {
		return t.Format(model.DateFormat), nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return "", errors.NewUserErrorWithField("date", input,
			"Unrecognized date",
			"Use YYYY-MM-DD or a phrase like 'yesterday'")
	}
	return result.Time.Local().Format(model.DateFormat), nil
}

// ParseClock parses an HH:MM argument onto the date of base, in local
// time. Used by edit commands that move an event within its day.
func ParseClock(input string, base time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, errors.NewUserErrorWithField("time", input,
			"Unrecognized time",
			"Use 24-hour HH:MM, e.g. 08:30")
	}
	local := base.Local()
	return time.Date(local.Year(), local.Month(), local.Day(),
		t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// ParseInstant parses a full timestamp argument: "now", RFC 3339, or a
// natural-language phrase.
func ParseInstant(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.ToLower(input) == "now" {
		return now, nil
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, errors.NewUserErrorWithField("timestamp", input,
			"Unrecognized timestamp",
			"Use RFC 3339, HH:MM, or a phrase like '10 minutes ago'")
	}
	return result.Time, nil
}
