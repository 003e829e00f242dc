// Package export serializes a day's events into iCalendar form.
package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/registry"
	"github.com/Elmersong/HealthKey/internal/timeline"
)

// MediaType is the media type of exported calendars.
const MediaType = "text/calendar"

// OpenEventDuration is the end time assumed for events with no
// recorded end. Long enough to keep the file valid, short enough not
// to imply a duration that was never measured.
const OpenEventDuration = 15 * time.Minute

// Exporter turns a day of the timeline into an .ics byte buffer.
type Exporter struct {
	store    *timeline.Store
	registry *registry.Registry
	now      func() time.Time
}

// New creates an exporter. A nil clock uses time.Now; tests inject one
// to pin DTSTAMP.
func New(store *timeline.Store, reg *registry.Registry, clock func() time.Time) *Exporter {
	if clock == nil {
		clock = time.Now
	}
	return &Exporter{store: store, registry: reg, now: clock}
}

// Day exports every event of the given local calendar date. A day with
// no events fails with ErrEmptyDay rather than producing an empty file.
func (x *Exporter) Day(date string) ([]byte, error) {
	events := x.store.ForDay(date, timeline.Ascending)
	if len(events) == 0 {
		return nil, errors.ErrEmptyDay
	}

	stamp := x.now()
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//HealthKey//HealthKey//EN")

	for _, evt := range events {
		ve := cal.AddEvent(fmt.Sprintf("%s@healthkey", evt.ID))
		ve.SetCreatedTime(stamp)
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(evt.Start)

		end := evt.End
		if evt.IsOpen() {
			end = evt.Start.Add(OpenEventDuration)
		}
		ve.SetEndAt(end)

		// Values go in raw: golang-ical applies RFC 5545 TEXT escaping
		// itself during serialization.
		ve.SetSummary(x.summaryFor(evt))
		if desc := describeExtras(evt.Extra); desc != "" {
			ve.SetDescription(desc)
		}
	}

	return []byte(cal.Serialize()), nil
}

// summaryFor resolves the event's title from its type label, falling
// back to the raw type id for dangling references.
func (x *Exporter) summaryFor(evt *model.LogEvent) string {
	if def, ok := x.registry.EventType(evt.EventTypeID); ok {
		return def.Label
	}
	return evt.EventTypeID
}

// describeExtras renders the present extra fields, one per line, in a
// fixed order so exports are reproducible.
func describeExtras(x *model.ExtraFields) string {
	if x.IsEmpty() {
		return ""
	}
	var lines []string
	if x.SatietyPercent != nil {
		lines = append(lines, fmt.Sprintf("饱腹感: %d%%", *x.SatietyPercent))
	}
	if x.WaterMl != nil {
		lines = append(lines, fmt.Sprintf("喝水: %d ml", *x.WaterMl))
	}
	if x.IntensityPercent != nil {
		lines = append(lines, fmt.Sprintf("强度: %d%%", *x.IntensityPercent))
	}
	if x.SleepDepthPercent != nil {
		lines = append(lines, fmt.Sprintf("睡眠深度: %d%%", *x.SleepDepthPercent))
	}
	if x.Color != nil {
		lines = append(lines, fmt.Sprintf("颜色: %s", x.Color.Resolve()))
	}
	if x.Abnormal != nil && *x.Abnormal {
		lines = append(lines, "标记为异常")
	}
	if x.Note != nil && *x.Note != "" {
		lines = append(lines, fmt.Sprintf("备注: %s", *x.Note))
	}
	return strings.Join(lines, "\n")
}
