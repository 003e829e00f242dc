// Package aggregate derives day-level summaries from the timeline and
// the registry.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/registry"
	"github.com/Elmersong/HealthKey/internal/timeline"
)

// CategorySummary is one rendered summary line for a category that had
// events on the day.
type CategorySummary struct {
	CategoryID    string `json:"categoryId"`
	CategoryLabel string `json:"categoryLabel"`
	Text          string `json:"text"`
	Count         int    `json:"count"`
}

// Aggregator reads the timeline store and the registry.
type Aggregator struct {
	store    *timeline.Store
	registry *registry.Registry
}

// New creates a day aggregator.
func New(store *timeline.Store, reg *registry.Registry) *Aggregator {
	return &Aggregator{store: store, registry: reg}
}

// Summarize returns one line per category with events on the given
// day, ordered by the registry's current category ordering. Each line
// joins per-type "<label> <n> 次" fragments in registry type order.
// A day with no events yields an empty slice. Events referencing a
// since-deleted event type are skipped, not fatal.
func (a *Aggregator) Summarize(date string) []CategorySummary {
	events := a.store.ForDay(date, timeline.Ascending)
	if len(events) == 0 {
		return nil
	}

	// typeCounts[typeID] = events of that type on the day
	typeCounts := make(map[string]int)
	for _, evt := range events {
		if !a.registry.HasEventType(evt.EventTypeID) {
			continue
		}
		typeCounts[evt.EventTypeID]++
	}

	var out []CategorySummary
	for _, cat := range a.registry.Categories() {
		var fragments []string
		total := 0
		for _, def := range a.registry.EventTypes() {
			if def.CategoryID != cat.ID {
				continue
			}
			n := typeCounts[def.ID]
			if n == 0 {
				continue
			}
			fragments = append(fragments, fmt.Sprintf("%s %d 次", def.Label, n))
			total += n
		}
		if len(fragments) == 0 {
			continue
		}
		out = append(out, CategorySummary{
			CategoryID:    cat.ID,
			CategoryLabel: cat.Label,
			Text:          strings.Join(fragments, " · "),
			Count:         total,
		})
	}
	return out
}

// CategoryCounts returns raw per-category event totals for the day,
// keyed by category id, for the daily overview grid.
func (a *Aggregator) CategoryCounts(date string) map[string]int {
	counts := make(map[string]int)
	for _, evt := range a.store.ForDay(date, timeline.Ascending) {
		def, ok := a.registry.EventType(evt.EventTypeID)
		if !ok {
			continue
		}
		counts[def.CategoryID]++
	}
	return counts
}

// WeatherSummary renders a short weather line from a day's opaque
// weather snapshot, or a placeholder when nothing was recorded.
func WeatherSummary(w *model.Weather) string {
	if w == nil {
		return "天气数据暂无"
	}
	var parts []string
	if w.TemperatureC != nil {
		parts = append(parts, fmt.Sprintf("%.1f°C", *w.TemperatureC))
	}
	if w.Humidity != nil {
		parts = append(parts, fmt.Sprintf("湿度 %.0f%%", *w.Humidity))
	}
	if w.PressureHpa != nil {
		parts = append(parts, fmt.Sprintf("气压 %.0f hPa", *w.PressureHpa))
	}
	if w.Description != "" {
		parts = append(parts, w.Description)
	}
	if len(parts) == 0 {
		return "天气数据暂无"
	}
	return strings.Join(parts, " · ")
}
