package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/registry"
	"github.com/Elmersong/HealthKey/internal/storage"
	"github.com/Elmersong/HealthKey/internal/timeline"
)

func newAggregator(t *testing.T) (*Aggregator, *timeline.Store, *registry.Registry) {
	t.Helper()
	kv := storage.NewMemory()
	reg, err := registry.Load(kv)
	require.NoError(t, err)
	store, err := timeline.Load(kv, reg)
	require.NoError(t, err)
	return New(store, reg), store, reg
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.Local)
}

const day = "2026-03-14"

func TestSummarizeEmptyDay(t *testing.T) {
	a, _, _ := newAggregator(t)
	assert.Empty(t, a.Summarize(day))
}

func TestSummarizeCountsAndOrder(t *testing.T) {
	a, store, _ := newAggregator(t)

	for _, tap := range []struct {
		typeID string
		at     time.Time
	}{
		{"water", at(8, 0)},
		{"breakfast", at(8, 30)},
		{"water", at(10, 0)},
		{"water", at(14, 0)},
		{"pee", at(9, 0)},
	} {
		_, err := store.Append(tap.typeID, tap.at)
		require.NoError(t, err)
	}

	lines := a.Summarize(day)
	require.Len(t, lines, 2)

	// Category order follows catalog order: diet before excretion.
	assert.Equal(t, "diet", lines[0].CategoryID)
	assert.Equal(t, "饮食", lines[0].CategoryLabel)
	assert.Equal(t, "早餐 1 次 · 喝水 3 次", lines[0].Text)
	assert.Equal(t, 4, lines[0].Count)

	assert.Equal(t, "excretion", lines[1].CategoryID)
	assert.Equal(t, "排尿 1 次", lines[1].Text)
}

func TestSummarizeSleepPairCountsOnce(t *testing.T) {
	// A paired start/end is one event, so one occurrence in the
	// summary, not two.
	a, store, _ := newAggregator(t)
	evt, err := store.Append("sleep_start", at(23, 0))
	require.NoError(t, err)
	require.NoError(t, store.Close(evt.ID, at(23, 0).Add(7*time.Hour)))

	lines := a.Summarize(day)
	require.Len(t, lines, 1)
	assert.Equal(t, "sleep", lines[0].CategoryID)
	assert.Equal(t, "入睡 1 次", lines[0].Text)
}

func TestSummarizeSkipsDanglingTypes(t *testing.T) {
	a, store, reg := newAggregator(t)

	def, err := reg.AddEventType("喝茶", "diet")
	require.NoError(t, err)
	_, err = store.Append(def.ID, at(15, 0))
	require.NoError(t, err)
	_, err = store.Append("water", at(16, 0))
	require.NoError(t, err)

	require.NoError(t, reg.DeleteEventType(def.ID))

	// The event referencing the deleted type is skipped, not fatal.
	lines := a.Summarize(day)
	require.Len(t, lines, 1)
	assert.Equal(t, "喝水 1 次", lines[0].Text)
}

func TestSummarizeOtherDayExcluded(t *testing.T) {
	a, store, _ := newAggregator(t)
	_, err := store.Append("water", at(8, 0).AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, a.Summarize(day))
}

func TestCategoryCounts(t *testing.T) {
	a, store, _ := newAggregator(t)
	_, err := store.Append("water", at(8, 0))
	require.NoError(t, err)
	_, err = store.Append("breakfast", at(8, 30))
	require.NoError(t, err)
	_, err = store.Append("pee", at(9, 0))
	require.NoError(t, err)

	counts := a.CategoryCounts(day)
	assert.Equal(t, map[string]int{"diet": 2, "excretion": 1}, counts)
}

func TestWeatherSummary(t *testing.T) {
	temp := 21.5
	humidity := 60.0
	pressure := 1013.0

	t.Run("full_snapshot", func(t *testing.T) {
		got := WeatherSummary(&model.Weather{
			TemperatureC: &temp,
			Humidity:     &humidity,
			PressureHpa:  &pressure,
			Description:  "实时天气",
		})
		assert.Equal(t, "21.5°C · 湿度 60% · 气压 1013 hPa · 实时天气", got)
	})

	t.Run("missing_snapshot", func(t *testing.T) {
		assert.Equal(t, "天气数据暂无", WeatherSummary(nil))
		assert.Equal(t, "天气数据暂无", WeatherSummary(&model.Weather{}))
	})
}
