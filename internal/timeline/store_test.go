package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hkerrors "github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/storage"
)

// knownTypes accepts a fixed set of event-type ids.
type knownTypes map[string]bool

func (k knownTypes) HasEventType(id string) bool { return k[id] }

var testTypes = knownTypes{
	"water": true, "breakfast": true, "sleep_start": true, "pee": true,
}

func newStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	s, err := Load(kv, testTypes)
	require.NoError(t, err)
	return s, kv
}

func localTime(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.Local)
}

// =============================================================================
// Append / Query Tests
// =============================================================================

func TestAppendAndForDay(t *testing.T) {
	s, _ := newStore(t)

	first, err := s.Append("water", localTime(8, 0))
	require.NoError(t, err)
	second, err := s.Append("breakfast", localTime(9, 30))
	require.NoError(t, err)

	day := first.Day()

	t.Run("ascending", func(t *testing.T) {
		events := s.ForDay(day, Ascending)
		require.Len(t, events, 2)
		assert.Equal(t, first.ID, events[0].ID)
		assert.Equal(t, second.ID, events[1].ID)
	})

	t.Run("descending", func(t *testing.T) {
		events := s.ForDay(day, Descending)
		require.Len(t, events, 2)
		assert.Equal(t, second.ID, events[0].ID)
	})

	t.Run("other_day_is_empty", func(t *testing.T) {
		assert.Empty(t, s.ForDay("1999-01-01", Ascending))
	})
}

func TestAppendUnknownType(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Append("juggling", localTime(8, 0))
	assert.ErrorIs(t, err, hkerrors.ErrUnknownEventType)
	assert.Equal(t, 0, s.Len())
}

func TestForDayUsesStartDay(t *testing.T) {
	// A sleep crossing midnight belongs to the day it started.
	s, _ := newStore(t)
	evt, err := s.Append("sleep_start", localTime(23, 0))
	require.NoError(t, err)
	require.NoError(t, s.Close(evt.ID, localTime(23, 0).Add(8*time.Hour)))

	assert.Len(t, s.ForDay("2026-03-14", Ascending), 1)
	assert.Empty(t, s.ForDay("2026-03-15", Ascending))
}

func TestDays(t *testing.T) {
	s, _ := newStore(t)
	_, err := s.Append("water", localTime(8, 0))
	require.NoError(t, err)
	_, err = s.Append("water", localTime(8, 0).AddDate(0, 0, -3))
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-03-11", "2026-03-14"}, s.Days())
}

// =============================================================================
// Close Tests
// =============================================================================

func TestClose(t *testing.T) {
	s, _ := newStore(t)
	evt, err := s.Append("sleep_start", localTime(23, 0))
	require.NoError(t, err)

	require.NoError(t, s.Close(evt.ID, localTime(23, 30)))
	closed, err := s.Get(evt.ID)
	require.NoError(t, err)
	assert.False(t, closed.IsOpen())
	assert.Equal(t, 30*time.Minute, closed.Duration())
}

func TestCloseErrors(t *testing.T) {
	s, _ := newStore(t)
	evt, err := s.Append("sleep_start", localTime(23, 0))
	require.NoError(t, err)

	t.Run("not_found", func(t *testing.T) {
		assert.ErrorIs(t, s.Close("missing", localTime(23, 30)), hkerrors.ErrNotFound)
	})

	t.Run("end_before_start_leaves_event_open", func(t *testing.T) {
		assert.ErrorIs(t, s.Close(evt.ID, localTime(22, 0)), hkerrors.ErrInvalidInterval)
		got, err := s.Get(evt.ID)
		require.NoError(t, err)
		assert.True(t, got.IsOpen())
	})

	t.Run("already_closed", func(t *testing.T) {
		require.NoError(t, s.Close(evt.ID, localTime(23, 30)))
		assert.ErrorIs(t, s.Close(evt.ID, localTime(23, 45)), hkerrors.ErrAlreadyClosed)
	})
}

// =============================================================================
// Patch Tests
// =============================================================================

func TestApply(t *testing.T) {
	s, _ := newStore(t)
	evt, err := s.Append("breakfast", localTime(9, 0))
	require.NoError(t, err)

	t.Run("move_start", func(t *testing.T) {
		start := localTime(8, 30)
		got, err := s.Apply(evt.ID, Patch{Start: &start})
		require.NoError(t, err)
		assert.Equal(t, start, got.Start)
	})

	t.Run("extras_merge_not_replace", func(t *testing.T) {
		_, err := s.Apply(evt.ID, Patch{Extra: &model.ExtraFields{
			SatietyPercent: model.Int(80),
		}})
		require.NoError(t, err)

		got, err := s.Apply(evt.ID, Patch{Extra: &model.ExtraFields{
			Note: model.String("豆浆油条"),
		}})
		require.NoError(t, err)
		assert.Equal(t, 80, *got.Extra.SatietyPercent)
		assert.Equal(t, "豆浆油条", *got.Extra.Note)
	})

	t.Run("set_and_clear_end", func(t *testing.T) {
		end := localTime(9, 20)
		got, err := s.Apply(evt.ID, Patch{End: &end})
		require.NoError(t, err)
		assert.False(t, got.IsOpen())

		got, err = s.Apply(evt.ID, Patch{ClearEnd: true})
		require.NoError(t, err)
		assert.True(t, got.IsOpen())
	})

	t.Run("invalid_interval_rejected", func(t *testing.T) {
		end := localTime(7, 0)
		_, err := s.Apply(evt.ID, Patch{End: &end})
		assert.ErrorIs(t, err, hkerrors.ErrInvalidInterval)

		got, err := s.Get(evt.ID)
		require.NoError(t, err)
		assert.True(t, got.IsOpen())
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := s.Apply("missing", Patch{})
		assert.ErrorIs(t, err, hkerrors.ErrNotFound)
	})
}

// =============================================================================
// Delete Tests
// =============================================================================

func TestDelete(t *testing.T) {
	s, _ := newStore(t)
	evt, err := s.Append("water", localTime(8, 0))
	require.NoError(t, err)

	require.NoError(t, s.Delete(evt.ID))
	_, err = s.Get(evt.ID)
	assert.ErrorIs(t, err, hkerrors.ErrNotFound)
	assert.ErrorIs(t, s.Delete(evt.ID), hkerrors.ErrNotFound)
}

// =============================================================================
// Persistence Tests
// =============================================================================

func TestMutationsPersistAcrossLoads(t *testing.T) {
	s, kv := newStore(t)
	evt, err := s.Append("water", localTime(8, 0))
	require.NoError(t, err)
	_, err = s.Apply(evt.ID, Patch{Extra: &model.ExtraFields{WaterMl: model.Int(300)}})
	require.NoError(t, err)

	again, err := Load(kv, testTypes)
	require.NoError(t, err)
	got, err := again.Get(evt.ID)
	require.NoError(t, err)
	assert.Equal(t, 300, *got.Extra.WaterMl)
	assert.True(t, got.Start.Equal(evt.Start))
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	s, kv := newStore(t)
	evt, err := s.Append("water", localTime(8, 0))
	require.NoError(t, err)

	kv.FailSaves = errors.New("disk full")

	t.Run("append", func(t *testing.T) {
		_, err := s.Append("water", localTime(9, 0))
		assert.Error(t, err)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("close", func(t *testing.T) {
		assert.Error(t, s.Close(evt.ID, localTime(10, 0)))
		got, err := s.Get(evt.ID)
		require.NoError(t, err)
		assert.True(t, got.IsOpen())
	})

	t.Run("delete", func(t *testing.T) {
		assert.Error(t, s.Delete(evt.ID))
		assert.Equal(t, 1, s.Len())
	})
}
