package timeline

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hkerrors "github.com/Elmersong/HealthKey/internal/errors"
)

// newPairing builds a controller over a fresh store with a manually
// advanced clock.
func newPairing(t *testing.T) (*Controller, *Store, *time.Time) {
	t.Helper()
	s, _ := newStore(t)
	now := localTime(8, 0)
	c := NewController(s, func() time.Time { return now })
	return c, s, &now
}

func TestTapOpensEvent(t *testing.T) {
	c, s, _ := newPairing(t)

	result, err := c.Tap("water")
	require.NoError(t, err)
	assert.Equal(t, TapOpened, result.Action)
	assert.True(t, result.Event.IsOpen())
	assert.Equal(t, 1, s.Len())

	pending := c.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, "water", pending.EventTypeID)
	assert.Equal(t, result.Event.ID, pending.EventID)
}

func TestTapUnknownType(t *testing.T) {
	c, _, _ := newPairing(t)
	_, err := c.Tap("juggling")
	assert.ErrorIs(t, err, hkerrors.ErrUnknownEventType)
	assert.Nil(t, c.Pending())
}

func TestTapPairCloses(t *testing.T) {
	t.Run("short_interval", func(t *testing.T) {
		c, s, now := newPairing(t)
		first, err := c.Tap("sleep_start")
		require.NoError(t, err)

		*now = now.Add(10 * time.Minute)
		result, err := c.Tap("sleep_start")
		require.NoError(t, err)

		assert.Equal(t, TapClosed, result.Action)
		assert.Equal(t, first.Event.ID, result.Event.ID)
		assert.Equal(t, 10*time.Minute, result.Event.Duration())
		assert.Equal(t, 1, s.Len())
		assert.Nil(t, c.Pending())
	})

	t.Run("just_inside_window", func(t *testing.T) {
		c, _, now := newPairing(t)
		_, err := c.Tap("sleep_start")
		require.NoError(t, err)

		*now = now.Add(89 * time.Minute)
		result, err := c.Tap("sleep_start")
		require.NoError(t, err)
		assert.Equal(t, TapClosed, result.Action)
		assert.Equal(t, 89*time.Minute, result.Event.Duration())
	})
}

func TestTapWindowExceeded(t *testing.T) {
	c, s, now := newPairing(t)
	first, err := c.Tap("sleep_start")
	require.NoError(t, err)

	*now = now.Add(91 * time.Minute)
	result, err := c.Tap("sleep_start")
	assert.ErrorIs(t, err, hkerrors.ErrPairingWindowExceeded)
	assert.Equal(t, TapDiscarded, result.Action)
	assert.NotEmpty(t, result.Advisory)

	// The original event stays open for a manual edit and the pending
	// state is consumed.
	got, err := s.Get(first.Event.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOpen())
	assert.Equal(t, 1, s.Len())
	assert.Nil(t, c.Pending())
}

func TestTapDifferentTypeResetsPending(t *testing.T) {
	c, s, now := newPairing(t)
	_, err := c.Tap("sleep_start")
	require.NoError(t, err)

	*now = now.Add(5 * time.Minute)
	result, err := c.Tap("water")
	require.NoError(t, err)

	// The water tap is a fresh single tap; it does not close the
	// sleep event and it takes over the pending slot.
	assert.Equal(t, TapOpened, result.Action)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "water", c.Pending().EventTypeID)
}

func TestTapOnAlreadyClosedPending(t *testing.T) {
	c, s, now := newPairing(t)
	first, err := c.Tap("sleep_start")
	require.NoError(t, err)

	// Someone closed the event out-of-band, e.g. via an edit command.
	require.NoError(t, s.Close(first.Event.ID, now.Add(time.Minute)))

	*now = now.Add(10 * time.Minute)
	result, err := c.Tap("sleep_start")
	require.NoError(t, err)
	assert.Equal(t, TapDiscarded, result.Action)
	assert.NotEmpty(t, result.Advisory)
	assert.Equal(t, 1, s.Len())
}

func TestTapOnDeletedPendingFallsBack(t *testing.T) {
	c, s, now := newPairing(t)
	first, err := c.Tap("water")
	require.NoError(t, err)
	require.NoError(t, s.Delete(first.Event.ID))

	*now = now.Add(time.Minute)
	result, err := c.Tap("water")
	require.NoError(t, err)
	assert.Equal(t, TapOpened, result.Action)
	assert.NotEqual(t, first.Event.ID, result.Event.ID)
}

func TestTapSequenceAfterClose(t *testing.T) {
	// Once a pair closed, the next tap on the same type opens a new
	// event rather than touching the closed one.
	c, s, now := newPairing(t)
	_, err := c.Tap("sleep_start")
	require.NoError(t, err)

	*now = now.Add(20 * time.Minute)
	_, err = c.Tap("sleep_start")
	require.NoError(t, err)

	*now = now.Add(time.Hour)
	result, err := c.Tap("sleep_start")
	require.NoError(t, err)
	assert.Equal(t, TapOpened, result.Action)
	assert.Equal(t, 2, s.Len())
}

func TestTapResultJSON(t *testing.T) {
	c, _, _ := newPairing(t)
	result, err := c.Tap("water")
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, json.RawMessage(`"opened"`), decoded["action"])
	assert.Contains(t, decoded, "event")
	assert.NotContains(t, decoded, "Action")
	assert.NotContains(t, decoded, "advisory")
}

func TestTapActionString(t *testing.T) {
	assert.Equal(t, "opened", TapOpened.String())
	assert.Equal(t, "closed", TapClosed.String())
	assert.Equal(t, "discarded", TapDiscarded.String())
}

func TestRestoreAndReset(t *testing.T) {
	c, _, _ := newPairing(t)

	c.Restore(&PendingTap{EventTypeID: "water", EventID: "e1", At: localTime(7, 55)})
	pending := c.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, "e1", pending.EventID)

	c.Reset()
	assert.Nil(t, c.Pending())

	// Restoring garbage is ignored.
	c.Restore(&PendingTap{})
	assert.Nil(t, c.Pending())
	c.Restore(nil)
	assert.Nil(t, c.Pending())
}
