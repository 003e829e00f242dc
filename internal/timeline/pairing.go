package timeline

import (
	"encoding/json"
	"time"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/logging"
	"github.com/Elmersong/HealthKey/internal/model"
)

// PairingWindow caps the interval a pair may close. A stray repeat tap
// hours or days later must not silently attach a bogus duration; past
// the window the user is directed to edit the record instead.
const PairingWindow = 90 * time.Minute

// PendingTap is the controller's session state: the single most recent
// unpaired tap. The controller tracks exactly one pending tap
// globally; a tap on a different type replaces it.
type PendingTap struct {
	EventTypeID string    `json:"eventTypeId"`
	EventID     string    `json:"eventId"`
	At          time.Time `json:"at"`
}

// TapAction describes what a tap did.
type TapAction int

const (
	// TapOpened means the tap created a new open event.
	TapOpened TapAction = iota
	// TapClosed means the tap closed the pending event.
	TapClosed
	// TapDiscarded means the pairing attempt was abandoned: the
	// pending event was already closed, or the pairing window was
	// exceeded. Advisory carries the user-facing explanation.
	TapDiscarded
)

func (a TapAction) String() string {
	switch a {
	case TapOpened:
		return "opened"
	case TapClosed:
		return "closed"
	default:
		return "discarded"
	}
}

// MarshalJSON emits the string form so machine consumers see "opened"
// rather than an enum ordinal.
func (a TapAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// TapResult is the outcome of a tap signal.
type TapResult struct {
	Action   TapAction       `json:"action"`
	Event    *model.LogEvent `json:"event,omitempty"`
	Advisory string          `json:"advisory,omitempty"`
}

// Controller interprets repeated tap signals as start/end pairs. It
// deliberately downgrades pairing failures to advisories: its job is
// to make sense of ambiguous repeated input, not to enforce an API
// contract. It owns no storage; the clock is injected so tests run
// without wall time.
type Controller struct {
	store   *Store
	now     func() time.Time
	pending *PendingTap
}

// NewController creates a controller over the given store. A nil clock
// uses time.Now.
func NewController(store *Store, clock func() time.Time) *Controller {
	if clock == nil {
		clock = time.Now
	}
	return &Controller{store: store, now: clock}
}

// Pending returns the current pending tap, or nil.
func (c *Controller) Pending() *PendingTap {
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

// Restore reinstates session state saved by a previous run.
func (c *Controller) Restore(p *PendingTap) {
	if p == nil || p.EventID == "" {
		c.pending = nil
		return
	}
	tap := *p
	c.pending = &tap
}

// Reset clears the pending tap.
func (c *Controller) Reset() {
	c.pending = nil
}

// Tap handles one tap signal for the given event type. A first tap
// (or a tap on a different type) opens a new event and becomes the
// pending tap. A repeat tap on the same type closes the pending event,
// provided the pending event is still open and the elapsed interval
// fits the pairing window.
func (c *Controller) Tap(eventTypeID string) (TapResult, error) {
	t := c.now()

	if c.pending == nil || c.pending.EventTypeID != eventTypeID {
		return c.singleTap(eventTypeID, t)
	}

	pending := *c.pending
	c.pending = nil

	open, err := c.store.Get(pending.EventID)
	if err != nil {
		// The pending event was deleted out from under us; fall back
		// to the single-tap branch.
		return c.singleTap(eventTypeID, t)
	}
	if !open.IsOpen() {
		logging.DebugLog("pairing discarded, interval already closed",
			logging.KeyEventID, open.ID)
		return TapResult{
			Action:   TapDiscarded,
			Event:    open,
			Advisory: "该记录已有结束时间，无法再次闭合",
		}, nil
	}

	if elapsed := t.Sub(open.Start); elapsed > PairingWindow {
		logging.DebugLog("pairing discarded, window exceeded",
			logging.KeyEventID, open.ID, "elapsed", elapsed)
		return TapResult{
			Action:   TapDiscarded,
			Event:    open,
			Advisory: "两次打卡间隔超过 90 分钟，请在记录详情中手动补全结束时间",
		}, errors.ErrPairingWindowExceeded
	}

	if err := c.store.Close(open.ID, t); err != nil {
		return TapResult{}, err
	}
	closed, err := c.store.Get(open.ID)
	if err != nil {
		return TapResult{}, err
	}
	return TapResult{Action: TapClosed, Event: closed}, nil
}

func (c *Controller) singleTap(eventTypeID string, t time.Time) (TapResult, error) {
	evt, err := c.store.Append(eventTypeID, t)
	if err != nil {
		return TapResult{}, err
	}
	c.pending = &PendingTap{
		EventTypeID: eventTypeID,
		EventID:     evt.ID,
		At:          t,
	}
	return TapResult{Action: TapOpened, Event: evt}, nil
}
