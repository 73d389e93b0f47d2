// Package lifecycle pauses and resumes polling as the page is hidden,
// shown, focused or blurred.
package lifecycle

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Scheduler is the part of the polling scheduler the controller drives.
type Scheduler interface {
	Start() bool
	Stop() bool
	Running() bool
	RefreshNow()
}

// Event types reported by the browser.
const (
	EventVisibility = "visibilitychange"
	EventFocus      = "focus"
	EventBlur       = "blur"
)

// ErrUnknownEvent is returned by Dispatch for unsupported event types.
var ErrUnknownEvent = errors.New("unknown lifecycle event")

// Event is a page-level signal as sent over the websocket.
type Event struct {
	Type   string `json:"type"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Controller maps page signals to scheduler actions. Signals are not
// debounced; every one triggers its action.
type Controller struct {
	sched Scheduler
	log   logrus.FieldLogger
}

// NewController returns a controller driving sched.
func NewController(sched Scheduler, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{sched: sched, log: log.WithField("component", "lifecycle")}
}

// VisibilityChanged stops polling when the page is hidden and starts it when
// the page becomes visible again.
func (c *Controller) VisibilityChanged(hidden bool) {
	if hidden {
		c.sched.Stop()
		return
	}
	c.sched.Start()
}

// Focus restarts polling if it was stopped and always refreshes once.
func (c *Controller) Focus() {
	if !c.sched.Running() {
		c.sched.Start()
	}
	c.sched.RefreshNow()
}

// Blur keeps polling as is.
func (c *Controller) Blur() {}

// Dispatch routes a decoded event.
func (c *Controller) Dispatch(ev Event) error {
	switch ev.Type {
	case EventVisibility:
		c.VisibilityChanged(ev.Hidden)
	case EventFocus:
		c.Focus()
	case EventBlur:
		c.Blur()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	c.log.WithField("event", ev.Type).Debug("lifecycle event handled")
	return nil
}

// HandleMessage decodes a raw websocket message and dispatches it.
func (c *Controller) HandleMessage(raw []byte) error {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("decode lifecycle event: %w", err)
	}
	return c.Dispatch(ev)
}
