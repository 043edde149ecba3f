package input

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/mousebind"

	log "github.com/sirupsen/logrus"
)

// MouseInfo is passed to click callbacks: the client under the
// pointer (0 if none), the modifier mask active at click time, and the
// pointer's root-relative coordinates.
type MouseInfo struct {
	ClientID uint32
	Modifier uint16
	X, Y     int16
}

// ClickCallback is the capability a mouse binding invokes on
// ButtonPress.
type ClickCallback func(ctx EventContext, info MouseInfo) error

// Mouse grabs pointer button events on the root window and dispatches
// them to registered click callbacks. Only a single event kind (Click)
// is defined, matching the spec's scope.
type Mouse struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	onClick ClickCallback
}

// NewMouse primes mousebind's internal state, disables implicit
// sloppy (follow-pointer) focus by directing input focus to the
// root/pointer, and returns a Mouse with no click handler registered
// yet.
func NewMouse(xu *xgbutil.XUtil, root xproto.Window) *Mouse {
	mousebind.Initialize(xu)

	err := xproto.SetInputFocusChecked(
		xu.Conn(), xproto.InputFocusPointerRoot, xproto.Window(xproto.InputFocusPointerRoot), xproto.TimeCurrentTime,
	).Check()
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Warn("input.mouse.new.disable_sloppy_focus_failed")
	}

	return &Mouse{xu: xu, root: root}
}

// OnClick registers the Click handler: a synchronous grab on button 1
// on the root window with AnyModifier.
func (m *Mouse) OnClick(cb ClickCallback) {
	m.onClick = cb

	err := xproto.GrabButtonChecked(
		m.xu.Conn(), false, m.root,
		xproto.EventMaskButtonPress,
		xproto.GrabModeSync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone,
		xproto.ButtonIndex1, xproto.ModMaskAny,
	).Check()
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Warn("input.mouse.on_click.grab_failed")
	}
}

// Dispatch releases the pointer grab (ReplayPointer, so the click
// still reaches the client underneath) and invokes the Click callback
// if one is registered.
func (m *Mouse) Dispatch(ctx EventContext, info MouseInfo) {
	err := xproto.AllowEventsChecked(m.xu.Conn(), xproto.AllowReplayPointer, xproto.TimeCurrentTime).Check()
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Warn("input.mouse.dispatch.allow_events_failed")
	}

	if m.onClick == nil {
		return
	}
	if err := m.onClick(ctx, info); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("input.mouse.dispatch.callback_failed")
	}
}
