// Package wmutil collects the small cross-cutting helpers used by every
// other package: modifier-mask constants, the _NET_WM_STATE operation
// decoding, the cyclic-focus index math, process spawning, and input
// focus release. It holds no atom table; other packages name EWMH atoms
// by string literal through xgbutil's atom cache.
package wmutil

import (
	"os/exec"
	"strings"

	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/ewmh"

	log "github.com/sirupsen/logrus"

	"github.com/heiytor/sapphire-wm/wmerrors"
)

// Modifier mask constants, mirrored from xproto's mod-mask bits so that
// keybinding configuration never needs to import xproto directly.
const (
	Mod1    = xproto.ModMask1
	Mod2    = xproto.ModMask2
	Mod3    = xproto.ModMask3
	Mod4    = xproto.ModMask4
	ModAny  = xproto.ModMaskAny
	ModLock = xproto.ModMaskLock
	Shift   = xproto.ModMaskShift
	Control = xproto.ModMaskControl
)

// Operation is the Add/Remove/Toggle selector accepted by state
// mutations such as Client.SetState and decoded from _NET_WM_STATE
// client messages.
type Operation int

const (
	OpAdd Operation = iota
	OpRemove
	OpToggle
	OpUnknown
)

// OperationFromAtomData maps the first data word of a _NET_WM_STATE
// client message (1 = add, 0 = remove, 2 = toggle, per the EWMH spec)
// to an Operation.
func OperationFromAtomData(d uint32) Operation {
	switch d {
	case 0:
		return OpRemove
	case 1:
		return OpAdd
	case 2:
		return OpToggle
	default:
		return OpUnknown
	}
}

// CycleIndex computes the target index for Tag.FocusByIndex: given a
// visible-set length n and a signed delta from the current anchor
// index, it returns the wrapped absolute index. Negative deltas wrap
// from the end. Returns false when n is zero.
//
// This implements the spec's "anchor + delta mod length" rule; it is
// deliberately not the plain zero-based cycle_idx(s, i) helper found in
// the original source, which ignores the anchor entirely.
func CycleIndex(anchor, n, delta int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	target := (anchor + delta) % n
	if target < 0 {
		target += n
	}
	return target, true
}

// Spawn splits process on whitespace and starts the first token as an
// executable with the remaining tokens as arguments. It does not wait
// for the process to exit. An empty command string fails with a
// wmerrors.Custom error.
func Spawn(process string) error {
	fields := strings.Fields(process)
	if len(fields) == 0 {
		return wmerrors.Custom("empty process string")
	}

	cmd := exec.Command(fields[0], fields[1:]...)
	if err := cmd.Start(); err != nil {
		return wmerrors.Custom(err.Error())
	}
	return nil
}

// DisableInputFocus sets the input focus to PointerRoot on the given
// window's connection, the idiomatic way to release keyboard focus
// without picking a specific client (used when a tag or a source tag
// after a client move has no controlled client left), and clears
// _NET_ACTIVE_WINDOW to the EWMH "none" sentinel (window 0).
func DisableInputFocus(xu *xgbutil.XUtil) {
	err := xproto.SetInputFocusChecked(
		xu.Conn(),
		xproto.InputFocusPointerRoot,
		xproto.Window(xproto.InputFocusPointerRoot),
		xproto.TimeCurrentTime,
	).Check()
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Warn("wmutil.disable_input_focus.failed")
	}
	if err := ewmh.ActiveWindowSet(xu, 0); err != nil {
		log.WithFields(log.Fields{"err": err}).Warn("wmutil.disable_input_focus.active_window_clear_failed")
	}
}
