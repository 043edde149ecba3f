// Package input implements the Keyboard and Mouse subsystems: grabbing
// key combinations and pointer buttons on the root window and
// dispatching them to user-registered callbacks.
package input

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/keybind"

	log "github.com/sirupsen/logrus"
)

// KeyCallback is the capability a keybinding invokes on KeyPress. It is
// an opaque, clonable unit per the spec's design notes: modeled here
// as a plain Go function type, the idiomatic stand-in for a boxed
// trait object.
type KeyCallback func(ctx EventContext) error

// EventContext is the value every callback receives: a connection
// handle plus whatever the caller threads through. Keyboard and Mouse
// are agnostic to its concrete shape beyond this package; wm.Context
// satisfies it.
type EventContext interface {
	Spawn(process string) error
}

// keyCombo identifies a registered keybinding: the pair (keycode,
// modifier) uniquely identifies it within the Keyboard subsystem.
type keyCombo struct {
	keycode  xproto.Keycode
	modifier uint16
}

// Keybinding is the (modifier-mask, key-symbol-name, callback,
// description, group) tuple described in the spec's data model.
type Keybinding struct {
	Modifier    uint16
	Key         string
	Callback    KeyCallback
	Description string
	Group       string
}

// Keyboard maintains the (keycode, modifier) -> callback map and the
// root-window grabs backing it.
type Keyboard struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	bindings map[keyCombo]Keybinding
}

// NewKeyboard primes the keysym tables (keybind.Initialize) and
// returns an empty Keyboard ready for registration.
func NewKeyboard(xu *xgbutil.XUtil, root xproto.Window) *Keyboard {
	keybind.Initialize(xu)
	return &Keyboard{xu: xu, root: root, bindings: make(map[keyCombo]Keybinding)}
}

// Register resolves kb.Key to a keycode via the server's current
// keymap and installs a grab for (keycode, kb.Modifier) on the root
// window. An unresolvable key name is logged and the binding is
// skipped, never panics.
func (k *Keyboard) Register(kb Keybinding) {
	syms := keybind.StrToKeysyms(kb.Key)
	if len(syms) == 0 {
		log.WithFields(log.Fields{"key": kb.Key}).Warn("input.keyboard.register.unresolvable_key")
		return
	}

	keycode := keybind.KeysymToKeycode(k.xu, syms[0])
	if keycode == 0 {
		log.WithFields(log.Fields{"key": kb.Key}).Warn("input.keyboard.register.no_keycode")
		return
	}

	err := xproto.GrabKeyChecked(
		k.xu.Conn(), true, k.root, kb.Modifier, keycode,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
	).Check()
	if err != nil {
		log.WithFields(log.Fields{"key": kb.Key, "err": err}).Warn("input.keyboard.register.grab_failed")
		return
	}

	k.bindings[keyCombo{keycode, kb.Modifier}] = kb
	log.WithFields(log.Fields{"key": kb.Key, "modifier": kb.Modifier, "group": kb.Group}).Debug("input.keyboard.register.ok")
}

// Dispatch looks up the (keycode, modifier) pair from a KeyPress event
// and invokes its callback, if any. A missing entry is a silent no-op;
// a callback error is logged with the binding's description.
func (k *Keyboard) Dispatch(ctx EventContext, keycode xproto.Keycode, modifier uint16) {
	kb, ok := k.bindings[keyCombo{keycode, modifier}]
	if !ok {
		return
	}

	if err := kb.Callback(ctx); err != nil {
		log.WithFields(log.Fields{"key": kb.Key, "description": kb.Description, "err": err}).Error("input.keyboard.dispatch.callback_failed")
	}
}
