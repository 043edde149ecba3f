package wm

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/xwindow"

	log "github.com/sirupsen/logrus"

	"github.com/heiytor/sapphire-wm/input"
	"github.com/heiytor/sapphire-wm/screen"
	"github.com/heiytor/sapphire-wm/wmutil"
)

// WindowManager owns the X connection, the Screen, and the input
// subsystems, and runs the single-threaded event loop that ties them
// together.
type WindowManager struct {
	xu *xgbutil.XUtil

	screen   *screen.Screen
	keyboard *input.Keyboard
	mouse    *input.Mouse

	ctx *Context
}

// New connects to the X display named by $DISPLAY,
// fatally exiting if the connection or the initial substructure-redirect
// grab fails, and constructs the Screen, Context, Keyboard and Mouse.
func New() *WindowManager {
	xu, err := xgbutil.NewConn()
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Fatal("wm.new.connect_failed")
	}

	root := xu.RootWin()
	geom, err := xwindow.New(xu, root).Geometry()
	var width, height uint32 = 1920, 1080
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Warn("wm.new.root_geometry_failed")
	} else {
		width, height = uint32(geom.Width()), uint32(geom.Height())
	}

	s := screen.New(xu, 0, root, width, height)
	ctx := NewContext(xu, s)

	keyboard := input.NewKeyboard(xu, root)
	mouse := input.NewMouse(xu, root)

	wm := &WindowManager{
		xu:       xu,
		screen:   s,
		keyboard: keyboard,
		mouse:    mouse,
		ctx:      ctx,
	}

	wm.registerBindings()
	mouse.OnClick(wm.onClick)

	return wm
}

// registerBindings installs the default Mod4-based keybindings: tag
// switching (1-9), move-focused-client-to-tag (Shift+1-9), focus
// cycling, close, fullscreen/maximize toggles, and a terminal spawn.
// Grounded on the original source's fixed keybinding table; this
// window manager has no keybinding configuration file.
func (wm *WindowManager) registerBindings() {
	digits := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
	for i, d := range digits {
		id := uint32(i)
		wm.keyboard.Register(input.Keybinding{
			Modifier: wmutil.Mod4, Key: d, Group: "tags",
			Description: "view tag " + d,
			Callback: func(ctx input.EventContext) error {
				return wm.ctx.ViewTag(id)
			},
		})
		wm.keyboard.Register(input.Keybinding{
			Modifier: wmutil.Mod4 | wmutil.Shift, Key: d, Group: "tags",
			Description: "move focused client to tag " + d,
			Callback: func(ctx input.EventContext) error {
				return wm.ctx.MoveFocusedClientToTag(id)
			},
		})
	}

	wm.keyboard.Register(input.Keybinding{
		Modifier: wmutil.Mod4, Key: "j", Group: "focus",
		Description: "focus next client",
		Callback:    func(ctx input.EventContext) error { return wm.ctx.FocusByIndex(1) },
	})
	wm.keyboard.Register(input.Keybinding{
		Modifier: wmutil.Mod4, Key: "k", Group: "focus",
		Description: "focus previous client",
		Callback:    func(ctx input.EventContext) error { return wm.ctx.FocusByIndex(-1) },
	})
	wm.keyboard.Register(input.Keybinding{
		Modifier: wmutil.Mod4 | wmutil.Shift, Key: "q", Group: "client",
		Description: "close focused client",
		Callback:    func(ctx input.EventContext) error { return wm.ctx.KillFocused() },
	})
	wm.keyboard.Register(input.Keybinding{
		Modifier: wmutil.Mod4, Key: "f", Group: "client",
		Description: "toggle fullscreen",
		Callback:    func(ctx input.EventContext) error { return wm.ctx.ToggleFullscreen() },
	})
	wm.keyboard.Register(input.Keybinding{
		Modifier: wmutil.Mod4, Key: "m", Group: "client",
		Description: "toggle maximized",
		Callback:    func(ctx input.EventContext) error { return wm.ctx.ToggleMaximized() },
	})
	wm.keyboard.Register(input.Keybinding{
		Modifier: wmutil.Mod4, Key: "Return", Group: "spawn",
		Description: "spawn terminal",
		Callback:    func(ctx input.EventContext) error { return ctx.Spawn("xterm") },
	})
	wm.keyboard.Register(input.Keybinding{
		Modifier: wmutil.Mod4 | wmutil.Shift, Key: "s", Group: "tags",
		Description: "pin focused client to every tag",
		Callback: func(ctx input.EventContext) error {
			return wm.ctx.MoveFocusedClientToTag(wm.ctx.StickyTag())
		},
	})
}

// onClick focuses the client under the pointer on a button-1 click
// (the only button Mouse grabs), the window manager's only pointer
// binding.
func (wm *WindowManager) onClick(ctx input.EventContext, info input.MouseInfo) error {
	if info.ClientID == 0 {
		return nil
	}
	t, err := wm.screen.GetFocusedTag()
	if err != nil {
		return err
	}
	return t.Focus(info.ClientID)
}

// Run reads and dispatches X events until the connection is closed.
// Each event kind is handled synchronously on this goroutine, matching
// the single-threaded cooperative model the Screen's mutex-free
// internals assume.
func (wm *WindowManager) Run() {
	log.Info("wm.run.starting")

	for {
		ev, xerr := wm.xu.Conn().WaitForEvent()
		if xerr != nil {
			log.WithFields(log.Fields{"err": xerr}).Error("wm.run.x_error")
			continue
		}
		if ev == nil {
			log.Warn("wm.run.connection_closed")
			return
		}

		switch e := ev.(type) {
		case xproto.MapRequestEvent:
			wm.handleMapRequest(e)
		case xproto.DestroyNotifyEvent:
			wm.handleDestroyNotify(e)
		case xproto.ConfigureRequestEvent:
			wm.handleConfigureRequest(e)
		case xproto.ClientMessageEvent:
			wm.handleClientMessage(e)
		case xproto.KeyPressEvent:
			wm.keyboard.Dispatch(wm.ctx, e.Detail, e.State)
		case xproto.ButtonPressEvent:
			wm.mouse.Dispatch(wm.ctx, input.MouseInfo{
				ClientID: uint32(e.Child),
				Modifier: e.State,
				X:        e.RootX,
				Y:        e.RootY,
			})
		default:
			log.WithFields(log.Fields{"event": e}).Debug("wm.run.unhandled_event")
		}
	}
}
