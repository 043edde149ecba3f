package wm

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/xprop"

	log "github.com/sirupsen/logrus"

	"github.com/heiytor/sapphire-wm/common"
	"github.com/heiytor/sapphire-wm/store"
	"github.com/heiytor/sapphire-wm/tag"
	"github.com/heiytor/sapphire-wm/wmutil"
)

// handleMapRequest maps an already-managed window again and stops there.
// Otherwise it constructs a Client for the requested window, routes
// it to the sticky tag if it is a dock (docks are overlaid on every
// desktop and never tiled) or to the currently focused tag otherwise,
// maps it, focuses it if controlled, and re-arranges and refreshes.
func (wm *WindowManager) handleMapRequest(e xproto.MapRequestEvent) {
	if _, err := wm.screen.FindTagWithClient(uint32(e.Window)); err == nil {
		if err := xproto.MapWindowChecked(wm.xu.Conn(), e.Window).Check(); err != nil {
			log.WithFields(log.Fields{"window": e.Window, "err": err}).Error("wm.handlers.map_request.remap_failed")
		}
		return
	}

	client := store.New(wm.xu, e.Window)
	client.Geometry.Border = common.Config.Border.Width
	client.SetBorder(common.Config.Border.ColorNormal)

	dest, destID := wm.screen.StickyTag(), tag.StickyID
	if client.IsControlled {
		focused, err := wm.screen.GetFocusedTag()
		if err != nil {
			log.WithFields(log.Fields{"window": e.Window, "err": err}).Error("wm.handlers.map_request.no_focused_tag")
			return
		}
		dest, destID = focused, focused.ID
	}

	dest.Manage(client)

	if err := ewmh.WmDesktopSet(wm.xu, client.ID, uint(destID)); err != nil {
		log.WithFields(log.Fields{"window": e.Window, "err": err}).Error("wm.handlers.map_request.wm_desktop_set_failed")
	}

	client.Map()
	if client.IsControlled {
		dest.Focus(uint32(client.ID))
	}

	if err := wm.screen.ArrangeTag(destID); err != nil {
		log.WithFields(log.Fields{"tag": destID, "err": err}).Error("wm.handlers.map_request.arrange_failed")
	}
	wm.screen.Refresh()

	log.WithFields(log.Fields{"window": e.Window, "class": client.Class, "tag": destID}).Debug("wm.handlers.map_request.managed")
}

// handleDestroyNotify locates the tag owning the destroyed window,
// unmanages it, re-focuses the tag's next controlled client (or
// disables input focus), re-arranges, and refreshes.
func (wm *WindowManager) handleDestroyNotify(e xproto.DestroyNotifyEvent) {
	id := uint32(e.Window)

	t, err := wm.screen.FindTagWithClient(id)
	if err != nil {
		return // not a window we manage.
	}

	wasFocused := t.FocusedID() == id
	t.Unmanage(id)

	if wasFocused {
		if c, err := t.GetFirstClientWhen(func(c *store.Client) bool { return c.IsControlled }); err == nil {
			t.Focus(uint32(c.ID))
		} else {
			wmutil.DisableInputFocus(wm.xu)
		}
	}

	if err := wm.screen.ArrangeTag(t.ID); err != nil {
		log.WithFields(log.Fields{"tag": t.ID, "err": err}).Error("wm.handlers.destroy_notify.arrange_failed")
	}
	wm.screen.Refresh()
}

// handleConfigureRequest grants the client's requested geometry
// verbatim, whether or not the window is managed; a tiled window keeps
// it until the next arrange pass of its tag, which this handler does
// not trigger. The one exception is a Dialog-typed window's position:
// its x/y are overridden to center it on the screen instead of honoring
// whatever it requested.
func (wm *WindowManager) handleConfigureRequest(e xproto.ConfigureRequestEvent) {
	mask := e.ValueMask
	x, y := e.X, e.Y

	if isDialog(wm.xu, e.Window) {
		if geom, err := store.OuterGeometry(wm.xu, e.Window); err == nil {
			x = int16((int32(wm.screen.Width) - int32(geom.Width)) / 2)
			y = int16((int32(wm.screen.Height) - int32(geom.Height)) / 2)
			mask |= xproto.ConfigWindowX | xproto.ConfigWindowY
		}
	}

	var values []uint32
	if mask&xproto.ConfigWindowX != 0 {
		values = append(values, uint32(int32(x)))
	}
	if mask&xproto.ConfigWindowY != 0 {
		values = append(values, uint32(int32(y)))
	}
	if mask&xproto.ConfigWindowWidth != 0 {
		values = append(values, uint32(e.Width))
	}
	if mask&xproto.ConfigWindowHeight != 0 {
		values = append(values, uint32(e.Height))
	}
	if mask&xproto.ConfigWindowBorderWidth != 0 {
		values = append(values, uint32(e.BorderWidth))
	}
	if mask&xproto.ConfigWindowSibling != 0 {
		values = append(values, uint32(e.Sibling))
	}
	if mask&xproto.ConfigWindowStackMode != 0 {
		values = append(values, uint32(e.StackMode))
	}

	if err := xproto.ConfigureWindowChecked(wm.xu.Conn(), e.Window, mask, values).Check(); err != nil {
		log.WithFields(log.Fields{"window": e.Window, "err": err}).Error("wm.handlers.configure_request.failed")
	}
}

// handleClientMessage dispatches the two EWMH client messages this
// window manager honors: _NET_CURRENT_DESKTOP (view a tag) and
// _NET_WM_STATE (add/remove/toggle fullscreen on a specific client).
func (wm *WindowManager) handleClientMessage(e xproto.ClientMessageEvent) {
	name, err := xprop.AtomName(wm.xu, e.Type)
	if err != nil {
		return
	}

	data := e.Data.Data32

	switch name {
	case "_NET_CURRENT_DESKTOP":
		if len(data) < 1 {
			return
		}
		if err := wm.screen.ViewTag(data[0]); err != nil {
			log.WithFields(log.Fields{"tag": data[0], "err": err}).Warn("wm.handlers.client_message.view_tag_failed")
		}

	case "_NET_WM_STATE":
		if len(data) < 2 {
			return
		}
		op := wmutil.OperationFromAtomData(data[0])

		t, err := wm.screen.FindTagWithClient(uint32(e.Window))
		if err != nil {
			return
		}
		client, err := t.Get(uint32(e.Window))
		if err != nil {
			return
		}

		prop1, _ := xprop.AtomName(wm.xu, xproto.Atom(data[1]))
		if prop1 != "_NET_WM_STATE_FULLSCREEN" {
			return
		}
		if err := client.SetState(store.StateFullscreen, op); err != nil {
			log.WithFields(log.Fields{"window": e.Window, "err": err}).Warn("wm.handlers.client_message.set_state_failed")
			return
		}
		if err := wm.screen.ArrangeTag(t.ID); err != nil {
			log.WithFields(log.Fields{"tag": t.ID, "err": err}).Error("wm.handlers.client_message.arrange_failed")
		}
	}
}

// isDialog reports whether w advertises _NET_WM_WINDOW_TYPE_DIALOG.
// Queried directly against the window rather than through store.Client
// since ConfigureRequest can arrive before the client is managed.
func isDialog(xu *xgbutil.XUtil, w xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(xu, w)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DIALOG" {
			return true
		}
	}
	return false
}
