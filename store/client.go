// Package store holds the Client type: the handle the window manager
// keeps for every top-level X window it manages, together with the
// best-effort EWMH/ICCCM property reads used to populate it and the
// fire-and-forget property writes used to mutate it.
package store

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/icccm"
	"github.com/jezek/xgbutil/xwindow"

	log "github.com/sirupsen/logrus"

	"github.com/heiytor/sapphire-wm/wmerrors"
	"github.com/heiytor/sapphire-wm/wmutil"
)

// ClientType classifies the window per its EWMH _NET_WM_WINDOW_TYPE.
type ClientType int

const (
	TypeNormal ClientType = iota
	TypeDock
	TypeDialog
	TypeSplash
)

// ClientState is one entry of a Client's LIFO state list. Tile is the
// implicit empty state and is never pushed into Client.states; it is
// only ever returned by LastState when the list is empty.
type ClientState int

const (
	StateTile ClientState = iota
	StateFullscreen
	StateMaximized
	StateSticky
	StateHidden
)

// ClientAction is one entry of the _NET_WM_ALLOWED_ACTIONS set the WM
// advertises to a client.
type ClientAction int

const (
	ActionClose ClientAction = iota
	ActionMaximize
	ActionFullscreen
	ActionChangeTag
	ActionResize
	ActionMove
)

// Padding is a four-sided pixel reservation, as requested by a dock via
// _NET_WM_STRUT_PARTIAL.
type Padding struct {
	Top, Bottom, Left, Right uint32
}

// Max returns the pointwise maximum of p and o.
func (p Padding) Max(o Padding) Padding {
	return Padding{
		Top:    maxU32(p.Top, o.Top),
		Bottom: maxU32(p.Bottom, o.Bottom),
		Left:   maxU32(p.Left, o.Left),
		Right:  maxU32(p.Right, o.Right),
	}
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// Geometry is a client's on-screen rectangle plus border width.
type Geometry struct {
	X, Y          int16
	Width, Height uint16
	Border        uint16
}

// Client is a handle for one managed X window.
type Client struct {
	X *xgbutil.XUtil

	ID  xproto.Window
	PID uint32

	Class string
	Name  string

	Geometry Geometry
	Padding  Padding

	// IsControlled is true iff the WM may resize/move this client. Dock
	// clients are never controlled.
	IsControlled bool

	Types  []ClientType
	states []ClientState

	actions []ClientAction

	// protocols is the set of ICCCM WM_PROTOCOLS atom names the client
	// declared support for, notably "WM_DELETE_WINDOW".
	protocols map[string]bool
}

// stateAtoms maps a ClientState to the EWMH atom name(s) it corresponds
// to. Maximized expands to two atoms, matching _NET_WM_STATE_MAXIMIZED_VERT
// and _NET_WM_STATE_MAXIMIZED_HORZ.
func stateAtoms(s ClientState) []string {
	switch s {
	case StateFullscreen:
		return []string{"_NET_WM_STATE_FULLSCREEN"}
	case StateMaximized:
		return []string{"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ"}
	case StateSticky:
		return []string{"_NET_WM_STATE_STICKY"}
	case StateHidden:
		return []string{"_NET_WM_STATE_HIDDEN"}
	default:
		return nil
	}
}

func actionAtoms(a ClientAction) []string {
	switch a {
	case ActionClose:
		return []string{"_NET_WM_ACTION_CLOSE"}
	case ActionMaximize:
		return []string{"_NET_WM_ACTION_MAXIMIZE_VERT", "_NET_WM_ACTION_MAXIMIZE_HORZ"}
	case ActionFullscreen:
		return []string{"_NET_WM_ACTION_FULLSCREEN"}
	case ActionChangeTag:
		return []string{"_NET_WM_ACTION_CHANGE_DESKTOP"}
	case ActionResize:
		return []string{"_NET_WM_ACTION_RESIZE"}
	case ActionMove:
		return []string{"_NET_WM_ACTION_MOVE"}
	default:
		return nil
	}
}

// New constructs a Client for window w, querying its EWMH/ICCCM
// properties in best-effort fashion: every read tolerates failure and
// falls back to a zero value (class and PID failures are logged as
// warnings, absent strut/protocols/window-type at debug level, a
// missing name not at all), mirroring the
// teacher's GetInfo pattern of never letting a single missing property
// abort client construction.
func New(xu *xgbutil.XUtil, w xproto.Window) *Client {
	c := &Client{
		X:        xu,
		ID:       w,
		states:   make([]ClientState, 0, 2),
		actions:  make([]ClientAction, 0, 6),
		protocols: make(map[string]bool),
	}

	if class, err := icccm.WmClassGet(xu, w); err != nil {
		log.WithFields(log.Fields{"window": w, "err": err}).Warn("store.client.wm_class.failed")
	} else {
		c.Class = class.Class
		c.Name = class.Instance
	}

	if name, err := icccm.WmNameGet(xu, w); err == nil && name != "" {
		c.Name = name
	}

	if pid, err := ewmh.WmPidGet(xu, w); err != nil {
		log.WithFields(log.Fields{"window": w, "err": err}).Warn("store.client.wm_pid.failed")
	} else {
		c.PID = uint32(pid)
	}

	if strut, err := ewmh.WmStrutPartialGet(xu, w); err != nil {
		log.WithFields(log.Fields{"window": w, "err": err}).Debug("store.client.strut_partial.absent")
	} else {
		c.Padding = Padding{
			Top:    uint32(strut.Top),
			Bottom: uint32(strut.Bottom),
			Left:   uint32(strut.Left),
			Right:  uint32(strut.Right),
		}
	}

	if protos, err := icccm.WmProtocolsGet(xu, w); err != nil {
		log.WithFields(log.Fields{"window": w, "err": err}).Debug("store.client.wm_protocols.absent")
	} else {
		for _, p := range protos {
			c.protocols[p] = true
		}
	}

	preferred := TypeNormal
	if types, err := ewmh.WmWindowTypeGet(xu, w); err != nil {
		log.WithFields(log.Fields{"window": w, "err": err}).Debug("store.client.wm_window_type.absent")
	} else {
		for _, t := range types {
			switch t {
			case "_NET_WM_WINDOW_TYPE_DOCK":
				c.Types = append(c.Types, TypeDock)
				preferred = TypeDock
			case "_NET_WM_WINDOW_TYPE_DIALOG":
				c.Types = append(c.Types, TypeDialog)
				if preferred == TypeNormal {
					preferred = TypeDialog
				}
			case "_NET_WM_WINDOW_TYPE_SPLASH":
				c.Types = append(c.Types, TypeSplash)
				if preferred == TypeNormal {
					preferred = TypeSplash
				}
			case "_NET_WM_WINDOW_TYPE_NORMAL":
				c.Types = append(c.Types, TypeNormal)
			}
		}
	}
	if len(c.Types) == 0 {
		c.Types = append(c.Types, TypeNormal)
	}

	c.actions = append(c.actions, ActionClose)
	if preferred == TypeDock {
		c.IsControlled = false
		c.states = append(c.states, StateSticky)
	} else {
		c.IsControlled = true
		c.actions = append(c.actions, ActionMaximize, ActionFullscreen, ActionChangeTag, ActionResize, ActionMove)
	}

	c.writeStates()
	c.writeActions()

	return c
}

// Map requests the server map this client's window. A no-op for
// clients built via NewBare (X is nil), which lets tests exercise
// Tag/Screen logic without a live X connection.
func (c *Client) Map() {
	if c.X == nil {
		return
	}
	if err := xproto.MapWindowChecked(c.X.Conn(), c.ID).Check(); err != nil {
		log.WithFields(log.Fields{"window": c.ID, "err": err}).Error("store.client.map.failed")
	}
}

// Unmap requests the server unmap this client's window.
func (c *Client) Unmap() {
	if c.X == nil {
		return
	}
	if err := xproto.UnmapWindowChecked(c.X.Conn(), c.ID).Check(); err != nil {
		log.WithFields(log.Fields{"window": c.ID, "err": err}).Error("store.client.unmap.failed")
	}
}

// SetBorder changes the window's border pixel attribute.
func (c *Client) SetBorder(color uint32) {
	if c.X == nil {
		return
	}
	err := xproto.ChangeWindowAttributesChecked(
		c.X.Conn(), c.ID, xproto.CwBorderPixel, []uint32{color},
	).Check()
	if err != nil {
		log.WithFields(log.Fields{"window": c.ID, "err": err}).Error("store.client.set_border.failed")
	}
}

// SetInputFocus sets keyboard focus to this client's window and
// advertises it as _NET_ACTIVE_WINDOW, keeping pagers and taskbars in
// sync with every focus change.
func (c *Client) SetInputFocus() {
	if c.X == nil {
		return
	}
	err := xproto.SetInputFocusChecked(
		c.X.Conn(), xproto.InputFocusParent, c.ID, xproto.TimeCurrentTime,
	).Check()
	if err != nil {
		log.WithFields(log.Fields{"window": c.ID, "err": err}).Error("store.client.set_input_focus.failed")
		return
	}
	if err := ewmh.ActiveWindowSet(c.X, c.ID); err != nil {
		log.WithFields(log.Fields{"window": c.ID, "err": err}).Error("store.client.set_input_focus.active_window_set_failed")
	}
}

// Kill sends a polite WM_DELETE_WINDOW ClientMessage if the client
// supports the ICCCM protocol, otherwise forcibly terminates the X
// connection of the client's owning process via KillClient. The
// polite path is not retried: destruction is confirmed by the
// subsequent DestroyNotify event, not by this call.
func (c *Client) Kill() {
	if c.X == nil {
		return
	}
	if c.protocols["WM_DELETE_WINDOW"] {
		wmProtocols, err1 := xgbutil.Atm(c.X, "WM_PROTOCOLS")
		wmDelete, err2 := xgbutil.Atm(c.X, "WM_DELETE_WINDOW")
		if err1 == nil && err2 == nil {
			ev := xproto.ClientMessageEvent{
				Format: 32,
				Window: c.ID,
				Type:   wmProtocols,
				Data: xproto.ClientMessageDataUnionData32New([]uint32{
					uint32(wmDelete), uint32(xproto.TimeCurrentTime), 0, 0, 0,
				}),
			}
			err := xproto.SendEventChecked(c.X.Conn(), false, c.ID, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
			if err != nil {
				log.WithFields(log.Fields{"window": c.ID, "err": err}).Warn("store.client.kill.polite_failed")
			}
			return
		}
		log.WithFields(log.Fields{"window": c.ID}).Warn("store.client.kill.atom_lookup_failed")
	}

	if err := xproto.KillClientChecked(c.X.Conn(), uint32(c.ID)).Check(); err != nil {
		log.WithFields(log.Fields{"window": c.ID, "err": err}).Error("store.client.kill.force_failed")
	}
}

// LastState returns the top of the state list, or StateTile when the
// list is empty. Tile is never stored explicitly.
func (c *Client) LastState() ClientState {
	if len(c.states) == 0 {
		return StateTile
	}
	return c.states[len(c.states)-1]
}

// HasState reports whether s is present in the client's state list.
func (c *Client) HasState(s ClientState) bool {
	for _, x := range c.states {
		if x == s {
			return true
		}
	}
	return false
}

// AddState appends s to the state list if not already present, and
// appends its atom(s) to the WM_STATE property. A no-op if already present.
func (c *Client) AddState(s ClientState) {
	if c.HasState(s) {
		return
	}
	c.states = append(c.states, s)
	c.writeStates()
}

// RemoveState removes s from the state list if present and rewrites
// the WM_STATE property from scratch. A no-op if absent.
func (c *Client) RemoveState(s ClientState) {
	if !c.HasState(s) {
		return
	}
	kept := c.states[:0]
	for _, x := range c.states {
		if x != s {
			kept = append(kept, x)
		}
	}
	c.states = kept
	c.writeStates()
}

// SetState applies op (Add/Remove/Toggle) to s. Unknown operations
// produce wmerrors.InvalidOperation.
func (c *Client) SetState(s ClientState, op wmutil.Operation) error {
	switch op {
	case wmutil.OpAdd:
		c.AddState(s)
	case wmutil.OpRemove:
		c.RemoveState(s)
	case wmutil.OpToggle:
		if c.HasState(s) {
			c.RemoveState(s)
		} else {
			c.AddState(s)
		}
	default:
		return wmerrors.InvalidOperation("unknown operation")
	}
	return nil
}

// AllowAction advertises a to the client, deduplicated.
func (c *Client) AllowAction(a ClientAction) {
	c.AllowActions([]ClientAction{a})
}

// AllowActions advertises every action in as that is not already
// advertised, then rewrites the whole _NET_WM_ALLOWED_ACTIONS property.
func (c *Client) AllowActions(as []ClientAction) {
	changed := false
	for _, a := range as {
		found := false
		for _, x := range c.actions {
			if x == a {
				found = true
				break
			}
		}
		if !found {
			c.actions = append(c.actions, a)
			changed = true
		}
	}
	if changed {
		c.writeActions()
	}
}

func (c *Client) writeStates() {
	if c.X == nil {
		return
	}
	var atoms []string
	for _, s := range c.states {
		atoms = append(atoms, stateAtoms(s)...)
	}
	if err := ewmh.WmStateSet(c.X, c.ID, atoms); err != nil {
		log.WithFields(log.Fields{"window": c.ID, "err": err}).Error("store.client.wm_state.write_failed")
	}
}

func (c *Client) writeActions() {
	if c.X == nil {
		return
	}
	var atoms []string
	for _, a := range c.actions {
		atoms = append(atoms, actionAtoms(a)...)
	}
	if err := ewmh.WmAllowedActionsSet(c.X, c.ID, atoms); err != nil {
		log.WithFields(log.Fields{"window": c.ID, "err": err}).Error("store.client.wm_allowed_actions.write_failed")
	}
}

// NewBare constructs a Client with no X connection: its ID, controlled
// flag and padding are set directly and every network-touching method
// becomes a no-op. Used by tests in other packages (tag, layout,
// screen) that exercise pure scheduling/geometry logic without a
// live X server.
func NewBare(id xproto.Window, controlled bool) *Client {
	c := &Client{
		ID:           id,
		IsControlled: controlled,
		states:       make([]ClientState, 0, 2),
		actions:      make([]ClientAction, 0, 6),
		protocols:    make(map[string]bool),
	}
	if controlled {
		c.actions = append(c.actions, ActionClose, ActionMaximize, ActionFullscreen, ActionChangeTag, ActionResize, ActionMove)
	} else {
		c.states = append(c.states, StateSticky)
	}
	return c
}

// OuterGeometry queries the live on-screen geometry of the client's
// window directly from the server, used when the WM needs to reconcile
// its cached Geometry with reality (e.g. after an external resize).
func OuterGeometry(xu *xgbutil.XUtil, w xproto.Window) (Geometry, error) {
	g, err := xwindow.New(xu, w).Geometry()
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{
		X:      int16(g.X()),
		Y:      int16(g.Y()),
		Width:  uint16(g.Width()),
		Height: uint16(g.Height()),
		Border: uint16(g.BorderWidth()),
	}, nil
}
