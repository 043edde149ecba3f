// Package screen owns the process-wide X-screen state: the list of
// tags (including the distinguished sticky tag), the currently focused
// tag, and the operations that switch views, move clients between
// tags, and keep the root window's EWMH properties in sync.
package screen

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/xprop"
	"github.com/jezek/xgbutil/xwindow"

	log "github.com/sirupsen/logrus"

	"github.com/heiytor/sapphire-wm/common"
	"github.com/heiytor/sapphire-wm/layout"
	"github.com/heiytor/sapphire-wm/store"
	"github.com/heiytor/sapphire-wm/tag"
	"github.com/heiytor/sapphire-wm/wmerrors"
	"github.com/heiytor/sapphire-wm/wmutil"
)

// supportedAtoms is the full _NET_SUPPORTED set this window manager
// advertises, grounded on the original source's screen/mod.rs list.
var supportedAtoms = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",

	"_NET_CLIENT_LIST",

	"_NET_ACTIVE_WINDOW",
	"_NET_CURRENT_DESKTOP",
	"_NET_DESKTOP_NAMES",
	"_NET_NUMBER_OF_DESKTOPS",

	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_STATE_MAXIMIZED_VERT",
	"_NET_WM_STATE_MAXIMIZED_HORZ",
	"_NET_WM_STATE_STICKY",

	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_NORMAL",

	"_NET_WM_ACTION_FULLSCREEN",
	"_NET_WM_ACTION_MAXIMIZE_VERT",
	"_NET_WM_ACTION_MAXIMIZE_HORZ",
	"_NET_WM_ACTION_CLOSE",
	"_NET_WM_ACTION_CHANGE_DESKTOP",
	"_NET_WM_ACTION_RESIZE",
	"_NET_WM_ACTION_MOVE",

	"_NET_WM_STRUT",
	"_NET_WM_STRUT_PARTIAL",

	"_NET_WM_PID",
}

// Screen is the process-wide X-screen state.
type Screen struct {
	ID   int
	Root xproto.Window

	Width, Height uint32

	xu *xgbutil.XUtil

	// tags is never empty; its last element is always the sticky tag.
	tags []*tag.Tag

	focusedTagID uint32

	layout layout.Layout
}

// New creates the Screen for the given root screen, installing
// substructure-redirect on the root window (exiting via log.Fatal if
// another window manager is already running), advertising the EWMH supported set, and creating one Tag
// per configured alias plus the appended sticky tag.
func New(xu *xgbutil.XUtil, id int, root xproto.Window, width, height uint32) *Screen {
	err := xproto.ChangeWindowAttributesChecked(
		xu.Conn(), root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify},
	).Check()
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Fatal("screen.new.substructure_redirect_failed: is another window manager running?")
	}

	if err := ewmh.SupportedSet(xu, supportedAtoms); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.new.supported_set.failed")
	}

	setSupportingWmCheck(xu, root)

	aliases := common.Config.Tags
	if len(aliases) == 0 {
		aliases = []string{"1"}
	}

	tags := make([]*tag.Tag, 0, len(aliases)+1)
	for i, alias := range aliases {
		tags = append(tags, tag.New(uint32(i), alias, width, height))
	}

	if err := ewmh.NumberOfDesktopsSet(xu, uint(len(tags))); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.new.number_of_desktops_set.failed")
	}
	if err := ewmh.DesktopNamesSet(xu, aliases); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.new.desktop_names_set.failed")
	}

	// The sticky tag holds clients overlaid on every view. It uses the
	// EWMH "all desktops" sentinel ID and has no geometry of its own
	// (its padding still participates in every normal tag's arrange
	// via Tag.Arrange's pointwise max).
	tags = append(tags, tag.New(tag.StickyID, "sticky", 0, 0))

	s := &Screen{
		ID:     id,
		Root:   root,
		Width:  width,
		Height: height,
		xu:     xu,
		tags:   tags,
		layout: layout.Tile{},
	}

	if err := ewmh.CurrentDesktopSet(xu, uint(s.focusedTagID)); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.new.current_desktop_set.failed")
	}

	return s
}

// setSupportingWmCheck creates an unmapped 1x1 check window and writes
// _NET_SUPPORTING_WM_CHECK both on root (pointing at the check window)
// and on the check window itself (pointing at itself), the two writes
// EWMH pagers rely on to detect a compliant, running window manager.
func setSupportingWmCheck(xu *xgbutil.XUtil, root xproto.Window) {
	win, err := xwindow.Generate(xu)
	if err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.set_supporting_wm_check.generate_failed")
		return
	}
	win.Create(root, 0, 0, 1, 1, 0)

	if err := ewmh.SupportingWmCheckSet(xu, win.Id); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.set_supporting_wm_check.root_set_failed")
	}
	if err := xprop.ChangeProp32(xu, win.Id, "_NET_SUPPORTING_WM_CHECK", "WINDOW", uint(win.Id)); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.set_supporting_wm_check.self_set_failed")
	}
	if err := ewmh.WmNameSet(xu, win.Id, "sapphirewm"); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.set_supporting_wm_check.wm_name_failed")
	}
}

func (s *Screen) setFocusedTag(id uint32) {
	if err := ewmh.CurrentDesktopSet(s.xu, uint(id)); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.set_focused_tag.current_desktop_set.failed")
	}
	s.focusedTagID = id
}

// ContainsTag reports whether a tag with the given ID exists.
func (s *Screen) ContainsTag(id uint32) bool {
	for _, t := range s.tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// StickyTag returns the sticky tag, which is always the last element.
func (s *Screen) StickyTag() *tag.Tag {
	return s.tags[len(s.tags)-1]
}

// GetTag returns the tag with the given ID, or TagNotFound.
func (s *Screen) GetTag(id uint32) (*tag.Tag, error) {
	for _, t := range s.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, wmerrors.TagNotFound(id)
}

// GetFocusedTag returns the currently focused tag, or TagNotFound if
// focusedTagID does not (or no longer) refer to a valid tag.
func (s *Screen) GetFocusedTag() (*tag.Tag, error) {
	return s.GetTag(s.focusedTagID)
}

// FindTagWithClient searches every tag, including the sticky tag, for
// the client with the given ID. Used by handlers that only have a raw
// window ID to work with (e.g. DestroyNotify).
func (s *Screen) FindTagWithClient(id uint32) (*tag.Tag, error) {
	for _, t := range s.tags {
		if t.Contains(id) {
			return t, nil
		}
	}
	return nil, wmerrors.ClientNotFound(id)
}

// ArrangeTag recomputes the layout of the tag with the given ID, using
// the sticky tag as the padding overlay. TagNotFound on miss.
func (s *Screen) ArrangeTag(id uint32) error {
	t, err := s.GetTag(id)
	if err != nil {
		return err
	}
	t.Arrange(s.layout, s.StickyTag())
	return nil
}

// ViewTag focuses and views the tag with the given ID. No-op if
// already focused. Otherwise: maps the destination's clients, focuses
// its focused client (or disables input focus), unmaps the previously
// focused tag's clients, arranges the destination, then updates
// focusedTagID and _NET_CURRENT_DESKTOP. Partial atom-write failures
// do not abort the transition.
func (s *Screen) ViewTag(id uint32) error {
	if cur, err := s.GetFocusedTag(); err == nil && cur.ID == id {
		return nil
	}

	dest, err := s.GetTag(id)
	if err != nil {
		return err
	}

	dest.Map()

	if c, err := dest.GetFocused(); err == nil {
		c.SetInputFocus()
	} else {
		wmutil.DisableInputFocus(s.xu)
	}

	if prev, err := s.GetFocusedTag(); err == nil {
		prev.Unmap()
	}

	s.ArrangeTag(id)
	s.setFocusedTag(id)

	return nil
}

// MoveFocusedClient moves the focused client of src into dst: it
// unmanages it from src, re-focuses src's first remaining controlled
// client (or disables input focus), manages and focuses it in dst,
// updates the client's _NET_WM_DESKTOP, and arranges both tags.
func (s *Screen) MoveFocusedClient(src, dst uint32) error {
	if !s.ContainsTag(src) {
		return wmerrors.TagNotFound(src)
	}
	if !s.ContainsTag(dst) {
		return wmerrors.TagNotFound(dst)
	}

	sTag, _ := s.GetTag(src)
	client, err := sTag.GetFocused()
	if err != nil {
		return nil // nothing focused on src: nothing to move.
	}

	client.Unmap()
	clientID := uint32(client.ID)
	sTag.Unmanage(clientID)

	if c, err := sTag.GetFirstClientWhen(func(c *store.Client) bool { return c.IsControlled }); err == nil {
		sTag.Focus(uint32(c.ID))
	} else {
		wmutil.DisableInputFocus(s.xu)
	}

	dTag, _ := s.GetTag(dst)
	dTag.Manage(client)
	dTag.Focus(clientID)

	if err := ewmh.WmDesktopSet(s.xu, client.ID, uint(dst)); err != nil {
		log.WithFields(log.Fields{"window": client.ID, "err": err}).Error("screen.move_focused_client.wm_desktop_set.failed")
	}

	s.ArrangeTag(dst)
	s.ArrangeTag(src)

	return nil
}

// Refresh recomputes _NET_CLIENT_LIST from a single authoritative
// flattening of every tag's clients, on every call. This is the only
// place _NET_CLIENT_LIST is computed (see DESIGN.md's Open Question #2).
func (s *Screen) Refresh() {
	var windows []xproto.Window
	for _, t := range s.tags {
		for _, c := range t.CloneClients() {
			windows = append(windows, c.ID)
		}
	}
	if err := ewmh.ClientListSet(s.xu, windows); err != nil {
		log.WithFields(log.Fields{"err": err}).Error("screen.refresh.client_list_set.failed")
	}
}

// XUtil exposes the underlying connection for packages that must issue
// raw requests (handlers, keyboard/mouse grabs).
func (s *Screen) XUtil() *xgbutil.XUtil {
	return s.xu
}
