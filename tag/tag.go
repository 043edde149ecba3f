// Package tag implements the virtual-desktop data model: an ordered
// collection of clients, a focus pointer, and the padding aggregation
// and layout-arrangement operations a Screen delegates to each of its
// tags.
package tag

import (
	"github.com/jezek/xgb/xproto"

	log "github.com/sirupsen/logrus"

	"github.com/heiytor/sapphire-wm/common"
	"github.com/heiytor/sapphire-wm/layout"
	"github.com/heiytor/sapphire-wm/store"
	"github.com/heiytor/sapphire-wm/wmerrors"
	"github.com/heiytor/sapphire-wm/wmutil"
)

// StickyID is the reserved 32-bit all-ones desktop ID the EWMH
// convention uses to mean "all desktops"; the sticky tag always uses it.
const StickyID uint32 = 0xFFFFFFFF

// Geometry is a tag's screen dimensions plus its aggregated padding.
type Geometry struct {
	Width, Height uint32
	Padding       store.Padding
}

// Available returns the usable rectangle after subtracting padding.
func (g Geometry) Available() (w, h uint32) {
	w = subU32(g.Width, g.Padding.Left+g.Padding.Right)
	h = subU32(g.Height, g.Padding.Top+g.Padding.Bottom)
	return
}

func subU32(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}

// Tag is a virtual desktop: an ordered sequence of clients, a focus
// pointer, and the screen geometry it is drawn against.
type Tag struct {
	ID    uint32
	Alias string

	clients []*store.Client

	// focusedID is 0 when no client is focused, otherwise equals some
	// client's ID in clients.
	focusedID uint32

	width, height uint32
	padding       store.Padding
}

// New creates an empty tag with the given screen dimensions.
func New(id uint32, alias string, width, height uint32) *Tag {
	return &Tag{ID: id, Alias: alias, width: width, height: height}
}

// Geometry returns the tag's aggregated geometry.
func (t *Tag) Geometry() Geometry {
	return Geometry{Width: t.width, Height: t.height, Padding: t.padding}
}

// Manage pushes client to the front of the tag (it becomes the master
// candidate) and recomputes the aggregated padding as the pointwise
// max of the current padding and the new client's padding.
func (t *Tag) Manage(c *store.Client) {
	t.clients = append([]*store.Client{c}, t.clients...)
	t.padding = t.padding.Max(c.Padding)
}

// Unmanage removes the client with the given ID, if present, and
// recomputes the aggregated padding from scratch over the remaining
// clients (zero if none remain).
func (t *Tag) Unmanage(id uint32) {
	idx := t.indexOf(id)
	if idx < 0 {
		return
	}
	t.clients = append(t.clients[:idx], t.clients[idx+1:]...)
	if t.focusedID == id {
		t.focusedID = 0
	}

	var agg store.Padding
	for _, c := range t.clients {
		agg = agg.Max(c.Padding)
	}
	t.padding = agg
}

func (t *Tag) indexOf(id uint32) int {
	for i, c := range t.clients {
		if uint32(c.ID) == id {
			return i
		}
	}
	return -1
}

// Contains reports whether a client with the given ID is in this tag.
func (t *Tag) Contains(id uint32) bool {
	return t.indexOf(id) >= 0
}

// Get returns the client with the given ID, or ClientNotFound.
func (t *Tag) Get(id uint32) (*store.Client, error) {
	idx := t.indexOf(id)
	if idx < 0 {
		return nil, wmerrors.ClientNotFound(id)
	}
	return t.clients[idx], nil
}

// GetFocused returns the currently focused client, or ClientNotFound
// if focusedID is 0 or stale.
func (t *Tag) GetFocused() (*store.Client, error) {
	if t.focusedID == 0 {
		return nil, wmerrors.ClientNotFound(0)
	}
	return t.Get(t.focusedID)
}

// FocusedID returns the ID of the currently focused client, or 0.
func (t *Tag) FocusedID() uint32 {
	return t.focusedID
}

// GetFirstClientWhen returns the first client satisfying predicate,
// used to find the next focus candidate after a removal.
func (t *Tag) GetFirstClientWhen(predicate func(*store.Client) bool) (*store.Client, error) {
	for _, c := range t.clients {
		if predicate(c) {
			return c, nil
		}
	}
	return nil, wmerrors.ClientNotFound(0)
}

// All returns the tag's clients in order (front = master candidate).
// The returned slice is the tag's own backing slice; callers must not
// mutate it.
func (t *Tag) All() []*store.Client {
	return t.clients
}

// CloneClients returns a snapshot copy of the current client list,
// used by Screen.Refresh to build _NET_CLIENT_LIST. Arrange does not
// use it: a sticky tag's clients are not merged into another tag's
// layout, only its padding is.
func (t *Tag) CloneClients() []*store.Client {
	out := make([]*store.Client, len(t.clients))
	copy(out, t.clients)
	return out
}

// Focus sets input focus to the client with the given ID, swapping
// border colors between the previously and newly focused clients.
// A no-op (ClientNotFound) if the client does not exist in this tag.
func (t *Tag) Focus(id uint32) error {
	return t.FocusIf(id, func(*store.Client) bool { return true })
}

// FocusIf is like Focus but only applies when predicate(c) holds for
// the target client.
func (t *Tag) FocusIf(id uint32, predicate func(*store.Client) bool) error {
	target, err := t.Get(id)
	if err != nil {
		return err
	}
	if !predicate(target) {
		return nil
	}

	if prev, err := t.GetFocused(); err == nil && prev.ID != target.ID {
		prev.SetBorder(common.Config.Border.ColorNormal)
	}

	target.SetBorder(common.Config.Border.ColorActive)
	target.SetInputFocus()
	t.focusedID = uint32(target.ID)

	return nil
}

// visible returns the subset of clients whose last state is not Hidden.
func (t *Tag) visible() []*store.Client {
	var out []*store.Client
	for _, c := range t.clients {
		if c.LastState() != store.StateHidden {
			out = append(out, c)
		}
	}
	return out
}

// FocusByIndex moves focus by a cyclic offset within the visible
// (non-Hidden) subset. delta=0 is a no-op re-confirming the current
// focus. Negative deltas wrap from the end. Fails with ClientNotFound
// when no visible clients exist.
func (t *Tag) FocusByIndex(delta int) error {
	vis := t.visible()
	if len(vis) == 0 {
		return wmerrors.ClientNotFound(0)
	}

	anchor := 0
	for i, c := range vis {
		if uint32(c.ID) == t.focusedID {
			anchor = i
			break
		}
	}

	idx, ok := wmutil.CycleIndex(anchor, len(vis), delta)
	if !ok {
		return wmerrors.ClientNotFound(0)
	}

	return t.Focus(uint32(vis[idx].ID))
}

// Swap exchanges the positions of the two clients. A no-op if either
// ID is absent.
func (t *Tag) Swap(idA, idB uint32) {
	ia, ib := t.indexOf(idA), t.indexOf(idB)
	if ia < 0 || ib < 0 {
		return
	}
	t.clients[ia], t.clients[ib] = t.clients[ib], t.clients[ia]
}

// Map maps every non-Hidden client in the tag.
func (t *Tag) Map() {
	for _, c := range t.visible() {
		c.Map()
	}
}

// Unmap unmaps every non-Hidden client in the tag.
func (t *Tag) Unmap() {
	for _, c := range t.visible() {
		c.Unmap()
	}
}

// Arrange recomputes the geometry of every tileable client using the
// given layout, composing this tag's padding with the sticky tag's
// padding (sticky clients are always overlaid on every view, so their
// strut reservations apply everywhere). See layout.Tile for the
// concrete tiling algorithm.
func (t *Tag) Arrange(l layout.Layout, sticky *Tag) {
	padding := t.padding.Max(sticky.padding)
	geom := layout.Geometry{
		Width:   t.width,
		Height:  t.height,
		Padding: layout.Padding(padding),
	}

	for _, c := range t.clients {
		if !c.IsControlled {
			continue
		}
		switch c.LastState() {
		case store.StateMaximized:
			availW, availH := geom.Available()
			c.Geometry = store.Geometry{
				X:      int16(geom.Padding.Left),
				Y:      int16(geom.Padding.Top),
				Width:  uint16(availW),
				Height: uint16(availH),
				Border: 0,
			}
			configure(c)
		case store.StateFullscreen:
			c.Geometry = store.Geometry{X: 0, Y: 0, Width: uint16(t.width), Height: uint16(t.height), Border: 0}
			configure(c)
		}
	}

	var tileable []*store.Client
	for _, c := range t.clients {
		if c.IsControlled && c.LastState() == store.StateTile {
			c.Geometry.Border = common.Config.Border.Width
			tileable = append(tileable, c)
		}
	}
	if len(tileable) == 0 {
		return
	}

	l.Arrange(geom, common.Config.UselessGap, tileable)
	for _, c := range tileable {
		configure(c)
	}
}

func configure(c *store.Client) {
	if c.X == nil {
		return
	}
	mask := uint16(
		xproto.ConfigWindowX | xproto.ConfigWindowY |
			xproto.ConfigWindowWidth | xproto.ConfigWindowHeight |
			xproto.ConfigWindowBorderWidth,
	)
	values := []uint32{
		uint32(int32(c.Geometry.X)),
		uint32(int32(c.Geometry.Y)),
		uint32(c.Geometry.Width),
		uint32(c.Geometry.Height),
		uint32(c.Geometry.Border),
	}
	if err := xproto.ConfigureWindowChecked(c.X.Conn(), c.ID, mask, values).Check(); err != nil {
		log.WithFields(log.Fields{"window": c.ID, "err": err}).Error("tag.arrange.configure_failed")
	}
}
