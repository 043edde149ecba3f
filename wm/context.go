// Package wm wires the store, tag, screen and input packages together
// into the running window manager: the event loop, the X11 event
// handlers, and the capability surface (Context) those handlers and
// keybindings operate through.
package wm

import (
	"sync"

	"github.com/jezek/xgbutil"

	"github.com/heiytor/sapphire-wm/screen"
	"github.com/heiytor/sapphire-wm/tag"
	"github.com/heiytor/sapphire-wm/wmutil"
)

// Context is the EventContext every keybinding and click callback
// receives. Each method holds a mutex for the duration of its Screen
// access. The mutex is not re-entrant: a Context method called while
// another one holds the lock deadlocks, so callbacks must not nest them.
type Context struct {
	mu sync.Mutex

	xu *xgbutil.XUtil
	s  *screen.Screen
}

// NewContext builds a Context over the given screen.
func NewContext(xu *xgbutil.XUtil, s *screen.Screen) *Context {
	return &Context{xu: xu, s: s}
}

// Spawn starts process detached from the window manager, satisfying
// input.EventContext.
func (c *Context) Spawn(process string) error {
	return wmutil.Spawn(process)
}

// ViewTag switches the focused desktop to id.
func (c *Context) ViewTag(id uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.ViewTag(id)
}

// MoveFocusedClientToTag moves the currently focused client of the
// active tag to the tag identified by id.
func (c *Context) MoveFocusedClientToTag(id uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, err := c.s.GetFocusedTag()
	if err != nil {
		return err
	}
	return c.s.MoveFocusedClient(cur.ID, id)
}

// FocusByIndex cycles focus within the active tag's visible clients by
// delta.
func (c *Context) FocusByIndex(delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.s.GetFocusedTag()
	if err != nil {
		return err
	}
	return t.FocusByIndex(delta)
}

// KillFocused sends a close request to the active tag's focused client.
func (c *Context) KillFocused() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.s.GetFocusedTag()
	if err != nil {
		return err
	}
	client, err := t.GetFocused()
	if err != nil {
		return err
	}
	client.Kill()
	return nil
}

// ToggleFullscreen toggles the StateFullscreen state on the active
// tag's focused client and re-arranges it.
func (c *Context) ToggleFullscreen() error {
	return c.toggleState(tagStateFullscreen)
}

// ToggleMaximized toggles the StateMaximized state on the active tag's
// focused client and re-arranges it.
func (c *Context) ToggleMaximized() error {
	return c.toggleState(tagStateMaximized)
}

type toggleKind int

const (
	tagStateFullscreen toggleKind = iota
	tagStateMaximized
)

func (c *Context) toggleState(kind toggleKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.s.GetFocusedTag()
	if err != nil {
		return err
	}
	client, err := t.GetFocused()
	if err != nil {
		return err
	}

	op := toggleOp(client, kind)
	if err := applyToggle(client, kind, op); err != nil {
		return err
	}

	return c.s.ArrangeTag(t.ID)
}

// StickyTag exposes the sticky tag's ID for keybindings that move a
// client to the "all desktops" overlay.
func (c *Context) StickyTag() uint32 {
	return tag.StickyID
}
