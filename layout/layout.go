// Package layout implements the pure geometry computation the window
// manager uses to tile a tag's clients: given the tag's available
// rectangle and an ordered client list, it assigns each client's
// (x, y, width, height). Border width is applied by the caller
// (tag.Tag.Arrange), not by the layout itself.
package layout

import "github.com/heiytor/sapphire-wm/store"

// Padding mirrors store.Padding; kept as a distinct type so this
// package does not need to import store for anything but the client
// slice type, and so the two are explicitly convertible at the
// tag/layout boundary.
type Padding struct {
	Top, Bottom, Left, Right uint32
}

// Geometry is the tag rectangle a layout arranges clients within.
type Geometry struct {
	Width, Height uint32
	Padding       Padding
}

// Available returns the usable width/height after subtracting padding.
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

// Layout computes and mutates each client's Geometry so the resulting
// rectangles tile the available area described by geom. useless_gap is
// pixels of empty space left between adjacent tiled clients. Clients
// are assumed to already carry the configured border width; Layout
// sizes the content rectangle so that width+2*border and height+2*border
// sum correctly across the tiling.
type Layout interface {
	Arrange(geom Geometry, uselessGap uint32, clients []*store.Client)
}

// Tile is the canonical master/stack layout: one master client filling
// the left half, the remaining clients stacked vertically on the right
// half. Grounded on the tile arithmetic that recurs identically across
// the original source's tag/mod.rs::redraw, clients/clients.rs::resize_tiles
// and client.rs::resize_tiles.
type Tile struct{}

// clamp1 keeps a computed width or height at a minimum of 1 pixel.
func clamp1(v int32) uint16 {
	if v < 1 {
		return 1
	}
	return uint16(v)
}

func (Tile) Arrange(geom Geometry, gap uint32, clients []*store.Client) {
	n := len(clients)
	if n == 0 {
		return
	}

	availW, availH := geom.Available()
	border := uint32(clients[0].Geometry.Border)

	if n == 1 {
		c := clients[0]
		w := int32(availW) - int32(2*border) - int32(2*gap)
		h := int32(availH) - int32(2*border) - int32(2*gap)
		c.Geometry.X = int16(int32(gap) + int32(geom.Padding.Left))
		c.Geometry.Y = int16(int32(gap) + int32(geom.Padding.Top))
		c.Geometry.Width = clamp1(w)
		c.Geometry.Height = clamp1(h)
		return
	}

	// Master: left half.
	master := clients[0]
	masterW := int32(availW)/2 - int32(border) - int32(gap)
	masterH := int32(availH) - int32(2*border) - int32(2*gap)
	master.Geometry.X = int16(int32(gap) + int32(geom.Padding.Left))
	master.Geometry.Y = int16(int32(gap) + int32(geom.Padding.Top))
	master.Geometry.Width = clamp1(masterW)
	master.Geometry.Height = clamp1(masterH)

	// Stack: right half, divided evenly. The bottom-most client absorbs
	// the rounding remainder plus the extra border/gap so the stack's
	// rectangles sum exactly to the available height.
	stack := clients[1:]
	stackN := int32(len(stack))
	stackX := int32(availW)/2 + int32(gap) + int32(geom.Padding.Left)
	heightPer := int32(availH) / stackN
	stackW := int32(availW)/2 - int32(border) - int32(gap)

	for i, c := range stack {
		last := i == len(stack)-1

		y := int32(geom.Padding.Top) + heightPer*int32(i) + int32(gap)
		h := heightPer - int32(border) - int32(gap)
		if last {
			h = int32(availH) - heightPer*int32(i) - int32(2*border) - int32(2*gap)
		}

		c.Geometry.X = int16(stackX)
		c.Geometry.Y = int16(y)
		c.Geometry.Width = clamp1(stackW)
		c.Geometry.Height = clamp1(h)
	}
}
