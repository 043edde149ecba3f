package layout

import (
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/heiytor/sapphire-wm/store"
)

func withBorder(c *store.Client, border uint16) *store.Client {
	c.Geometry.Border = border
	return c
}

func TestTileArrangeSingleClientFillsAvailableArea(t *testing.T) {
	c := withBorder(store.NewBare(xproto.Window(1), true), 2)
	geom := Geometry{Width: 1000, Height: 800}

	Tile{}.Arrange(geom, 4, []*store.Client{c})

	assert.Equal(t, int16(4), c.Geometry.X)
	assert.Equal(t, int16(4), c.Geometry.Y)
	assert.Equal(t, uint16(1000-2*2-2*4), c.Geometry.Width)
	assert.Equal(t, uint16(800-2*2-2*4), c.Geometry.Height)
}

func TestTileArrangeTwoClientsSplitHalves(t *testing.T) {
	master := withBorder(store.NewBare(xproto.Window(1), true), 2)
	stack := withBorder(store.NewBare(xproto.Window(2), true), 2)
	geom := Geometry{Width: 1000, Height: 800}

	Tile{}.Arrange(geom, 4, []*store.Client{master, stack})

	assert.Equal(t, int16(4), master.Geometry.X)
	assert.Equal(t, uint16(1000/2-2-4), master.Geometry.Width)

	assert.Equal(t, int16(1000/2+4), stack.Geometry.X)
	assert.Equal(t, uint16(1000/2-2-4), stack.Geometry.Width)
	assert.Equal(t, uint16(800-2*2-2*4), stack.Geometry.Height)
}

func TestTileArrangeStackSumsToAvailableHeight(t *testing.T) {
	master := withBorder(store.NewBare(xproto.Window(1), true), 0)
	s1 := withBorder(store.NewBare(xproto.Window(2), true), 0)
	s2 := withBorder(store.NewBare(xproto.Window(3), true), 0)
	s3 := withBorder(store.NewBare(xproto.Window(4), true), 0)
	geom := Geometry{Width: 900, Height: 900}

	Tile{}.Arrange(geom, 3, []*store.Client{master, s1, s2, s3})

	bottomEdge := int(s3.Geometry.Y) + int(s3.Geometry.Height) + 3
	assert.Equal(t, 900, bottomEdge)
}

func TestTileArrangeEmptyIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Tile{}.Arrange(Geometry{Width: 100, Height: 100}, 4, nil)
	})
}

func TestGeometryAvailableSubtractsPadding(t *testing.T) {
	g := Geometry{Width: 100, Height: 100, Padding: Padding{Top: 10, Bottom: 10, Left: 5, Right: 5}}
	w, h := g.Available()
	assert.Equal(t, uint32(90), w)
	assert.Equal(t, uint32(80), h)
}

func TestGeometryAvailableClampsAtZero(t *testing.T) {
	g := Geometry{Width: 10, Height: 10, Padding: Padding{Left: 100}}
	w, _ := g.Available()
	assert.Equal(t, uint32(0), w)
}
