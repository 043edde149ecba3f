package tag

import (
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/heiytor/sapphire-wm/layout"
	"github.com/heiytor/sapphire-wm/store"
)

func newTag() *Tag {
	return New(0, "1", 1000, 800)
}

func TestManageInsertsAtFront(t *testing.T) {
	tg := newTag()
	a := store.NewBare(xproto.Window(1), true)
	b := store.NewBare(xproto.Window(2), true)

	tg.Manage(a)
	tg.Manage(b)

	all := tg.All()
	assert.Equal(t, xproto.Window(2), all[0].ID)
	assert.Equal(t, xproto.Window(1), all[1].ID)
}

func TestUnmanageClearsFocusWhenFocusedRemoved(t *testing.T) {
	tg := newTag()
	a := store.NewBare(xproto.Window(1), true)
	tg.Manage(a)
	require := assert.New(t)
	require.NoError(tg.Focus(1))
	assert.Equal(t, uint32(1), tg.FocusedID())

	tg.Unmanage(1)
	assert.Equal(t, uint32(0), tg.FocusedID())
	assert.False(t, tg.Contains(1))
}

func TestGetReturnsClientNotFound(t *testing.T) {
	tg := newTag()
	_, err := tg.Get(42)
	assert.Error(t, err)
}

func TestFocusByIndexCyclesVisibleClients(t *testing.T) {
	tg := newTag()
	a := store.NewBare(xproto.Window(1), true)
	b := store.NewBare(xproto.Window(2), true)
	c := store.NewBare(xproto.Window(3), true)
	tg.Manage(a)
	tg.Manage(b)
	tg.Manage(c)

	// All() order is [c, b, a] (most recently managed first).
	require := assert.New(t)
	require.NoError(tg.Focus(uint32(c.ID)))

	require.NoError(tg.FocusByIndex(1))
	assert.Equal(t, uint32(b.ID), tg.FocusedID())

	require.NoError(tg.FocusByIndex(1))
	assert.Equal(t, uint32(a.ID), tg.FocusedID())

	// Wraps back to the first.
	require.NoError(tg.FocusByIndex(1))
	assert.Equal(t, uint32(c.ID), tg.FocusedID())
}

func TestFocusByIndexSkipsHiddenClients(t *testing.T) {
	tg := newTag()
	a := store.NewBare(xproto.Window(1), true)
	b := store.NewBare(xproto.Window(2), true)
	tg.Manage(a)
	tg.Manage(b)
	b.AddState(store.StateHidden)

	require := assert.New(t)
	require.NoError(tg.Focus(uint32(b.ID)))
	// b is hidden; focusing it directly still succeeds (Focus does not
	// filter by visibility), but cycling must skip it.
	require.NoError(tg.FocusByIndex(1))
	assert.Equal(t, uint32(a.ID), tg.FocusedID())
}

func TestFocusByIndexEmptyTagFails(t *testing.T) {
	tg := newTag()
	assert.Error(t, tg.FocusByIndex(1))
}

func TestPaddingAggregatesAsMaxOfManagedClients(t *testing.T) {
	tg := newTag()
	a := store.NewBare(xproto.Window(1), true)
	a.Padding = store.Padding{Top: 10}
	b := store.NewBare(xproto.Window(2), true)
	b.Padding = store.Padding{Top: 4, Left: 20}

	tg.Manage(a)
	tg.Manage(b)

	assert.Equal(t, store.Padding{Top: 10, Left: 20}, tg.Geometry().Padding)

	tg.Unmanage(uint32(a.ID))
	assert.Equal(t, store.Padding{Top: 4, Left: 20}, tg.Geometry().Padding)
}

func TestSwapExchangesPositions(t *testing.T) {
	tg := newTag()
	a := store.NewBare(xproto.Window(1), true)
	b := store.NewBare(xproto.Window(2), true)
	tg.Manage(a)
	tg.Manage(b)

	before := tg.All()[0].ID
	tg.Swap(uint32(a.ID), uint32(b.ID))
	after := tg.All()[0].ID

	assert.NotEqual(t, before, after)
}

func TestArrangeSkipsUncontrolledClients(t *testing.T) {
	tg := newTag()
	dock := store.NewBare(xproto.Window(1), false)
	tg.Manage(dock)

	sticky := New(StickyID, "sticky", 0, 0)
	assert.NotPanics(t, func() {
		tg.Arrange(noopLayout{}, sticky)
	})
	assert.Equal(t, int16(0), dock.Geometry.X)
}

type noopLayout struct{}

func (noopLayout) Arrange(g layout.Geometry, gap uint32, clients []*store.Client) {}
