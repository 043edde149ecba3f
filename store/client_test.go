package store

import (
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/heiytor/sapphire-wm/wmutil"
)

func TestLastStateDefaultsToTile(t *testing.T) {
	c := NewBare(xproto.Window(1), true)
	assert.Equal(t, StateTile, c.LastState())
}

func TestAddStateIsIdempotent(t *testing.T) {
	c := NewBare(xproto.Window(1), true)
	c.AddState(StateFullscreen)
	c.AddState(StateFullscreen)
	assert.Equal(t, []ClientState{StateFullscreen}, c.states)
	assert.Equal(t, StateFullscreen, c.LastState())
}

func TestRemoveStateNoopWhenAbsent(t *testing.T) {
	c := NewBare(xproto.Window(1), true)
	assert.NotPanics(t, func() { c.RemoveState(StateMaximized) })
	assert.Equal(t, StateTile, c.LastState())
}

func TestSetStateToggle(t *testing.T) {
	c := NewBare(xproto.Window(1), true)

	assert.NoError(t, c.SetState(StateFullscreen, wmutil.OpToggle))
	assert.True(t, c.HasState(StateFullscreen))

	assert.NoError(t, c.SetState(StateFullscreen, wmutil.OpToggle))
	assert.False(t, c.HasState(StateFullscreen))
}

func TestSetStateUnknownOperation(t *testing.T) {
	c := NewBare(xproto.Window(1), true)
	err := c.SetState(StateFullscreen, wmutil.OpUnknown)
	assert.Error(t, err)
}

func TestAllowActionsDeduplicates(t *testing.T) {
	c := NewBare(xproto.Window(1), true)
	before := len(c.actions)
	c.AllowAction(ActionClose)
	assert.Len(t, c.actions, before)
}

func TestPaddingMaxIsPointwise(t *testing.T) {
	a := Padding{Top: 10, Left: 2}
	b := Padding{Top: 4, Left: 8, Bottom: 5}
	assert.Equal(t, Padding{Top: 10, Left: 8, Bottom: 5}, a.Max(b))
}

func TestNewBareDockHasStickyState(t *testing.T) {
	c := NewBare(xproto.Window(1), false)
	assert.True(t, c.HasState(StateSticky))
	assert.False(t, c.IsControlled)
}
