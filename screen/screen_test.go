package screen

import (
	"testing"

	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"

	"github.com/heiytor/sapphire-wm/store"
	"github.com/heiytor/sapphire-wm/tag"
)

func bareScreen() *Screen {
	return &Screen{
		tags: []*tag.Tag{
			tag.New(0, "1", 1000, 800),
			tag.New(1, "2", 1000, 800),
			tag.New(tag.StickyID, "sticky", 0, 0),
		},
		focusedTagID: 0,
	}
}

func TestContainsTag(t *testing.T) {
	s := bareScreen()
	assert.True(t, s.ContainsTag(0))
	assert.True(t, s.ContainsTag(tag.StickyID))
	assert.False(t, s.ContainsTag(42))
}

func TestStickyTagIsAlwaysLast(t *testing.T) {
	s := bareScreen()
	assert.Equal(t, tag.StickyID, s.StickyTag().ID)
}

func TestGetTagNotFound(t *testing.T) {
	s := bareScreen()
	_, err := s.GetTag(42)
	assert.Error(t, err)
}

func TestGetFocusedTagDefaultsToZero(t *testing.T) {
	s := bareScreen()
	tg, err := s.GetFocusedTag()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), tg.ID)
}

func TestFindTagWithClientSearchesStickyToo(t *testing.T) {
	s := bareScreen()
	assert.NotPanics(t, func() {
		_, err := s.FindTagWithClient(99)
		assert.Error(t, err)
	})

	s.StickyTag().Manage(store.NewBare(xproto.Window(99), false))
	tg, err := s.FindTagWithClient(99)
	assert.NoError(t, err)
	assert.Equal(t, tag.StickyID, tg.ID)
}
