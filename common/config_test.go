package common

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	c := Default()
	assert.Equal(t, uint32(4), c.UselessGap)
	assert.Len(t, c.Tags, 9)
	assert.Equal(t, uint16(2), c.Border.Width)
}

func TestNewConfigOverrides(t *testing.T) {
	os.Setenv("SAPPHIRE_USELESS_GAP", "10")
	os.Setenv("SAPPHIRE_BORDER_ACTIVE", "0xff0000")
	os.Setenv("SAPPHIRE_TAGS", "a, b, c")
	defer func() {
		os.Unsetenv("SAPPHIRE_USELESS_GAP")
		os.Unsetenv("SAPPHIRE_BORDER_ACTIVE")
		os.Unsetenv("SAPPHIRE_TAGS")
	}()

	c := NewConfig()
	assert.Equal(t, uint32(10), c.UselessGap)
	assert.Equal(t, uint32(0xff0000), c.Border.ColorActive)
	assert.Equal(t, []string{"a", "b", "c"}, c.Tags)
}

func TestNewConfigInvalidFallsBackToDefault(t *testing.T) {
	os.Setenv("SAPPHIRE_USELESS_GAP", "not-a-number")
	defer os.Unsetenv("SAPPHIRE_USELESS_GAP")

	c := NewConfig()
	assert.Equal(t, Default().UselessGap, c.UselessGap)
}
