package wmutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationFromAtomData(t *testing.T) {
	assert.Equal(t, OpRemove, OperationFromAtomData(0))
	assert.Equal(t, OpAdd, OperationFromAtomData(1))
	assert.Equal(t, OpToggle, OperationFromAtomData(2))
	assert.Equal(t, OpUnknown, OperationFromAtomData(99))
}

func TestCycleIndexWrapsForward(t *testing.T) {
	idx, ok := CycleIndex(0, 3, 1)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = CycleIndex(2, 3, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestCycleIndexWrapsBackward(t *testing.T) {
	idx, ok := CycleIndex(0, 3, -1)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestCycleIndexEmpty(t *testing.T) {
	_, ok := CycleIndex(0, 0, 1)
	assert.False(t, ok)
}

func TestSpawnEmptyProcess(t *testing.T) {
	err := Spawn("   ")
	assert.Error(t, err)
}

func TestSpawnStartsProcess(t *testing.T) {
	err := Spawn("true")
	assert.NoError(t, err)
}
