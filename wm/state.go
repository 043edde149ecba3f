package wm

import (
	"github.com/heiytor/sapphire-wm/store"
	"github.com/heiytor/sapphire-wm/wmutil"
)

func stateFor(kind toggleKind) store.ClientState {
	if kind == tagStateMaximized {
		return store.StateMaximized
	}
	return store.StateFullscreen
}

// toggleOp decides Add or Remove based on the client's current state,
// so repeated invocations of the same keybinding flip-flop the state.
func toggleOp(c *store.Client, kind toggleKind) wmutil.Operation {
	if c.HasState(stateFor(kind)) {
		return wmutil.OpRemove
	}
	return wmutil.OpAdd
}

func applyToggle(c *store.Client, kind toggleKind, op wmutil.Operation) error {
	return c.SetState(stateFor(kind), op)
}
