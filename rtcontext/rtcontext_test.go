package rtcontext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReferenceRuntimeHandlers(t *testing.T) {
	rc := ReferenceRuntime(1<<20, 1<<24)
	require.Equal(t, uint64(11), rc.CallHandler(0, 0, 0))
	require.Equal(t, uint64(22), rc.CallHandler(1, 5, 0))
	require.Equal(t, uint64(3+4), rc.CallHandler(2, 3, 4))
}

func TestCallHandlerUnsetSlot(t *testing.T) {
	rc := New(0, 0)
	require.Equal(t, uint64(0), rc.CallHandler(3, 1, 1))
}

func TestSetHandlerOutOfRangePanics(t *testing.T) {
	rc := New(0, 0)
	require.Panics(t, func() { rc.SetHandler(HandlerSlots, func(a, b uint64) uint64 { return 0 }) })
}
