package execmem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xmorgan/tachyon/address"
)

func TestAllocDataReadWrite(t *testing.T) {
	h, err := AllocData(4)
	require.NoError(t, err)
	require.Equal(t, 4, h.Len())
	require.False(t, h.Executable())

	require.NoError(t, h.WriteByte(0, 0xAB))
	b, err := h.ReadByte(0)
	require.NoError(t, err)
	require.Equal(t, byte(0xAB), b)

	require.NoError(t, h.Write(1, []byte{1, 2, 3}))
	require.Equal(t, []byte{0xAB, 1, 2, 3}, h.Bytes())
}

func TestOutOfBounds(t *testing.T) {
	h, err := AllocData(2)
	require.NoError(t, err)

	_, err = h.ReadByte(2)
	require.True(t, errors.Is(err, ErrOutOfBounds))

	err = h.WriteByte(-1, 1)
	require.True(t, errors.Is(err, ErrOutOfBounds))

	err = h.Write(1, []byte{1, 2})
	require.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestFreeTwice(t *testing.T) {
	h, err := AllocData(1)
	require.NoError(t, err)
	require.NoError(t, h.Free())
	err = h.Free()
	require.True(t, errors.Is(err, ErrAlreadyFreed))
}

func TestInvokeRequiresExecutable(t *testing.T) {
	h, err := AllocData(8)
	require.NoError(t, err)
	_, err = h.Invoke(0)
	require.True(t, errors.Is(err, ErrNotExecutable))
}

func TestInvokeAfterFree(t *testing.T) {
	h, err := AllocExec(16)
	require.NoError(t, err)
	require.NoError(t, h.Free())
	_, err = h.Invoke(0)
	require.True(t, errors.Is(err, ErrUseAfterFree))
}

func TestBlockAddrStable(t *testing.T) {
	h, err := AllocExec(16)
	require.NoError(t, err)
	defer h.Free()

	a1, err := h.BlockAddr()
	require.NoError(t, err)
	a2, err := h.BlockAddr(4)
	require.NoError(t, err)
	require.Equal(t, uint64(4), a2.Uint64()-a1.Uint64())

	// OffsetBytesTo only supports 32-bit addresses; rebuild both base
	// addresses truncated to 32 bits to exercise it here.
	narrow1, err := address.New(32, a1.Uint64(), false)
	require.NoError(t, err)
	narrow2, err := address.New(32, a2.Uint64(), false)
	require.NoError(t, err)
	diff, err := narrow1.OffsetBytesTo(narrow2)
	require.NoError(t, err)
	require.Len(t, diff, 4)
}

// TestAllocExecRunsReturn writes a trivial function body that returns
// its own argument unchanged and invokes it, exercising the real
// nativeCall trampoline end to end.
func TestAllocExecRunsReturn(t *testing.T) {
	body := identityFunctionBody()
	if body == nil {
		t.Skip("no machine code body available for this architecture")
	}
	h, err := AllocExec(len(body))
	require.NoError(t, err)
	defer h.Free()
	require.NoError(t, h.Write(0, body))

	got, err := h.Invoke(0x1234)
	require.NoError(t, err)
	require.Equal(t, uintptr(0x1234), got)
}
