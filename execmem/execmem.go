// Package execmem is the executable-memory substrate: it allocates and
// frees RWX pages and ordinary RW data blocks, invokes a machine-code
// entrypoint with a single address-sized argument, and exposes the host
// address of any block byte.
//
// A Handle is a byte-addressable region, fixed-size once allocated and
// freed exactly once: an executable Handle is backed by a raw OS
// mapping, a data Handle by an ordinary heap slice. Callers that
// know the final length up front (as CodeBlock.AssembleToMachineCodeBlock
// does) never need a growable buffer.
package execmem

import (
	"fmt"
	"unsafe"

	"github.com/xmorgan/tachyon/address"
)

// hostBits is the width, in bits, of a uintptr on this platform: 32 or
// 64, matching the two widths address.Address supports.
const hostBits = 32 << (^uintptr(0) >> 63)

// Handle is a contiguous, byte-addressable memory block whose host base
// address is stable for its lifetime. Executable handles additionally
// satisfy PROT_EXEC (or the platform equivalent) and are page-aligned.
// The zero value is not valid; construct with AllocExec or AllocData.
type Handle struct {
	mem        []byte
	executable bool
	freed      bool
	unmap      func([]byte) error
}

// AllocExec reserves an anonymous, private, n-byte region with
// read+write+execute permission.
func AllocExec(n int) (*Handle, error) {
	if n <= 0 {
		panic("execmem: AllocExec requires a positive length")
	}
	mem, unmap, err := mapExecutable(n)
	if err != nil {
		return nil, err
	}
	return &Handle{mem: mem, executable: true, unmap: unmap}, nil
}

// AllocData wraps an ordinary n-byte heap allocation in the same
// interface, with no execute permission.
func AllocData(n int) (*Handle, error) {
	if n <= 0 {
		panic("execmem: AllocData requires a positive length")
	}
	return &Handle{mem: make([]byte, n)}, nil
}

// Free releases the region. Invoke after Free returns ErrUseAfterFree;
// any address derived from the block after Free is undefined.
func (h *Handle) Free() error {
	if h.freed {
		return fmt.Errorf("execmem: %w", ErrAlreadyFreed)
	}
	h.freed = true
	if h.unmap != nil {
		return h.unmap(h.mem)
	}
	h.mem = nil
	return nil
}

// Len returns the block's byte length.
func (h *Handle) Len() int { return len(h.mem) }

// Executable reports whether this block was allocated with AllocExec.
func (h *Handle) Executable() bool { return h.executable }

// WriteByte stores value at offset, bounds-checked.
func (h *Handle) WriteByte(offset int, value byte) error {
	if offset < 0 || offset >= len(h.mem) {
		return fmt.Errorf("execmem: write at offset %d, length %d: %w", offset, len(h.mem), ErrOutOfBounds)
	}
	h.mem[offset] = value
	return nil
}

// ReadByte loads the byte at offset, bounds-checked.
func (h *Handle) ReadByte(offset int) (byte, error) {
	if offset < 0 || offset >= len(h.mem) {
		return 0, fmt.Errorf("execmem: read at offset %d, length %d: %w", offset, len(h.mem), ErrOutOfBounds)
	}
	return h.mem[offset], nil
}

// Write copies data into the block starting at offset, bounds-checked
// as a single range.
func (h *Handle) Write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(h.mem) {
		return fmt.Errorf("execmem: write %d bytes at offset %d, length %d: %w", len(data), offset, len(h.mem), ErrOutOfBounds)
	}
	copy(h.mem[offset:], data)
	return nil
}

// Bytes exposes the block's backing storage directly. The returned
// slice remains valid until Free is called.
func (h *Handle) Bytes() []byte { return h.mem }

// BlockAddr returns the host address of byte offset (default 0) as an
// Address of host word width.
func (h *Handle) BlockAddr(offset ...int) (address.Address, error) {
	off := 0
	if len(offset) > 0 {
		off = offset[0]
	}
	if off < 0 || off > len(h.mem) {
		return address.Address{}, fmt.Errorf("execmem: block address at offset %d, length %d: %w", off, len(h.mem), ErrOutOfBounds)
	}
	if len(h.mem) == 0 {
		return address.New(hostBits, 0, false)
	}
	// &h.mem[0] is stable for the handle's lifetime: the region is
	// backed by a raw OS mapping (AllocExec) or a heap slice the Go
	// runtime's current non-moving collector never relocates
	// (AllocData).
	base := uintptr(unsafe.Pointer(&h.mem[0]))
	return address.New(hostBits, uint64(base)+uint64(off), false)
}

// Invoke treats the block's first byte as the entrypoint of a function
// whose sole argument is argAddr (the address of a RuntimeContext) and
// whose return type is a host machine word.
func (h *Handle) Invoke(argAddr uintptr) (uintptr, error) {
	if h.freed {
		return 0, fmt.Errorf("execmem: invoke: %w", ErrUseAfterFree)
	}
	if !h.executable {
		return 0, fmt.Errorf("execmem: invoke: %w", ErrNotExecutable)
	}
	if len(h.mem) == 0 {
		return 0, fmt.Errorf("execmem: invoke on empty block: %w", ErrOutOfBounds)
	}
	return nativeCall(uintptr(unsafe.Pointer(&h.mem[0])), argAddr), nil
}
