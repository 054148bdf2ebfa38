package codeblock

import (
	"fmt"

	"github.com/xmorgan/tachyon/execmem"
)

// MachineCodeBlock is an assembled CodeBlock copied into executable
// memory, with its provided sites already told their final host
// address. It is the bridge between the architecture-agnostic
// CodeBlock and the executable-memory substrate in package execmem.
type MachineCodeBlock struct {
	handle   *execmem.Handle
	required []RequiredSite
}

// AssembleToMachineCodeBlock calls Assemble if it has not already run,
// copies the resulting bytes into a freshly allocated executable
// region, and resolves every provided site's link object with the
// block's final host address. The returned MachineCodeBlock owns the
// executable memory; call Free when done with it.
func (b *CodeBlock) AssembleToMachineCodeBlock() (*MachineCodeBlock, error) {
	if !b.assembled {
		if _, err := b.Assemble(); err != nil {
			return nil, err
		}
	}
	n := b.ByteCount()
	if n == 0 {
		n = 1 // AllocExec requires a positive length; an empty block still needs a valid, if unused, handle.
	}
	h, err := execmem.AllocExec(n)
	if err != nil {
		return nil, fmt.Errorf("codeblock: allocate executable block: %w", err)
	}
	if b.ByteCount() > 0 {
		if err := h.Write(0, b.Bytes()); err != nil {
			_ = h.Free()
			return nil, fmt.Errorf("codeblock: write assembled bytes: %w", err)
		}
	}
	base, err := h.BlockAddr()
	if err != nil {
		_ = h.Free()
		return nil, fmt.Errorf("codeblock: resolve block base address: %w", err)
	}
	for _, site := range b.ProvidedSites() {
		site.LinkObject.SetAddr(base.Uint64() + uint64(site.Offset))
	}
	return &MachineCodeBlock{handle: h, required: b.RequiredSites()}, nil
}

// BaseAddr returns the host address of the block's first byte.
func (m *MachineCodeBlock) BaseAddr() (uint64, error) {
	a, err := m.handle.BlockAddr()
	if err != nil {
		return 0, fmt.Errorf("codeblock: machine code block base address: %w", err)
	}
	return a.Uint64(), nil
}

// RequiredSites exposes the block's unresolved required sites, each at
// its final offset within the executable memory, for a linker to patch.
func (m *MachineCodeBlock) RequiredSites() []RequiredSite { return m.required }

// PatchRequired overwrites the bytes at offset with value, used by the
// linker to fill in a required site once its destination is known.
func (m *MachineCodeBlock) PatchRequired(offset int, value []byte) error {
	if err := m.handle.Write(offset, value); err != nil {
		return fmt.Errorf("codeblock: patch required site at %d: %w", offset, err)
	}
	return nil
}

// Invoke calls the block's entrypoint with argAddr, typically the
// address of a RuntimeContext.
func (m *MachineCodeBlock) Invoke(argAddr uintptr) (uintptr, error) {
	return m.handle.Invoke(argAddr)
}

// Free releases the block's executable memory.
func (m *MachineCodeBlock) Free() error { return m.handle.Free() }
