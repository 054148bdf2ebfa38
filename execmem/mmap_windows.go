//go:build windows

package execmem

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mapExecutable reserves a VirtualAlloc region with PAGE_EXECUTE_READWRITE,
// the Windows counterpart to the unix mmap backend.
func mapExecutable(n int) (mem []byte, unmap func([]byte) error, err error) {
	addr, err := windows.VirtualAlloc(0, uintptr(n), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_EXECUTE_READWRITE)
	if err != nil {
		return nil, nil, fmt.Errorf("execmem: VirtualAlloc %d bytes: %w", n, err)
	}
	mem = unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
	return mem, func(m []byte) error {
		if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
			return fmt.Errorf("execmem: VirtualFree: %w", err)
		}
		return nil
	}, nil
}
