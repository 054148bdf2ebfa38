//go:build linux || darwin

package execmem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mapExecutable reserves an anonymous, private, n-byte mapping with
// read, write and execute permission.
func mapExecutable(n int) (mem []byte, unmap func([]byte) error, err error) {
	mem, err = unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("execmem: mmap %d bytes: %w", n, err)
	}
	return mem, func(m []byte) error {
		if err := unix.Munmap(m); err != nil {
			return fmt.Errorf("execmem: munmap: %w", err)
		}
		return nil
	}, nil
}
