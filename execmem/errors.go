package execmem

import "errors"

// Sentinel errors execmem operations can return: bounds violations and
// use of a block after it has been freed.
var (
	ErrOutOfBounds   = errors.New("out of bounds access")
	ErrUseAfterFree  = errors.New("use of freed block")
	ErrNotExecutable = errors.New("block is not executable")
	ErrAlreadyFreed  = errors.New("block already freed")
)
