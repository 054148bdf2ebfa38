package address

import "errors"

// Sentinel errors Address operations can return: overflow/underflow on
// AddOffset/SubOffset, width mismatches between operands, and
// unsupported widths for OffsetBytesTo.
var (
	ErrOverflow      = errors.New("address overflow")
	ErrUnderflow     = errors.New("address underflow")
	ErrWidthMismatch = errors.New("address width mismatch")
	ErrInvalidWidth  = errors.New("invalid address width")
)
