// Package address implements a fixed-width (32- or 64-bit) unsigned
// integer type: modular add/sub/negate/compare and byte serialization
// in either endianness. It has no dependency on codeblock, execmem or
// linker - it is a pure value type leaf.
package address

import (
	"encoding/binary"
	"fmt"
)

// Address is a fixed-width unsigned integer, internally held as a
// plain uint64 bounded to Width() bits: a uint64 already represents
// both 32- and 64-bit values losslessly, so there is no need for a
// separate limb representation.
type Address struct {
	value     uint64
	width     int
	bigEndian bool
}

func maxForWidth(width int) uint64 {
	if width == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

func validWidth(width int) error {
	if width != 32 && width != 64 {
		return fmt.Errorf("width %d: %w", width, ErrInvalidWidth)
	}
	return nil
}

// New constructs an Address of the given width (32 or 64) from a raw
// value, masked to that width, with the given default serialization
// endianness (true for big-endian).
func New(width int, value uint64, bigEndian bool) (Address, error) {
	if err := validWidth(width); err != nil {
		return Address{}, err
	}
	return Address{value: value & maxForWidth(width), width: width, bigEndian: bigEndian}, nil
}

// FromBytes constructs an Address from a byte slice of length 4 (32-bit)
// or 8 (64-bit), decoded per bigEndian, which also becomes the
// Address's default serialization endianness.
func FromBytes(b []byte, bigEndian bool) (Address, error) {
	var value uint64
	var width int
	switch len(b) {
	case 4:
		width = 32
		if bigEndian {
			value = uint64(binary.BigEndian.Uint32(b))
		} else {
			value = uint64(binary.LittleEndian.Uint32(b))
		}
	case 8:
		width = 64
		if bigEndian {
			value = binary.BigEndian.Uint64(b)
		} else {
			value = binary.LittleEndian.Uint64(b)
		}
	default:
		return Address{}, fmt.Errorf("address from %d bytes: %w", len(b), ErrInvalidWidth)
	}
	return Address{value: value, width: width, bigEndian: bigEndian}, nil
}

// Width returns 32 or 64.
func (a Address) Width() int { return a.width }

// Uint64 returns the address's raw value, masked to Width() bits.
func (a Address) Uint64() uint64 { return a.value }

// Copy returns a. Address is already passed by value, so Copy is an
// identity operation exposed for callers migrating from an
// object-oriented API that mutates in place.
func (a Address) Copy() Address { return a }

// AddOffset adds a signed offset, modulo-free: a magnitude that would
// cross the address's width is a fatal overflow/underflow error rather
// than wrapping.
func (a Address) AddOffset(n int64) (Address, error) {
	if n >= 0 {
		return a.addUnsigned(uint64(n))
	}
	return a.subUnsigned(uint64(-n))
}

// SubOffset subtracts a signed offset. SubOffset(n) == AddOffset(-n)
// for all n within range.
func (a Address) SubOffset(n int64) (Address, error) {
	if n >= 0 {
		return a.subUnsigned(uint64(n))
	}
	return a.addUnsigned(uint64(-n))
}

func (a Address) addUnsigned(n uint64) (Address, error) {
	max := maxForWidth(a.width)
	if n > max-a.value {
		return Address{}, fmt.Errorf("adding %d to %#x at width %d: %w", n, a.value, a.width, ErrOverflow)
	}
	return Address{value: a.value + n, width: a.width, bigEndian: a.bigEndian}, nil
}

func (a Address) subUnsigned(n uint64) (Address, error) {
	if n > a.value {
		return Address{}, fmt.Errorf("subtracting %d from %#x at width %d: %w", n, a.value, a.width, ErrUnderflow)
	}
	return Address{value: a.value - n, width: a.width, bigEndian: a.bigEndian}, nil
}

// Add returns a+other modulo 2^width (carry discarded); both operands
// must share a width.
func (a Address) Add(other Address) (Address, error) {
	if a.width != other.width {
		return Address{}, fmt.Errorf("add: %w", ErrWidthMismatch)
	}
	sum := (a.value + other.value) & maxForWidth(a.width)
	return Address{value: sum, width: a.width, bigEndian: a.bigEndian}, nil
}

// Complement returns the bitwise (one's complement) negation of a,
// such that a.Complement().AddOffset(1) + a == 0 (mod 2^width) - the
// usual two's-complement identity.
func (a Address) Complement() Address {
	return Address{value: (^a.value) & maxForWidth(a.width), width: a.width, bigEndian: a.bigEndian}
}

// Cmp compares a and other numerically (equivalent to a lexicographic
// comparison of their limbs from most to least significant, since both
// are plain unsigned magnitudes of the same width), returning -1, 0 or
// 1. Comparing addresses of differing widths is a fatal error.
func (a Address) Cmp(other Address) (int, error) {
	if a.width != other.width {
		return 0, fmt.Errorf("cmp: %w", ErrWidthMismatch)
	}
	switch {
	case a.value < other.value:
		return -1, nil
	case a.value > other.value:
		return 1, nil
	default:
		return 0, nil
	}
}

// Bytes serializes the address to Width()/8 bytes. endian, if given,
// overrides the address's default serialization endianness (true for
// big-endian).
func (a Address) Bytes(endian ...bool) []byte {
	be := a.bigEndian
	if len(endian) > 0 {
		be = endian[0]
	}
	out := make([]byte, a.width/8)
	if a.width == 32 {
		if be {
			binary.BigEndian.PutUint32(out, uint32(a.value))
		} else {
			binary.LittleEndian.PutUint32(out, uint32(a.value))
		}
		return out
	}
	if be {
		binary.BigEndian.PutUint64(out, a.value)
	} else {
		binary.LittleEndian.PutUint64(out, a.value)
	}
	return out
}

// OffsetBytesTo returns (other - a).Bytes(endian): the byte
// serialization of the displacement from a to other. Only supported at
// 32-bit width; requesting it at 64-bit width returns ErrInvalidWidth.
func (a Address) OffsetBytesTo(other Address, endian ...bool) ([]byte, error) {
	if a.width != other.width {
		return nil, fmt.Errorf("OffsetBytesTo: %w", ErrWidthMismatch)
	}
	if a.width != 32 {
		return nil, fmt.Errorf("OffsetBytesTo at width %d: %w", a.width, ErrInvalidWidth)
	}
	diff := (other.value - a.value) & maxForWidth(32)
	res := Address{value: diff, width: 32, bigEndian: a.bigEndian}
	return res.Bytes(endian...), nil
}

func (a Address) String() string {
	if a.width == 32 {
		return fmt.Sprintf("%#08x", uint32(a.value))
	}
	return fmt.Sprintf("%#016x", a.value)
}
