// Package codeblock implements the architecture-agnostic code-emission
// core of a JIT compiler backend: an item stream that accumulates bytes
// and symbolic markers (labels, deferred size-changing placeholders,
// listing annotations), an iterative fixed-point relaxation algorithm
// that resolves label positions and deferred-item alternatives, and
// serialization into an executable memory block.
//
// Instruction encoders for any specific ISA are external collaborators:
// they drive a CodeBlock through its primitive emission operations
// (Gen8/Gen16/Gen32/Gen64, Label/GenLabel, GenDeferred) and never need to
// know how relaxation or final byte layout works.
package codeblock

import (
	"fmt"
)

// Option configures a CodeBlock at construction time. There is no
// file/flag/environment configuration surface; these are the only
// construction parameters.
type Option func(*CodeBlock)

// WithStartPos sets the block's base byte offset (default 0).
func WithStartPos(startPos int) Option {
	return func(b *CodeBlock) { b.startPos = startPos }
}

// WithBigEndian selects most-significant-byte-first multi-byte
// emission (default false: least-significant-byte-first).
func WithBigEndian(bigEndian bool) Option {
	return func(b *CodeBlock) { b.bigEndian = bigEndian }
}

// WithListing records the block's use_listing setting (default false).
// The block itself never consults it: GenListing appends its annotation
// whatever the setting, so callers that want debug-only annotation work
// skipped gate their own GenListing calls on it.
func WithListing(useListing bool) Option {
	return func(b *CodeBlock) { b.useListing = useListing }
}

// CodeBlock is the symbolic item stream and relaxation engine. The zero
// value is not valid; construct with New.
type CodeBlock struct {
	startPos   int
	bigEndian  bool
	useListing bool

	items []item

	labelSeq int

	required []requiredSite
	provided []providedSite

	assembled  bool
	finalBytes []byte
}

// New constructs an empty CodeBlock.
func New(opts ...Option) *CodeBlock {
	b := &CodeBlock{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// StartPos returns the block's configured base offset.
func (b *CodeBlock) StartPos() int { return b.startPos }

// BigEndian reports the block's configured multi-byte emission order.
func (b *CodeBlock) BigEndian() bool { return b.bigEndian }

// --- primitive emission -------------------------------------------------

// Gen8 appends n&0xff as a single Byte item. Returns the block for
// chaining.
func (b *CodeBlock) Gen8(n int) *CodeBlock {
	b.items = append(b.items, item{kind: itemByte, b: byte(n)})
	return b
}

// Gen16 appends the 2 bytes of n in the block's configured endianness.
func (b *CodeBlock) Gen16(n int) *CodeBlock {
	return b.genBytes(uint64(uint16(n)), 2)
}

// Gen32 appends the 4 bytes of n in the block's configured endianness.
func (b *CodeBlock) Gen32(n int64) *CodeBlock {
	return b.genBytes(uint64(uint32(n)), 4)
}

// Gen64 appends the 8 bytes of n in the block's configured endianness.
func (b *CodeBlock) Gen64(n int64) *CodeBlock {
	return b.genBytes(uint64(n), 8)
}

func (b *CodeBlock) genBytes(v uint64, width int) *CodeBlock {
	if b.bigEndian {
		for i := width - 1; i >= 0; i-- {
			b.Gen8(int(byte(v >> (8 * uint(i)))))
		}
	} else {
		for i := 0; i < width; i++ {
			b.Gen8(int(byte(v >> (8 * uint(i)))))
		}
	}
	return b
}

// GenNumber dispatches to Gen8/Gen16/Gen32/Gen64 by width in bits. width
// outside {8,16,32,64} is a fatal usage error.
func (b *CodeBlock) GenNumber(width int, n int64) (*CodeBlock, error) {
	switch width {
	case 8:
		return b.Gen8(int(n)), nil
	case 16:
		return b.Gen16(int(n)), nil
	case 32:
		return b.Gen32(n), nil
	case 64:
		return b.Gen64(n), nil
	default:
		return nil, fmt.Errorf("GenNumber width %d: %w", width, ErrInvalidWidth)
	}
}

// GenListing appends a zero-byte listing annotation, rendered only by
// ListingString.
func (b *CodeBlock) GenListing(text string) *CodeBlock {
	b.items = append(b.items, item{kind: itemListing, text: text})
	return b
}

// --- labels --------------------------------------------------------

// Label creates a fresh, unplaced Label. If id is supplied it is
// rendered as "_<id>"; otherwise an auto-generated sequential name of
// the form "L<seq>" is used, with the sequence owned by this CodeBlock
// rather than a process-wide counter, so listings stay reproducible
// across tests run in isolation.
func (b *CodeBlock) Label(id ...string) *Label {
	if len(id) > 0 && id[0] != "" {
		return newLabel("_" + id[0])
	}
	name := fmt.Sprintf("L%d", b.labelSeq)
	b.labelSeq++
	return newLabel(name)
}

// GenLabel places lbl at the current stream tail. Placing the same
// label twice is a fatal usage error.
func (b *CodeBlock) GenLabel(lbl *Label) error {
	if lbl.set {
		return fmt.Errorf("label %s: %w", lbl.name, ErrLabelRedefinition)
	}
	lbl.set = true
	b.items = append(b.items, item{kind: itemLabel, label: lbl})
	return nil
}

// --- deferred items --------------------------------------------------

// GenDeferred appends a Deferred item built from the given ordered
// alternatives. len(checks) must equal len(produces) and be at least 1;
// this is a programmer error in the encoder, so it panics rather than
// returning an error, matching newDeferred's contract.
func (b *CodeBlock) GenDeferred(checks []CheckFunc, produces []ProduceFunc) *Deferred {
	d := newDeferred(checks, produces)
	b.items = append(b.items, item{kind: itemDeferred, deferred: d})
	return d
}

// Align emits a Deferred that pads with fill bytes until the current
// position p satisfies p ≡ offset (mod multiple).
func (b *CodeBlock) Align(multiple, offset int, fill byte) *Deferred {
	check := func(_ *CodeBlock, pos int) (int, bool) {
		rem := (pos - offset) % multiple
		if rem < 0 {
			rem += multiple
		}
		if rem == 0 {
			return 0, true
		}
		return multiple - rem, true
	}
	produce := func(bl *CodeBlock, pos int) []byte {
		n, _ := check(bl, pos)
		return fillBytes(fill, n)
	}
	return b.GenDeferred([]CheckFunc{check}, []ProduceFunc{produce})
}

// Origin emits a Deferred that pads with fill bytes until the current
// position equals address. address already behind the current position
// is a fatal usage error (ErrOriginBackwards), surfaced from Assemble.
func (b *CodeBlock) Origin(address int, fill byte) *Deferred {
	check := func(_ *CodeBlock, pos int) (int, bool) {
		if address < pos {
			failf(fmt.Errorf("origin target %d behind position %d: %w", address, pos, ErrOriginBackwards))
		}
		return address - pos, true
	}
	produce := func(bl *CodeBlock, pos int) []byte {
		n, _ := check(bl, pos)
		return fillBytes(fill, n)
	}
	return b.GenDeferred([]CheckFunc{check}, []ProduceFunc{produce})
}

func fillBytes(fill byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = fill
	}
	return out
}

// --- required / provided sites --------------------------------------

// GenRequired places an anchor label at the current position, reserves
// linkObj.Width()/8 zero placeholder bytes, and records the
// (label, linkObj) pair in the block's required set.
func (b *CodeBlock) GenRequired(linkObj RequiredLinkObject) *Label {
	lbl := b.Label()
	_ = b.GenLabel(lbl)
	width := linkObj.Width()
	if width <= 0 || width%8 != 0 {
		failf(fmt.Errorf("required link object width %d is not a positive multiple of 8: %w", width, ErrInvalidWidth))
	}
	for i := 0; i < width/8; i++ {
		b.Gen8(0)
	}
	b.required = append(b.required, requiredSite{label: lbl, linkObj: linkObj})
	return lbl
}

// GenProvided places an anchor label at the current position and
// records the (label, linkObj) pair in the block's provided set. It
// reserves no bytes.
func (b *CodeBlock) GenProvided(linkObj ProvidedLinkObject) *Label {
	lbl := b.Label()
	_ = b.GenLabel(lbl)
	b.provided = append(b.provided, providedSite{label: lbl, linkObj: linkObj})
	return lbl
}

// RequiredSites exposes the required set for a linker to iterate, as a
// slice of resolved {offset, link object} pairs once assembly has
// settled every label's position.
func (b *CodeBlock) RequiredSites() []RequiredSite {
	out := make([]RequiredSite, len(b.required))
	for i, s := range b.required {
		out[i] = RequiredSite{Offset: s.label.pos - b.startPos, LinkObject: s.linkObj}
	}
	return out
}

// ProvidedSites exposes the provided set.
func (b *CodeBlock) ProvidedSites() []ProvidedSite {
	out := make([]ProvidedSite, len(b.provided))
	for i, s := range b.provided {
		out[i] = ProvidedSite{Offset: s.label.pos - b.startPos, LinkObject: s.linkObj}
	}
	return out
}

// RequiredSite is the resolved (offset, link object) pair a linker
// consumes after assembly.
type RequiredSite struct {
	Offset     int
	LinkObject RequiredLinkObject
}

// ProvidedSite is the resolved (offset, link object) pair
// AssembleToMachineCodeBlock consumes after assembly to call SetAddr.
type ProvidedSite struct {
	Offset     int
	LinkObject ProvidedLinkObject
}

// ByteCount returns the final byte length of the block. Only valid
// after Assemble has returned successfully.
func (b *CodeBlock) ByteCount() int {
	return len(b.finalBytes)
}

// Bytes returns the final assembled byte sequence. Only valid after
// Assemble has returned successfully.
func (b *CodeBlock) Bytes() []byte {
	return b.finalBytes
}

// fatalUsage lets check/produce callbacks raise a specific fatal-usage
// error kind (e.g. ErrOriginBackwards) from inside the relaxation walk,
// where their signature otherwise only supports "not applicable yet".
// Panicking here avoids threading an error return through every
// CheckFunc/ProduceFunc caller for a condition that should never occur
// in practice.
type fatalUsage struct{ err error }

func failf(err error) { panic(fatalUsage{err}) }
