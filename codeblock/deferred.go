package codeblock

import "fmt"

// CheckFunc reports whether alternative i of a Deferred item applies at
// the given byte position, returning the size in bytes it would occupy.
// ok == false means "not applicable here"; the caller tries the next
// alternative. The last alternative of a Deferred must always return
// ok == true - it is the required fallback.
type CheckFunc func(b *CodeBlock, pos int) (size int, ok bool)

// ProduceFunc returns exactly the number of bytes its matching
// CheckFunc returned for the same position; those bytes are spliced
// into the block's final output in place of the Deferred item.
type ProduceFunc func(b *CodeBlock, pos int) []byte

// Deferred is a placeholder for an encoding whose length depends on the
// final distance to a label - the branch-displacement problem. It holds
// an ordered list of (check, produce) alternatives in increasing order
// of size/generality; relaxation picks the first applicable one and
// never revisits an earlier, smaller alternative once a later one has
// been selected (see CodeBlock.Assemble).
type Deferred struct {
	checks   []CheckFunc
	produces []ProduceFunc

	// current is the index of the selected alternative. It is
	// monotonically non-decreasing across relaxation passes: once a
	// larger alternative is picked, resolve never returns to a smaller
	// one, which is what guarantees the relaxation loop terminates (see
	// CodeBlock.relax).
	current int
	// size is the byte length of the currently selected alternative.
	size int
}

func newDeferred(checks []CheckFunc, produces []ProduceFunc) *Deferred {
	if len(checks) == 0 || len(checks) != len(produces) {
		panic("codeblock: GenDeferred requires equal, non-empty check/produce lists")
	}
	return &Deferred{checks: checks, produces: produces}
}

// Current returns the index of the alternative relaxation selected.
// Only meaningful after CodeBlock.Assemble has returned successfully.
func (d *Deferred) Current() int { return d.current }

// Size returns the byte length of the selected alternative. Only
// meaningful after CodeBlock.Assemble has returned successfully.
func (d *Deferred) Size() int { return d.size }

// resolve advances current past every alternative whose check rejects
// pos, stopping at the first accepting one (or the last one, which must
// accept by contract). It reports whether size changed from its
// previous value, which the relaxation loop uses to detect convergence.
func (d *Deferred) resolve(b *CodeBlock, pos int) (changed bool, err error) {
	for d.current < len(d.checks)-1 {
		if size, ok := d.checks[d.current](b, pos); ok {
			if size != d.size {
				d.size = size
				changed = true
			}
			return changed, nil
		}
		d.current++
	}
	// Last alternative: must always resolve.
	size, ok := d.checks[d.current](b, pos)
	if !ok {
		return false, fmt.Errorf("deferred at position %d: %w", pos, ErrUnresolvedDeferred)
	}
	if size != d.size {
		d.size = size
		changed = true
	}
	return changed, nil
}
