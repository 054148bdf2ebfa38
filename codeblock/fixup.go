package codeblock

import "fmt"

// fixupEntry is one entry of the fixup spine used during relaxation:
// the count of plain Byte items since the previous fixup, and the index
// into b.items of the Label or Deferred item itself. Referencing items
// by index rather than pointer avoids building a graph of back-pointers
// between items.
type fixupEntry struct {
	span int
	idx  int
}

// buildFixups walks the item stream once, compacting it into the fixup
// spine relaxation iterates over.
func (b *CodeBlock) buildFixups() []fixupEntry {
	var fixups []fixupEntry
	span := 0
	for i, it := range b.items {
		switch it.kind {
		case itemByte:
			span++
		case itemListing:
			// Contributes zero bytes; ignored by assembly.
		case itemLabel, itemDeferred:
			fixups = append(fixups, fixupEntry{span: span, idx: i})
			span = 0
		}
	}
	return fixups
}

// maxRelaxationIterations bounds the relaxation loop: D·(A-1) + L + 1,
// where D is the number of Deferred items, A the maximum alternative
// count among them, and L the number of Labels. Since each Deferred's
// selected alternative only ever advances and each Label's position
// only changes finitely often before settling, this many passes is
// always enough for a well-formed item stream to converge. Exceeding it
// indicates a bug in this package (a non-monotonic check function, or a
// cycle the monotonic-current rule should have ruled out) rather than a
// legitimate encoder usage error.
func (b *CodeBlock) maxRelaxationIterations() int {
	var d, l, maxAlts int
	for _, it := range b.items {
		switch it.kind {
		case itemDeferred:
			d++
			if n := len(it.deferred.checks); n > maxAlts {
				maxAlts = n
			}
		case itemLabel:
			l++
		}
	}
	if maxAlts == 0 {
		maxAlts = 1
	}
	return d*(maxAlts-1) + l + 1
}

// relax runs the fixed-point iteration: a Deferred sizing pass followed
// by a Label positioning pass, repeated until neither changes anything.
// An initial label pass seeds every label with a provisional position
// (Deferred items contribute zero bytes until sized) before the first
// sizing pass runs, so a forward-referencing check sees a real position
// rather than a label's unset sentinel on its very first evaluation.
func (b *CodeBlock) relax(fixups []fixupEntry) error {
	b.labelPass(fixups)

	limit := b.maxRelaxationIterations()
	for iter := 0; ; iter++ {
		changedSizes, err := b.sizingPass(fixups)
		if err != nil {
			return err
		}
		changedLabels := b.labelPass(fixups)
		if !changedSizes && !changedLabels {
			return nil
		}
		if iter >= limit {
			return fmt.Errorf("codeblock: relaxation did not converge within %d passes", limit)
		}
	}
}

// sizingPass walks the fixup spine once, resolving each Deferred's
// current alternative and size at its (possibly still-settling)
// position. Label items advance nothing: they occupy zero bytes.
func (b *CodeBlock) sizingPass(fixups []fixupEntry) (changed bool, err error) {
	pos := b.startPos
	for _, f := range fixups {
		pos += f.span
		it := &b.items[f.idx]
		if it.kind != itemDeferred {
			continue
		}
		c, err := it.deferred.resolve(b, pos)
		if err != nil {
			return false, err
		}
		if c {
			changed = true
		}
		pos += it.deferred.size
	}
	return changed, nil
}

// labelPass walks the fixup spine once, assigning each Label's position
// from the running byte count. Deferred items advance by their
// already-resolved size from sizingPass.
func (b *CodeBlock) labelPass(fixups []fixupEntry) (changed bool) {
	pos := b.startPos
	for _, f := range fixups {
		pos += f.span
		it := &b.items[f.idx]
		switch it.kind {
		case itemLabel:
			if it.label.pos != pos {
				it.label.pos = pos
				changed = true
			}
		case itemDeferred:
			pos += it.deferred.size
		}
	}
	return changed
}

// emit walks the original item sequence, producing the final byte
// sequence: Byte and Listing items pass straight through (Listing
// contributing nothing), Label items are checked against the position
// the walk has reached, and each Deferred is replaced by the bytes its
// selected alternative produces.
func (b *CodeBlock) emit() ([]byte, error) {
	out := make([]byte, 0, len(b.items))
	pos := b.startPos
	for i := range b.items {
		it := &b.items[i]
		switch it.kind {
		case itemByte:
			out = append(out, it.b)
			pos++
		case itemListing:
			// No bytes.
		case itemLabel:
			if it.label.pos != pos {
				return nil, fmt.Errorf("label %s: resolved to %d but stream position is %d: %w",
					it.label.name, it.label.pos, pos, ErrLabelUnresolved)
			}
		case itemDeferred:
			d := it.deferred
			produced := d.produces[d.current](b, pos)
			if len(produced) != d.size {
				return nil, fmt.Errorf("deferred at position %d: alternative %d produced %d bytes, declared %d: %w",
					pos, d.current, len(produced), d.size, ErrDeferredSizeMismatch)
			}
			out = append(out, produced...)
			pos += d.size
		}
	}
	return out, nil
}

// Assemble runs relaxation to a fixed point and replaces the item
// stream's symbolic content with final bytes, returning the block's
// final byte length. An empty block assembles to length 0 without
// touching any other state. Fatal usage errors raised from inside
// check/produce callbacks (via failf) are recovered here and returned
// as ordinary errors.
func (b *CodeBlock) Assemble() (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			if fu, ok := r.(fatalUsage); ok {
				err = fu.err
				return
			}
			panic(r)
		}
	}()

	if len(b.items) == 0 {
		b.finalBytes = nil
		b.assembled = true
		return 0, nil
	}

	fixups := b.buildFixups()
	if err := b.relax(fixups); err != nil {
		return 0, err
	}
	bytesOut, err := b.emit()
	if err != nil {
		return 0, err
	}
	b.finalBytes = bytesOut
	b.assembled = true
	return len(bytesOut), nil
}
