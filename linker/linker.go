// Package linker resolves the required placeholder sites a CodeBlock
// reserved with GenRequired, once the block has been copied into
// executable memory and its placeholders have a fixed host address.
package linker

import (
	"fmt"

	"github.com/xmorgan/tachyon/codeblock"
)

// machineCodeBlock is the subset of *codeblock.MachineCodeBlock Link
// depends on.
type machineCodeBlock interface {
	BaseAddr() (uint64, error)
	RequiredSites() []codeblock.RequiredSite
	PatchRequired(offset int, value []byte) error
}

// Link resolves every required site of every given block: for each
// site it asks the site's link object for the patch bytes, passing the
// site's own final host address (the "destination address of the
// placeholder" codeblock.RequiredLinkObject's doc refers to), and writes the result
// into the block in place of the zero bytes GenRequired reserved.
//
// A link object's LinkValue producing a different length than its
// declared Width()/8 is a fatal error: the placeholder's reserved size
// is fixed at assembly time and cannot grow or shrink during linking.
func Link(blocks ...machineCodeBlock) error {
	for _, mcb := range blocks {
		base, err := mcb.BaseAddr()
		if err != nil {
			return fmt.Errorf("linker: block base address: %w", err)
		}
		for _, site := range mcb.RequiredSites() {
			dstAddr := base + uint64(site.Offset)
			value, err := site.LinkObject.LinkValue(dstAddr)
			if err != nil {
				return fmt.Errorf("linker: link value at offset %d: %w", site.Offset, err)
			}
			if want := site.LinkObject.Width() / 8; len(value) != want {
				return fmt.Errorf("linker: offset %d: got %d bytes, want %d: %w", site.Offset, len(value), want, ErrLinkValueSizeMismatch)
			}
			if err := mcb.PatchRequired(site.Offset, value); err != nil {
				return fmt.Errorf("linker: patch offset %d: %w", site.Offset, err)
			}
		}
	}
	return nil
}
