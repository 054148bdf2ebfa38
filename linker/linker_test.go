package linker

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xmorgan/tachyon/codeblock"
)

// fakeBlock is a minimal machineCodeBlock stand-in so linking can be
// tested without real executable memory.
type fakeBlock struct {
	base    uint64
	sites   []codeblock.RequiredSite
	patched map[int][]byte
}

func (f *fakeBlock) BaseAddr() (uint64, error)               { return f.base, nil }
func (f *fakeBlock) RequiredSites() []codeblock.RequiredSite { return f.sites }
func (f *fakeBlock) PatchRequired(offset int, value []byte) error {
	if f.patched == nil {
		f.patched = map[int][]byte{}
	}
	f.patched[offset] = append([]byte(nil), value...)
	return nil
}

// absoluteLinkObject patches in the little-endian destination address
// it was given, truncated to its declared width.
type absoluteLinkObject struct{ width int }

func (a *absoluteLinkObject) Width() int { return a.width }
func (a *absoluteLinkObject) LinkValue(dstAddr uint64) ([]byte, error) {
	out := make([]byte, a.width/8)
	switch a.width {
	case 32:
		binary.LittleEndian.PutUint32(out, uint32(dstAddr))
	case 64:
		binary.LittleEndian.PutUint64(out, dstAddr)
	}
	return out, nil
}

func TestLinkPatchesRequiredSites(t *testing.T) {
	obj := &absoluteLinkObject{width: 32}
	blk := &fakeBlock{
		base:  0x1000,
		sites: []codeblock.RequiredSite{{Offset: 8, LinkObject: obj}},
	}
	require.NoError(t, Link(blk))
	require.Equal(t, uint32(0x1008), binary.LittleEndian.Uint32(blk.patched[8]))
}

type badWidthLinkObject struct{}

func (badWidthLinkObject) Width() int { return 32 }
func (badWidthLinkObject) LinkValue(uint64) ([]byte, error) { return []byte{1, 2, 3}, nil }

func TestLinkSizeMismatch(t *testing.T) {
	blk := &fakeBlock{
		base:  0,
		sites: []codeblock.RequiredSite{{Offset: 0, LinkObject: badWidthLinkObject{}}},
	}
	err := Link(blk)
	require.True(t, errors.Is(err, ErrLinkValueSizeMismatch))
}
