package codeblock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeProvided struct{ addr uint64 }

func (f *fakeProvided) SetAddr(addr uint64) { f.addr = addr }

func TestAssembleToMachineCodeBlockResolvesProvidedSites(t *testing.T) {
	b := New()
	fp := &fakeProvided{}
	lbl := b.GenProvided(fp)
	b.Gen8(0x90)
	require.True(t, lbl.IsPlaced())

	mcb, err := b.AssembleToMachineCodeBlock()
	require.NoError(t, err)
	defer mcb.Free()

	base, err := mcb.BaseAddr()
	require.NoError(t, err)
	require.Equal(t, base, fp.addr)
}

func TestAssembleToMachineCodeBlockEmptyBlock(t *testing.T) {
	b := New()
	mcb, err := b.AssembleToMachineCodeBlock()
	require.NoError(t, err)
	defer mcb.Free()
	_, err = mcb.BaseAddr()
	require.NoError(t, err)
}
