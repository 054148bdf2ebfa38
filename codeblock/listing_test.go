package codeblock

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListingStringRequiresAssemble(t *testing.T) {
	b := New()
	b.Gen8(1)
	_, err := b.ListingString(0)
	require.True(t, errors.Is(err, ErrNotAssembled))
}

func TestListingStringBasicRow(t *testing.T) {
	b := New(WithListing(true))
	b.GenListing("prologue")
	b.Gen8(0x90).Gen8(0x90)
	_, err := b.Assemble()
	require.NoError(t, err)

	out, err := b.ListingString(0)
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "90"))
	require.True(t, strings.Contains(out, "prologue"))
}

func TestListingStringWrapsLongRows(t *testing.T) {
	b := New(WithListing(true))
	for i := 0; i < 40; i++ {
		b.Gen8(byte(i))
	}
	_, err := b.Assemble()
	require.NoError(t, err)

	out, err := b.ListingString(0)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Greater(t, len(lines), 1)
}

func TestListingStringRangeFilter(t *testing.T) {
	b := New()
	b.Gen8(1).Gen8(2).Gen8(3).Gen8(4)
	_, err := b.Assemble()
	require.NoError(t, err)

	out, err := b.ListingString(1, 3)
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "02"))
	require.True(t, strings.Contains(out, "03"))
	require.False(t, strings.Contains(out, " 01 "))
	require.False(t, strings.Contains(out, " 04 "))
}
