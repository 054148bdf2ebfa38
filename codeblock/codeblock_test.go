package codeblock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenPrimitivesLittleEndian(t *testing.T) {
	b := New()
	b.Gen8(0x11).Gen16(0x2233).Gen32(0x44556677).Gen64(0x0102030405060708)
	n, err := b.Assemble()
	require.NoError(t, err)
	require.Equal(t, 15, n)
	require.Equal(t, []byte{
		0x11,
		0x33, 0x22,
		0x77, 0x66, 0x55, 0x44,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}, b.Bytes())
}

func TestGenBigEndian(t *testing.T) {
	b := New(WithBigEndian(true))
	b.Gen32(0x44556677)
	_, err := b.Assemble()
	require.NoError(t, err)
	require.Equal(t, []byte{0x44, 0x55, 0x66, 0x77}, b.Bytes())
}

func TestGenNumberInvalidWidth(t *testing.T) {
	b := New()
	_, err := b.GenNumber(24, 1)
	require.True(t, errors.Is(err, ErrInvalidWidth))
}

func TestLabelForwardReference(t *testing.T) {
	b := New()
	target := b.Label()
	b.Gen8(0xEB)
	d := b.GenDeferred(
		[]CheckFunc{func(bl *CodeBlock, pos int) (int, bool) { return 1, true }},
		[]ProduceFunc{func(bl *CodeBlock, pos int) []byte {
			return []byte{byte(target.Pos() - (pos + 1))}
		}},
	)
	require.NotNil(t, d)
	require.NoError(t, b.GenLabel(target))
	b.Gen8(0x90)
	n, err := b.Assemble()
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, byte(0), b.Bytes()[1])
}

func TestLabelRedefinitionFails(t *testing.T) {
	b := New()
	l := b.Label()
	require.NoError(t, b.GenLabel(l))
	err := b.GenLabel(l)
	require.True(t, errors.Is(err, ErrLabelRedefinition))
}

func TestStartPosOffsetsLabels(t *testing.T) {
	b := New(WithStartPos(0x1000))
	b.Gen8(1).Gen8(2)
	l := b.Label()
	require.NoError(t, b.GenLabel(l))
	_, err := b.Assemble()
	require.NoError(t, err)
	require.Equal(t, 0x1002, l.Pos())
}
