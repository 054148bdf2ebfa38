package golangasm

import (
	"testing"

	"github.com/xmorgan/tachyon/codeblock"
)

func BenchmarkCodeBlockBytes(b *testing.B) {
	for i := 0; i < b.N; i++ {
		blk := codeblock.New()
		for j := 0; j < 256; j++ {
			blk.Gen8(0x90)
		}
		if _, err := blk.Assemble(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGolangAsmNops(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := EmitNops(256); err != nil {
			b.Fatal(err)
		}
	}
}
