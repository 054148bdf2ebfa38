// Package golangasm benchmarks CodeBlock's generic relaxation-based
// item stream against github.com/twitchyliquid64/golang-asm's
// architecture-specific Builder. It exists purely as a comparison
// harness exercised by this package's benchmarks; nothing in the rest
// of this module depends on it.
package golangasm

import (
	"fmt"

	goasm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
)

// EmitNops builds an amd64 program consisting of n no-op instructions
// with golang-asm's Builder and returns the assembled machine code.
func EmitNops(n int) ([]byte, error) {
	b, err := goasm.NewBuilder("amd64", n+16)
	if err != nil {
		return nil, fmt.Errorf("golangasm: new builder: %w", err)
	}
	for i := 0; i < n; i++ {
		p := b.NewProg()
		p.As = obj.ANOP
		b.AddInstruction(p)
	}
	return b.Assemble(), nil
}
