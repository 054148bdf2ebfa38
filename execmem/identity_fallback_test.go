//go:build !amd64 && !arm64

package execmem

// identityFunctionBody has no portable machine-code encoding outside
// amd64/arm64; TestAllocExecRunsReturn skips itself when this is nil.
func identityFunctionBody() []byte { return nil }
