//go:build !amd64 && !arm64

package execmem

import "unsafe"

// nativeCall falls back to a func-value reinterpretation on
// architectures without a hand-written trampoline. This relies on the
// current runtime's closure representation (a pointer to a struct whose
// first word is the code address) and is not guaranteed stable across
// Go versions; amd64 and arm64 use a real assembly trampoline instead
// (nativecall_amd64.s, nativecall_arm64.s) and should be preferred.
func nativeCall(codeAddr, argAddr uintptr) uintptr {
	closure := &codeAddr
	f := *(*func(uintptr) uintptr)(unsafe.Pointer(&closure))
	return f(argAddr)
}
