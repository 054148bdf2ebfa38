//go:build amd64 || arm64

package execmem

// nativeCall invokes the machine code at codeAddr as a C-ABI function
// taking a single pointer-width argument (argAddr) and returning a
// pointer-width result. The implementation lives in nativecall_amd64.s
// / nativecall_arm64.s: a hand-written trampoline is required because
// Go's own calling convention (register-based ABIInternal since Go
// 1.17) does not match the platform C ABI that an external ISA encoder
// targets, so a raw unsafe.Pointer-to-func-value cast would pass
// arguments in the wrong registers.
//
//go:noescape
func nativeCall(codeAddr, argAddr uintptr) uintptr
