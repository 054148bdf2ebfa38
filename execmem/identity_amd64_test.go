package execmem

// identityFunctionBody returns the machine code for a SysV amd64
// function that returns its sole argument unchanged:
//
//	mov rax, rdi
//	ret
func identityFunctionBody() []byte {
	return []byte{0x48, 0x89, 0xF8, 0xC3}
}
