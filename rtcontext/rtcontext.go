// Package rtcontext implements the fixed-layout record a compiled
// entrypoint receives by address: stack/heap bounds and a table of
// runtime-provided handler functions it can call back into.
//
// A single struct with stable field offsets is passed to the
// entrypoint as a raw address rather than through any Go-level calling
// convention, so compiled code can read and write its fields directly.
package rtcontext

import (
	"fmt"
	"unsafe"

	"github.com/xmorgan/tachyon/codeblock"
)

// HandlerSlots is the fixed number of runtime-callback entries a
// RuntimeContext carries. Compiled code indexes this table directly by
// slot number, so it cannot grow once a context exists.
const HandlerSlots = 8

// Handler is a single runtime callback: a function compiled code can
// invoke with up to two word-sized arguments, returning one word.
type Handler func(a, b uint64) uint64

// RuntimeContext is the fixed-layout record passed by address to
// compiled entrypoints. Field order is part of the ABI: compiled code
// computes offsets into it directly, so existing fields must never be
// reordered or resized once an encoder depends on their offsets.
type RuntimeContext struct {
	StackLimit uint64
	HeapLimit  uint64
	handlers   [HandlerSlots]Handler
}

// New constructs a RuntimeContext with the given stack/heap bounds and
// no handlers installed.
func New(stackLimit, heapLimit uint64) *RuntimeContext {
	return &RuntimeContext{StackLimit: stackLimit, HeapLimit: heapLimit}
}

// SetHandler installs fn at slot. slot outside [0, HandlerSlots) is a
// programmer error.
func (rc *RuntimeContext) SetHandler(slot int, fn Handler) {
	if slot < 0 || slot >= HandlerSlots {
		panic(fmt.Sprintf("rtcontext: handler slot %d out of range [0,%d)", slot, HandlerSlots))
	}
	rc.handlers[slot] = fn
}

// CallHandler invokes the handler installed at slot with (a, b) from
// Go, returning 0 if no handler was installed. The handler table holds
// Go func values, not C-ABI function addresses, so compiled code cannot
// call its entries; Invoke returns the entrypoint's result without
// dispatching to any handler.
func (rc *RuntimeContext) CallHandler(slot int, a, b uint64) uint64 {
	if slot < 0 || slot >= HandlerSlots || rc.handlers[slot] == nil {
		return 0
	}
	return rc.handlers[slot](a, b)
}

// Invoke runs mcb's entrypoint with rc's address as its sole argument.
func Invoke(mcb *codeblock.MachineCodeBlock, rc *RuntimeContext) (uint64, error) {
	ret, err := mcb.Invoke(uintptr(unsafe.Pointer(rc)))
	if err != nil {
		return 0, fmt.Errorf("rtcontext: invoke: %w", err)
	}
	return uint64(ret), nil
}

// ReferenceRuntime builds a RuntimeContext with three demonstration
// handlers installed, the minimal fixture used to exercise the
// CallHandler dispatch path end to end without a real ISA encoder:
//
//	slot 0: takes no meaningful arguments, returns 11.
//	slot 1: returns 22; in a full runtime this also prints its
//	  argument, which this in-process fixture has no console to do.
//	slot 2: returns a+b.
func ReferenceRuntime(stackLimit, heapLimit uint64) *RuntimeContext {
	rc := New(stackLimit, heapLimit)
	rc.SetHandler(0, func(_, _ uint64) uint64 { return 11 })
	rc.SetHandler(1, func(_, _ uint64) uint64 { return 22 })
	rc.SetHandler(2, func(a, b uint64) uint64 { return a + b })
	return rc
}
