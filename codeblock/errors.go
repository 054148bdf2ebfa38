package codeblock

import "errors"

// Sentinel errors for the fatal-usage-error taxonomy a CodeBlock can
// raise. They are always wrapped with contextual information via
// fmt.Errorf("...: %w", ...) at the call site, and are meant to be
// tested against with errors.Is.
var (
	// ErrInvalidWidth is returned when GenNumber is asked to emit a
	// width other than 8, 16, 32 or 64 bits.
	ErrInvalidWidth = errors.New("invalid width")
	// ErrLabelRedefinition is returned when GenLabel places the same
	// label a second time.
	ErrLabelRedefinition = errors.New("label already placed")
	// ErrUnresolvedDeferred is returned when every alternative of a
	// Deferred item's check returned "not applicable" at some position.
	ErrUnresolvedDeferred = errors.New("no deferred alternative applies")
	// ErrDeferredSizeMismatch is returned when a Deferred's produce
	// function emitted a different number of bytes than its check
	// declared.
	ErrDeferredSizeMismatch = errors.New("deferred alternative size mismatch")
	// ErrOriginBackwards is returned when Origin's target address is
	// behind the current write position.
	ErrOriginBackwards = errors.New("origin address is behind current position")
	// ErrLabelUnresolved is an internal consistency error: a label's
	// position did not settle to the position implied by its location
	// in the item stream.
	ErrLabelUnresolved = errors.New("label position did not resolve to its stream position")
	// ErrNotAssembled is returned by operations that require Assemble
	// to have already run (e.g. ListingString).
	ErrNotAssembled = errors.New("block has not been assembled")
)
