package linker

import "errors"

// Sentinel errors linker operations can return: a required site whose
// link object never produces the placeholder width it declared.
var (
	ErrLinkValueSizeMismatch = errors.New("link value size mismatch")
)
