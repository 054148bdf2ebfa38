package codeblock

// ProvidedLinkObject is the capability a provided-site collaborator
// exposes: once a block has been copied into executable memory, the
// block tells it the final address of its anchor label.
type ProvidedLinkObject interface {
	SetAddr(addr uint64)
}

// RequiredLinkObject is the capability a required-site collaborator
// exposes: the linker asks it how many bytes it needs reserved, and
// later asks it to produce those bytes given the final destination
// address of the placeholder.
type RequiredLinkObject interface {
	// Width returns the placeholder width in bits; must be a multiple
	// of 8.
	Width() int
	// LinkValue returns exactly Width()/8 bytes to patch into the
	// reserved placeholder, given the placeholder's final host address.
	LinkValue(dstAddr uint64) ([]byte, error)
}

// requiredSite is one entry of a CodeBlock's required set: an anchor
// label placed where gen_required reserved placeholder bytes, paired
// with the link object that will eventually produce the patch bytes.
type requiredSite struct {
	label   *Label
	linkObj RequiredLinkObject
}

// providedSite is one entry of a CodeBlock's provided set: an anchor
// label placed where gen_provided was called, paired with the link
// object that wants to know the label's final address.
type providedSite struct {
	label   *Label
	linkObj ProvidedLinkObject
}
