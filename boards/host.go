//go:build !rp2040

package boards

// Host builds run against the fake rig; no pins to describe.
var Selected = Descriptor{
	Name: "host-sim",
	LED:  -1,
}
