//go:build rp2040

package boards

// Pico on the prototype rig. Onboard LED is GP25, console on the UART0
// default pads GP0/GP1.
var Selected = Descriptor{
	Name:    "pico-rig-a",
	LED:     25,
	UART0TX: 0,
	UART0RX: 1,
}
