// Package boards holds one descriptor per physical build. A descriptor
// carries board facts only (profile name, onboard LED, UART pads); wiring
// choices like the receiver and servo pins live in the embedded profile the
// name selects.
package boards

type Descriptor struct {
	Name string // selects the embedded profile
	LED  int    // onboard status LED GPIO, -1 when absent

	UART0TX int
	UART0RX int
}
