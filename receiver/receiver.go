// Package receiver defines the radio front-end capability the decoder
// depends on: whatever is demodulating the 433.92MHz OOK signal onto a GPIO
// line must report whether it's usable and, when it can, how strong the
// received signal is.
//
// This mirrors the original Receiver/RXB/CC1101 class hierarchy
// (org.openhab.binding.hideki's native Receiver.h): a small abstract
// capability with exactly two concrete implementations, one of which (the
// bare OOK receiver module) has no state or RSSI reading to offer at all.
package receiver

// State reports whether a Receiver is usable.
type State int

const (
	// Error means the receiver failed to initialize and must not be used.
	Error State = iota
	// Initialized means the receiver is ready; RSSI() may be called.
	Initialized
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	default:
		return "error"
	}
}

// Receiver is the radio front-end capability the decoder holds for the
// duration of its lifetime. Implementations must be safe for concurrent
// calls: the decoder thread samples RSSI once per accepted byte while
// another goroutine may be reading State() to report health.
type Receiver interface {
	// State reports whether the receiver is usable.
	State() State
	// RSSI returns the instantaneous received signal strength in dBm.
	RSSI() float64
}

// NullReceiver stands in for a bare OOK receiver module with no SPI control
// surface (the RXB1/RXB6-class modules the original RXB class models):
// always initialized, and with no way to measure signal strength.
type NullReceiver struct{}

// State always reports Initialized: a bare OOK module has no failure mode
// this core can observe.
func (NullReceiver) State() State { return Initialized }

// RSSI always returns 0, matching RXB::getRSSIValue() in the original.
func (NullReceiver) RSSI() float64 { return 0.0 }

var _ Receiver = NullReceiver{}
