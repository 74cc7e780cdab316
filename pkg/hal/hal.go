// Package hal abstracts pin-level I/O behind minimal capability
// interfaces. Hardware modules receive pins from their board wiring;
// simulated controllers use the sim subpackage.
package hal

// DigitalPin is a two-level input/output pin.
type DigitalPin interface {
	// Read samples the current pin level, true for HIGH.
	Read() bool
	// Write drives the pin to the given level.
	Write(level bool)
}

// AnalogIn is an ADC input pin.
type AnalogIn interface {
	// Read samples the current raw ADC value.
	Read() uint16
}

// AnalogOut is a PWM output pin driven by an 8-bit duty cycle.
type AnalogOut interface {
	// Write sets the duty cycle, 0 for permanently off.
	Write(value uint8)
}
