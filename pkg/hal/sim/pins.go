// Package sim provides in-memory pin implementations for simulated
// controllers and tests. Input pins replay scripted value sequences;
// output pins capture what was driven onto them.
package sim

// Pin is a simulated digital pin. Reads return the last written or
// scripted level.
type Pin struct {
	level bool
}

// NewPin creates a pin at LOW.
func NewPin() *Pin {
	return &Pin{}
}

// Read samples the pin level.
func (p *Pin) Read() bool {
	return p.level
}

// Write drives the pin.
func (p *Pin) Write(level bool) {
	p.level = level
}

// Set forces the pin level from the simulation side.
func (p *Pin) Set(level bool) {
	p.level = level
}

// Sensor is a simulated ADC input replaying a scripted value sequence.
// Once the script is exhausted the last value repeats.
type Sensor struct {
	values []uint16
	pos    int
}

// NewSensor creates a sensor replaying the given values.
func NewSensor(values ...uint16) *Sensor {
	return &Sensor{values: values}
}

// Read returns the next scripted value.
func (s *Sensor) Read() uint16 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos]
	if s.pos < len(s.values)-1 {
		s.pos++
	}
	return v
}

// Script replaces the value sequence and rewinds it.
func (s *Sensor) Script(values ...uint16) {
	s.values = values
	s.pos = 0
}

// PWM is a simulated PWM output capturing the driven duty cycle.
type PWM struct {
	value uint8
}

// NewPWM creates a PWM output at duty 0.
func NewPWM() *PWM {
	return &PWM{}
}

// Write sets the duty cycle.
func (p *PWM) Write(value uint8) {
	p.value = value
}

// Value returns the last driven duty cycle.
func (p *PWM) Value() uint8 {
	return p.value
}
