package module

import (
	"github.com/robotalks/mcu.go/pkg/hal"
)

// DigitalWrite drives a digital pin, honoring the global runtime locks.
// When the relevant lock is engaged the pin is forced LOW instead and
// the method reports false so command logic can abort gracefully rather
// than silently acting against operator intent. The ttl flag selects the
// TTL lock instead of the action lock.
func (c *Core) DigitalWrite(pin hal.DigitalPin, level bool, ttl bool) bool {
	if c.locked(ttl) {
		pin.Write(false)
		return false
	}
	pin.Write(level)
	return level
}

// AnalogWrite drives a PWM pin, honoring the global runtime locks. When
// the relevant lock is engaged the duty cycle is forced to 0 instead and
// 0 is returned.
func (c *Core) AnalogWrite(pin hal.AnalogOut, value uint8, ttl bool) uint8 {
	if c.locked(ttl) {
		pin.Write(0)
		return 0
	}
	pin.Write(value)
	return value
}

func (c *Core) locked(ttl bool) bool {
	if ttl {
		return c.locks.TTLLock
	}
	return c.locks.ActionLock
}

// AnalogRead polls an analog pin. When pool is 2 or more the readout
// averages that many raw samples with half-up integer rounding to
// denoise the reading.
func AnalogRead(pin hal.AnalogIn, pool int) uint16 {
	if pool < 2 {
		return pin.Read()
	}
	var sum uint32
	for i := 0; i < pool; i++ {
		sum += uint32(pin.Read())
	}
	return uint16((sum + uint32(pool)/2) / uint32(pool))
}

// DigitalRead polls a digital pin, averaging pool samples the same way
// AnalogRead does when pool is 2 or more.
func DigitalRead(pin hal.DigitalPin, pool int) bool {
	if pool < 2 {
		return pin.Read()
	}
	var sum uint32
	for i := 0; i < pool; i++ {
		if pin.Read() {
			sum++
		}
	}
	return (sum+uint32(pool)/2)/uint32(pool) != 0
}
