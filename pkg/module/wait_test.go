package module

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcu.go/pkg/hal/sim"
)

func TestWaitForDurationNonBlocking(t *testing.T) {
	h := newCoreHarness(0)
	c := h.core

	c.QueueCommand(2, true)
	require.True(t, c.ResolveActiveCommand())

	// False on every tick before 1000 microseconds have elapsed since
	// the stage boundary, true on the first tick at or past it.
	require.False(t, c.WaitForDuration(1000*time.Microsecond))
	h.clock.advance(500 * time.Microsecond)
	require.False(t, c.WaitForDuration(1000*time.Microsecond))
	h.clock.advance(499 * time.Microsecond)
	require.False(t, c.WaitForDuration(1000*time.Microsecond))
	h.clock.advance(time.Microsecond)
	require.True(t, c.WaitForDuration(1000*time.Microsecond))
}

func TestWaitForDurationResetsWithStage(t *testing.T) {
	h := newCoreHarness(0)
	c := h.core

	c.QueueCommand(2, true)
	require.True(t, c.ResolveActiveCommand())
	h.clock.advance(2 * time.Millisecond)
	require.True(t, c.WaitForDuration(time.Millisecond))

	// Advancing the stage restarts the delay timer.
	c.AdvanceStage()
	require.False(t, c.WaitForDuration(time.Millisecond))
}

func TestWaitForDurationBlocking(t *testing.T) {
	h := newCoreHarness(100 * time.Microsecond)
	c := h.core

	c.QueueCommand(2, false)
	require.True(t, c.ResolveActiveCommand())
	require.True(t, c.WaitForDuration(time.Millisecond))
}

func TestWaitForAnalogThresholdNonBlocking(t *testing.T) {
	h := newCoreHarness(0)
	c := h.core
	sensor := sim.NewSensor(100, 100, 600)

	c.QueueCommand(2, true)
	require.True(t, c.ResolveActiveCommand())

	timeout := time.Second
	require.Equal(t, ThresholdFailed, c.WaitForAnalogThreshold(sensor, false, 500, timeout, 0))
	require.Equal(t, ThresholdFailed, c.WaitForAnalogThreshold(sensor, false, 500, timeout, 0))
	require.Equal(t, ThresholdPassed, c.WaitForAnalogThreshold(sensor, false, 500, timeout, 0))
}

func TestWaitForAnalogThresholdInverted(t *testing.T) {
	h := newCoreHarness(0)
	c := h.core
	sensor := sim.NewSensor(900, 100)

	c.QueueCommand(2, true)
	require.True(t, c.ResolveActiveCommand())

	require.Equal(t, ThresholdFailed, c.WaitForAnalogThreshold(sensor, true, 500, time.Second, 0))
	require.Equal(t, ThresholdPassed, c.WaitForAnalogThreshold(sensor, true, 500, time.Second, 0))
}

func TestWaitForAnalogThresholdTimeout(t *testing.T) {
	h := newCoreHarness(0)
	c := h.core
	sensor := sim.NewSensor(100)

	c.QueueCommand(2, true)
	require.True(t, c.ResolveActiveCommand())

	require.Equal(t, ThresholdFailed, c.WaitForAnalogThreshold(sensor, false, 500, time.Millisecond, 0))
	h.clock.advance(2 * time.Millisecond)
	require.Equal(t, ThresholdTimeout, c.WaitForAnalogThreshold(sensor, false, 500, time.Millisecond, 0))
}

func TestWaitForAnalogThresholdBlockingTimeout(t *testing.T) {
	h := newCoreHarness(100 * time.Microsecond)
	c := h.core
	sensor := sim.NewSensor(100)

	c.QueueCommand(2, false)
	require.True(t, c.ResolveActiveCommand())
	require.Equal(t, ThresholdTimeout, c.WaitForAnalogThreshold(sensor, false, 500, time.Millisecond, 0))
}

func TestWaitForAnalogThresholdPooled(t *testing.T) {
	h := newCoreHarness(0)
	c := h.core
	// Two samples averaging to 550 with half-up rounding.
	sensor := sim.NewSensor(500, 600)

	c.QueueCommand(2, true)
	require.True(t, c.ResolveActiveCommand())
	require.Equal(t, ThresholdPassed, c.WaitForAnalogThreshold(sensor, false, 550, time.Second, 2))
}

func TestWaitForDigitalThreshold(t *testing.T) {
	h := newCoreHarness(0)
	c := h.core
	pin := sim.NewPin()

	c.QueueCommand(2, true)
	require.True(t, c.ResolveActiveCommand())

	require.Equal(t, ThresholdFailed, c.WaitForDigitalThreshold(pin, true, time.Second, 0))
	pin.Set(true)
	require.Equal(t, ThresholdPassed, c.WaitForDigitalThreshold(pin, true, time.Second, 0))

	h.clock.advance(2 * time.Second)
	require.Equal(t, ThresholdTimeout, c.WaitForDigitalThreshold(pin, false, time.Second, 0))
}

func TestAnalogReadPooling(t *testing.T) {
	sensor := sim.NewSensor(10, 21)
	require.Equal(t, uint16(16), AnalogRead(sensor, 2))

	sensor.Script(10, 21)
	require.Equal(t, uint16(10), AnalogRead(sensor, 0))
}

func TestDigitalReadPooling(t *testing.T) {
	pin := sim.NewPin()
	require.False(t, DigitalRead(pin, 4))
	pin.Set(true)
	require.True(t, DigitalRead(pin, 4))
}
