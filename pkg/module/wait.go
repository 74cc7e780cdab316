package module

import (
	"time"

	"github.com/robotalks/mcu.go/pkg/hal"
)

// ThresholdResult is the outcome of one threshold wait attempt.
type ThresholdResult byte

// Threshold wait outcomes.
const (
	// ThresholdFailed means the condition has not been met yet. Only
	// returned in non-blocking mode; callers re-check next tick.
	ThresholdFailed ThresholdResult = iota
	// ThresholdPassed means the monitored value crossed the threshold.
	ThresholdPassed
	// ThresholdTimeout means the timeout elapsed before the condition
	// was met. Terminal: the command must fail rather than keep waiting.
	ThresholdTimeout
)

// stageElapsed returns the time since the last stage boundary.
func (c *Core) stageElapsed() time.Duration {
	return c.Now().Sub(c.stageMark)
}

// WaitForDuration delays command execution for d, timed relative to the
// last stage advancement. In blocking mode it spins in place until the
// delay passes. In non-blocking mode it returns immediately, true once
// the delay has elapsed; callers re-invoke it from the same stage every
// tick until it passes, then advance the stage.
func (c *Core) WaitForDuration(d time.Duration) bool {
	if !c.noblock {
		for c.stageElapsed() <= d {
		}
	}
	return c.stageElapsed() >= d
}

// WaitForAnalogThreshold waits for pin to reach threshold. The passing
// condition is value >= threshold, inverted to value <= threshold when
// invert is set. The timeout bounds the wait from the last stage
// boundary and guarantees forward progress even if the condition never
// occurs. Readings average pool samples when pool is 2 or more.
func (c *Core) WaitForAnalogThreshold(
	pin hal.AnalogIn, invert bool, threshold uint16,
	timeout time.Duration, pool int,
) ThresholdResult {
	passes := func() bool {
		value := AnalogRead(pin, pool)
		if invert {
			return value <= threshold
		}
		return value >= threshold
	}

	if !c.noblock {
		for !passes() {
			if c.stageElapsed() > timeout {
				return ThresholdTimeout
			}
		}
		return ThresholdPassed
	}
	if c.stageElapsed() > timeout {
		return ThresholdTimeout
	}
	if passes() {
		return ThresholdPassed
	}
	return ThresholdFailed
}

// WaitForDigitalThreshold waits for pin to read the given level, with
// the same blocking duality, timeout guard and sample pooling as
// WaitForAnalogThreshold.
func (c *Core) WaitForDigitalThreshold(
	pin hal.DigitalPin, level bool,
	timeout time.Duration, pool int,
) ThresholdResult {
	passes := func() bool {
		return DigitalRead(pin, pool) == level
	}

	if !c.noblock {
		for !passes() {
			if c.stageElapsed() > timeout {
				return ThresholdTimeout
			}
		}
		return ThresholdPassed
	}
	if c.stageElapsed() > timeout {
		return ThresholdTimeout
	}
	if passes() {
		return ThresholdPassed
	}
	return ThresholdFailed
}
