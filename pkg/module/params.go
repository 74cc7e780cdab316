package module

import (
	"encoding/binary"
	"time"
)

// Reserved execution parameter ids. Records carrying ids 1 through 10
// address the engine itself; modules define their own parameters from
// CustomParamBase up.
const (
	// ParamNoBlock sets the blocking flag used at the next activation.
	ParamNoBlock byte = 1
	// ParamRunRecurrently toggles recurrent re-activation of the queued
	// command.
	ParamRunRecurrently byte = 2
	// ParamRecurrentDelay sets the recurrence delay in microseconds.
	ParamRecurrentDelay byte = 3
)

// CustomParamBase is the first parameter id available to module-specific
// parameters.
const CustomParamBase byte = 11

// paramRecordSize is one id byte plus a 32-bit value.
const paramRecordSize = 5

// ApplyParameterRecords walks a parameter block of fixed (id, value)
// records, applying reserved ids to the engine and forwarding the rest to
// apply. Every record is acknowledged with a parameter-set or
// invalid-parameter event; a record failure does not stop the remaining
// records. A block whose size is not a whole number of records is
// structural and aborts immediately.
func (c *Core) ApplyParameterRecords(block []byte, apply func(id byte, value uint32) bool) bool {
	if len(block)%paramRecordSize != 0 {
		c.SendState(EventInvalidParameter)
		return false
	}
	for i := 0; i < len(block); i += paramRecordSize {
		id := block[i]
		value := binary.LittleEndian.Uint32(block[i+1:])
		if c.applyRecord(id, value, apply) {
			c.SendState(EventParameterSet)
		} else {
			c.SendState(EventInvalidParameter)
		}
	}
	return true
}

func (c *Core) applyRecord(id byte, value uint32, apply func(id byte, value uint32) bool) bool {
	switch id {
	case ParamNoBlock:
		c.nextNoBlock = value != 0
	case ParamRunRecurrently:
		c.runRecurrently = value != 0
	case ParamRecurrentDelay:
		c.recurrentDelay = time.Duration(value) * time.Microsecond
	default:
		if id < CustomParamBase {
			return false
		}
		return apply != nil && apply(id, value)
	}
	return true
}
