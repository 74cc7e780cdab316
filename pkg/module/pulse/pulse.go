// Package pulse implements a reference module driving a single digital
// output pin with timed pulses.
package pulse

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/robotalks/mcu.go/pkg/hal"
	"github.com/robotalks/mcu.go/pkg/module"
	"github.com/robotalks/mcu.go/pkg/protocol"
)

// Commands accepted by the module.
const (
	// CommandPulse raises the pin, holds it for the on duration, lowers it
	// and holds for the off duration.
	CommandPulse byte = 1
	// CommandEcho reports the configured echo value back to the host.
	CommandEcho byte = 2
)

// Module-specific parameter ids.
const (
	ParamOnDuration  byte = module.CustomParamBase
	ParamOffDuration byte = module.CustomParamBase + 1
	ParamEchoValue   byte = module.CustomParamBase + 2
)

// EventEcho carries the echo value in a data message.
const EventEcho byte = module.CustomEventBase

const (
	defaultOnDuration  = 2 * time.Second
	defaultOffDuration = 2 * time.Second
	defaultEchoValue   = 666
)

// Module pulses a digital pin. Durations and the echo value are
// host-settable at runtime.
type Module struct {
	core *module.Core
	pin  hal.DigitalPin

	onDuration  time.Duration
	offDuration time.Duration
	echoValue   uint16
}

// New creates a pulse module over pin.
func New(core *module.Core, pin hal.DigitalPin) *Module {
	m := &Module{core: core, pin: pin}
	m.reset()
	return m
}

// Core returns the execution core.
func (m *Module) Core() *module.Core {
	return m.core
}

// Setup lowers the pin and restores default parameters.
func (m *Module) Setup() bool {
	m.reset()
	m.pin.Write(false)
	return true
}

func (m *Module) reset() {
	m.onDuration = defaultOnDuration
	m.offDuration = defaultOffDuration
	m.echoValue = defaultEchoValue
}

// ApplyParameters consumes a pending parameter block.
func (m *Module) ApplyParameters() bool {
	return m.core.ExtractParameterRecords(m.applyParameter)
}

func (m *Module) applyParameter(id byte, value uint32) bool {
	switch id {
	case ParamOnDuration:
		m.onDuration = time.Duration(value) * time.Microsecond
	case ParamOffDuration:
		m.offDuration = time.Duration(value) * time.Microsecond
	case ParamEchoValue:
		if value > math.MaxUint16 {
			return false
		}
		m.echoValue = uint16(value)
	default:
		return false
	}
	return true
}

// RunActiveCommand dispatches the active command.
func (m *Module) RunActiveCommand() bool {
	switch m.core.ActiveCommand() {
	case CommandPulse:
		m.pulse()
	case CommandEcho:
		m.echo()
	default:
		return false
	}
	return true
}

func (m *Module) pulse() {
	switch m.core.Stage() {
	case 1:
		if !m.core.DigitalWrite(m.pin, true, false) {
			m.core.SendState(module.EventPinLocked)
			m.core.Abort()
			return
		}
		m.core.AdvanceStage()
	case 2:
		if !m.core.WaitForDuration(m.onDuration) {
			return
		}
		m.core.AdvanceStage()
	case 3:
		// A lock forces LOW anyway, so lowering never fails.
		m.core.DigitalWrite(m.pin, false, false)
		m.core.AdvanceStage()
	case 4:
		if !m.core.WaitForDuration(m.offDuration) {
			return
		}
		m.core.Complete()
	}
}

func (m *Module) echo() {
	object := binary.LittleEndian.AppendUint16(nil, m.echoValue)
	m.core.SendData(EventEcho, protocol.PrototypeOneUint16, object)
	m.core.Complete()
}
