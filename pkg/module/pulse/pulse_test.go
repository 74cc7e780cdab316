package pulse

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcu.go/pkg/hal/sim"
	"github.com/robotalks/mcu.go/pkg/module"
	"github.com/robotalks/mcu.go/pkg/protocol"
	"github.com/robotalks/mcu.go/pkg/transport"
)

type loopStream struct {
	recv bytes.Buffer
	sent bytes.Buffer
}

func (s *loopStream) Available() int { return s.recv.Len() }

func (s *loopStream) ReadByte() (byte, error) {
	if s.recv.Len() == 0 {
		return 0, io.EOF
	}
	return s.recv.ReadByte()
}

func (s *loopStream) Write(p []byte) (int, error) { return s.sent.Write(p) }

type pulseHarness struct {
	mod    *Module
	pin    *sim.Pin
	stream *loopStream
	locks  *protocol.RuntimeLocks
	now    time.Time
}

func newPulseHarness() *pulseHarness {
	h := &pulseHarness{
		pin:    sim.NewPin(),
		stream: &loopStream{},
		now:    time.Unix(0, 0),
	}
	locks := protocol.DefaultRuntimeLocks()
	h.locks = &locks
	session := protocol.NewSession(transport.New(h.stream))
	core := module.NewCore(protocol.Address{Type: 3, ID: 1}, session, h.locks)
	core.Now = func() time.Time { return h.now }
	h.mod = New(core, h.pin)
	core.ResetExecution()
	return h
}

func (h *pulseHarness) advance(d time.Duration) { h.now = h.now.Add(d) }

// step runs one scheduler tick against the module.
func (h *pulseHarness) step() {
	if h.mod.Core().ResolveActiveCommand() {
		h.mod.RunActiveCommand()
	}
}

func (h *pulseHarness) deliver(t *testing.T, payload []byte) {
	pkt, err := transport.Encode(payload)
	require.NoError(t, err)
	h.stream.recv.Write(pkt)
	kind, err := h.mod.Core().Session().Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.KindModuleParameters, kind)
}

func (h *pulseHarness) sent(t *testing.T) []interface{} {
	reader := &loopStream{}
	reader.recv.Write(h.stream.sent.Bytes())
	h.stream.sent.Reset()
	tr := transport.New(reader)
	var msgs []interface{}
	for {
		payload, err := tr.Receive()
		if err == transport.ErrNoData {
			return msgs
		}
		require.NoError(t, err)
		msg, err := protocol.Decode(payload)
		require.NoError(t, err)
		msgs = append(msgs, msg)
	}
}

func (h *pulseHarness) events(t *testing.T) []byte {
	var events []byte
	for _, msg := range h.sent(t) {
		if state, ok := msg.(protocol.ModuleState); ok {
			events = append(events, state.Event)
		}
	}
	return events
}

func record(id byte, value uint32) []byte {
	return binary.LittleEndian.AppendUint32([]byte{id}, value)
}

func TestPulseCycle(t *testing.T) {
	h := newPulseHarness()
	h.locks.ActionLock = false
	require.True(t, h.mod.Setup())
	h.mod.onDuration = time.Millisecond
	h.mod.offDuration = 2 * time.Millisecond

	h.mod.Core().QueueCommand(CommandPulse, true)
	h.step()
	require.True(t, h.pin.Read())

	// Still inside the on phase.
	h.step()
	require.True(t, h.pin.Read())
	require.Equal(t, CommandPulse, h.mod.Core().ActiveCommand())

	h.advance(time.Millisecond)
	h.step() // on phase over
	h.step() // lowers the pin
	require.False(t, h.pin.Read())
	require.Empty(t, h.events(t))

	h.advance(2 * time.Millisecond)
	h.step()
	require.Equal(t, []byte{module.EventCompleted}, h.events(t))
	require.Zero(t, h.mod.Core().ActiveCommand())
}

func TestPulseLockedReportsAndAborts(t *testing.T) {
	h := newPulseHarness()
	require.True(t, h.mod.Setup())

	h.mod.Core().QueueCommand(CommandPulse, true)
	h.step()
	require.False(t, h.pin.Read())
	require.Equal(t, []byte{module.EventPinLocked, module.EventCompleted}, h.events(t))
	require.Zero(t, h.mod.Core().ActiveCommand())
}

func TestEchoReportsValue(t *testing.T) {
	h := newPulseHarness()
	require.True(t, h.mod.Setup())

	h.mod.Core().QueueCommand(CommandEcho, true)
	h.step()

	msgs := h.sent(t)
	require.Len(t, msgs, 2)
	data, ok := msgs[0].(protocol.ModuleData)
	require.True(t, ok)
	require.Equal(t, EventEcho, data.Event)
	require.Equal(t, protocol.PrototypeOneUint16, data.Prototype.Code)
	require.Equal(t, []byte{0x9a, 0x02}, data.Object)
	state, ok := msgs[1].(protocol.ModuleState)
	require.True(t, ok)
	require.Equal(t, module.EventCompleted, state.Event)
}

func TestApplyParameters(t *testing.T) {
	h := newPulseHarness()
	require.True(t, h.mod.Setup())

	payload := []byte{byte(protocol.KindModuleParameters), 3, 1, 0}
	payload = append(payload, record(ParamOnDuration, 1000)...)
	payload = append(payload, record(ParamEchoValue, 42)...)
	h.deliver(t, payload)

	require.True(t, h.mod.ApplyParameters())
	require.Equal(t, time.Millisecond, h.mod.onDuration)
	require.Equal(t, uint16(42), h.mod.echoValue)
	events := h.events(t)
	require.Equal(t, []byte{module.EventParameterSet, module.EventParameterSet}, events)
}

func TestApplyParametersRejectsOversizedEchoValue(t *testing.T) {
	h := newPulseHarness()
	require.True(t, h.mod.Setup())

	payload := []byte{byte(protocol.KindModuleParameters), 3, 1, 0}
	payload = append(payload, record(ParamEchoValue, 70000)...)
	h.deliver(t, payload)

	require.True(t, h.mod.ApplyParameters())
	require.Equal(t, uint16(defaultEchoValue), h.mod.echoValue)
	require.Equal(t, []byte{module.EventInvalidParameter}, h.events(t))
}

func TestSetupRestoresDefaults(t *testing.T) {
	h := newPulseHarness()
	h.pin.Set(true)
	h.mod.onDuration = time.Nanosecond

	require.True(t, h.mod.Setup())
	require.False(t, h.pin.Read())
	require.Equal(t, defaultOnDuration, h.mod.onDuration)
	require.Equal(t, uint16(defaultEchoValue), h.mod.echoValue)
}
