package module

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcu.go/pkg/protocol"
	"github.com/robotalks/mcu.go/pkg/transport"
)

// captureStream records every packet the engine sends.
type captureStream struct {
	sent bytes.Buffer
}

func (s *captureStream) Available() int            { return 0 }
func (s *captureStream) ReadByte() (byte, error)   { return 0, io.EOF }
func (s *captureStream) Write(p []byte) (int, error) { return s.sent.Write(p) }

// telemetry decodes all captured packets and clears the buffer.
func (s *captureStream) telemetry(t *testing.T) []interface{} {
	reader := &replayStream{}
	reader.recv.Write(s.sent.Bytes())
	s.sent.Reset()
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

type replayStream struct {
	recv bytes.Buffer
}

func (s *replayStream) Available() int { return s.recv.Len() }

func (s *replayStream) ReadByte() (byte, error) {
	if s.recv.Len() == 0 {
		return 0, io.EOF
	}
	return s.recv.ReadByte()
}

func (s *replayStream) Write(p []byte) (int, error) { return len(p), nil }

// testClock advances step on every reading and supports explicit jumps.
// A zero step freezes time between jumps so blocking spins are only used
// with a non-zero step.
type testClock struct {
	current time.Time
	step    time.Duration
}

func newTestClock(step time.Duration) *testClock {
	return &testClock{current: time.Unix(0, 0), step: step}
}

func (c *testClock) now() time.Time {
	c.current = c.current.Add(c.step)
	return c.current
}

func (c *testClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

type coreHarness struct {
	core   *Core
	stream *captureStream
	clock  *testClock
	locks  *protocol.RuntimeLocks
}

func newCoreHarness(step time.Duration) *coreHarness {
	stream := &captureStream{}
	session := protocol.NewSession(transport.New(stream))
	locks := &protocol.RuntimeLocks{}
	clock := newTestClock(step)
	core := NewCore(protocol.Address{Type: 1, ID: 5}, session, locks)
	core.Now = clock.now
	core.ResetExecution()
	return &coreHarness{core: core, stream: stream, clock: clock, locks: locks}
}

// events filters captured telemetry down to state events.
func (h *coreHarness) events(t *testing.T) []protocol.ModuleState {
	var states []protocol.ModuleState
	for _, msg := range h.stream.telemetry(t) {
		if st, ok := msg.(protocol.ModuleState); ok {
			states = append(states, st)
		}
	}
	return states
}
