package kernel

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

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

type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Unix(0, 0)}
}

func (c *testClock) now() time.Time { return c.current }

func (c *testClock) advance(d time.Duration) { c.current = c.current.Add(d) }

// testModule runs every recognized command to completion in one step and
// extracts parameters into a fixed four-byte block.
type testModule struct {
	core *module.Core

	setupFails bool
	unknown    byte
	ran        []byte
	params     []byte
}

func (m *testModule) Core() *module.Core { return m.core }

func (m *testModule) Setup() bool { return !m.setupFails }

func (m *testModule) ApplyParameters() bool {
	block := make([]byte, 4)
	if !m.core.ExtractParameters(block) {
		return false
	}
	m.params = block
	return true
}

func (m *testModule) RunActiveCommand() bool {
	command := m.core.ActiveCommand()
	if m.unknown != 0 && command == m.unknown {
		return false
	}
	m.ran = append(m.ran, command)
	m.core.Complete()
	return true
}

type kernelHarness struct {
	kernel *Kernel
	stream *loopStream
	clock  *testClock
	mod    *testModule
}

func newKernelHarness(config Config) *kernelHarness {
	stream := &loopStream{}
	session := protocol.NewSession(transport.New(stream))
	clock := newTestClock()
	k := New(config, session)
	k.Now = clock.now

	mod := &testModule{
		core: module.NewCore(protocol.Address{Type: 1, ID: 5}, session, k.Locks()),
	}
	mod.core.Now = clock.now
	k.Register(mod)
	return &kernelHarness{kernel: k, stream: stream, clock: clock, mod: mod}
}

func (h *kernelHarness) send(t *testing.T, payload []byte) {
	pkt, err := transport.Encode(payload)
	require.NoError(t, err)
	h.stream.recv.Write(pkt)
}

// telemetry decodes everything the controller sent and clears the buffer.
func (h *kernelHarness) telemetry(t *testing.T) []interface{} {
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

func (h *kernelHarness) setup(t *testing.T) {
	require.True(t, h.kernel.Setup())
	h.stream.sent.Reset()
}
