package sim

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcu.go/pkg/protocol"
	"github.com/robotalks/mcu.go/pkg/transport"
)

const sampleConfig = `
controller-id: 42
keepalive-interval: 5s
interval: 1ms
modules:
  - type: pulse
    id: 1
  - type: pulse
    id: 2
    type-code: 7
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "controller.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	conf, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Equal(t, byte(42), conf.ControllerID)
	require.Equal(t, 5*time.Second, conf.KeepaliveInterval)
	require.Equal(t, time.Millisecond, conf.Interval)
	require.Len(t, conf.Modules, 2)
	require.Equal(t, PulseTypeCode, conf.Modules[0].typeCode())
	require.Equal(t, byte(7), conf.Modules[1].typeCode())
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "modules: {broken"))
	require.Error(t, err)
}

func TestMachineControllerIDIsStable(t *testing.T) {
	id := machineControllerID()
	require.NotZero(t, id)
	require.Equal(t, id, machineControllerID())
}

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

func TestNewKernelAssemblesModules(t *testing.T) {
	conf, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	stream := &loopStream{}
	k, err := conf.NewKernel(stream)
	require.NoError(t, err)
	require.True(t, k.Setup())

	// Identify the registered modules over the wire.
	pkt, err := transport.Encode(protocol.KernelCommand{Command: 4}.Append(nil))
	require.NoError(t, err)
	stream.recv.Write(pkt)
	k.Cycle()

	reader := &loopStream{}
	reader.recv.Write(stream.sent.Bytes())
	tr := transport.New(reader)
	var ids []protocol.ModuleID
	for {
		payload, err := tr.Receive()
		if err == transport.ErrNoData {
			break
		}
		require.NoError(t, err)
		msg, err := protocol.Decode(payload)
		require.NoError(t, err)
		if id, ok := msg.(protocol.ModuleID); ok {
			ids = append(ids, id)
		}
	}
	require.Equal(t, []protocol.ModuleID{
		{Type: PulseTypeCode, ID: 1},
		{Type: 7, ID: 2},
	}, ids)
}

func TestNewKernelRejectsUnknownModuleType(t *testing.T) {
	conf := &Config{Modules: []ModuleConfig{{Type: "laser", ID: 1, TypeCode: 9}}}
	_, err := conf.NewKernel(&loopStream{})
	require.Error(t, err)
}
