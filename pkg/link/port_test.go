package link

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/mcu.go/pkg/transport"
)

type pipeEnd struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p pipeEnd) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p pipeEnd) Write(b []byte) (int, error) { return p.w.Write(b) }

func (p pipeEnd) Close() error {
	p.w.Close()
	return p.r.Close()
}

func pipePair() (pipeEnd, pipeEnd) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	return pipeEnd{ar, aw}, pipeEnd{br, bw}
}

func waitAvailable(t *testing.T, p *Port, n int) {
	deadline := time.Now().Add(2 * time.Second)
	for p.Available() < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d bytes, have %d", n, p.Available())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPortBuffersReads(t *testing.T) {
	near, far := pipePair()
	port := NewPort(near)
	defer port.Close()

	go far.Write([]byte{1, 2, 3})
	waitAvailable(t, port, 3)

	for want := byte(1); want <= 3; want++ {
		b, err := port.ReadByte()
		require.NoError(t, err)
		require.Equal(t, want, b)
	}
	_, err := port.ReadByte()
	require.Equal(t, io.EOF, err)
}

func TestPortWritePassthrough(t *testing.T) {
	near, far := pipePair()
	port := NewPort(near)
	defer port.Close()

	done := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 3)
		io.ReadFull(far, buf)
		done <- buf
	}()
	n, err := port.Write([]byte{4, 5, 6})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte{4, 5, 6}, <-done)
}

func TestPortReportsPipeFailure(t *testing.T) {
	near, far := pipePair()
	port := NewPort(near)
	defer port.Close()

	go far.Write([]byte{7})
	waitAvailable(t, port, 1)
	far.Close()

	deadline := time.Now().Add(2 * time.Second)
	for port.Err() == nil {
		if time.Now().After(deadline) {
			t.Fatal("port never observed the pipe failure")
		}
		time.Sleep(time.Millisecond)
	}

	// Buffered bytes survive the failure.
	b, err := port.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(7), b)
}

func TestPortDoneSignalsPeerClose(t *testing.T) {
	near, far := pipePair()
	port := NewPort(near)
	defer port.Close()

	far.Close()
	select {
	case <-port.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("port never observed the peer close")
	}
	require.Error(t, port.Err())
}

func TestPortCloseUnblocksFullBuffer(t *testing.T) {
	near, far := pipePair()
	port := NewPort(near)

	// Flood the port past its buffer while nothing consumes it, so the
	// reader ends up blocked handing off the overflow byte.
	go far.Write(make([]byte, portBuffer+64))
	waitAvailable(t, port, portBuffer)

	port.Close()
	select {
	case <-port.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("close did not stop the reader")
	}
	require.Error(t, port.Err())
}

func TestDialTCPRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	port, err := Dial("tcp://" + ln.Addr().String())
	require.NoError(t, err)
	defer port.Close()

	peer := NewPort(<-accepted)
	defer peer.Close()

	require.NoError(t, transport.New(port).Send([]byte{1, 2, 3}))

	tr := transport.New(peer)
	deadline := time.Now().Add(2 * time.Second)
	for {
		payload, err := tr.Receive()
		if err == transport.ErrNoData {
			require.False(t, time.Now().After(deadline), "no packet arrived")
			time.Sleep(time.Millisecond)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, payload)
		return
	}
}

func TestDialRejectsUnknownScheme(t *testing.T) {
	_, err := Dial("ftp://localhost")
	require.Error(t, err)
}

func TestDialRequiresSerialDevice(t *testing.T) {
	_, err := Dial("serial://")
	require.Error(t, err)
}

func TestListenRejectsNonTCP(t *testing.T) {
	_, err := Listen("serial:///dev/ttyUSB0")
	require.Error(t, err)
}
