package transport

import (
	"bytes"
	"io"
	"time"
)

// testStream is an in-memory Stream. Bytes written are captured in sent,
// bytes fed are served to the reader.
type testStream struct {
	recv bytes.Buffer
	sent bytes.Buffer
}

func newTestStream(initial []byte) *testStream {
	s := &testStream{}
	s.recv.Write(initial)
	return s
}

func (s *testStream) feed(p []byte) { s.recv.Write(p) }

func (s *testStream) Available() int { return s.recv.Len() }

func (s *testStream) ReadByte() (byte, error) {
	if s.recv.Len() == 0 {
		return 0, io.EOF
	}
	return s.recv.ReadByte()
}

func (s *testStream) Write(p []byte) (int, error) { return s.sent.Write(p) }

// testClock advances a fixed step on every reading, so stall deadlines
// expire deterministically without wall-clock sleeps.
type testClock struct {
	current time.Time
	step    time.Duration
}

func newTestClock() *testClock {
	return &testClock{current: time.Unix(0, 0), step: time.Millisecond}
}

func (c *testClock) now() time.Time {
	c.current = c.current.Add(c.step)
	return c.current
}
