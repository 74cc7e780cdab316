// Package link connects controller runtimes and host tools over byte
// pipes: TCP sockets, serial devices, websockets and stdio.
package link

import (
	"io"
	"sync"
)

// portBuffer bounds the bytes buffered ahead of the consumer.
const portBuffer = 4096

// Port adapts an io.ReadWriteCloser into a transport stream. A reader
// goroutine drains the pipe into a buffer so Available and ReadByte
// never block.
type Port struct {
	rwc     io.ReadWriteCloser
	in      chan byte
	closing chan struct{}
	done    chan struct{}
	once    sync.Once

	mu  sync.Mutex
	err error
}

// NewPort creates a Port over rwc and starts draining it.
func NewPort(rwc io.ReadWriteCloser) *Port {
	p := &Port{
		rwc:     rwc,
		in:      make(chan byte, portBuffer),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.pump()
	return p
}

func (p *Port) pump() {
	defer close(p.done)
	buf := make([]byte, 256)
	for {
		n, err := p.rwc.Read(buf)
		for _, b := range buf[:n] {
			// The close signal unblocks the send when the consumer
			// is gone and the buffer is full.
			select {
			case p.in <- b:
			case <-p.closing:
				p.setErr(io.ErrClosedPipe)
				return
			}
		}
		if err != nil {
			p.setErr(err)
			return
		}
	}
}

func (p *Port) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Available returns the number of buffered bytes ready to read.
func (p *Port) Available() int {
	return len(p.in)
}

// ReadByte pops one buffered byte. It returns io.EOF when the buffer is
// drained, whether or not the pipe is still alive; check Err for the
// pipe state.
func (p *Port) ReadByte() (byte, error) {
	select {
	case b := <-p.in:
		return b, nil
	default:
		return 0, io.EOF
	}
}

// Write sends bytes to the peer.
func (p *Port) Write(b []byte) (int, error) {
	return p.rwc.Write(b)
}

// Err returns the read error that stopped the port, or nil while the
// pipe is alive. Buffered bytes remain readable after failure.
func (p *Port) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Done is closed once the pipe dies, whether from a peer disconnect or
// a local Close. Buffered bytes remain readable.
func (p *Port) Done() <-chan struct{} {
	return p.done
}

// Close closes the underlying pipe and stops the reader.
func (p *Port) Close() error {
	p.once.Do(func() { close(p.closing) })
	return p.rwc.Close()
}
