package transport

import (
	"time"
)

// Stream is the minimal byte-stream capability the transport runs on,
// typically backed by a serial port or a socket. Implementations are not
// required to be safe for concurrent use: the runtime is single-threaded.
type Stream interface {
	// Available returns the number of buffered bytes ready to read.
	Available() int
	// ReadByte pops one buffered byte. It returns an error when no byte
	// is buffered; it never blocks.
	ReadByte() (byte, error)
	// Write sends bytes to the peer.
	Write(p []byte) (n int, err error)
}

// Transport frames payloads onto a Stream and recovers payloads from it.
type Transport struct {
	// MaxPayload bounds accepted payload lengths. It defaults to the
	// protocol cap and is additionally limited by the peer's physical
	// buffer headroom, so deployments may lower it.
	MaxPayload int
	// StallTimeout bounds the gap between consecutive bytes of one
	// packet. Exceeding it is a hard reception error.
	StallTimeout time.Duration
	// Now is the time source, replaceable in tests.
	Now func() time.Time

	stream Stream
	status Status
}

// DefaultStallTimeout is the inter-byte stall bound used unless configured.
const DefaultStallTimeout = 20 * time.Millisecond

// New creates a Transport over a Stream.
func New(stream Stream) *Transport {
	return &Transport{
		MaxPayload:   MaxPayload,
		StallTimeout: DefaultStallTimeout,
		Now:          time.Now,
		stream:       stream,
	}
}

// Status returns the status of the most recent operation.
func (t *Transport) Status() Status {
	return t.status
}

// Send frames payload and writes the packet to the stream.
func (t *Transport) Send(payload []byte) error {
	if len(payload) > t.MaxPayload {
		t.status = StatusPayloadTooLarge
		return ErrPayloadTooLarge
	}
	pkt, err := Encode(payload)
	if err != nil {
		if err == ErrPayloadEmpty {
			t.status = StatusPayloadEmpty
		} else {
			t.status = StatusPayloadTooLarge
		}
		return err
	}
	if _, err := t.stream.Write(pkt); err != nil {
		return err
	}
	t.status = StatusPacketSent
	return nil
}

// Receive attempts to pull one packet from the stream and returns its
// payload. When the stream holds no packet bytes, or only line noise
// without a start marker, it returns ErrNoData, which is not a reception
// error. Once a start marker is seen, Receive commits to the packet: it
// waits for subsequent bytes up to StallTimeout and treats a longer gap
// as a hard reception error. Any malformed packet resets the reception
// state before the error is returned.
func (t *Transport) Receive() ([]byte, error) {
	// Scan buffered bytes for the start marker. Bytes preceding it are
	// line noise and are dropped.
	if t.stream.Available() == 0 {
		t.status = StatusNoBytes
		return nil, ErrNoData
	}
	found := false
	for t.stream.Available() > 0 {
		b, err := t.stream.ReadByte()
		if err != nil {
			break
		}
		if b == StartByte {
			found = true
			break
		}
	}
	if !found {
		// The consumed bytes carried no start marker. Noise degrades to
		// an idle link rather than a reception error so a noisy pipe
		// does not flood the host with error telemetry.
		t.status = StatusNoBytes
		return nil, ErrNoData
	}

	size, ok := t.nextByte()
	if !ok {
		return nil, t.fail(StatusStallTimeout)
	}
	if int(size) == 0 || int(size) > t.MaxPayload {
		return nil, t.fail(StatusInvalidSize)
	}

	// Body = overhead byte + encoded payload + delimiter.
	body := make([]byte, int(size)+2)
	for i := range body {
		b, ok := t.nextByte()
		if !ok {
			return nil, t.fail(StatusStallTimeout)
		}
		body[i] = b
	}
	var crc uint16
	for i := 0; i < 2; i++ {
		b, ok := t.nextByte()
		if !ok {
			return nil, t.fail(StatusStallTimeout)
		}
		crc = crc<<8 | uint16(b)
	}
	if Checksum(body) != crc {
		return nil, t.fail(StatusCRCMismatch)
	}

	payload, st := decodeBody(body)
	if st != StatusPacketReceived {
		return nil, t.fail(st)
	}
	t.status = StatusPacketReceived
	return payload, nil
}

// nextByte reads the next packet byte, waiting up to StallTimeout for it
// to arrive.
func (t *Transport) nextByte() (byte, bool) {
	deadline := t.Now().Add(t.StallTimeout)
	for {
		if t.stream.Available() > 0 {
			b, err := t.stream.ReadByte()
			if err == nil {
				return b, true
			}
		}
		if t.Now().After(deadline) {
			return 0, false
		}
	}
}

// fail records a reception failure. The reception state is implicitly
// reset: no partial packet survives across Receive calls.
func (t *Transport) fail(status Status) error {
	t.status = status
	return &ReceptionError{Status: status}
}
