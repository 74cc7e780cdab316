package protocol

import (
	"github.com/robotalks/mcu.go/pkg/transport"
)

// Session pairs the message codec with a transport and keeps the header of
// the last received message along with an explicit status code. One Session
// serves one controller link; it is not safe for concurrent use.
type Session struct {
	transport *transport.Transport

	status Status
	kind   Kind

	repeated     RepeatedCommand
	oneOff       OneOffCommand
	dequeue      DequeueCommand
	kernelCmd    KernelCommand
	paramsHeader ParametersHeader
	kernelParams KernelParameters
	// tail holds the unconsumed parameter block of a module parameters
	// message until ExtractParameters claims it.
	tail []byte
}

// NewSession creates a Session over a transport.
func NewSession(t *transport.Transport) *Session {
	return &Session{transport: t, status: StatusStandby}
}

// Transport returns the underlying transport, exposing its own status for
// communication error reports.
func (s *Session) Transport() *transport.Transport {
	return s.transport
}

// Status returns the status of the most recent operation.
func (s *Session) Status() Status {
	return s.status
}

// Receive pulls one message from the transport and unpacks its fixed
// header. It returns transport.ErrNoData, with status no-bytes-to-receive,
// when the link is idle. Parameter blocks of module parameters messages are
// not consumed here; call ExtractParameters for those.
func (s *Session) Receive() (Kind, error) {
	s.kind = KindInvalid
	s.tail = nil
	payload, err := s.transport.Receive()
	if err != nil {
		if err == transport.ErrNoData {
			s.status = StatusNoBytesToReceive
		} else {
			s.status = StatusReceptionError
		}
		return KindInvalid, err
	}

	kind := Kind(payload[0])
	switch kind {
	case KindRepeatedCommand:
		if len(payload) != repeatedCommandSize {
			return KindInvalid, s.parseFail(kind, len(payload))
		}
		s.repeated.unpack(payload)
	case KindOneOffCommand:
		if len(payload) != oneOffCommandSize {
			return KindInvalid, s.parseFail(kind, len(payload))
		}
		s.oneOff.unpack(payload)
	case KindDequeueCommand:
		if len(payload) != dequeueCommandSize {
			return KindInvalid, s.parseFail(kind, len(payload))
		}
		s.dequeue.unpack(payload)
	case KindKernelCommand:
		if len(payload) != kernelCommandSize {
			return KindInvalid, s.parseFail(kind, len(payload))
		}
		s.kernelCmd.unpack(payload)
	case KindModuleParameters:
		if len(payload) < parametersHeaderSize {
			return KindInvalid, s.parseFail(kind, len(payload))
		}
		s.paramsHeader.unpack(payload)
		s.tail = payload[parametersHeaderSize:]
	case KindKernelParameters:
		if len(payload) != kernelParametersSize {
			return KindInvalid, s.parseFail(kind, len(payload))
		}
		s.kernelParams.unpack(payload)
	default:
		s.status = StatusInvalidProtocol
		return KindInvalid, &InvalidKindError{Code: payload[0]}
	}
	s.kind = kind
	s.status = StatusMessageReceived
	return kind, nil
}

func (s *Session) parseFail(kind Kind, size int) error {
	s.status = StatusParsingError
	return &ParseError{Kind: kind, Size: size}
}

// Kind returns the discriminator of the last received message.
func (s *Session) Kind() Kind {
	return s.kind
}

// Repeated returns the last received repeated command header.
func (s *Session) Repeated() RepeatedCommand {
	return s.repeated
}

// OneOff returns the last received one-off command header.
func (s *Session) OneOff() OneOffCommand {
	return s.oneOff
}

// Dequeue returns the last received dequeue command header.
func (s *Session) Dequeue() DequeueCommand {
	return s.dequeue
}

// KernelCommand returns the last received kernel command header.
func (s *Session) KernelCommand() KernelCommand {
	return s.kernelCmd
}

// ParametersHeader returns the header of the last received module
// parameters message.
func (s *Session) ParametersHeader() ParametersHeader {
	return s.paramsHeader
}

// KernelParameters returns the last received kernel parameters message.
func (s *Session) KernelParameters() KernelParameters {
	return s.kernelParams
}

// ParameterSize returns the byte size of the parameter block carried by the
// last received module parameters message, or 0 when no such message is
// current.
func (s *Session) ParameterSize() int {
	if s.kind != KindModuleParameters {
		return 0
	}
	return len(s.tail)
}

// ExtractParameters copies the parameter block of the last received module
// parameters message into dst. It is legal only while such a message is
// current, and dst must exactly match the block size; on any failure no
// bytes are copied.
func (s *Session) ExtractParameters(dst []byte) error {
	if s.kind != KindModuleParameters {
		s.status = StatusExtractionForbidden
		return ErrExtractionForbidden
	}
	if len(dst) != len(s.tail) {
		s.status = StatusParameterMismatch
		return ErrParameterMismatch
	}
	copy(dst, s.tail)
	s.status = StatusParametersExtracted
	return nil
}

// SendData sends a data message from addr carrying a typed object. The
// object size must exactly match the prototype; mismatches are a packing
// error and nothing is sent.
func (s *Session) SendData(addr Address, command, event, prototype byte, object []byte) error {
	proto, ok := LookupPrototype(prototype)
	if !ok || proto.Size() != len(object) {
		s.status = StatusPackingError
		return &PackError{Prototype: prototype, Size: len(object)}
	}
	var payload []byte
	if addr.IsKernel() {
		payload = append(payload, byte(KindKernelData), command, event, prototype)
	} else {
		payload = append(payload, byte(KindModuleData), addr.Type, addr.ID, command, event, prototype)
	}
	return s.send(append(payload, object...))
}

// SendState sends a state message from addr, an event code without an
// attached object.
func (s *Session) SendState(addr Address, command, event byte) error {
	if addr.IsKernel() {
		return s.send([]byte{byte(KindKernelState), command, event})
	}
	return s.send([]byte{byte(KindModuleState), addr.Type, addr.ID, command, event})
}

// SendCommError reports a communication failure to the host, attaching the
// session and transport statuses as a two-byte object. The attempt is best
// effort: its own failure is swallowed so an error path can never recurse.
func (s *Session) SendCommError(addr Address, command, event byte) {
	errs := []byte{byte(s.status), byte(s.transport.Status())}
	_ = s.SendData(addr, command, event, PrototypeTwoUint8s, errs)
}

// SendReceptionAck acknowledges a received message by echoing its return
// code.
func (s *Session) SendReceptionAck(code byte) error {
	return s.send([]byte{byte(KindReceptionAck), code})
}

// SendControllerID identifies the controller to the host.
func (s *Session) SendControllerID(id byte) error {
	return s.send([]byte{byte(KindControllerID), id})
}

// SendModuleID identifies one registered module to the host.
func (s *Session) SendModuleID(moduleType, moduleID byte) error {
	return s.send([]byte{byte(KindModuleID), moduleID, moduleType})
}

func (s *Session) send(payload []byte) error {
	if err := s.transport.Send(payload); err != nil {
		if err == transport.ErrPayloadTooLarge || err == transport.ErrPayloadEmpty {
			s.status = StatusPackingError
		} else {
			s.status = StatusTransmissionError
		}
		return err
	}
	s.status = StatusMessageSent
	return nil
}
