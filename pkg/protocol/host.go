package protocol

// Host-side message views. The controller only ever sends these kinds;
// host tools decode them from raw transport payloads with Decode.

// ModuleData is module telemetry carrying a typed object.
type ModuleData struct {
	Address   Address
	Command   byte
	Event     byte
	Prototype Prototype
	Object    []byte
}

// KernelData is kernel telemetry carrying a typed object.
type KernelData struct {
	Command   byte
	Event     byte
	Prototype Prototype
	Object    []byte
}

// ModuleState is module telemetry without an attached object.
type ModuleState struct {
	Address Address
	Command byte
	Event   byte
}

// KernelState is kernel telemetry without an attached object.
type KernelState struct {
	Command byte
	Event   byte
}

// ReceptionAck echoes the return code of a received command or parameter
// message.
type ReceptionAck struct {
	Code byte
}

// ControllerID identifies a controller.
type ControllerID struct {
	ID byte
}

// ModuleID identifies one registered module.
type ModuleID struct {
	Type byte
	ID   byte
}

// Decode interprets one transport payload as a message of any kind and
// returns the matching typed view. Object bytes of data messages are
// sliced from payload, not copied.
func Decode(payload []byte) (interface{}, error) {
	if len(payload) == 0 {
		return nil, &ParseError{Kind: KindInvalid, Size: 0}
	}
	kind := Kind(payload[0])
	switch kind {
	case KindRepeatedCommand:
		if len(payload) != repeatedCommandSize {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		var m RepeatedCommand
		m.unpack(payload)
		return m, nil
	case KindOneOffCommand:
		if len(payload) != oneOffCommandSize {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		var m OneOffCommand
		m.unpack(payload)
		return m, nil
	case KindDequeueCommand:
		if len(payload) != dequeueCommandSize {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		var m DequeueCommand
		m.unpack(payload)
		return m, nil
	case KindKernelCommand:
		if len(payload) != kernelCommandSize {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		var m KernelCommand
		m.unpack(payload)
		return m, nil
	case KindModuleParameters:
		if len(payload) < parametersHeaderSize {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		var m ParametersHeader
		m.unpack(payload)
		return m, nil
	case KindKernelParameters:
		if len(payload) != kernelParametersSize {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		var m KernelParameters
		m.unpack(payload)
		return m, nil
	case KindModuleData:
		if len(payload) < 6 {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		proto, err := decodeObject(kind, payload[5], payload[6:])
		if err != nil {
			return nil, err
		}
		return ModuleData{
			Address:   Address{Type: payload[1], ID: payload[2]},
			Command:   payload[3],
			Event:     payload[4],
			Prototype: proto,
			Object:    payload[6:],
		}, nil
	case KindKernelData:
		if len(payload) < 4 {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		proto, err := decodeObject(kind, payload[3], payload[4:])
		if err != nil {
			return nil, err
		}
		return KernelData{
			Command:   payload[1],
			Event:     payload[2],
			Prototype: proto,
			Object:    payload[4:],
		}, nil
	case KindModuleState:
		if len(payload) != 5 {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		return ModuleState{
			Address: Address{Type: payload[1], ID: payload[2]},
			Command: payload[3],
			Event:   payload[4],
		}, nil
	case KindKernelState:
		if len(payload) != 3 {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		return KernelState{Command: payload[1], Event: payload[2]}, nil
	case KindReceptionAck:
		if len(payload) != 2 {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		return ReceptionAck{Code: payload[1]}, nil
	case KindControllerID:
		if len(payload) != 2 {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		return ControllerID{ID: payload[1]}, nil
	case KindModuleID:
		if len(payload) != 3 {
			return nil, &ParseError{Kind: kind, Size: len(payload)}
		}
		return ModuleID{Type: payload[2], ID: payload[1]}, nil
	default:
		return nil, &InvalidKindError{Code: payload[0]}
	}
}

func decodeObject(kind Kind, code byte, object []byte) (Prototype, error) {
	proto, ok := LookupPrototype(code)
	if !ok || proto.Size() != len(object) {
		return Prototype{}, &ParseError{Kind: kind, Size: len(object)}
	}
	return proto, nil
}
