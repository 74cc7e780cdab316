package protocol

// Kind is the message discriminator, the first byte of every payload.
type Kind byte

// Message discriminators. Kinds 1 through 6 are inbound (host to
// controller), the rest are outbound.
const (
	// KindInvalid is not a valid discriminator and is used as the
	// initializer. Receiving it is always an error.
	KindInvalid Kind = 0
	// KindRepeatedCommand queues a module command that re-activates
	// cyclically after a configured delay.
	KindRepeatedCommand Kind = 1
	// KindOneOffCommand queues a module command for a single execution.
	KindOneOffCommand Kind = 2
	// KindDequeueCommand clears a module's queued command.
	KindDequeueCommand Kind = 3
	// KindKernelCommand requests a kernel command. Kernel commands are
	// always one-shot and run synchronously.
	KindKernelCommand Kind = 4
	// KindModuleParameters carries a module-defined parameter block
	// behind a fixed addressing header.
	KindModuleParameters Kind = 5
	// KindKernelParameters overwrites the global runtime locks.
	KindKernelParameters Kind = 6
	// KindModuleData is module telemetry with an attached typed object.
	KindModuleData Kind = 7
	// KindKernelData is kernel telemetry with an attached typed object.
	KindKernelData Kind = 8
	// KindModuleState is module telemetry without an attached object.
	KindModuleState Kind = 9
	// KindKernelState is kernel telemetry without an attached object.
	KindKernelState Kind = 10
	// KindReceptionAck acknowledges reception of a command or parameter
	// message by echoing its return code.
	KindReceptionAck Kind = 11
	// KindControllerID identifies the controller to the host.
	KindControllerID Kind = 12
	// KindModuleID identifies one registered module to the host.
	KindModuleID Kind = 13
)

var kindNames = map[Kind]string{
	KindInvalid:          "invalid",
	KindRepeatedCommand:  "repeated-command",
	KindOneOffCommand:    "one-off-command",
	KindDequeueCommand:   "dequeue-command",
	KindKernelCommand:    "kernel-command",
	KindModuleParameters: "module-parameters",
	KindKernelParameters: "kernel-parameters",
	KindModuleData:       "module-data",
	KindKernelData:       "kernel-data",
	KindModuleState:      "module-state",
	KindKernelState:      "kernel-state",
	KindReceptionAck:     "reception-ack",
	KindControllerID:     "controller-id",
	KindModuleID:         "module-id",
}

// String returns a readable discriminator name.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Status reports the outcome of the most recent Session operation.
type Status byte

// Session status codes.
const (
	StatusStandby Status = iota
	StatusMessageSent
	StatusMessageReceived
	StatusReceptionError
	StatusParsingError
	StatusPackingError
	StatusTransmissionError
	StatusInvalidProtocol
	StatusNoBytesToReceive
	StatusParameterMismatch
	StatusParametersExtracted
	StatusExtractionForbidden
)

var statusNames = map[Status]string{
	StatusStandby:             "standby",
	StatusMessageSent:         "message-sent",
	StatusMessageReceived:     "message-received",
	StatusReceptionError:      "reception-error",
	StatusParsingError:        "parsing-error",
	StatusPackingError:        "packing-error",
	StatusTransmissionError:   "transmission-error",
	StatusInvalidProtocol:     "invalid-protocol",
	StatusNoBytesToReceive:    "no-bytes-to-receive",
	StatusParameterMismatch:   "parameter-mismatch",
	StatusParametersExtracted: "parameters-extracted",
	StatusExtractionForbidden: "extraction-forbidden",
}

// String returns a readable status name.
func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}
