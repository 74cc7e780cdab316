package transport

// Status reports the outcome of the most recent transport operation.
// Downstream components use it for flow control rather than inspecting
// error values, and it is echoed to the host inside error telemetry.
type Status byte

const (
	// StatusStandby is the initial status before any operation.
	StatusStandby Status = iota
	// StatusPacketSent means the last payload was framed and written.
	StatusPacketSent
	// StatusPacketReceived means a payload was decoded and validated.
	StatusPacketReceived
	// StatusNoBytes means the stream had no bytes to parse.
	StatusNoBytes
	// StatusStartByteNotFound means bytes were read but none was a start marker.
	StatusStartByteNotFound
	// StatusStallTimeout means the inter-byte stall timeout expired mid-packet.
	StatusStallTimeout
	// StatusInvalidSize means the length byte was outside the accepted bounds.
	StatusInvalidSize
	// StatusDelimiterNotFound means the packet body did not end with the delimiter.
	StatusDelimiterNotFound
	// StatusDelimiterFoundEarly means a delimiter appeared inside the encoded body.
	StatusDelimiterFoundEarly
	// StatusCRCMismatch means the recomputed checksum disagreed with the packet.
	StatusCRCMismatch
	// StatusPayloadTooLarge means an outbound payload exceeded the size cap.
	StatusPayloadTooLarge
	// StatusPayloadEmpty means an outbound payload had no bytes.
	StatusPayloadEmpty
)

var statusNames = map[Status]string{
	StatusStandby:             "standby",
	StatusPacketSent:          "packet sent",
	StatusPacketReceived:      "packet received",
	StatusNoBytes:             "no bytes to parse",
	StatusStartByteNotFound:   "start byte not found",
	StatusStallTimeout:        "stall timeout",
	StatusInvalidSize:         "invalid payload size",
	StatusDelimiterNotFound:   "delimiter not found",
	StatusDelimiterFoundEarly: "delimiter found early",
	StatusCRCMismatch:         "crc mismatch",
	StatusPayloadTooLarge:     "payload too large",
	StatusPayloadEmpty:        "payload empty",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}
