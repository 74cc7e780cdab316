package transport

// Framing constants shared by both ends of the link.
const (
	// StartByte marks the beginning of every packet.
	StartByte byte = 129
	// Delimiter terminates the encoded packet body. The escaping transform
	// guarantees it appears exactly once per packet.
	Delimiter byte = 0
	// MaxPayload is the hard cap on payload length imposed by the
	// single-byte escaping scheme.
	MaxPayload = 254
	// frameOverhead is the framing cost beyond the payload itself:
	// start, length, overhead byte, delimiter and two CRC bytes.
	frameOverhead = 6
)

// encodeBody applies the delimiter-escaping transform to payload, producing
// the packet body: an overhead byte, the escaped payload and the trailing
// delimiter. Every delimiter value inside the payload is rewritten as the
// distance to the next one, chained from the overhead byte.
func encodeBody(payload []byte) []byte {
	body := make([]byte, len(payload)+2)
	codeIdx, code := 0, byte(1)
	j := 1
	for _, b := range payload {
		if b == Delimiter {
			body[codeIdx] = code
			codeIdx, code = j, 1
		} else {
			body[j] = b
			code++
		}
		j++
	}
	body[codeIdx] = code
	body[len(body)-1] = Delimiter
	return body
}

// decodeBody reverses encodeBody. The input must span the overhead byte
// through the delimiter. It returns the restored payload, or a framing
// status when the delimiter chain is inconsistent.
func decodeBody(body []byte) ([]byte, Status) {
	if len(body) < 2 || body[len(body)-1] != Delimiter {
		return nil, StatusDelimiterNotFound
	}
	payload := make([]byte, len(body)-2)
	copy(payload, body[1:len(body)-1])

	// Walk the escape chain, restoring delimiter values. The chain must
	// land exactly on the trailing delimiter.
	idx := 0
	for {
		code := body[idx]
		if code == Delimiter {
			return nil, StatusDelimiterFoundEarly
		}
		next := idx + int(code)
		if next > len(body)-1 {
			return nil, StatusDelimiterNotFound
		}
		if next == len(body)-1 {
			return payload, StatusPacketReceived
		}
		payload[next-1] = Delimiter
		idx = next
	}
}

// Encode frames payload into a complete packet ready for transmission.
func Encode(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrPayloadEmpty
	}
	if len(payload) > MaxPayload {
		return nil, ErrPayloadTooLarge
	}
	body := encodeBody(payload)
	pkt := make([]byte, 0, len(body)+4)
	pkt = append(pkt, StartByte, byte(len(payload)))
	pkt = append(pkt, body...)
	crc := Checksum(body)
	pkt = append(pkt, byte(crc>>8), byte(crc))
	return pkt, nil
}
