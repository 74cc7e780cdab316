// Package transport provides the packet framing layer used between the
// controller runtime and the host computer.
package transport

// The transport layer turns a raw, possibly noisy byte stream into discrete,
// integrity-checked payloads and back. Each packet is framed as:
//
//	START(1) | LENGTH(1) | OVERHEAD(1) | ENCODED PAYLOAD(LENGTH) | DELIMITER(1) | CRC16(2)
//
// The body (overhead byte through delimiter) is delimiter-escaped so the
// delimiter value appears exactly once, at the true end of the packet. The
// CRC-16 (poly 0x1021, init 0xFFFF, no final xor) covers the encoded body and
// is appended big-endian.
//
// The layer has no knowledge of message semantics. Reception never blocks
// indefinitely: once a packet starts, a configurable stall timeout bounds the
// gap between consecutive bytes.
//
// Producer: controller runtime and host tools
// Consumer: protocol layer
