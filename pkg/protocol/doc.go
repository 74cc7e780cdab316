// Package protocol defines the fixed binary layouts of every message kind
// carried inside a transport payload and packs/unpacks them.
//
// The first payload byte of every message is a discriminator (Kind) that
// selects the layout of the bytes that follow. Inbound kinds carry commands
// and parameters from the host; outbound kinds carry telemetry and service
// codes back. Data messages self-describe their attached object with a
// one-byte prototype code so the host can deserialize it without an
// out-of-band schema.
//
// Session pairs the codec with a transport.Transport and tracks an explicit
// status code after every operation; flow control downstream is driven by
// that status, never by inspecting errors.
package protocol
