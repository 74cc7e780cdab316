package protocol

import (
	"encoding/binary"
)

// Address identifies a message target or source. The zero Address refers to
// the kernel itself; module addresses carry a non-zero type code paired
// with an instance id.
type Address struct {
	Type byte
	ID   byte
}

// IsKernel reports whether the address refers to the kernel.
func (a Address) IsKernel() bool {
	return a.Type == 0
}

// Fixed payload sizes per discriminator, including the discriminator byte.
const (
	repeatedCommandSize  = 10
	oneOffCommandSize    = 6
	dequeueCommandSize   = 4
	kernelCommandSize    = 3
	parametersHeaderSize = 4
	kernelParametersSize = 2 + runtimeLocksSize
)

// RepeatedCommand queues a module command that re-activates cyclically
// every CycleDelay microseconds until dequeued.
type RepeatedCommand struct {
	Address    Address
	ReturnCode byte
	Command    byte
	NoBlock    bool
	CycleDelay uint32
}

// Append encodes the message payload, discriminator first.
func (m RepeatedCommand) Append(dst []byte) []byte {
	dst = append(dst, byte(KindRepeatedCommand),
		m.Address.Type, m.Address.ID, m.ReturnCode, m.Command, boolByte(m.NoBlock))
	return binary.LittleEndian.AppendUint32(dst, m.CycleDelay)
}

func (m *RepeatedCommand) unpack(p []byte) {
	m.Address = Address{Type: p[1], ID: p[2]}
	m.ReturnCode = p[3]
	m.Command = p[4]
	m.NoBlock = p[5] != 0
	m.CycleDelay = binary.LittleEndian.Uint32(p[6:])
}

// OneOffCommand queues a module command for a single execution.
type OneOffCommand struct {
	Address    Address
	ReturnCode byte
	Command    byte
	NoBlock    bool
}

// Append encodes the message payload, discriminator first.
func (m OneOffCommand) Append(dst []byte) []byte {
	return append(dst, byte(KindOneOffCommand),
		m.Address.Type, m.Address.ID, m.ReturnCode, m.Command, boolByte(m.NoBlock))
}

func (m *OneOffCommand) unpack(p []byte) {
	m.Address = Address{Type: p[1], ID: p[2]}
	m.ReturnCode = p[3]
	m.Command = p[4]
	m.NoBlock = p[5] != 0
}

// DequeueCommand clears the addressed module's queued command.
type DequeueCommand struct {
	Address    Address
	ReturnCode byte
}

// Append encodes the message payload, discriminator first.
func (m DequeueCommand) Append(dst []byte) []byte {
	return append(dst, byte(KindDequeueCommand), m.Address.Type, m.Address.ID, m.ReturnCode)
}

func (m *DequeueCommand) unpack(p []byte) {
	m.Address = Address{Type: p[1], ID: p[2]}
	m.ReturnCode = p[3]
}

// KernelCommand requests a one-shot kernel command.
type KernelCommand struct {
	ReturnCode byte
	Command    byte
}

// Append encodes the message payload, discriminator first.
func (m KernelCommand) Append(dst []byte) []byte {
	return append(dst, byte(KindKernelCommand), m.ReturnCode, m.Command)
}

func (m *KernelCommand) unpack(p []byte) {
	m.ReturnCode = p[1]
	m.Command = p[2]
}

// ParametersHeader is the fixed addressing header of a module parameters
// message. The parameter block that follows is module-defined and is
// consumed separately via ExtractParameters.
type ParametersHeader struct {
	Address    Address
	ReturnCode byte
}

// AppendParameters encodes a module parameters message carrying the given
// parameter block.
func (m ParametersHeader) AppendParameters(dst, block []byte) []byte {
	dst = append(dst, byte(KindModuleParameters), m.Address.Type, m.Address.ID, m.ReturnCode)
	return append(dst, block...)
}

func (m *ParametersHeader) unpack(p []byte) {
	m.Address = Address{Type: p[1], ID: p[2]}
	m.ReturnCode = p[3]
}

// KernelParameters overwrites the global runtime locks verbatim.
type KernelParameters struct {
	ReturnCode byte
	Locks      RuntimeLocks
}

// Append encodes the message payload, discriminator first.
func (m KernelParameters) Append(dst []byte) []byte {
	dst = append(dst, byte(KindKernelParameters), m.ReturnCode)
	return m.Locks.append(dst)
}

func (m *KernelParameters) unpack(p []byte) {
	m.ReturnCode = p[1]
	m.Locks.unpack(p[2:])
}
