package module

import (
	"time"

	"github.com/robotalks/mcu.go/pkg/protocol"
)

// Module is the capability interface every hardware module implements.
// The kernel holds modules as a homogeneous collection and talks to them
// exclusively through it.
type Module interface {
	// Core exposes the module's execution engine.
	Core() *Core
	// Setup initializes the module hardware. It is invoked once at
	// startup and again on a controller-wide reset. Returning false
	// marks the controller setup as failed.
	Setup() bool
	// ApplyParameters consumes the parameter block of a module
	// parameters message addressed to this module.
	ApplyParameters() bool
	// RunActiveCommand performs one stage of the active command. It
	// returns false when the command code is not recognized.
	RunActiveCommand() bool
}

// Core event codes, reported with module telemetry. Codes 0 through 50
// are reserved for the engine; module-specific events use 51 and above.
const (
	EventStandby           byte = 0
	EventTransmissionError byte = 1
	EventCompleted         byte = 2
	EventUnknownCommand    byte = 3
	EventInvalidParameter  byte = 4
	EventParameterSet      byte = 5
	EventPinLocked         byte = 6
)

// CustomEventBase is the first event code available to module-specific
// telemetry.
const CustomEventBase byte = 51

// Core is the command execution state machine shared by all modules.
// The kernel mutates it when queuing commands; the owning module's
// command logic mutates it while running. Idle is command 0; stage is
// always 0 while idle and at least 1 while a command is active.
type Core struct {
	// Now is the time source, replaceable in tests.
	Now func() time.Time

	addr    protocol.Address
	session *protocol.Session
	locks   *protocol.RuntimeLocks

	command byte
	stage   byte
	noblock bool

	nextCommand byte
	nextNoBlock bool
	newCommand  bool

	runRecurrently bool
	recurrentDelay time.Duration

	recurrentMark time.Time
	stageMark     time.Time
}

// NewCore creates the execution engine for the module at addr. The locks
// pointer refers to the kernel-owned runtime locks and is only ever read
// here.
func NewCore(addr protocol.Address, session *protocol.Session, locks *protocol.RuntimeLocks) *Core {
	c := &Core{
		Now:     time.Now,
		addr:    addr,
		session: session,
		locks:   locks,
	}
	now := c.Now()
	c.recurrentMark = now
	c.stageMark = now
	return c
}

// Session returns the protocol session the core reports through.
func (c *Core) Session() *protocol.Session {
	return c.session
}

// Address returns the module's (type, id) address.
func (c *Core) Address() protocol.Address {
	return c.addr
}

// QueueCommand buffers a one-shot command for the next activation. A
// previously queued command is replaced; the slot holds at most one.
func (c *Core) QueueCommand(command byte, noblock bool) {
	c.nextCommand = command
	c.nextNoBlock = noblock
	c.runRecurrently = false
	c.recurrentDelay = 0
	c.newCommand = true
}

// QueueRecurrentCommand buffers a command that re-activates cyclically
// every cycleDelay once completed, until dequeued or replaced.
func (c *Core) QueueRecurrentCommand(command byte, noblock bool, cycleDelay time.Duration) {
	c.nextCommand = command
	c.nextNoBlock = noblock
	c.runRecurrently = true
	c.recurrentDelay = cycleDelay
	c.newCommand = true
}

// ResetQueue clears the next-command slot and the recurrence policy. An
// already active command is allowed to finish gracefully.
func (c *Core) ResetQueue() {
	c.nextCommand = 0
	c.nextNoBlock = false
	c.runRecurrently = false
	c.recurrentDelay = 0
	c.newCommand = false
}

// ResolveActiveCommand ensures the module has an active command when one
// is available. Preference order: finish the running command, then
// promote a new queued command, then re-promote a recurrent command once
// its cycle delay expires. It reports whether there is a command to run.
func (c *Core) ResolveActiveCommand() bool {
	if c.command != 0 {
		return true
	}
	// The next_command check also covers dequeued modules: Dequeue
	// clears the slot and thereby stops recurrent re-activation.
	if c.nextCommand == 0 {
		return false
	}
	if c.newCommand {
		c.activate()
		c.newCommand = false
		return true
	}
	if c.runRecurrently && c.Now().Sub(c.recurrentMark) > c.recurrentDelay {
		c.activate()
		return true
	}
	return false
}

// Stage 1 marks activation; stage 0 is reserved for the idle state.
func (c *Core) activate() {
	c.command = c.nextCommand
	c.noblock = c.nextNoBlock
	c.stage = 1
	c.stageMark = c.Now()
}

// ResetExecution force-resets the whole engine to its startup state,
// aborting the active command without telemetry. Used on controller
// reset.
func (c *Core) ResetExecution() {
	now := c.Now()
	c.command = 0
	c.stage = 0
	c.noblock = false
	c.nextCommand = 0
	c.nextNoBlock = false
	c.newCommand = false
	c.runRecurrently = false
	c.recurrentDelay = 0
	c.recurrentMark = now
	c.stageMark = now
}

// ActiveCommand returns the running command code, 0 when idle.
func (c *Core) ActiveCommand() byte {
	return c.command
}

// Stage returns the execution stage of the active command, 0 when idle.
func (c *Core) Stage() byte {
	if c.command == 0 {
		return 0
	}
	return c.stage
}

// NoBlock reports whether the active command runs in non-blocking mode.
func (c *Core) NoBlock() bool {
	return c.noblock
}

// AdvanceStage moves the active command to its next stage and restarts
// the stage delay timer.
func (c *Core) AdvanceStage() {
	c.stage++
	c.stageMark = c.Now()
}

// Complete ends the active command's execution. Every reachable exit
// path of command logic must end in Complete or Abort; omitting it
// deadlocks the module. Completion is reported to the host unless the
// command is a recurrent command that keeps cycling.
func (c *Core) Complete() {
	if c.newCommand || c.nextCommand == 0 || !c.runRecurrently {
		c.SendState(EventCompleted)
	}
	c.command = 0
	c.stage = 0
	c.recurrentMark = c.Now()
	if !c.newCommand && !c.runRecurrently {
		c.ResetQueue()
	}
}

// Abort ends the active command on the unrecoverable-failure path. If
// the aborted command is recurrent it is also dequeued so it will not
// re-activate until the host re-queues it.
func (c *Core) Abort() {
	if !c.newCommand {
		c.ResetQueue()
	}
	c.Complete()
}

// SendData reports an event with an attached typed object. Transmission
// failures fall back to a best-effort communication error report.
func (c *Core) SendData(event, prototype byte, object []byte) {
	if err := c.session.SendData(c.addr, c.command, event, prototype, object); err != nil {
		c.session.SendCommError(c.addr, c.command, EventTransmissionError)
	}
}

// SendState reports an event without an attached object.
func (c *Core) SendState(event byte) {
	if err := c.session.SendState(c.addr, c.command, event); err != nil {
		c.session.SendCommError(c.addr, c.command, EventTransmissionError)
	}
}

// SendUnknownCommand notifies the host that the active command code was
// not recognized by the module.
func (c *Core) SendUnknownCommand() {
	c.SendState(EventUnknownCommand)
}

// ExtractParameters copies the parameter block of the current module
// parameters message into dst via the session.
func (c *Core) ExtractParameters(dst []byte) bool {
	return c.session.ExtractParameters(dst) == nil
}

// ExtractParameterRecords extracts the current parameter block at whatever
// size it arrived and applies it as (id, value) records. See
// ApplyParameterRecords for the record semantics.
func (c *Core) ExtractParameterRecords(apply func(id byte, value uint32) bool) bool {
	block := make([]byte, c.session.ParameterSize())
	if !c.ExtractParameters(block) {
		return false
	}
	return c.ApplyParameterRecords(block, apply)
}
