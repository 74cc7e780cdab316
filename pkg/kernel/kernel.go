package kernel

import (
	"encoding/binary"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mcu.go/pkg/module"
	"github.com/robotalks/mcu.go/pkg/protocol"
	"github.com/robotalks/mcu.go/pkg/transport"
)

// Config carries kernel construction parameters.
type Config struct {
	// ControllerID is the unique identifier reported to the host.
	ControllerID byte
	// KeepaliveInterval bounds the gap between host keepalive
	// commands once the watchdog is armed. Zero disables the
	// mechanism entirely.
	KeepaliveInterval time.Duration
	// Interval is the scheduler tick period used by Run.
	Interval time.Duration
}

// Kernel is the dispatcher owning the controller runtime. It is the
// sole writer of the runtime locks every module reads.
type Kernel struct {
	// Now is the time source, replaceable in tests.
	Now func() time.Time

	config  Config
	session *protocol.Session
	modules []module.Module
	locks   protocol.RuntimeLocks

	// command is the active kernel command, tagged onto kernel
	// telemetry.
	command byte

	setupDone   bool
	setupLogged bool

	keepaliveOn   bool
	keepaliveMark time.Time
}

// New creates a Kernel over a session. Modules are registered afterwards
// with Register, wired to the kernel's locks via Locks.
func New(config Config, session *protocol.Session) *Kernel {
	return &Kernel{
		Now:     time.Now,
		config:  config,
		session: session,
		locks:   protocol.DefaultRuntimeLocks(),
	}
}

// Locks exposes the runtime locks for wiring module cores. Modules only
// ever read through this pointer.
func (k *Kernel) Locks() *protocol.RuntimeLocks {
	return &k.locks
}

// Register adds modules to the managed set. The (type, id) pair of each
// module must be unique within one kernel.
func (k *Kernel) Register(modules ...module.Module) {
	k.modules = append(k.modules, modules...)
}

// Setup initializes every managed module and the kernel's own state.
// A module setup failure is reported to the host and leaves the
// controller bricked: Cycle refuses to run until Setup succeeds.
func (k *Kernel) Setup() bool {
	k.command = CommandReset
	k.setupDone = false
	for _, m := range k.modules {
		core := m.Core()
		if !m.Setup() {
			addr := core.Address()
			glog.Errorf("module (%d,%d) setup failed", addr.Type, addr.ID)
			k.sendData(StatusModuleSetupError, protocol.PrototypeTwoUint8s, []byte{addr.Type, addr.ID})
			return false
		}
		core.ResetExecution()
	}
	k.locks = protocol.DefaultRuntimeLocks()
	k.keepaliveOn = false
	k.setupDone = true
	k.sendState(StatusSetupComplete)
	return true
}

// Cycle carries out one scheduler tick: drain and dispatch all inbound
// messages, then offer every module one command execution step, then
// check the keepalive watchdog.
func (k *Kernel) Cycle() {
	if !k.setupDone {
		if !k.setupLogged {
			glog.Error("cycle invoked before successful setup")
			k.setupLogged = true
		}
		return
	}

	k.command = CommandReceiveData
	for k.receiveOne() {
	}

	k.runModules()

	if k.keepaliveOn && k.Now().Sub(k.keepaliveMark) > k.config.KeepaliveInterval {
		glog.Warningf("keepalive missed after %v, resetting", k.config.KeepaliveInterval)
		interval := binary.LittleEndian.AppendUint32(nil, uint32(k.config.KeepaliveInterval/time.Millisecond))
		k.sendData(StatusKeepaliveTimeout, protocol.PrototypeOneUint32, interval)
		k.Setup()
	}
}

// receiveOne pulls and dispatches a single message. It reports whether
// the reception loop should keep going.
func (k *Kernel) receiveOne() bool {
	kind, err := k.session.Receive()
	if err != nil {
		// An idle link is not an error, simply nothing to do.
		if err == transport.ErrNoData {
			return false
		}
		// An unknown discriminator is echoed back and does not stop
		// the reception loop; later messages may still be valid.
		if ike, ok := err.(*protocol.InvalidKindError); ok {
			k.sendData(StatusInvalidProtocol, protocol.PrototypeOneUint8, []byte{ike.Code})
			return true
		}
		glog.V(2).Infof("reception failed: %v", err)
		k.session.SendCommError(protocol.Address{}, k.command, StatusReceptionError)
		return false
	}

	switch kind {
	case protocol.KindRepeatedCommand:
		msg := k.session.Repeated()
		k.ack(msg.ReturnCode)
		if target := k.resolveTarget(msg.Address); target != nil {
			delay := time.Duration(msg.CycleDelay) * time.Microsecond
			target.Core().QueueRecurrentCommand(msg.Command, msg.NoBlock, delay)
		}
	case protocol.KindOneOffCommand:
		msg := k.session.OneOff()
		k.ack(msg.ReturnCode)
		if target := k.resolveTarget(msg.Address); target != nil {
			target.Core().QueueCommand(msg.Command, msg.NoBlock)
		}
	case protocol.KindDequeueCommand:
		msg := k.session.Dequeue()
		k.ack(msg.ReturnCode)
		if target := k.resolveTarget(msg.Address); target != nil {
			// Clears the queue only; an already active command is
			// allowed to finish gracefully.
			target.Core().ResetQueue()
		}
	case protocol.KindKernelCommand:
		msg := k.session.KernelCommand()
		k.ack(msg.ReturnCode)
		k.runKernelCommand(msg.Command)
	case protocol.KindModuleParameters:
		msg := k.session.ParametersHeader()
		k.ack(msg.ReturnCode)
		if target := k.resolveTarget(msg.Address); target != nil {
			if target.ApplyParameters() {
				k.sendState(StatusParametersSet)
			} else {
				k.sendData(StatusParametersError, protocol.PrototypeTwoUint8s,
					[]byte{msg.Address.Type, msg.Address.ID})
			}
		}
	case protocol.KindKernelParameters:
		msg := k.session.KernelParameters()
		k.ack(msg.ReturnCode)
		k.locks = msg.Locks
		k.sendState(StatusParametersSet)
	}
	return true
}

// ack acknowledges reception when the host asked for a receipt by
// setting a non-zero return code.
func (k *Kernel) ack(returnCode byte) {
	if returnCode != 0 {
		if err := k.session.SendReceptionAck(returnCode); err != nil {
			glog.V(2).Infof("reception ack failed: %v", err)
		}
	}
}

// resolveTarget finds the registered module addressed by addr. A miss is
// echoed back to the host with the unmatched pair as error data.
func (k *Kernel) resolveTarget(addr protocol.Address) module.Module {
	for _, m := range k.modules {
		if m.Core().Address() == addr {
			return m
		}
	}
	k.sendData(StatusTargetNotFound, protocol.PrototypeTwoUint8s, []byte{addr.Type, addr.ID})
	return nil
}

// runKernelCommand executes a host-requested kernel command. Command 0
// is a valid no-op.
func (k *Kernel) runKernelCommand(command byte) {
	if command == 0 {
		return
	}
	k.command = command
	switch command {
	case CommandReset:
		k.Setup()
	case CommandIdentifyController:
		if err := k.session.SendControllerID(k.config.ControllerID); err != nil {
			glog.V(2).Infof("controller identification failed: %v", err)
		}
	case CommandIdentifyModules:
		for _, m := range k.modules {
			addr := m.Core().Address()
			if err := k.session.SendModuleID(addr.Type, addr.ID); err != nil {
				glog.V(2).Infof("module identification failed: %v", err)
			}
		}
	case CommandKeepalive:
		if !k.keepaliveOn && k.config.KeepaliveInterval > 0 {
			k.keepaliveOn = true
		}
		k.keepaliveMark = k.Now()
	default:
		k.sendState(StatusCommandUnknown)
	}
}

// runModules offers every module one activation attempt and one command
// execution step.
func (k *Kernel) runModules() {
	for _, m := range k.modules {
		if !m.Core().ResolveActiveCommand() {
			continue
		}
		if !m.RunActiveCommand() {
			m.Core().SendUnknownCommand()
		}
	}
}

func (k *Kernel) sendData(event, prototype byte, object []byte) {
	if err := k.session.SendData(protocol.Address{}, k.command, event, prototype, object); err != nil {
		k.session.SendCommError(protocol.Address{}, k.command, StatusTransmissionError)
	}
}

func (k *Kernel) sendState(event byte) {
	if err := k.session.SendState(protocol.Address{}, k.command, event); err != nil {
		k.session.SendCommError(protocol.Address{}, k.command, StatusTransmissionError)
	}
}
