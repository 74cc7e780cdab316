// Package ctl provides console commands driving a connected controller.
package ctl

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mcu.go/pkg/cli/sh"
	"github.com/robotalks/mcu.go/pkg/kernel"
	"github.com/robotalks/mcu.go/pkg/protocol"
)

func kernelCommand(command byte) func(c *ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		s := sh.ShellFrom(c)
		msg := protocol.KernelCommand{
			ReturnCode: s.Conn.NextReceipt(),
			Command:    command,
		}
		s.Send(c, msg.Append(nil))
	})
}

func parseByte(c *ishell.Context, name, arg string) (byte, bool) {
	val, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		c.Err(fmt.Errorf("invalid %s: %v", name, err))
		return 0, false
	}
	return byte(val), true
}

func parseAddress(c *ishell.Context) (protocol.Address, bool) {
	var addr protocol.Address
	if len(c.Args) < 2 {
		c.Err(fmt.Errorf("TYPE and ID required"))
		return addr, false
	}
	var ok bool
	if addr.Type, ok = parseByte(c, "TYPE", c.Args[0]); !ok {
		return addr, false
	}
	if addr.ID, ok = parseByte(c, "ID", c.Args[1]); !ok {
		return addr, false
	}
	if addr.IsKernel() {
		c.Err(fmt.Errorf("TYPE must not be 0"))
		return addr, false
	}
	return addr, true
}

func hasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

var (
	// IdentifyCmd queries the controller ID.
	IdentifyCmd = ishell.Cmd{
		Name: "id",
		Help: "query the controller identity",
		Func: kernelCommand(kernel.CommandIdentifyController),
	}

	// ModulesCmd lists the registered modules.
	ModulesCmd = ishell.Cmd{
		Name:    "modules",
		Aliases: []string{"ls"},
		Help:    "list registered modules",
		Func:    kernelCommand(kernel.CommandIdentifyModules),
	}

	// ResetCmd resets the controller.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "reset the controller to its setup state",
		Func: kernelCommand(kernel.CommandReset),
	}

	// KeepaliveCmd arms or feeds the keepalive watchdog.
	KeepaliveCmd = ishell.Cmd{
		Name:    "keepalive",
		Aliases: []string{"ka"},
		Help:    "arm or feed the keepalive watchdog",
		Func:    kernelCommand(kernel.CommandKeepalive),
	}

	// RunCmd queues a one-off module command.
	RunCmd = ishell.Cmd{
		Name: "run",
		Help: "TYPE ID COMMAND [noblock]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			addr, ok := parseAddress(c)
			if !ok {
				return
			}
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("COMMAND required"))
				return
			}
			command, ok := parseByte(c, "COMMAND", c.Args[2])
			if !ok {
				return
			}
			s := sh.ShellFrom(c)
			msg := protocol.OneOffCommand{
				Address:    addr,
				ReturnCode: s.Conn.NextReceipt(),
				Command:    command,
				NoBlock:    hasFlag(c.Args[3:], "noblock"),
			}
			s.Send(c, msg.Append(nil))
		}),
	}

	// RepeatCmd queues a recurrent module command.
	RepeatCmd = ishell.Cmd{
		Name: "repeat",
		Help: "TYPE ID COMMAND DELAY(e.g. 250ms) [noblock]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			addr, ok := parseAddress(c)
			if !ok {
				return
			}
			if len(c.Args) < 4 {
				c.Err(fmt.Errorf("COMMAND and DELAY required"))
				return
			}
			command, ok := parseByte(c, "COMMAND", c.Args[2])
			if !ok {
				return
			}
			delay, err := time.ParseDuration(c.Args[3])
			if err != nil {
				c.Err(fmt.Errorf("invalid DELAY: %v", err))
				return
			}
			s := sh.ShellFrom(c)
			msg := protocol.RepeatedCommand{
				Address:    addr,
				ReturnCode: s.Conn.NextReceipt(),
				Command:    command,
				NoBlock:    hasFlag(c.Args[4:], "noblock"),
				CycleDelay: uint32(delay / time.Microsecond),
			}
			s.Send(c, msg.Append(nil))
		}),
	}

	// DequeueCmd clears a module command queue.
	DequeueCmd = ishell.Cmd{
		Name: "dequeue",
		Help: "TYPE ID",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			addr, ok := parseAddress(c)
			if !ok {
				return
			}
			s := sh.ShellFrom(c)
			msg := protocol.DequeueCommand{
				Address:    addr,
				ReturnCode: s.Conn.NextReceipt(),
			}
			s.Send(c, msg.Append(nil))
		}),
	}

	// ParamCmd pushes execution parameter records to a module.
	ParamCmd = ishell.Cmd{
		Name: "param",
		Help: "TYPE ID PARAM=VALUE ...",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			addr, ok := parseAddress(c)
			if !ok {
				return
			}
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("at least one PARAM=VALUE required"))
				return
			}
			var block []byte
			for _, arg := range c.Args[2:] {
				parts := strings.SplitN(arg, "=", 2)
				if len(parts) != 2 {
					c.Err(fmt.Errorf("expected PARAM=VALUE, got %q", arg))
					return
				}
				id, ok := parseByte(c, "PARAM", parts[0])
				if !ok {
					return
				}
				value, err := strconv.ParseUint(parts[1], 0, 32)
				if err != nil {
					c.Err(fmt.Errorf("invalid VALUE in %q: %v", arg, err))
					return
				}
				block = append(block, id)
				block = binary.LittleEndian.AppendUint32(block, uint32(value))
			}
			s := sh.ShellFrom(c)
			msg := protocol.ParametersHeader{
				Address:    addr,
				ReturnCode: s.Conn.NextReceipt(),
			}
			s.Send(c, msg.AppendParameters(nil, block))
		}),
	}

	// LockCmd toggles the controller runtime locks.
	LockCmd = ishell.Cmd{
		Name: "lock",
		Help: "action|ttl on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("usage: lock action|ttl on|off"))
				return
			}
			engaged := c.Args[1] == "on"
			if !engaged && c.Args[1] != "off" {
				c.Err(fmt.Errorf("expected on or off, got %q", c.Args[1]))
				return
			}
			s := sh.ShellFrom(c)
			switch c.Args[0] {
			case "action":
				s.Conn.Locks.ActionLock = engaged
			case "ttl":
				s.Conn.Locks.TTLLock = engaged
			default:
				c.Err(fmt.Errorf("expected action or ttl, got %q", c.Args[0]))
				return
			}
			msg := protocol.KernelParameters{
				ReturnCode: s.Conn.NextReceipt(),
				Locks:      s.Conn.Locks,
			}
			s.Send(c, msg.Append(nil))
		}),
	}
)

func init() {
	sh.AddCmds(
		&IdentifyCmd,
		&ModulesCmd,
		&ResetCmd,
		&KeepaliveCmd,
		&RunCmd,
		&RepeatCmd,
		&DequeueCmd,
		&ParamCmd,
		&LockCmd,
	)
}
