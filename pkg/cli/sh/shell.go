// Package sh provides the ishell backed interactive console speaking
// the controller wire protocol.
package sh

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mcu.go/pkg/link"
	"github.com/robotalks/mcu.go/pkg/protocol"
	"github.com/robotalks/mcu.go/pkg/transport"
)

// Shell provides an ishell backed interactive shell.
type Shell struct {
	Interactive bool

	Shell *ishell.Shell
	Conn  *Conn
}

// Conn is a live connection to one controller.
type Conn struct {
	URL       string
	Port      *link.Port
	Transport *transport.Transport
	Cancel    func()

	// Locks mirrors the runtime locks last pushed to the controller.
	Locks protocol.RuntimeLocks

	receipt byte
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
	pollInterval      = 10 * time.Millisecond
)

var (
	// flags

	evalOnly bool
	endpoint string

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&endpoint, "endpoint", endpoint, "Controller endpoint URL to connect at startup.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps a command func requiring a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// NextReceipt returns the next non-zero return code receipt.
func (c *Conn) NextReceipt() byte {
	c.receipt++
	if c.receipt == 0 {
		c.receipt = 1
	}
	return c.receipt
}

// Connect connects to the controller at rawurl.
func (s *Shell) Connect(rawurl string) error {
	port, err := link.Dial(rawurl)
	if err != nil {
		return err
	}
	conn := &Conn{
		URL:       rawurl,
		Port:      port,
		Transport: transport.New(port),
		Locks:     protocol.DefaultRuntimeLocks(),
	}
	var ctx context.Context
	ctx, conn.Cancel = context.WithCancel(context.Background())
	s.Disconnect()
	s.Conn = conn
	go s.watch(ctx, conn)
	s.Shell.SetPrompt(rawurl + " > ")
	return nil
}

// Disconnect disconnects the current controller.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		s.Conn.Port.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Send frames payload to the connected controller.
func (s *Shell) Send(c *ishell.Context, payload []byte) {
	if err := s.Conn.Transport.Send(payload); err != nil {
		c.Err(err)
	}
}

// watch prints controller telemetry as it arrives. It receives over its
// own transport so the command senders never share reception state.
func (s *Shell) watch(ctx context.Context, conn *Conn) {
	rx := transport.New(conn.Port)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		payload, err := rx.Receive()
		if err == transport.ErrNoData {
			if conn.Port.Err() != nil {
				s.Shell.Printf("\n%s: connection lost: %v\n", conn.URL, conn.Port.Err())
				return
			}
			time.Sleep(pollInterval)
			continue
		}
		if err != nil {
			s.Shell.Printf("\nreceive error: %v\n", err)
			continue
		}
		msg, err := protocol.Decode(payload)
		if err != nil {
			s.Shell.Printf("\nbad message: %v\n", err)
			continue
		}
		s.Shell.Printf("\n%s\n", Format(msg))
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if endpoint != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", endpoint)
		}
		if err := s.Connect(endpoint); err != nil {
			log.Fatalf("connect %q failed: %v", endpoint, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		s.Disconnect()
		return
	}
	log.Fatalln("command expected")
}

// Main is the entry point shared by console binaries.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}

var (
	// ConnectCmd connects a controller endpoint.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "URL (tcp://host:port, serial:///dev/ttyUSB0?baud=115200, ws://host:port/path)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("URL required"))
				return
			}
			if err := ShellFrom(c).Connect(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd drops the current connection.
	DisconnectCmd = ishell.Cmd{
		Name: "disconnect",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)
