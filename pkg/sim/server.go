package sim

import (
	"context"
	"net/url"

	"github.com/golang/glog"

	fx "github.com/robotalks/mcu.go/pkg/framework"
	"github.com/robotalks/mcu.go/pkg/kernel"
	"github.com/robotalks/mcu.go/pkg/link"
	"github.com/robotalks/mcu.go/pkg/protocol"
	"github.com/robotalks/mcu.go/pkg/transport"
)

// NewKernel builds a controller runtime over stream per the config.
func (c *Config) NewKernel(stream transport.Stream) (*kernel.Kernel, error) {
	session := protocol.NewSession(transport.New(stream))
	k := kernel.New(kernel.Config{
		ControllerID:      c.controllerID(),
		KeepaliveInterval: c.KeepaliveInterval,
		Interval:          c.Interval,
	}, session)
	for _, mc := range c.Modules {
		mod, err := mc.build(session, k.Locks())
		if err != nil {
			return nil, err
		}
		k.Register(mod)
	}
	return k, nil
}

// Server serves a simulated controller at an endpoint URL. tcp URLs
// accept one client at a time; other schemes dial out once and serve
// until the pipe dies.
type Server struct {
	Config *Config
	URL    string
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	u, err := url.Parse(s.URL)
	if err != nil {
		return err
	}
	if u.Scheme == "tcp" {
		return s.serveListener(ctx)
	}
	port, err := link.Dial(s.URL)
	if err != nil {
		return err
	}
	if err := s.serve(ctx, port); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Server) serveListener(ctx context.Context) error {
	ln, err := link.Listen(s.URL)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	glog.Infof("listening on %s", s.URL)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		glog.Infof("client connected: %s", conn.RemoteAddr())
		if err := s.serve(ctx, link.NewPort(conn)); err != nil {
			return err
		}
		glog.Info("client disconnected")
	}
}

// serve runs the controller over port until the pipe dies or ctx is
// canceled. A dead pipe is not an error. Cancellation closes the port,
// which kills the pipe and stops the controller through the same path.
func (s *Server) serve(ctx context.Context, port *link.Port) error {
	k, err := s.Config.NewKernel(port)
	if err != nil {
		port.Close()
		return err
	}
	err = fx.RunWithContextCloser(ctx, port, func() error {
		runCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			<-port.Done()
			cancel()
		}()
		return k.Run(runCtx)
	})
	if err == context.Canceled {
		return ctx.Err()
	}
	return err
}
