package link

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/goburrow/serial"
	"golang.org/x/net/websocket"
)

// wsOrigin is the origin announced to websocket endpoints.
const wsOrigin = "http://localhost/"

// Dial connects to a controller endpoint. Supported URL schemes:
//
//	tcp://host:port
//	serial:///dev/ttyUSB0?baud=115200
//	ws://host:port/path (also wss)
//	stdio:
func Dial(rawurl string) (*Port, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %v", err)
	}
	switch u.Scheme {
	case "tcp":
		conn, err := net.Dial("tcp", u.Host)
		if err != nil {
			return nil, err
		}
		return NewPort(conn), nil
	case "serial":
		port, err := openSerial(u)
		if err != nil {
			return nil, err
		}
		return NewPort(port), nil
	case "ws", "wss":
		conn, err := websocket.Dial(rawurl, "", wsOrigin)
		if err != nil {
			return nil, err
		}
		conn.PayloadType = websocket.BinaryFrame
		return NewPort(conn), nil
	case "stdio":
		return NewPort(stdioPipe{}), nil
	default:
		return nil, fmt.Errorf("unknown endpoint URL scheme: %q", u.Scheme)
	}
}

// Listen opens a listening endpoint for tcp:// URLs.
func Listen(rawurl string) (net.Listener, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL: %v", err)
	}
	if u.Scheme != "tcp" {
		return nil, fmt.Errorf("cannot listen on URL scheme: %q", u.Scheme)
	}
	return net.Listen("tcp", u.Host)
}

func openSerial(u *url.URL) (serial.Port, error) {
	device := u.Host + u.Path
	if device == "" {
		return nil, fmt.Errorf("serial device not specified")
	}
	config := serial.Config{
		Address:  device,
		BaudRate: 115200,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
	}
	if val := u.Query().Get("baud"); val != "" {
		baud, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid baud rate: %q", val)
		}
		config.BaudRate = baud
	}
	return serial.Open(&config)
}

type stdioPipe struct{}

func (stdioPipe) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioPipe) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioPipe) Close() error                { return os.Stdin.Close() }
