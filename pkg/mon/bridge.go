package mon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/mcu.go/pkg/link"
	"github.com/robotalks/mcu.go/pkg/protocol"
	"github.com/robotalks/mcu.go/pkg/transport"
)

// pollInterval paces the receive loop while the pipe is idle.
const pollInterval = 10 * time.Millisecond

// Bridge publishes controller telemetry to the broker and forwards raw
// wire payloads from the command topic back to the controller.
type Bridge struct {
	Queue *Queue
	Port  *link.Port

	transport *transport.Transport
}

// NewBridge creates a Bridge between a controller port and a queue.
func NewBridge(queue *Queue, port *link.Port) *Bridge {
	return &Bridge{Queue: queue, Port: port, transport: transport.New(port)}
}

// Run implements framework.Runnable. It stops when the controller pipe
// dies or the context is canceled.
func (b *Bridge) Run(ctx context.Context) error {
	// Forwarding runs on the broker's goroutine; it gets its own
	// transport so reception state is never shared.
	tx := transport.New(b.Port)
	b.Queue.Sub("cmd", func(topic string, payload []byte) {
		if err := tx.Send(payload); err != nil {
			glog.Errorf("forward command failed: %v", err)
		}
	})
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		payload, err := b.transport.Receive()
		if err == transport.ErrNoData {
			if err := b.Port.Err(); err != nil {
				return fmt.Errorf("controller pipe: %v", err)
			}
			time.Sleep(pollInterval)
			continue
		}
		if err != nil {
			glog.Warningf("receive error: %v", err)
			continue
		}
		msg, err := protocol.Decode(payload)
		if err != nil {
			glog.Warningf("bad message: %v", err)
			continue
		}
		b.publish(msg)
	}
}

func (b *Bridge) publish(msg interface{}) {
	out, err := json.Marshal(envelope(msg))
	if err != nil {
		glog.Errorf("encode message: %v", err)
		return
	}
	topic := topicFor(msg)
	glog.V(2).Infof("PUB %q %s", topic, out)
	b.Queue.Pub(topic, out)
}

// topicFor maps a decoded message to its telemetry topic.
func topicFor(msg interface{}) string {
	switch m := msg.(type) {
	case protocol.ModuleState:
		return fmt.Sprintf("module/%d/%d/state", m.Address.Type, m.Address.ID)
	case protocol.ModuleData:
		return fmt.Sprintf("module/%d/%d/data", m.Address.Type, m.Address.ID)
	case protocol.KernelState:
		return "kernel/state"
	case protocol.KernelData:
		return "kernel/data"
	case protocol.ReceptionAck:
		return "ack"
	case protocol.ControllerID:
		return "id"
	case protocol.ModuleID:
		return "modules"
	default:
		return "other"
	}
}

// envelope augments data messages with their decoded element values.
func envelope(msg interface{}) interface{} {
	switch m := msg.(type) {
	case protocol.ModuleData:
		vals, err := m.Prototype.Values(m.Object)
		if err != nil {
			return m
		}
		return struct {
			protocol.ModuleData
			Values []interface{}
		}{m, vals}
	case protocol.KernelData:
		vals, err := m.Prototype.Values(m.Object)
		if err != nil {
			return m
		}
		return struct {
			protocol.KernelData
			Values []interface{}
		}{m, vals}
	default:
		return msg
	}
}
