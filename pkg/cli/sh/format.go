package sh

import (
	"fmt"
	"strings"

	"github.com/robotalks/mcu.go/pkg/protocol"
)

// Format renders a decoded controller message for display.
func Format(msg interface{}) string {
	switch m := msg.(type) {
	case protocol.ModuleState:
		return fmt.Sprintf("module(%d,%d) command=%d event=%d",
			m.Address.Type, m.Address.ID, m.Command, m.Event)
	case protocol.ModuleData:
		return fmt.Sprintf("module(%d,%d) command=%d event=%d %s",
			m.Address.Type, m.Address.ID, m.Command, m.Event,
			formatObject(m.Prototype, m.Object))
	case protocol.KernelState:
		return fmt.Sprintf("kernel command=%d status=%d", m.Command, m.Event)
	case protocol.KernelData:
		return fmt.Sprintf("kernel command=%d status=%d %s",
			m.Command, m.Event, formatObject(m.Prototype, m.Object))
	case protocol.ReceptionAck:
		return fmt.Sprintf("ack receipt=%d", m.Code)
	case protocol.ControllerID:
		return fmt.Sprintf("controller id=%d", m.ID)
	case protocol.ModuleID:
		return fmt.Sprintf("registered module(%d,%d)", m.Type, m.ID)
	default:
		return fmt.Sprintf("%#v", msg)
	}
}

func formatObject(proto protocol.Prototype, object []byte) string {
	vals, err := proto.Values(object)
	if err != nil {
		return fmt.Sprintf("object=%x", object)
	}
	parts := make([]string, len(vals))
	for n, val := range vals {
		parts[n] = fmt.Sprintf("%v", val)
	}
	return fmt.Sprintf("%s[%s]", proto.Elem, strings.Join(parts, " "))
}
