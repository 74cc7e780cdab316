// Package sim assembles simulated controllers from declarative
// configurations and serves them over byte pipe endpoints.
package sim

import (
	"fmt"
	"hash/fnv"
	"os"
	"time"

	"github.com/denisbrodbeck/machineid"
	"gopkg.in/yaml.v3"

	halsim "github.com/robotalks/mcu.go/pkg/hal/sim"
	"github.com/robotalks/mcu.go/pkg/module"
	"github.com/robotalks/mcu.go/pkg/module/pulse"
	"github.com/robotalks/mcu.go/pkg/protocol"
)

// Config declares a simulated controller.
type Config struct {
	// ControllerID identifies the controller on the wire. When 0 a
	// stable ID is derived from the machine identity.
	ControllerID byte `yaml:"controller-id"`
	// KeepaliveInterval arms the keepalive watchdog when the host
	// requests it. 0 leaves the watchdog unavailable.
	KeepaliveInterval time.Duration `yaml:"keepalive-interval"`
	// Interval is the scheduler tick.
	Interval time.Duration `yaml:"interval"`

	Modules []ModuleConfig `yaml:"modules"`
}

// ModuleConfig declares one module instance.
type ModuleConfig struct {
	Type string `yaml:"type"`
	ID   byte   `yaml:"id"`
	// TypeCode overrides the wire type code of the module.
	TypeCode byte `yaml:"type-code"`
}

// LoadConfig reads a controller declaration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Config
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("invalid config %s: %v", path, err)
	}
	return &conf, nil
}

// controllerID resolves the effective controller ID.
func (c *Config) controllerID() byte {
	if c.ControllerID != 0 {
		return c.ControllerID
	}
	return machineControllerID()
}

// machineControllerID derives a stable non-zero controller ID from the
// machine identity.
func machineControllerID() byte {
	id, err := machineid.ID()
	if err != nil {
		return 1
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return byte(h.Sum32()%255) + 1
}

// Wire type codes of the built-in module implementations.
const (
	PulseTypeCode byte = 1
)

func (c ModuleConfig) typeCode() byte {
	if c.TypeCode != 0 {
		return c.TypeCode
	}
	switch c.Type {
	case "pulse":
		return PulseTypeCode
	}
	return 0
}

func (c ModuleConfig) build(session *protocol.Session, locks *protocol.RuntimeLocks) (module.Module, error) {
	addr := protocol.Address{Type: c.typeCode(), ID: c.ID}
	if addr.IsKernel() {
		return nil, fmt.Errorf("module %q: type code must not be 0", c.Type)
	}
	core := module.NewCore(addr, session, locks)
	switch c.Type {
	case "pulse":
		return pulse.New(core, halsim.NewPin()), nil
	default:
		return nil, fmt.Errorf("unknown module type: %q", c.Type)
	}
}
