package kernel

// Kernel command codes. All kernel commands are one-shot and run
// synchronously when received.
const (
	// CommandStandby is the initializer; not externally addressable.
	CommandStandby byte = 0
	// CommandReceiveData tags reception-related telemetry; not
	// externally addressable.
	CommandReceiveData byte = 1
	// CommandReset resets the software and hardware state of all
	// managed assets.
	CommandReset byte = 2
	// CommandIdentifyController sends the controller ID to the host.
	CommandIdentifyController byte = 3
	// CommandIdentifyModules sends every registered module's combined
	// type and id code to the host.
	CommandIdentifyModules byte = 4
	// CommandKeepalive feeds the keepalive watchdog.
	CommandKeepalive byte = 5
)

// Kernel status codes, reported with kernel telemetry.
const (
	StatusStandby           byte = 0
	StatusSetupComplete     byte = 1
	StatusModuleSetupError  byte = 2
	StatusReceptionError    byte = 3
	StatusTransmissionError byte = 4
	StatusInvalidProtocol   byte = 5
	StatusParametersSet     byte = 6
	StatusParametersError   byte = 7
	StatusCommandUnknown    byte = 8
	StatusTargetNotFound    byte = 9
	StatusKeepaliveTimeout  byte = 10
)
