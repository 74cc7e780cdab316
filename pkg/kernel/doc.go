// Package kernel implements the top-level dispatcher of a controller.
//
// The kernel owns the single runtime lock structure, drains inbound
// messages once per scheduler tick, routes each decoded message to itself
// or to an addressed module, and then offers every module one command
// execution step. Host communication always takes precedence over local
// command execution within a tick.
package kernel
