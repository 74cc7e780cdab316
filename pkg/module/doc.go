// Package module implements the per-module command execution engine.
//
// Every hardware module embeds a Core, the state machine that tracks the
// active command, its stage, the one-slot next-command buffer and the
// recurrence policy. Command logic authors build on the Core's wait and
// pin primitives and drive the machine with AdvanceStage, Complete and
// Abort; the kernel drives queuing and activation once per scheduler tick.
//
// Nothing here preempts anything: a command invocation performs one
// stage's worth of work and returns, unless its blocking flag is set, in
// which case its wait primitives spin in place.
package module
