package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData indicates the stream had no packet bytes this cycle.
	// This is not a reception error: there is simply nothing to do.
	ErrNoData = errors.New("no data available")
	// ErrPayloadTooLarge indicates the payload exceeds the packet size cap.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrPayloadEmpty indicates an attempt to send a zero-length payload.
	ErrPayloadEmpty = errors.New("payload empty")
)

// ReceptionError wraps the status of a failed packet reception. Any
// ReceptionError is preceded by a full reset of the reception state.
type ReceptionError struct {
	Status Status
}

// Error implements error.
func (e *ReceptionError) Error() string {
	return fmt.Sprintf("reception error: %v", e.Status)
}
