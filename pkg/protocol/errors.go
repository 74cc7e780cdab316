package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrExtractionForbidden indicates ExtractParameters was called while
	// the last received message was not a parameters message.
	ErrExtractionForbidden = errors.New("parameter extraction forbidden")
	// ErrParameterMismatch indicates the extraction destination size does
	// not exactly match the received parameter block.
	ErrParameterMismatch = errors.New("parameter size mismatch")
)

// InvalidKindError reports an inbound discriminator that matches no known
// message kind.
type InvalidKindError struct {
	Code byte
}

// Error implements error.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid protocol code %d", e.Code)
}

// ParseError reports a payload whose length disagrees with the fixed layout
// mandated by its discriminator.
type ParseError struct {
	Kind Kind
	Size int
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s message: invalid size %d", e.Kind, e.Size)
}

// PackError reports an outbound object whose size disagrees with its
// prototype code.
type PackError struct {
	Prototype byte
	Size      int
}

// Error implements error.
func (e *PackError) Error() string {
	return fmt.Sprintf("object size %d does not fit prototype %d", e.Size, e.Prototype)
}
