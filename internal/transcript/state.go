package transcript

import (
	"errors"
	"fmt"
)

// State represents the lifecycle state of a document-editing session.
type State int

const (
	// StateUninitialized - No transcription loaded yet.
	StateUninitialized State = iota
	// StateInitialized - Paragraphs populated from provider output.
	StateInitialized
	// StateEdited - At least one mutation applied. Sticky: only an explicit
	// reset returns the document to INITIALIZED.
	StateEdited
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateInitialized:
		return "INITIALIZED"
	case StateEdited:
		return "EDITED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// Errors for invalid document operations.
var (
	ErrUninitialized       = errors.New("document is not initialized")
	ErrAlreadyInitialized  = errors.New("document is already initialized")
	ErrParagraphNotFound   = errors.New("paragraph not found")
	ErrNoOriginalAvailable = errors.New("no original provider output stored")
)
