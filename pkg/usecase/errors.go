package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Translation errors
	ErrEmptyInstruction     = errors.New("instruction is empty")
	ErrInferenceUnavailable = errors.New("inference service unavailable")
	ErrMalformedResponse    = errors.New("model response is not a valid action array")
	ErrInvalidAction        = errors.New("model response contains an invalid action")
	ErrNoActions            = errors.New("no actions recognized in instruction")

	// Authorization errors
	ErrMissingCapability = errors.New("requester lacks a required capability")
)

// Context keys for error values
const (
	IndexKey       = "action_index"
	KindKey        = "action_kind"
	InstructionKey = "instruction"
)
