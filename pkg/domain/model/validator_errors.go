package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrUnknownActionKind = goerr.New("unknown action kind")
	ErrMissingField      = goerr.New("required field is missing")
	ErrInvalidField      = goerr.New("invalid field value")
	ErrNotJSONArray      = goerr.New("no JSON action array found")
)

// Context keys for error values
const (
	KindKey       = "kind"
	FieldKey      = "field"
	ValueKey      = "value"
	PermissionKey = "permission"
)
