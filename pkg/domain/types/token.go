package types

import "github.com/m-mizutani/goerr/v2"

// ConfirmToken is the opaque identifier correlating a confirmation prompt
// message with its pending action entry. The platform assigns it (message ID).
type ConfirmToken string

// Validate checks if the confirmation token is usable as a store key
func (t ConfirmToken) Validate() error {
	if t == "" {
		return goerr.New("confirmation token is empty")
	}
	return nil
}

// String returns the string representation of the token
func (t ConfirmToken) String() string {
	return string(t)
}
