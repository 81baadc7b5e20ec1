package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig = goerr.New("invalid configuration")
	ErrInvalidPolicy = goerr.New("invalid policy file")
)

// Context keys for error values
const (
	PolicyPathKey = "policy_path"
	KindKey       = "kind"
)
