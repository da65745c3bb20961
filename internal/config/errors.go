package config

import "errors"

// ErrInvalid wraps configuration validation failures.
var ErrInvalid = errors.New("invalid configuration")
