package constant

import "errors"

// Structured error codes for wrapi errors
var (
	ErrClient          = errors.New("WRP-0001")
	ErrClientDecode    = errors.New("WRP-0002")
	ErrResponse        = errors.New("WRP-0003")
	ErrInvalidConfig   = errors.New("WRP-0004")
	ErrMissingEndpoint = errors.New("WRP-0005")
	ErrUpstreamFailure = errors.New("WRP-0006")
	ErrInternalServer  = errors.New("WRP-0007")
)
