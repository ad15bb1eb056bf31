package server

import "errors"

// Server-specific errors
var (
	ErrServerClosed         = errors.New("server is closed")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrMaxClientsReached    = errors.New("maximum clients reached")
	ErrInvalidMessage       = errors.New("invalid message")
	ErrInvalidConfig        = errors.New("invalid server configuration")
	ErrUnknownEncoding      = errors.New("unknown encoding")
	ErrListenerFailed       = errors.New("failed to create listener")
)
