package bus

import "errors"

var (
	ErrNilEvent         = errors.New("event is nil")
	ErrNilHandler       = errors.New("handler is nil")
	ErrInvalidEventType = errors.New("invalid event type")
)
