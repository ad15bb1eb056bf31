package game

import "errors"

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoCatalog      = errors.New("level catalog is required")
)
