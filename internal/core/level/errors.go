package level

import "errors"

var (
	ErrInvalidLevel = errors.New("invalid level definition")
	ErrNoLevels     = errors.New("no levels found")
)
