package dialog

import "errors"

// Recovered inside the machine by re-prompting; the session is kept.
var (
	ErrInvalidInputFormat = errors.New("dialog: input is not a valid employee id")
	ErrUnknownEntity      = errors.New("dialog: employee or department not found")
	ErrConnectivity       = errors.New("dialog: directory unreachable")
)
