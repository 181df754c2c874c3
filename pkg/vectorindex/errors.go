package vectorindex

import "errors"

var (
	// ErrIndexCorrupt means persisted artifacts are missing, unreadable or
	// disagree on row count. Serving must not start on such an index.
	ErrIndexCorrupt = errors.New("vectorindex: index artifacts corrupt or misaligned")

	ErrIndexEmpty        = errors.New("vectorindex: no vectors to index")
	ErrDimensionMismatch = errors.New("vectorindex: vector dimension mismatch")
)
