package rag

import "errors"

// ErrGenerationFailure marks a generation call that failed upstream. It is
// recovered inside Answer and only surfaces through Result.Err.
var ErrGenerationFailure = errors.New("rag: generation failed")
