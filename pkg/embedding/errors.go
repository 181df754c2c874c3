package embedding

import "errors"

// ErrEmbeddingUnavailable wraps any upstream failure or malformed provider
// output. No partial results accompany it.
var ErrEmbeddingUnavailable = errors.New("embedding: provider unavailable")
