package domain

import "errors"

var (
	// ErrEmbeddingUnavailable covers a missing or unauthenticated provider and
	// responses with no usable vector.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrNoRelevantContext means retrieval found nothing above threshold.
	ErrNoRelevantContext = errors.New("no relevant context")

	// ErrGeneration wraps failures of the generation provider.
	ErrGeneration = errors.New("generation provider error")

	// ErrMalformedIndex is returned by Index.Validate.
	ErrMalformedIndex = errors.New("malformed index")
)

// NotFoundAnswer is returned verbatim whenever the document does not support an answer.
const NotFoundAnswer = "No encuentro esa información en el PDF."
