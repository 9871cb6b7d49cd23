package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfiguration indicates chunking parameters that cannot
	// make progress (chunk size not greater than overlap).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidArgument indicates malformed retriever or scorer input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDataUnavailable indicates the document/chunk store could not be
	// queried. Callers must surface this as a failed query, never as an
	// empty result.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrEmptyDocument indicates no usable text could be extracted.
	ErrEmptyDocument = errors.New("document has no extractable text")

	// ErrUnsupportedType indicates an unknown file type for extraction.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrGatewayUnavailable indicates the answer gateway is not configured.
	// Queries that retrieve evidence cannot be answered without it.
	ErrGatewayUnavailable = errors.New("answer gateway unavailable")
)
