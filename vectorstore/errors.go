package vectorstore

import "errors"

var (
	// ErrNotConfigured is returned when a client is requested for a store
	// without URL or API key.
	ErrNotConfigured = errors.New("vector store not configured")

	// ErrUnexpectedStatus is returned when the store answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected vector store status")

	// ErrEmptyVector is returned when a point without a vector is upserted.
	ErrEmptyVector = errors.New("point vector is empty")
)
