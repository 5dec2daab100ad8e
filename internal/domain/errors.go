package domain

import "errors"

var (
	// ErrStoreUnavailable is returned when the key-value store cannot be reached.
	ErrStoreUnavailable = errors.New("score store unavailable")
	// ErrCorruptSnapshot marks a persisted field that could not be parsed.
	ErrCorruptSnapshot = errors.New("corrupt score snapshot")
	// ErrUnknownStoreDriver indicates a config naming an unsupported store.
	ErrUnknownStoreDriver = errors.New("unknown store driver")
	// ErrUnknownMessage indicates an unsupported transport frame type.
	ErrUnknownMessage = errors.New("unsupported message type")
)
