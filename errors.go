package scribe

import "errors"

var (
	// ErrStoreUnavailable is returned when a File is constructed without a
	// backing store.
	ErrStoreUnavailable = errors.New("scribe: store unavailable")

	// ErrNotOpen is returned when writing to a File before OpenWrite.
	ErrNotOpen = errors.New("scribe: file not open")

	// ErrAlreadyOpen is returned when OpenWrite is called twice.
	ErrAlreadyOpen = errors.New("scribe: file already open")

	// ErrShortWrite is returned when the store accepts fewer bytes than it
	// was given without reporting its own error.
	ErrShortWrite = errors.New("scribe: short write to store")
)
