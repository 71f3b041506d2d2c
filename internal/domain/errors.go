package domain

import "errors"

var (
	// ErrTimeout is returned when a fetch exceeds its wall-clock deadline
	ErrTimeout = errors.New("request exceeded deadline")

	// ErrNetwork is returned on a transport-level failure
	ErrNetwork = errors.New("network request failed")

	// ErrInvalidQuery is returned when the inbound query is empty or malformed
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
