package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid database settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidChunkConfigs indicates invalid chunk-store settings
	// (unknown backend, missing directory or bucket).
	ErrInvalidChunkConfigs = errors.New("invalid chunk store configuration")

	// ErrInvalidAuthConfigs indicates invalid authentication settings
	// (for example, a missing token sign key).
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
)
