package config

const (
	// ChunkBackendFS stores chunk files on the local filesystem.
	ChunkBackendFS = "fs"
	// ChunkBackendS3 stores chunk files in an S3-compatible bucket.
	ChunkBackendS3 = "s3"
)

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = "localhost:8080"
	}

	if cfg.Storage.Chunks.Backend == "" {
		cfg.Storage.Chunks.Backend = ChunkBackendFS
	}

	if cfg.Storage.Chunks.Dir == "" {
		cfg.Storage.Chunks.Dir = "chunks"
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	switch cfg.Storage.Chunks.Backend {
	case ChunkBackendFS:
		if cfg.Storage.Chunks.Dir == "" {
			return ErrInvalidChunkConfigs
		}
	case ChunkBackendS3:
		if cfg.Storage.Chunks.S3Bucket == "" || cfg.Storage.Chunks.S3Region == "" {
			return ErrInvalidChunkConfigs
		}
	default:
		return ErrInvalidChunkConfigs
	}

	if cfg.Auth.TokenSignKey == "" {
		return ErrInvalidAuthConfigs
	}

	return nil
}
