package archive

import (
	"context"
	"fmt"

	"tt-go/internal/config"
	"tt-go/internal/track"
)

// NewArchiverFromConfig creates an Archiver based on the archive config type.
// When a recipient file is configured, the backend is wrapped with age
// encryption.
func NewArchiverFromConfig(cfg config.ArchiveConfig) (track.Archiver, error) {
	var (
		inner track.Archiver
		err   error
	)

	switch cfg.Type {
	case "filesystem":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem archive requires root to be set")
		}
		inner, err = NewFileSystemArchiver(cfg.Root)
	case "s3":
		inner, err = NewS3Archiver(context.Background(), cfg)
	case "memory":
		inner = NewMemoryArchiver()
	default:
		return nil, fmt.Errorf("unknown archive type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RecipientPath != "" {
		return NewEncryptedArchiver(inner, cfg.RecipientPath, cfg.IdentityPath), nil
	}
	return inner, nil
}
