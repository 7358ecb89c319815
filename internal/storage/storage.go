package storage

import (
	"context"
	"io"

	"github.com/StartupBuilder-io/startupbuilder/internal/config"
)

// AvatarStore saves uploaded avatar images and returns a URL clients can
// render. One avatar per user; saving again overwrites.
type AvatarStore interface {
	Save(ctx context.Context, userID, ext string, r io.Reader) (string, error)
}

// NewAvatarStore selects the configured backend.
func NewAvatarStore(cfg *config.Config) (AvatarStore, error) {
	if cfg.Storage.Type == "s3" {
		return NewS3Store(
			cfg.Storage.Endpoint,
			cfg.Storage.Region,
			cfg.Storage.Bucket,
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
		)
	}
	return NewLocalStore(cfg.Storage.LocalDir)
}
