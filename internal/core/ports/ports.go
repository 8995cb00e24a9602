package ports

import (
	"context"
	"io"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
)

// ManifestStore defines the port for manifest persistence
type ManifestStore interface {
	// Load returns every record in manifest order. A missing manifest is
	// empty; an unreadable one is a ManifestCorruption error.
	Load(ctx context.Context) ([]domain.Asset, error)

	// Save replaces the persisted manifest (all formats) with assets.
	// On error the previously persisted manifest is left intact.
	Save(ctx context.Context, assets []domain.Asset) error

	// Lock takes the exclusive manifest lock shared by all processes.
	// The returned function releases it.
	Lock(ctx context.Context) (unlock func(), err error)
}

// TabularManifest is implemented by stores that keep a flat copy of the
// manifest next to the structured one
type TabularManifest interface {
	LoadTabular(ctx context.Context) ([]domain.Asset, error)
}

// Publisher defines the port for mirroring assets to remote storage
type Publisher interface {
	// Put uploads one object under key
	Put(ctx context.Context, key string, body io.Reader, contentType string) error

	// Location describes where objects end up (e.g. s3://bucket/prefix)
	Location() string
}
