// AngelaMos | 2026
// store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/config"
)

var (
	ErrInvalidFileType = errors.New("only images, videos and PDFs are allowed (jpg, png, mp4, pdf, etc.)")
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrTooManyFiles    = errors.New("too many files in one request")
	ErrOutsideRoot     = errors.New("file reference is outside the storage root")
)

// Store persists uploaded media. Save returns the reference that is
// recorded on the entry row; Delete accepts the same reference.
type Store interface {
	Save(ctx context.Context, name, contentType string, body io.ReadSeeker) (string, error)
	Delete(ctx context.Context, ref string) error
}

func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.StorageDisk:
		return NewDiskStore(cfg.Root, cfg.PublicPrefix)
	case config.StorageS3:
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
