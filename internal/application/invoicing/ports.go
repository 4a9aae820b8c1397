package invoicing

import (
	"context"
	"time"

	"github.com/invoicegen/backend/internal/infrastructure/layout"
)

// DocumentEngine lays out a block sequence into a finished document
type DocumentEngine interface {
	Layout(blocks []layout.Block, style layout.StyleConfig) (*layout.Document, error)
}

// ArchiveStore persists finished batch archives for later download
type ArchiveStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}
