package storage

import (
	"context"
	"time"
)

// DocumentRepository defines the interface for cached roadmap source
// document persistence.
type DocumentRepository interface {
	Upsert(ctx context.Context, doc *Document) error
	Get(ctx context.Context, sourceKey string) (*Document, error)
	List(ctx context.Context, filters DocumentFilters) ([]*Document, error)
	Delete(ctx context.Context, sourceKey string) error
}

// DocumentFilters filters a document listing.
type DocumentFilters struct {
	RebuiltAfter *time.Time
	Limit        int
	Offset       int
}
