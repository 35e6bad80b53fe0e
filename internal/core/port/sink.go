package port

import (
	"context"

	"lbc-crawler-service/internal/core/domain"
)

// RecordSinkPort receives flushed batches of normalized records. A failing
// push must not abort the crawl; the engine logs and counts the failure.
type RecordSinkPort interface {
	Push(ctx context.Context, records []domain.ListingRecord) error
}
