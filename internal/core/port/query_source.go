package port

import (
	"context"

	"lbc-crawler-service/internal/core/domain"
)

// QuerySourcePort abstracts how a run's search query is built: parsed from a
// search URL, taken from structured filters, or prebuilt. The crawl engine is
// parameterized by this so it stays one loop regardless of query origin.
type QuerySourcePort interface {
	Label() string
	BuildQuery(ctx context.Context) (domain.QueryTask, error)
}
